package service

import (
	"context"
	"fmt"

	"crema/internal/codec"
	"crema/internal/logger"
	"crema/internal/models"
	"crema/internal/repository"
)

// HistoryService serves the decoded shot index. It prefers a fresh
// copy from the controller and falls back to the cached file when the
// machine is unreachable, so history stays browsable offline.
type HistoryService struct {
	files   repository.FileRepo
	fetcher Fetcher
	log     *logger.Logger
}

func NewHistoryService(files repository.FileRepo, fetcher Fetcher, log *logger.Logger) *HistoryService {
	return &HistoryService{files: files, fetcher: fetcher, log: log}
}

// Index returns the decoded index, refreshing the cache when the
// controller answers.
func (s *HistoryService) Index(ctx context.Context) (models.IndexData, error) {
	raw, err := s.fetcher.FetchIndex(ctx)
	if err == nil {
		if saveErr := s.files.SaveIndex(ctx, raw); saveErr != nil && s.log != nil {
			s.log.Warnw("failed to cache index file", "err", saveErr)
		}
	} else {
		if s.log != nil {
			s.log.Warnw("controller unreachable, using cached index", "err", err)
		}
		raw, err = s.files.LoadIndex(ctx)
		if err != nil {
			return models.IndexData{}, err
		}
		if raw == nil {
			return models.IndexData{}, fmt.Errorf("no index available: controller offline and cache empty")
		}
	}
	return codec.DecodeIndex(raw)
}

// List returns the non-deleted shots, newest first.
func (s *HistoryService) List(ctx context.Context) ([]models.ShotListItem, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	return codec.ShotList(idx), nil
}
