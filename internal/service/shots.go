package service

import (
	"context"

	"crema/internal/analysis"
	"crema/internal/codec"
	"crema/internal/logger"
	"crema/internal/models"
	"crema/internal/repository"
)

// ShotsService decodes single shot logs, cache-first: shot files are
// immutable once written by the firmware, so a cached copy never goes
// stale.
type ShotsService struct {
	files   repository.FileRepo
	fetcher Fetcher
	log     *logger.Logger
}

func NewShotsService(files repository.FileRepo, fetcher Fetcher, log *logger.Logger) *ShotsService {
	return &ShotsService{files: files, fetcher: fetcher, log: log}
}

// Get returns the decoded shot, fetching and caching the raw file on a
// cache miss.
func (s *ShotsService) Get(ctx context.Context, id uint32) (models.ShotRecord, error) {
	raw, err := s.files.LoadShot(ctx, id)
	if err != nil {
		return models.ShotRecord{}, err
	}
	if raw == nil {
		raw, err = s.fetcher.FetchShot(ctx, id)
		if err != nil {
			return models.ShotRecord{}, err
		}
		if saveErr := s.files.SaveShot(ctx, id, raw); saveErr != nil && s.log != nil {
			s.log.Warnw("failed to cache shot file", "id", id, "err", saveErr)
		}
	}

	rec, err := codec.DecodeShot(raw, id)
	if err != nil {
		return models.ShotRecord{}, err
	}
	if rec.Incomplete && s.log != nil {
		s.log.Warnw("shot log truncated, partial decode",
			"id", id, "declared", rec.DeclaredCount, "decoded", len(rec.Samples))
	}
	return rec, nil
}

// Analyze decodes the shot and derives its statistics and phase
// reports. The full curve is produced only when asked for.
func (s *ShotsService) Analyze(ctx context.Context, id uint32, includeCurve bool) (models.TransformedShot, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return models.TransformedShot{}, err
	}
	return analysis.Analyze(rec, includeCurve), nil
}
