package service

import (
	"context"
	"time"

	"crema/internal/codec"
	"crema/internal/logger"
	"crema/internal/models"
	"crema/internal/repository"
)

// Event types written by the archiver.
const (
	EventIndexSync = "INDEX_SYNC"
	EventShotFetch = "SHOT_FETCH"
	EventError     = "ERROR"
)

// ArchiverService mirrors the controller's history into the local
// cache. The controller keeps a small rolling window of shots; anything
// not mirrored before it rotates out is gone, which is the whole reason
// this service exists.
type ArchiverService struct {
	files   repository.FileRepo
	events  repository.EventRepo
	fetcher Fetcher
	log     *logger.Logger
}

func NewArchiverService(files repository.FileRepo, events repository.EventRepo, fetcher Fetcher, log *logger.Logger) *ArchiverService {
	return &ArchiverService{files: files, events: events, fetcher: fetcher, log: log}
}

// Run syncs once per tick until ctx is canceled.
func (s *ArchiverService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	// First sync immediately rather than one tick late.
	s.syncOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.syncOnce(ctx)
		}
	}
}

// syncOnce fetches the index and mirrors any shot file not yet cached.
// Deleted shots are skipped: the user removed them on the machine and
// mirroring them back would resurrect clutter.
func (s *ArchiverService) syncOnce(ctx context.Context) {
	raw, err := s.fetcher.FetchIndex(ctx)
	if err != nil {
		s.logError(ctx, "index fetch failed", err)
		return
	}
	if err := s.files.SaveIndex(ctx, raw); err != nil {
		s.logError(ctx, "index cache write failed", err)
		return
	}
	idx, err := codec.DecodeIndex(raw)
	if err != nil {
		s.logError(ctx, "index decode failed", err)
		return
	}

	cached, err := s.files.ShotIDs(ctx)
	if err != nil {
		s.logError(ctx, "cache listing failed", err)
		return
	}
	have := make(map[uint32]bool, len(cached))
	for _, id := range cached {
		have[id] = true
	}

	fetched := 0
	for _, entry := range idx.Entries {
		if entry.Deleted || have[entry.ID] {
			continue
		}
		if err := s.mirrorShot(ctx, entry.ID); err != nil {
			s.logError(ctx, "shot mirror failed", err)
			continue
		}
		fetched++
	}

	_ = s.events.Append(ctx, models.SyncEvent{
		Type:        EventIndexSync,
		Description: "index synchronized",
		Metadata:    map[string]any{"entries": len(idx.Entries), "new_shots": fetched},
	})
	if s.log != nil {
		s.log.Infow("history synchronized", "entries", len(idx.Entries), "new_shots", fetched)
	}
}

func (s *ArchiverService) mirrorShot(ctx context.Context, id uint32) error {
	raw, err := s.fetcher.FetchShot(ctx, id)
	if err != nil {
		return err
	}
	if err := s.files.SaveShot(ctx, id, raw); err != nil {
		return err
	}
	return s.events.Append(ctx, models.SyncEvent{
		Type:        EventShotFetch,
		Description: "shot file mirrored",
		Metadata:    map[string]any{"id": id, "bytes": len(raw)},
	})
}

func (s *ArchiverService) logError(ctx context.Context, msg string, err error) {
	if s.log != nil {
		s.log.Warnw(msg, "err", err)
	}
	_ = s.events.Append(ctx, models.SyncEvent{
		Type:        EventError,
		Description: msg,
		Metadata:    map[string]any{"error": err.Error()},
	})
}
