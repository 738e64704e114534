package service

import (
	"context"
	"time"

	"crema/internal/logger"
	"crema/internal/models"
	"crema/internal/repository"
)

// Fetcher downloads raw history files from the controller. Implemented
// by machine.Client; faked in tests.
type Fetcher interface {
	FetchIndex(ctx context.Context) ([]byte, error)
	FetchShot(ctx context.Context, id uint32) ([]byte, error)
}

// StatusSource exposes the latest live snapshot from the controller's
// status channel. Implemented by machine.StatusStream.
type StatusSource interface {
	Status() models.MachineStatus
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// History exposes the decoded shot index: full index data and the
// filtered, newest-first shot list.
type History interface {
	List(ctx context.Context) ([]models.ShotListItem, error)
	Index(ctx context.Context) (models.IndexData, error)
}

// Shots exposes single decoded shots and their derived statistics.
type Shots interface {
	Get(ctx context.Context, id uint32) (models.ShotRecord, error)
	Analyze(ctx context.Context, id uint32, includeCurve bool) (models.TransformedShot, error)
}

// Machine exposes the live controller snapshot.
type Machine interface {
	Status(ctx context.Context) (models.MachineStatus, error)
}

// EventLog exposes the archiver's append-only log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SyncEvent, error)
}

// Archiver runs the background loop that mirrors the controller's
// history files into the local cache. Stop via context cancellation in
// main() for graceful shutdown.
type Archiver interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	History
	Shots
	Machine
	EventLog
	Archiver
	Authorization
}

// NewService wires the repository layer, the machine client and the
// live status stream into concrete services.
func NewService(repos *repository.Repository, fetcher Fetcher, status StatusSource, log *logger.Logger) *Service {
	history := NewHistoryService(repos.Files, fetcher, log)
	return &Service{
		History:       history,
		Shots:         NewShotsService(repos.Files, fetcher, log),
		Machine:       NewMachineService(status),
		EventLog:      NewEventLogService(repos.Events),
		Archiver:      NewArchiverService(repos.Files, repos.Events, fetcher, log),
		Authorization: NewAuthService(repos.Auth),
	}
}
