package repository

import (
	"context"
	"database/sql"
	"time"

	"crema/internal/models"
	"crema/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// FileRepo caches raw SIDX/SLOG files exactly as fetched from the
// controller. Loads return (nil, nil) on a cache miss.
type FileRepo interface {
	SaveShot(ctx context.Context, id uint32, data []byte) error
	LoadShot(ctx context.Context, id uint32) ([]byte, error)
	SaveIndex(ctx context.Context, data []byte) error
	LoadIndex(ctx context.Context) ([]byte, error)
	ShotIDs(ctx context.Context) ([]uint32, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.SyncEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SyncEvent, error)
}

type Repository struct {
	Files  FileRepo
	Events EventRepo
	Auth   Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Files:  NewFileSQLite(sqlDB),
		Events: NewEventSQLite(sqlDB),
		Auth:   NewUserRepository(sqlDB),
	}
}

// InitDB opens the SQLite cache file and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
