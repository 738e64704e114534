package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type FileSQLite struct {
	db *sql.DB
}

func NewFileSQLite(db *sql.DB) *FileSQLite { return &FileSQLite{db: db} }

var _ FileRepo = (*FileSQLite)(nil)

const (
	// Single-row table for the rolling index; the controller overwrites
	// it in place, so only the latest copy matters.
	indexFileRowID = 1

	upsertShotSQL = `
		INSERT INTO shot_files (id, size, fetched_at, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			size=excluded.size,
			fetched_at=excluded.fetched_at,
			data=excluded.data
	`
	selectShotSQL    = `SELECT data FROM shot_files WHERE id = ?`
	selectShotIDsSQL = `SELECT id FROM shot_files ORDER BY id ASC`

	upsertIndexSQL = `
		INSERT INTO index_file (id, size, fetched_at, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			size=excluded.size,
			fetched_at=excluded.fetched_at,
			data=excluded.data
	`
	selectIndexSQL = `SELECT data FROM index_file WHERE id = ?`
)

// SaveShot stores (or replaces) the raw SLOG bytes for one shot id.
func (r *FileSQLite) SaveShot(ctx context.Context, id uint32, data []byte) error {
	_, err := r.db.ExecContext(ctx, upsertShotSQL,
		id, len(data), time.Now().UTC().Format("2006-01-02 15:04:05"), data)
	if err != nil {
		return fmt.Errorf("save shot file %d: %w", id, err)
	}
	return nil
}

// LoadShot returns the cached SLOG bytes, or (nil, nil) when absent.
func (r *FileSQLite) LoadShot(ctx context.Context, id uint32) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, selectShotSQL, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load shot file %d: %w", id, err)
	}
	return data, nil
}

// SaveIndex stores the raw SIDX bytes, replacing any previous copy.
func (r *FileSQLite) SaveIndex(ctx context.Context, data []byte) error {
	_, err := r.db.ExecContext(ctx, upsertIndexSQL,
		indexFileRowID, len(data), time.Now().UTC().Format("2006-01-02 15:04:05"), data)
	if err != nil {
		return fmt.Errorf("save index file: %w", err)
	}
	return nil
}

// LoadIndex returns the cached SIDX bytes, or (nil, nil) when absent.
func (r *FileSQLite) LoadIndex(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, selectIndexSQL, indexFileRowID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load index file: %w", err)
	}
	return data, nil
}

// ShotIDs lists the ids of all cached shot files, ascending.
func (r *FileSQLite) ShotIDs(ctx context.Context) ([]uint32, error) {
	rows, err := r.db.QueryContext(ctx, selectShotIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("list shot files: %w", err)
	}
	defer rows.Close()

	var ids []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
