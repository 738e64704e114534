package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newFileRepo(t *testing.T) (*FileSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := NewFileSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func fileCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFileRepo_SaveShot(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	raw := []byte("SHOT\x05raw shot bytes")
	mock.ExpectExec(regexp.QuoteMeta(upsertShotSQL)).
		WithArgs(uint32(7), len(raw), sqlmock.AnyArg(), raw).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveShot(fileCtx(t), 7, raw); err != nil {
		t.Fatalf("SaveShot: %v", err)
	}
}

func TestFileRepo_LoadShot(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	raw := []byte("SHOT\x05cached")
	mock.ExpectQuery(regexp.QuoteMeta(selectShotSQL)).
		WithArgs(uint32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))

	got, err := repo.LoadShot(fileCtx(t), 7)
	if err != nil {
		t.Fatalf("LoadShot: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("data = %q, want %q", got, raw)
	}
}

func TestFileRepo_LoadShot_Miss(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectShotSQL)).
		WithArgs(uint32(99)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.LoadShot(fileCtx(t), 99)
	if err != nil {
		t.Fatalf("cache miss must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("data = %v, want nil on miss", got)
	}
}

func TestFileRepo_IndexRoundTrip(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	raw := []byte("SIDX index bytes")
	mock.ExpectExec(regexp.QuoteMeta(upsertIndexSQL)).
		WithArgs(indexFileRowID, len(raw), sqlmock.AnyArg(), raw).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectIndexSQL)).
		WithArgs(indexFileRowID).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))

	if err := repo.SaveIndex(fileCtx(t), raw); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	got, err := repo.LoadIndex(fileCtx(t))
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("data = %q, want %q", got, raw)
	}
}

func TestFileRepo_ShotIDs(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectShotIDsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(3).AddRow(9))

	ids, err := repo.ShotIDs(fileCtx(t))
	if err != nil {
		t.Fatalf("ShotIDs: %v", err)
	}
	want := []uint32{1, 3, 9}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestFileRepo_SaveShot_ExecError(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newFileRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertShotSQL)).
		WillReturnError(errors.New("disk full"))

	err := repo.SaveShot(fileCtx(t), 1, []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
}
