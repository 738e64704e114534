package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"crema/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func eventCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestEventRepo_Append_FillsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewEventSQLite(db)

	// Generated id and timestamp are unknown; type must be normalized.
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			"INDEX_SYNC", "index refreshed",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(eventCtx(t), models.SyncEvent{
		Type:        "  index_sync ",
		Description: "index refreshed",
		Metadata:    map[string]any{"entries": 12},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventRepo_List_Filters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewEventSQLite(db)

	from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("e1", from.Add(time.Hour), "SHOT_FETCH", "fetched shot 3", `{"id":3}`).
		AddRow("e2", from.Add(2*time.Hour), "SHOT_FETCH", "fetched shot 4", nil)

	mock.ExpectQuery("SELECT id, occurred_at, type, message, meta FROM sync_events WHERE occurred_at >= \\? AND occurred_at <= \\? AND type = \\? ORDER BY occurred_at ASC").
		WithArgs(from, to, "SHOT_FETCH").
		WillReturnRows(rows)

	events, err := repo.List(eventCtx(t), from, to, "shot_fetch")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].EventID != "e1" || events[0].Metadata == nil {
		t.Fatalf("event 0 = %+v", events[0])
	}
	if events[1].Metadata != nil {
		t.Fatalf("nil meta decoded as %v", events[1].Metadata)
	}
	if !strings.EqualFold(events[1].Type, "SHOT_FETCH") {
		t.Fatalf("event 1 type = %q", events[1].Type)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
