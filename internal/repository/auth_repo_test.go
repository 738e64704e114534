package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}

	repo := NewUserRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		hash        string
		mockExpect  func(sqlmock.Sqlmock)
		wantID      int
		wantErr     bool
		errContains string
	}{
		{
			name:     "success",
			username: "alice",
			hash:     "h123",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name:     "exec error",
			username: "bob",
			hash:     "h456",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("bob", "h456").
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr:     true,
			errContains: "insert user",
		},
		{
			name:     "last insert id error",
			username: "carol",
			hash:     "h789",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("carol", "h789").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no last id")))
			},
			wantErr:     true,
			errContains: "get last insert id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := newUserRepo(t)
			defer cleanup()
			tc.mockExpect(mock)

			id, err := repo.Create(tc.username, tc.hash)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tc.errContains != "" && !strings.Contains(err.Error(), tc.errContains) {
					t.Fatalf("error %q does not contain %q", err, tc.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if id != tc.wantID {
				t.Fatalf("id = %d, want %d", id, tc.wantID)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock, cleanup := newUserRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
				AddRow(7, "alice", "h123"))

		u, err := repo.GetByUsername("alice")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		if u == nil || u.ID != 7 || u.Username != "alice" || u.PasswordHash != "h123" {
			t.Fatalf("user = %+v", u)
		}
	})

	t.Run("not found returns nil, nil", func(t *testing.T) {
		repo, mock, cleanup := newUserRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.GetByUsername("ghost")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		if u != nil {
			t.Fatalf("user = %+v, want nil", u)
		}
	})
}
