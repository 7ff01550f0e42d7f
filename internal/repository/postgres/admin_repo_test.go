package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventpass/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_Create(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mock   func(mock sqlmock.Sqlmock)
		wantID string
		errIs  error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admins`).
					WithArgs("admin@example.com", "Admin", "hash", "salt", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1"))
			},
			wantID: "admin-1",
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admins`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "admins_email_lower_idx"})
			},
			errIs: domain.ErrDuplicateEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			a := &domain.Admin{Email: "admin@example.com", Name: "Admin", PasswordHash: "hash", Salt: "salt", CreatedAt: now, UpdatedAt: now}
			err = NewAdminRepository(db).Create(context.Background(), a)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, a.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "email", "name", "password_hash", "salt", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM admins WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("Admin@Example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("admin-1", "admin@example.com", "Admin", "hash", "salt", now, now))
	mock.ExpectQuery(`SELECT (.+) FROM admins WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewAdminRepository(db)
	a, err := repo.GetByEmail(context.Background(), "Admin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", a.ID)
	assert.Equal(t, "hash", a.PasswordHash)

	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSessionRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(12 * time.Hour)
	s := &domain.AdminSession{ID: "sess-1", AdminID: "admin-1", ExpiresAt: expires, CreatedAt: now}

	mock.ExpectExec(`INSERT INTO admin_sessions`).
		WithArgs("sess-1", "admin-1", expires, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM admin_sessions\s+WHERE id = \$1 AND expires_at > \$2`).
		WithArgs("sess-1", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "expires_at", "created_at"}).
			AddRow("sess-1", "admin-1", expires, now))
	mock.ExpectQuery(`SELECT (.+) FROM admin_sessions`).
		WithArgs("sess-1", expires).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM admin_sessions WHERE id = \$1`).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM admin_sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NewAdminSessionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetActive(ctx, "sess-1", now)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", got.AdminID)

	_, err = repo.GetActive(ctx, "sess-1", expires)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "sess-1"), domain.ErrNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
