package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventpass/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (email, name, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.Email, a.Name, a.PasswordHash, a.Salt, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	return mapError(err)
}

func (r *adminRepository) get(ctx context.Context, where string, arg any) (*domain.Admin, error) {
	query := `SELECT id, email, name, password_hash, salt, created_at, updated_at FROM admins WHERE ` + where
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Salt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.get(ctx, `lower(email) = lower($1)`, email)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.get(ctx, `id = $1`, id)
}

type adminSessionRepository struct {
	DB *sql.DB
}

func NewAdminSessionRepository(db *sql.DB) domain.AdminSessionRepository {
	return &adminSessionRepository{DB: db}
}

func (r *adminSessionRepository) Create(ctx context.Context, s *domain.AdminSession) error {
	query := `INSERT INTO admin_sessions (id, admin_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.AdminID, s.ExpiresAt, s.CreatedAt)
	return mapError(err)
}

func (r *adminSessionRepository) GetActive(ctx context.Context, id string, now time.Time) (*domain.AdminSession, error) {
	query := `
		SELECT id, admin_id, expires_at, created_at
		FROM admin_sessions
		WHERE id = $1 AND expires_at > $2
	`
	s := &domain.AdminSession{}
	err := r.DB.QueryRowContext(ctx, query, id, now).Scan(&s.ID, &s.AdminID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *adminSessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *adminSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
