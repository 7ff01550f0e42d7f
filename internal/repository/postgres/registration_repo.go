package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventpass/internal/domain"

	"github.com/lib/pq"
)

const registrationColumns = `id, attendee_code, full_name, email, mobile_number, company, job_title, country,
		interests, qr_code_url, checked_in, check_in_time, card_printed, created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(s rowScanner) (*domain.Registration, error) {
	r := &domain.Registration{}
	var checkIn sql.NullTime
	err := s.Scan(&r.ID, &r.AttendeeCode, &r.FullName, &r.Email, &r.MobileNumber, &r.Company, &r.JobTitle,
		&r.Country, pq.Array(&r.Interests), &r.QRCodeURL, &r.CheckedIn, &checkIn, &r.CardPrinted,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if checkIn.Valid {
		t := checkIn.Time
		r.CheckInTime = &t
	}
	if r.Interests == nil {
		r.Interests = []string{}
	}
	return r, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (attendee_code, full_name, email, mobile_number, company, job_title, country, interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.AttendeeCode, reg.FullName, reg.Email, reg.MobileNumber,
		reg.Company, reg.JobTitle, reg.Country, pq.Array(reg.Interests), reg.CreatedAt, reg.UpdatedAt).Scan(&reg.ID)
	return mapError(err)
}

func (r *registrationRepository) SetQRCodeURL(ctx context.Context, id, url string) error {
	query := `UPDATE registrations SET qr_code_url = $1, updated_at = now() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, url, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *registrationRepository) getOne(ctx context.Context, where string, arg any) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE ` + where
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapError(err)
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *registrationRepository) GetByAttendeeCode(ctx context.Context, code string) (*domain.Registration, error) {
	return r.getOne(ctx, `attendee_code = $1`, code)
}

func (r *registrationRepository) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	return r.getOne(ctx, `lower(email) = lower($1)`, email)
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

func (r *registrationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE registrations
		SET checked_in = TRUE, check_in_time = $1, updated_at = $1
		WHERE id = $2 AND checked_in = FALSE
	`
	res, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *registrationRepository) MarkCardPrinted(ctx context.Context, id string) error {
	query := `UPDATE registrations SET card_printed = TRUE, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}
