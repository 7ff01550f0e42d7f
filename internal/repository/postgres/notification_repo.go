package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventpass/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	meta, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal notification metadata: %w", err)
	}
	query := `
		INSERT INTO notifications (type, message, is_read, created_at, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, n.Type, n.Message, n.IsRead, n.Timestamp, meta).Scan(&n.ID)
}

func (r *notificationRepository) ListLatest(ctx context.Context, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, type, message, is_read, created_at, metadata
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		var meta []byte
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.IsRead, &n.Timestamp, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &n.Metadata); err != nil {
				return nil, fmt.Errorf("decode notification %s metadata: %w", n.ID, err)
			}
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) DeleteByAttendee(ctx context.Context, registrationID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE metadata->>'attendeeId' = $1`, registrationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
