package domain

import (
	"context"
	"time"
)

// NotificationTypeNewRegistration is written alongside every new registration.
const NotificationTypeNewRegistration = "new_registration"

// NotificationFeedSize is how many notifications the admin panel shows.
const NotificationFeedSize = 50

// Notification is an admin-facing alert.
// swagger:model Notification
type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"is_read"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

// NewRegistrationNotification returns the notification announcing r.
func NewRegistrationNotification(r *Registration, at time.Time) *Notification {
	msg := "New registration: " + r.FullName
	if r.Company != "" {
		msg += " (" + r.Company + ")"
	}
	return &Notification{
		Type:      NotificationTypeNewRegistration,
		Message:   msg,
		Timestamp: at,
		Metadata: map[string]any{
			"attendeeId":   r.ID,
			"attendeeCode": r.AttendeeCode,
			"email":        r.Email,
			"company":      r.Company,
		},
	}
}

// NotificationFeed is the latest notifications plus the unread count among them.
type NotificationFeed struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListLatest(ctx context.Context, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	// DeleteByAttendee removes notifications whose metadata points at the registration.
	DeleteByAttendee(ctx context.Context, registrationID string) (int64, error)
}

// NotificationService defines the admin notification panel operations.
type NotificationService interface {
	ListLatest(ctx context.Context) (*NotificationFeed, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}
