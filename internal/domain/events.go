package domain

import "context"

// Change feed topics.
const (
	TopicRegistrationCreated   = "eventpass.registrations.created"
	TopicRegistrationCheckedIn = "eventpass.registrations.checked_in"
	TopicRegistrationUpdated   = "eventpass.registrations.updated"
	TopicRegistrationDeleted   = "eventpass.registrations.deleted"
	TopicNotificationCreated   = "eventpass.notifications.created"
	TopicNotificationUpdated   = "eventpass.notifications.updated"
	TopicContentUpdated        = "eventpass.content.updated"

	// TopicAll matches every topic above.
	TopicAll = "eventpass.>"
)

// ChangePublisher emits change events so live admin views can refresh.
type ChangePublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// RegistrationChanged is the payload of registration topics.
type RegistrationChanged struct {
	Registration *Registration `json:"registration,omitempty"`
	ID           string        `json:"id"`
}

// NotificationChanged is the payload of notification topics.
type NotificationChanged struct {
	Notification *Notification `json:"notification,omitempty"`
	ID           string        `json:"id,omitempty"`
	AllRead      bool          `json:"all_read,omitempty"`
}

// ContentChanged is the payload of content topics.
type ContentChanged struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}
