package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventpass/internal/domain"
)

type notificationService struct {
	repo      domain.NotificationRepository
	publisher domain.ChangePublisher
	logger    *slog.Logger
}

// NewNotificationService returns the admin notification panel service.
func NewNotificationService(repo domain.NotificationRepository, publisher domain.ChangePublisher, logger *slog.Logger) domain.NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{repo: repo, publisher: publisher, logger: logger}
}

func (s *notificationService) ListLatest(ctx context.Context) (*domain.NotificationFeed, error) {
	list, err := s.repo.ListLatest(ctx, domain.NotificationFeedSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	feed := &domain.NotificationFeed{Notifications: list}
	if feed.Notifications == nil {
		feed.Notifications = []*domain.Notification{}
	}
	for _, n := range list {
		if !n.IsRead {
			feed.UnreadCount++
		}
	}
	return feed, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return err
	}
	publishChange(ctx, s.publisher, s.logger, domain.TopicNotificationUpdated, domain.NotificationChanged{ID: id})
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	if n > 0 {
		publishChange(ctx, s.publisher, s.logger, domain.TopicNotificationUpdated, domain.NotificationChanged{AllRead: true})
	}
	return n, nil
}
