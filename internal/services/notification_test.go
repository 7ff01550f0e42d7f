package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventpass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := NewNotificationService(repo, pub, discardLogger())
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < domain.NotificationFeedSize+5; i++ {
		reg := &domain.Registration{ID: fmt.Sprintf("reg-%d", i), FullName: "Attendee"}
		require.NoError(t, repo.Create(ctx, domain.NewRegistrationNotification(reg, base.Add(time.Duration(i)*time.Minute))))
	}

	feed, err := svc.ListLatest(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, domain.NotificationFeedSize)
	assert.Equal(t, domain.NotificationFeedSize, feed.UnreadCount)
	assert.Equal(t, "reg-54", feed.Notifications[0].Metadata["attendeeId"])

	require.NoError(t, svc.MarkRead(ctx, feed.Notifications[0].ID))
	feed, err = svc.ListLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFeedSize-1, feed.UnreadCount)

	require.ErrorIs(t, svc.MarkRead(ctx, "missing"), domain.ErrNotFound)

	n, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.NotificationFeedSize+5-1), n)

	n, err = svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, pub.count(domain.TopicNotificationUpdated))

	feed, err = svc.ListLatest(ctx)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
}

func TestNotificationService_EmptyFeed(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, &fakePublisher{}, nil)
	feed, err := svc.ListLatest(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, feed.Notifications)
	assert.Zero(t, feed.UnreadCount)
}
