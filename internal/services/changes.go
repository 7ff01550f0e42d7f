package services

import (
	"context"
	"log/slog"

	"eventpass/internal/domain"
)

// publishChange emits a change event. The write it reports has already happened, so a
// failed publish is logged and otherwise ignored.
func publishChange(ctx context.Context, pub domain.ChangePublisher, logger *slog.Logger, topic string, event any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, event); err != nil {
		logger.WarnContext(ctx, "publish change event", "topic", topic, "err", err)
	}
}
