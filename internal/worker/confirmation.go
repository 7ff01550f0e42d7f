// Package worker runs background consumers.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"eventpass/internal/adapters/queue"
	"eventpass/internal/domain"
)

// Consumer delivers queue messages to a handler until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

// Sender sends the confirmation email for a stored registration.
type Sender interface {
	SendByID(ctx context.Context, registrationID string) error
}

// ConfirmationWorker consumes confirmation messages and sends the emails.
type ConfirmationWorker struct {
	consumer Consumer
	sender   Sender
	logger   *slog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewConfirmationWorker(consumer Consumer, sender Sender, logger *slog.Logger) *ConfirmationWorker {
	return &ConfirmationWorker{
		consumer: consumer,
		sender:   sender,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start consumes in a goroutine until Stop is called or ctx ends.
func (w *ConfirmationWorker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.logger.Info("confirmation worker started")

	go func() {
		defer close(w.done)
		if err := w.consumer.Consume(cctx, w.handle); err != nil {
			w.logger.Error("confirmation worker stopped", "err", err)
			return
		}
		w.logger.Info("confirmation worker stopped by context")
	}()
}

// Stop cancels consumption and waits for the goroutine to exit.
func (w *ConfirmationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// handle returns an error only for failures worth retrying; the consumer requeues those.
func (w *ConfirmationWorker) handle(ctx context.Context, body []byte) error {
	msg, err := queue.DecodeConfirmation(body)
	if err != nil {
		w.logger.ErrorContext(ctx, "dropping malformed confirmation message", "body", string(body), "err", err)
		return nil
	}
	if err := w.sender.SendByID(ctx, msg.RegistrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.logger.WarnContext(ctx, "registration gone before confirmation was sent", "registration_id", msg.RegistrationID)
			return nil
		}
		if errors.Is(err, domain.ErrEmailRejected) {
			w.logger.ErrorContext(ctx, "dropping confirmation rejected by mail provider", "registration_id", msg.RegistrationID, "err", err)
			return nil
		}
		return err
	}
	return nil
}
