package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"eventpass/internal/domain"
)

// ConfirmationMessage is the job body for one confirmation email.
type ConfirmationMessage struct {
	RegistrationID string `json:"registration_id"`
}

// Publisher is the send side of a queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

type confirmationPublisher struct {
	pub Publisher
}

// NewConfirmationPublisher returns a ConfirmationDispatcher that enqueues a job per registration.
func NewConfirmationPublisher(pub Publisher) domain.ConfirmationDispatcher {
	return &confirmationPublisher{pub: pub}
}

func (p *confirmationPublisher) Dispatch(ctx context.Context, r *domain.Registration) error {
	body, err := json.Marshal(ConfirmationMessage{RegistrationID: r.ID})
	if err != nil {
		return fmt.Errorf("marshal confirmation message: %w", err)
	}
	return p.pub.Publish(ctx, body)
}

// DecodeConfirmation parses a job body.
func DecodeConfirmation(body []byte) (*ConfirmationMessage, error) {
	var msg ConfirmationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("decode confirmation message: %w", err)
	}
	if msg.RegistrationID == "" {
		return nil, fmt.Errorf("%w: confirmation message without registration_id", domain.ErrInvalidInput)
	}
	return &msg, nil
}
