package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventpass/internal/domain"
)

// ConfirmationSender loads what the confirmation email needs and sends it. The RabbitMQ
// worker and the inline dispatcher both end here.
type ConfirmationSender struct {
	repo      domain.RegistrationRepository
	settings  domain.SettingsReader
	email     domain.EmailService
	logger    *slog.Logger
	baseURL   string
	eventName string
}

// NewConfirmationSender returns a ConfirmationSender.
func NewConfirmationSender(repo domain.RegistrationRepository, settings domain.SettingsReader, email domain.EmailService, logger *slog.Logger, publicBaseURL, eventName string) *ConfirmationSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfirmationSender{
		repo:      repo,
		settings:  settings,
		email:     email,
		logger:    logger,
		baseURL:   publicBaseURL,
		eventName: eventName,
	}
}

// SendByID sends the confirmation for a stored registration.
func (c *ConfirmationSender) SendByID(ctx context.Context, registrationID string) error {
	reg, err := c.repo.GetByID(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("load registration %s: %w", registrationID, err)
	}
	return c.Send(ctx, reg)
}

// Send sends the confirmation for reg.
func (c *ConfirmationSender) Send(ctx context.Context, reg *domain.Registration) error {
	eventName := c.eventName
	if general, err := c.settings.GetGeneralSettings(ctx); err != nil {
		c.logger.WarnContext(ctx, "load general settings for confirmation", "err", err)
	} else if general != nil && general.EventName != "" {
		eventName = general.EventName
	}
	qrURL := reg.QRCodeURL
	if qrURL == "" {
		qrURL = QRCodeURL(c.baseURL, reg.ID)
	}
	return c.email.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
		Email:        reg.Email,
		FullName:     reg.FullName,
		AttendeeCode: reg.AttendeeCode,
		EventName:    eventName,
		PassURL:      PassURL(c.baseURL, reg.ID),
		QRCodeURL:    qrURL,
	})
}

type inlineDispatcher struct {
	sender *ConfirmationSender
}

// NewInlineDispatcher sends confirmations within the registering request. It is used
// when no message broker is configured.
func NewInlineDispatcher(sender *ConfirmationSender) domain.ConfirmationDispatcher {
	return &inlineDispatcher{sender: sender}
}

func (d *inlineDispatcher) Dispatch(ctx context.Context, r *domain.Registration) error {
	return d.sender.Send(ctx, r)
}
