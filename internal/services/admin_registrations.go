package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventpass/internal/domain"
)

const badgeQRSize = 512

// AdminRegistrationDeps groups the collaborators of the back-office registration service.
type AdminRegistrationDeps struct {
	Registrations domain.RegistrationRepository
	Notifications domain.NotificationRepository
	Settings      domain.SettingsReader
	QRCodes       domain.QRCodeGenerator
	Badges        domain.BadgeRenderer
	Publisher     domain.ChangePublisher
	Logger        *slog.Logger
	PublicBaseURL string
	EventName     string
}

type adminRegistrationService struct {
	repo          domain.RegistrationRepository
	notifications domain.NotificationRepository
	settings      domain.SettingsReader
	qr            domain.QRCodeGenerator
	badges        domain.BadgeRenderer
	publisher     domain.ChangePublisher
	logger        *slog.Logger
	baseURL       string
	eventName     string
}

// NewAdminRegistrationService returns the registrations list, delete, and badge service.
func NewAdminRegistrationService(deps AdminRegistrationDeps) domain.RegistrationAdminService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &adminRegistrationService{
		repo:          deps.Registrations,
		notifications: deps.Notifications,
		settings:      deps.Settings,
		qr:            deps.QRCodes,
		badges:        deps.Badges,
		publisher:     deps.Publisher,
		logger:        logger,
		baseURL:       deps.PublicBaseURL,
		eventName:     deps.EventName,
	}
}

// List loads every registration, newest first, then filters and pages in memory.
func (s *adminRegistrationService) List(ctx context.Context, filter domain.RegistrationFilter, page domain.PaginationParams) ([]*domain.Registration, int, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	matched := make([]*domain.Registration, 0, len(all))
	for _, r := range all {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	start, end := page.Bounds(len(matched))
	return matched[start:end], len(matched), nil
}

func (s *adminRegistrationService) Get(ctx context.Context, id string) (*domain.Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *adminRegistrationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanupNotifications(ctx, id)
	publishChange(ctx, s.publisher, s.logger, domain.TopicRegistrationDeleted, domain.RegistrationChanged{ID: id})
	return nil
}

func (s *adminRegistrationService) cleanupNotifications(ctx context.Context, registrationID string) {
	n, err := s.notifications.DeleteByAttendee(ctx, registrationID)
	if err != nil {
		s.logger.WarnContext(ctx, "delete registration notifications", "registration_id", registrationID, "err", err)
		return
	}
	if n > 0 {
		publishChange(ctx, s.publisher, s.logger, domain.TopicNotificationUpdated, domain.NotificationChanged{})
	}
}

// BulkDelete deletes each ID independently; a failure does not stop the rest.
func (s *adminRegistrationService) BulkDelete(ctx context.Context, ids []string) (*domain.BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids must include at least one entry")
	}
	res := &domain.BulkDeleteResult{FailedIDs: []string{}}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := s.Delete(ctx, id); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.ErrorContext(ctx, "bulk delete registration", "registration_id", id, "err", err)
			}
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, id)
			continue
		}
		res.Deleted++
	}
	return res, nil
}

func (s *adminRegistrationService) MarkCardPrinted(ctx context.Context, id string) (*domain.Registration, error) {
	if err := s.repo.MarkCardPrinted(ctx, id); err != nil {
		return nil, err
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publishChange(ctx, s.publisher, s.logger, domain.TopicRegistrationUpdated, domain.RegistrationChanged{Registration: reg, ID: reg.ID})
	return reg, nil
}

// PrintBadge renders the attendee badge PDF and flags the card as printed.
func (s *adminRegistrationService) PrintBadge(ctx context.Context, id string) ([]byte, *domain.Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content := reg.QRCodeURL
	if content == "" {
		content = QRCodeURL(s.baseURL, reg.ID)
	}
	qrPNG, err := s.qr.PNG(content, badgeQRSize)
	if err != nil {
		return nil, nil, fmt.Errorf("render badge qr code: %w", err)
	}
	pdf, err := s.badges.RenderBadge(reg, s.currentEventName(ctx), qrPNG)
	if err != nil {
		return nil, nil, fmt.Errorf("render badge: %w", err)
	}
	if !reg.CardPrinted {
		if err := s.repo.MarkCardPrinted(ctx, reg.ID); err != nil {
			return nil, nil, fmt.Errorf("mark card printed: %w", err)
		}
		reg.CardPrinted = true
		reg.UpdatedAt = time.Now().UTC()
		publishChange(ctx, s.publisher, s.logger, domain.TopicRegistrationUpdated, domain.RegistrationChanged{Registration: reg, ID: reg.ID})
	}
	return pdf, reg, nil
}

func (s *adminRegistrationService) currentEventName(ctx context.Context) string {
	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load general settings for badge", "err", err)
		return s.eventName
	}
	if general != nil && general.EventName != "" {
		return general.EventName
	}
	return s.eventName
}
