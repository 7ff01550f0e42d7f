package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventpass/internal/domain"
	"eventpass/internal/validation"
)

type contentService struct {
	docs             domain.DocumentRepository
	publisher        domain.ChangePublisher
	logger           *slog.Logger
	defaultInterests []string
}

// NewContentService returns the CMS and settings service. defaultInterests is served
// until an admin saves settings/interests.
func NewContentService(docs domain.DocumentRepository, publisher domain.ChangePublisher, logger *slog.Logger, defaultInterests []string) domain.ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &contentService{docs: docs, publisher: publisher, logger: logger, defaultInterests: defaultInterests}
}

// get returns nil, nil when the document does not exist yet.
func (s *contentService) get(ctx context.Context, collection, id string) (domain.Document, error) {
	doc, err := s.docs.Get(ctx, collection, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *contentService) set(ctx context.Context, collection, id string, doc domain.Document, merge bool) error {
	if err := s.docs.Set(ctx, collection, id, doc, merge); err != nil {
		return fmt.Errorf("save %s/%s: %w", collection, id, err)
	}
	publishChange(ctx, s.publisher, s.logger, domain.TopicContentUpdated, domain.ContentChanged{Collection: collection, ID: id})
	return nil
}

func (s *contentService) GetHomepage(ctx context.Context) (domain.Document, error) {
	doc, err := s.get(ctx, domain.CollectionContent, domain.DocHomepage)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return domain.Document{}, nil
	}
	return doc, nil
}

func (s *contentService) SaveHomepage(ctx context.Context, doc domain.Document, merge bool) (domain.Document, error) {
	if doc == nil {
		return nil, domain.NewValidationError("homepage content must be a JSON object")
	}
	if err := s.set(ctx, domain.CollectionContent, domain.DocHomepage, doc, merge); err != nil {
		return nil, err
	}
	return s.GetHomepage(ctx)
}

func (s *contentService) GetGeneralSettings(ctx context.Context) (*domain.GeneralSettings, error) {
	doc, err := s.get(ctx, domain.CollectionSettings, domain.DocGeneral)
	if err != nil {
		return nil, err
	}
	settings := &domain.GeneralSettings{}
	if doc == nil {
		return settings, nil
	}
	if err := domain.DecodeDocument(doc, settings); err != nil {
		return nil, fmt.Errorf("decode general settings: %w", err)
	}
	return settings, nil
}

func (s *contentService) SaveGeneralSettings(ctx context.Context, settings *domain.GeneralSettings) (*domain.GeneralSettings, error) {
	if settings == nil {
		return nil, domain.NewValidationError("settings are required")
	}
	settings.EventName = strings.TrimSpace(settings.EventName)
	settings.ContactEmail = strings.TrimSpace(settings.ContactEmail)
	if settings.ContactEmail != "" && !validation.IsEmail(settings.ContactEmail) {
		return nil, domain.NewValidationError("contactEmail must be a valid email address")
	}
	doc, err := domain.EncodeDocument(settings)
	if err != nil {
		return nil, err
	}
	if err := s.set(ctx, domain.CollectionSettings, domain.DocGeneral, doc, true); err != nil {
		return nil, err
	}
	return s.GetGeneralSettings(ctx)
}

func (s *contentService) GetInterests(ctx context.Context) ([]string, error) {
	doc, err := s.get(ctx, domain.CollectionSettings, domain.DocInterests)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return append([]string(nil), s.defaultInterests...), nil
	}
	var settings domain.InterestSettings
	if err := domain.DecodeDocument(doc, &settings); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if len(settings.Interests) == 0 {
		return append([]string(nil), s.defaultInterests...), nil
	}
	return settings.Interests, nil
}

func (s *contentService) SaveInterests(ctx context.Context, interests []string) ([]string, error) {
	cleaned := normalizeInterests(interests)
	if len(cleaned) == 0 {
		return nil, domain.NewValidationError("interests must include at least one entry")
	}
	doc, err := domain.EncodeDocument(domain.InterestSettings{Interests: cleaned})
	if err != nil {
		return nil, err
	}
	if err := s.set(ctx, domain.CollectionSettings, domain.DocInterests, doc, false); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// normalizeInterests trims entries, drops blanks, and removes case-insensitive duplicates
// keeping the first spelling.
func normalizeInterests(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
