package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Document collections and IDs used by the CMS and settings pages.
const (
	CollectionContent  = "content"
	CollectionSettings = "settings"
	CollectionAdmin    = "admin"

	DocHomepage  = "homepage"
	DocGeneral   = "general"
	DocInterests = "interests"
	DocSetup     = "setup"
)

// Document is an arbitrary nested JSON object addressed by collection and ID.
type Document map[string]any

// DecodeDocument converts a Document into a typed view.
func DecodeDocument(doc Document, dest any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// EncodeDocument converts a typed view into a Document.
func EncodeDocument(src any) (Document, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// DocumentRepository stores content and settings documents.
// Set replaces the whole document unless merge is true, in which case top-level keys are merged.
type DocumentRepository interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document, merge bool) error
}

// GeneralSettings is the settings/general document. A nil RegistrationsEnabled means enabled
// and is left untouched on save; the text fields are always written so they can be cleared.
type GeneralSettings struct {
	RegistrationsEnabled *bool  `json:"registrationsEnabled,omitempty"`
	EventName            string `json:"eventName"`
	ContactEmail         string `json:"contactEmail"`
}

// RegistrationsOpen reports whether the public form accepts submissions.
func (s *GeneralSettings) RegistrationsOpen() bool {
	return s == nil || s.RegistrationsEnabled == nil || *s.RegistrationsEnabled
}

// InterestSettings is the settings/interests document.
type InterestSettings struct {
	Interests []string `json:"interests"`
}

// AdminSetup is the admin/setup document written when the first admin is created.
type AdminSetup struct {
	Initialized   bool      `json:"initialized"`
	InitializedAt time.Time `json:"initializedAt"`
	InitializedBy string    `json:"initializedBy"`
}

// SettingsReader is the read side of settings that registration depends on.
type SettingsReader interface {
	GetGeneralSettings(ctx context.Context) (*GeneralSettings, error)
	GetInterests(ctx context.Context) ([]string, error)
}

// ContentService manages the homepage CMS document and admin settings.
type ContentService interface {
	SettingsReader
	GetHomepage(ctx context.Context) (Document, error)
	SaveHomepage(ctx context.Context, doc Document, merge bool) (Document, error)
	SaveGeneralSettings(ctx context.Context, s *GeneralSettings) (*GeneralSettings, error)
	SaveInterests(ctx context.Context, interests []string) ([]string, error)
}
