package services

import (
	"context"
	"testing"

	"eventpass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileInterests = []string{"Dental Equipment", "Materials"}

func newContentFixture() (*fakeDocumentRepo, *fakePublisher, domain.ContentService) {
	docs := newFakeDocumentRepo()
	pub := &fakePublisher{}
	return docs, pub, NewContentService(docs, pub, discardLogger(), profileInterests)
}

func TestContentService_Homepage(t *testing.T) {
	docs, pub, svc := newContentFixture()
	ctx := context.Background()

	doc, err := svc.GetHomepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Document{}, doc)

	_, err = svc.SaveHomepage(ctx, domain.Document{"hero": map[string]any{"title": "NepDent"}, "stats": []any{"1"}}, false)
	require.NoError(t, err)

	doc, err = svc.SaveHomepage(ctx, domain.Document{"stats": []any{"2"}}, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "NepDent"}, doc["hero"])
	assert.Equal(t, []any{"2"}, doc["stats"])

	doc, err = svc.SaveHomepage(ctx, domain.Document{"features": []any{}}, false)
	require.NoError(t, err)
	assert.NotContains(t, doc, "hero")

	assert.Equal(t, 3, docs.sets)
	assert.Equal(t, 3, pub.count(domain.TopicContentUpdated))

	_, err = svc.SaveHomepage(ctx, nil, false)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestContentService_GeneralSettings(t *testing.T) {
	_, _, svc := newContentFixture()
	ctx := context.Background()

	settings, err := svc.GetGeneralSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.RegistrationsOpen())

	off := false
	saved, err := svc.SaveGeneralSettings(ctx, &domain.GeneralSettings{RegistrationsEnabled: &off, EventName: " NepDent IDS 2025 "})
	require.NoError(t, err)
	assert.False(t, saved.RegistrationsOpen())
	assert.Equal(t, "NepDent IDS 2025", saved.EventName)

	// an omitted toggle is kept
	saved, err = svc.SaveGeneralSettings(ctx, &domain.GeneralSettings{EventName: "NepDent IDS 2025", ContactEmail: "info@nepdent.com"})
	require.NoError(t, err)
	assert.False(t, saved.RegistrationsOpen())
	assert.Equal(t, "info@nepdent.com", saved.ContactEmail)

	// empty text fields clear the stored values
	saved, err = svc.SaveGeneralSettings(ctx, &domain.GeneralSettings{})
	require.NoError(t, err)
	assert.False(t, saved.RegistrationsOpen())
	assert.Empty(t, saved.EventName)
	assert.Empty(t, saved.ContactEmail)

	_, err = svc.SaveGeneralSettings(ctx, &domain.GeneralSettings{ContactEmail: "nope"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestContentService_Interests(t *testing.T) {
	_, pub, svc := newContentFixture()
	ctx := context.Background()

	got, err := svc.GetInterests(ctx)
	require.NoError(t, err)
	assert.Equal(t, profileInterests, got)

	saved, err := svc.SaveInterests(ctx, []string{" Implants ", "implants", "", "Orthodontics"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Implants", "Orthodontics"}, saved)

	got, err = svc.GetInterests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Implants", "Orthodontics"}, got)
	assert.Equal(t, 1, pub.count(domain.TopicContentUpdated))

	_, err = svc.SaveInterests(ctx, []string{"  "})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestContentService_StoreErrorsPropagate(t *testing.T) {
	docs, _, svc := newContentFixture()
	docs.getErr = errBoom

	_, err := svc.GetGeneralSettings(context.Background())
	require.ErrorIs(t, err, errBoom)
	_, err = svc.GetInterests(context.Background())
	require.ErrorIs(t, err, errBoom)
}
