package services

import (
	"context"
	"testing"

	"eventpass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return nil
}

type fakeRenderer struct {
	name string
	data any
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.name = name
	f.data = data
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_SendRegistrationConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	renderer := &fakeRenderer{}
	svc := NewEmailService(mailer, renderer, discardLogger())

	err := svc.SendRegistrationConfirmation(context.Background(), &domain.RegistrationConfirmationEmailData{Email: "anita@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "registration_confirmation", renderer.name)
	assert.Equal(t, "anita@example.com", mailer.to)
	assert.Equal(t, "subject", mailer.subject)

	require.Error(t, svc.SendRegistrationConfirmation(context.Background(), nil))

	mailer.err = errBoom
	err = svc.SendRegistrationConfirmation(context.Background(), &domain.RegistrationConfirmationEmailData{Email: "anita@example.com"})
	require.ErrorIs(t, err, errBoom)
}

func TestConfirmationSender(t *testing.T) {
	reg := &domain.Registration{AttendeeCode: "NEPDENT-04217", FullName: "Anita", Email: "anita@example.com"}
	repo := newFakeRegistrationRepo(reg)
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	settings := &fakeSettings{general: &domain.GeneralSettings{EventName: "IDS Kathmandu"}}
	sender := NewConfirmationSender(repo, settings, NewEmailService(mailer, renderer, discardLogger()), discardLogger(),
		"https://ids.example.com", "NepDent IDS 2025")

	require.NoError(t, sender.SendByID(context.Background(), reg.ID))
	data, ok := renderer.data.(*domain.RegistrationConfirmationEmailData)
	require.True(t, ok)
	assert.Equal(t, "IDS Kathmandu", data.EventName)
	assert.Equal(t, "NEPDENT-04217", data.AttendeeCode)
	assert.Equal(t, "https://ids.example.com/digital-pass/"+reg.ID, data.PassURL)
	assert.Equal(t, "https://ids.example.com/check-in/"+reg.ID, data.QRCodeURL)

	err := sender.SendByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, NewInlineDispatcher(sender).Dispatch(context.Background(), reg))
	assert.Equal(t, "anita@example.com", mailer.to)
}
