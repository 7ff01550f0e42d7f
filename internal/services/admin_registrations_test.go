package services

import (
	"context"
	"testing"
	"time"

	"eventpass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBadgeRenderer struct {
	eventName string
	qr        []byte
	err       error
}

func (f *fakeBadgeRenderer) RenderBadge(r *domain.Registration, eventName string, qrPNG []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.eventName = eventName
	f.qr = qrPNG
	return []byte("%PDF-badge-" + r.AttendeeCode), nil
}

func seedRegistrations() []*domain.Registration {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []*domain.Registration{
		{AttendeeCode: "NEPDENT-00001", FullName: "Anita Shrestha", Email: "anita@smile.com", Company: "Smile Dental", CreatedAt: base},
		{AttendeeCode: "NEPDENT-00002", FullName: "Rajesh Hamal", Email: "rajesh@example.com", Company: "Everest Labs", CreatedAt: base.Add(time.Hour), CardPrinted: true},
		{AttendeeCode: "NEPDENT-00003", FullName: "Sita Karki", Email: "sita@example.com", Company: "SMILE Clinic", CreatedAt: base.Add(2 * time.Hour)},
		{AttendeeCode: "NEPDENT-00004", FullName: "Hari Thapa", Email: "hari@example.com", Company: "", CreatedAt: base.Add(3 * time.Hour), CardPrinted: true},
	}
}

type adminFixture struct {
	repo          *fakeRegistrationRepo
	notifications *fakeNotificationRepo
	publisher     *fakePublisher
	badges        *fakeBadgeRenderer
	qr            *fakeQR
	settings      *fakeSettings
	svc           domain.RegistrationAdminService
}

func newAdminFixture(regs ...*domain.Registration) *adminFixture {
	f := &adminFixture{
		repo:          newFakeRegistrationRepo(regs...),
		notifications: &fakeNotificationRepo{},
		publisher:     &fakePublisher{},
		badges:        &fakeBadgeRenderer{},
		qr:            &fakeQR{},
		settings:      &fakeSettings{},
	}
	f.svc = NewAdminRegistrationService(AdminRegistrationDeps{
		Registrations: f.repo,
		Notifications: f.notifications,
		Settings:      f.settings,
		QRCodes:       f.qr,
		Badges:        f.badges,
		Publisher:     f.publisher,
		Logger:        discardLogger(),
		PublicBaseURL: "https://ids.example.com",
		EventName:     "NepDent IDS 2025",
	})
	return f
}

func codes(regs []*domain.Registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.AttendeeCode
	}
	return out
}

func TestAdminRegistrationService_List(t *testing.T) {
	f := newAdminFixture(seedRegistrations()...)

	tests := []struct {
		name      string
		filter    domain.RegistrationFilter
		page      domain.PaginationParams
		wantCodes []string
		wantTotal int
	}{
		{
			name:      "all newest first",
			page:      domain.PaginationParams{Page: 1, PageSize: 20},
			wantCodes: []string{"NEPDENT-00004", "NEPDENT-00003", "NEPDENT-00002", "NEPDENT-00001"},
			wantTotal: 4,
		},
		{
			name:      "search is case-insensitive across company",
			filter:    domain.RegistrationFilter{Search: "smile"},
			page:      domain.PaginationParams{Page: 1, PageSize: 20},
			wantCodes: []string{"NEPDENT-00003", "NEPDENT-00001"},
			wantTotal: 2,
		},
		{
			name:      "search matches email",
			filter:    domain.RegistrationFilter{Search: "RAJESH@"},
			page:      domain.PaginationParams{Page: 1, PageSize: 20},
			wantCodes: []string{"NEPDENT-00002"},
			wantTotal: 1,
		},
		{
			name:      "printed only",
			filter:    domain.RegistrationFilter{Print: domain.PrintStatusPrinted},
			page:      domain.PaginationParams{Page: 1, PageSize: 20},
			wantCodes: []string{"NEPDENT-00004", "NEPDENT-00002"},
			wantTotal: 2,
		},
		{
			name:      "not printed second page",
			filter:    domain.RegistrationFilter{Print: domain.PrintStatusNotPrinted},
			page:      domain.PaginationParams{Page: 2, PageSize: 1},
			wantCodes: []string{"NEPDENT-00001"},
			wantTotal: 2,
		},
		{
			name:      "page past the end",
			page:      domain.PaginationParams{Page: 5, PageSize: 20},
			wantCodes: []string{},
			wantTotal: 4,
		},
		{
			name:      "huge page is empty",
			page:      domain.PaginationParams{Page: 1 << 62, PageSize: 20},
			wantCodes: []string{},
			wantTotal: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := f.svc.List(context.Background(), tt.filter, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantCodes, codes(list))
		})
	}
}

func TestAdminRegistrationService_List_RepoError(t *testing.T) {
	f := newAdminFixture()
	f.repo.listErr = errBoom
	_, _, err := f.svc.List(context.Background(), domain.RegistrationFilter{}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, errBoom)
}

func TestAdminRegistrationService_Delete(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)
	target := regs[0]
	require.NoError(t, f.notifications.Create(context.Background(), domain.NewRegistrationNotification(target, target.CreatedAt)))
	require.NoError(t, f.notifications.Create(context.Background(), domain.NewRegistrationNotification(regs[1], regs[1].CreatedAt)))

	require.NoError(t, f.svc.Delete(context.Background(), target.ID))

	_, err := f.repo.GetByID(context.Background(), target.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Len(t, f.notifications.list, 1)
	assert.Equal(t, regs[1].ID, f.notifications.list[0].Metadata["attendeeId"])
	assert.Equal(t, 1, f.publisher.count(domain.TopicRegistrationDeleted))
	assert.Equal(t, 1, f.publisher.count(domain.TopicNotificationUpdated))

	require.ErrorIs(t, f.svc.Delete(context.Background(), target.ID), domain.ErrNotFound)
}

func TestAdminRegistrationService_Delete_NotificationCleanupIsBestEffort(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)
	f.notifications.deleteErr = errBoom

	require.NoError(t, f.svc.Delete(context.Background(), regs[0].ID))
	assert.Equal(t, 1, f.publisher.count(domain.TopicRegistrationDeleted))
}

func TestAdminRegistrationService_BulkDelete(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)
	f.repo.deleteErrs[regs[2].ID] = errBoom

	res, err := f.svc.BulkDelete(context.Background(), []string{regs[0].ID, regs[1].ID, regs[0].ID, regs[2].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{regs[2].ID, "missing"}, res.FailedIDs)

	all, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NEPDENT-00004", "NEPDENT-00003"}, codes(all))

	_, err = f.svc.BulkDelete(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdminRegistrationService_MarkCardPrinted(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)

	reg, err := f.svc.MarkCardPrinted(context.Background(), regs[0].ID)
	require.NoError(t, err)
	assert.True(t, reg.CardPrinted)
	assert.Equal(t, 1, f.publisher.count(domain.TopicRegistrationUpdated))

	_, err = f.svc.MarkCardPrinted(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminRegistrationService_PrintBadge(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)
	f.settings.general = &domain.GeneralSettings{EventName: "IDS 2025 Kathmandu"}

	pdf, reg, err := f.svc.PrintBadge(context.Background(), regs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-badge-NEPDENT-00001", string(pdf))
	assert.True(t, reg.CardPrinted)
	assert.Equal(t, "IDS 2025 Kathmandu", f.badges.eventName)
	assert.Equal(t, "https://ids.example.com/check-in/"+regs[0].ID, f.qr.lastContent)
	assert.Equal(t, badgeQRSize, f.qr.lastSize)

	stored, err := f.repo.GetByID(context.Background(), regs[0].ID)
	require.NoError(t, err)
	assert.True(t, stored.CardPrinted)

	// reprinting an already printed card does not publish again
	_, _, err = f.svc.PrintBadge(context.Background(), regs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.publisher.count(domain.TopicRegistrationUpdated))
}

func TestAdminRegistrationService_PrintBadge_RenderFailureDoesNotMarkPrinted(t *testing.T) {
	regs := seedRegistrations()
	f := newAdminFixture(regs...)
	f.badges.err = errBoom

	_, _, err := f.svc.PrintBadge(context.Background(), regs[0].ID)
	require.ErrorIs(t, err, errBoom)

	stored, err := f.repo.GetByID(context.Background(), regs[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.CardPrinted)
}
