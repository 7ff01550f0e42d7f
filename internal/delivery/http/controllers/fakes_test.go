package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// decodeEnvelope decodes the API envelope and unmarshals data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

// fakeRegistrationService implements domain.RegistrationService for tests.
type fakeRegistrationService struct {
	registerErr error
	lastInput   domain.RegistrationInput
	status      *domain.RegistrationStatus
	regs        map[string]*domain.Registration
	checkedIn   map[string]bool
	qrSize      int
	verifyBy    domain.VerifyBy
}

func newFakeRegistrationService(regs ...*domain.Registration) *fakeRegistrationService {
	f := &fakeRegistrationService{
		regs:      map[string]*domain.Registration{},
		checkedIn: map[string]bool{},
		status:    &domain.RegistrationStatus{Enabled: true, EventName: "NepDent IDS 2025", Interests: []string{"Materials"}},
	}
	for _, r := range regs {
		f.regs[r.ID] = r
	}
	return f
}

func (f *fakeRegistrationService) Register(ctx context.Context, in domain.RegistrationInput) (*domain.Registration, error) {
	f.lastInput = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	reg := domain.NewRegistration(in, "NEPDENT-00001", testTime)
	reg.ID = "reg-new"
	return reg, nil
}

func (f *fakeRegistrationService) Status(ctx context.Context) (*domain.RegistrationStatus, error) {
	return f.status, nil
}

func (f *fakeRegistrationService) Verify(ctx context.Context, by domain.VerifyBy, value string) (*domain.Registration, error) {
	f.verifyBy = by
	if by != domain.VerifyByID && by != domain.VerifyByEmail {
		return nil, domain.NewValidationError("by must be one of: id email")
	}
	for _, r := range f.regs {
		if r.AttendeeCode == value || r.Email == value {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationService) GetPass(ctx context.Context, ref string) (*domain.Registration, error) {
	if r, ok := f.regs[ref]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationService) QRCode(ctx context.Context, ref string, size int) ([]byte, error) {
	f.qrSize = size
	if _, ok := f.regs[ref]; !ok {
		return nil, domain.ErrNotFound
	}
	return []byte("\x89PNG"), nil
}

func (f *fakeRegistrationService) CheckIn(ctx context.Context, ref string) (*domain.Registration, bool, error) {
	r, ok := f.regs[ref]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	already := f.checkedIn[ref]
	f.checkedIn[ref] = true
	r.CheckedIn = true
	return r, already, nil
}

// fakeAdminRegistrationService implements domain.RegistrationAdminService for tests.
type fakeAdminRegistrationService struct {
	regs       []*domain.Registration
	lastFilter domain.RegistrationFilter
	lastPage   domain.PaginationParams
	listErr    error
	deleted    []string
	bulkIDs    []string
}

func (f *fakeAdminRegistrationService) find(id string) *domain.Registration {
	for _, r := range f.regs {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (f *fakeAdminRegistrationService) List(ctx context.Context, filter domain.RegistrationFilter, page domain.PaginationParams) ([]*domain.Registration, int, error) {
	f.lastFilter, f.lastPage = filter, page
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var matched []*domain.Registration
	for _, r := range f.regs {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	start, end := page.Bounds(len(matched))
	return matched[start:end], len(matched), nil
}

func (f *fakeAdminRegistrationService) Get(ctx context.Context, id string) (*domain.Registration, error) {
	if r := f.find(id); r != nil {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminRegistrationService) Delete(ctx context.Context, id string) error {
	if f.find(id) == nil {
		return domain.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminRegistrationService) BulkDelete(ctx context.Context, ids []string) (*domain.BulkDeleteResult, error) {
	f.bulkIDs = ids
	res := &domain.BulkDeleteResult{FailedIDs: []string{}}
	for _, id := range ids {
		if f.find(id) == nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, id)
			continue
		}
		res.Deleted++
	}
	return res, nil
}

func (f *fakeAdminRegistrationService) MarkCardPrinted(ctx context.Context, id string) (*domain.Registration, error) {
	r := f.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.CardPrinted = true
	return r, nil
}

func (f *fakeAdminRegistrationService) PrintBadge(ctx context.Context, id string) ([]byte, *domain.Registration, error) {
	r, err := f.MarkCardPrinted(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return []byte("%PDF-1.3"), r, nil
}

// fakeReportService implements domain.ReportService for tests.
type fakeReportService struct {
	report    *domain.Report
	dashboard *domain.DashboardStats
	format    domain.ExportFormat
	err       error
}

func (f *fakeReportService) Build(ctx context.Context) (*domain.Report, error) {
	return f.report, f.err
}

func (f *fakeReportService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return f.dashboard, f.err
}

func (f *fakeReportService) Export(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.format = format
	return []byte("export-" + string(format)), nil
}

// fakeContentService implements domain.ContentService for tests.
type fakeContentService struct {
	homepage  domain.Document
	merged    bool
	settings  *domain.GeneralSettings
	interests []string
	err       error
}

func (f *fakeContentService) GetGeneralSettings(ctx context.Context) (*domain.GeneralSettings, error) {
	if f.settings == nil {
		return &domain.GeneralSettings{}, f.err
	}
	return f.settings, f.err
}

func (f *fakeContentService) GetInterests(ctx context.Context) ([]string, error) {
	return f.interests, f.err
}

func (f *fakeContentService) GetHomepage(ctx context.Context) (domain.Document, error) {
	if f.homepage == nil {
		return domain.Document{}, f.err
	}
	return f.homepage, f.err
}

func (f *fakeContentService) SaveHomepage(ctx context.Context, doc domain.Document, merge bool) (domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.merged = merge
	f.homepage = doc
	return doc, nil
}

func (f *fakeContentService) SaveGeneralSettings(ctx context.Context, s *domain.GeneralSettings) (*domain.GeneralSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s.ContactEmail == "bad" {
		return nil, domain.NewValidationError("contactEmail must be a valid email address")
	}
	f.settings = s
	return s, nil
}

func (f *fakeContentService) SaveInterests(ctx context.Context, interests []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.interests = interests
	return interests, nil
}

// fakeNotificationService implements domain.NotificationService for tests.
type fakeNotificationService struct {
	feed    *domain.NotificationFeed
	read    []string
	allRead int64
	err     error
}

func (f *fakeNotificationService) ListLatest(ctx context.Context) (*domain.NotificationFeed, error) {
	return f.feed, f.err
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, id string) error {
	if id == "missing" {
		return domain.ErrNotFound
	}
	f.read = append(f.read, id)
	return f.err
}

func (f *fakeNotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return f.allRead, f.err
}

// fakeAuthService implements domain.AuthService for tests.
type fakeAuthService struct {
	admin      *domain.Admin
	signInErr  error
	signedOut  []string
	signOutErr error
}

func (f *fakeAuthService) VerifySession(ctx context.Context, token string) (string, error) {
	if token != "good-token" {
		return "", domain.ErrUnauthorized
	}
	return f.admin.ID, nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if f.signInErr != nil {
		return "", nil, f.signInErr
	}
	if email != f.admin.Email || password != "s3cretpass" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "good-token", f.admin, nil
}

func (f *fakeAuthService) SignOut(ctx context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return f.signOutErr
}

func (f *fakeAuthService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.Admin, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuthService) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	if f.admin == nil || id != f.admin.ID {
		return nil, domain.ErrNotFound
	}
	return f.admin, nil
}
