package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventpass/internal/domain"
	"eventpass/internal/validation"

	"github.com/google/uuid"
)

// maxCodeAttempts bounds retries when a generated attendee code is already taken.
const maxCodeAttempts = 5

// RegistrationDeps groups the collaborators of the registration service.
type RegistrationDeps struct {
	Registrations domain.RegistrationRepository
	Notifications domain.NotificationRepository
	Settings      domain.SettingsReader
	Codes         domain.AttendeeCodeGenerator
	QRCodes       domain.QRCodeGenerator
	Confirmations domain.ConfirmationDispatcher
	Publisher     domain.ChangePublisher
	Logger        *slog.Logger
	// PublicBaseURL is the SPA origin the QR payload points at, without a trailing slash.
	PublicBaseURL string
	// EventName is used when settings/general does not name the event.
	EventName string
}

type registrationService struct {
	repo          domain.RegistrationRepository
	notifications domain.NotificationRepository
	settings      domain.SettingsReader
	codes         domain.AttendeeCodeGenerator
	qr            domain.QRCodeGenerator
	confirmations domain.ConfirmationDispatcher
	publisher     domain.ChangePublisher
	logger        *slog.Logger
	baseURL       string
	eventName     string
	codePattern   *regexp.Regexp
	now           func() time.Time
}

// NewRegistrationService returns the public registration, pass, and check-in service.
func NewRegistrationService(deps RegistrationDeps) domain.RegistrationService {
	return newRegistrationService(deps)
}

func newRegistrationService(deps RegistrationDeps) *registrationService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &registrationService{
		repo:          deps.Registrations,
		notifications: deps.Notifications,
		settings:      deps.Settings,
		codes:         deps.Codes,
		qr:            deps.QRCodes,
		confirmations: deps.Confirmations,
		publisher:     deps.Publisher,
		logger:        logger,
		baseURL:       strings.TrimRight(deps.PublicBaseURL, "/"),
		eventName:     deps.EventName,
		codePattern:   regexp.MustCompile(deps.Codes.Pattern()),
		now:           time.Now,
	}
}

// QRCodeURL is the check-in URL encoded in a registration's QR pass.
func QRCodeURL(baseURL, registrationID string) string {
	return strings.TrimRight(baseURL, "/") + "/check-in/" + registrationID
}

// PassURL is the digital pass page of a registration.
func PassURL(baseURL, registrationID string) string {
	return strings.TrimRight(baseURL, "/") + "/digital-pass/" + registrationID
}

func (s *registrationService) Register(ctx context.Context, in domain.RegistrationInput) (*domain.Registration, error) {
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	allowed, err := s.settings.GetInterests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interests: %w", err)
	}
	if problems := unknownInterests(in.Interests, allowed); len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load general settings: %w", err)
	}
	if !general.RegistrationsOpen() {
		return nil, domain.ErrRegistrationClosed
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	now := s.now().UTC()
	reg, err := s.create(ctx, in, now)
	if err != nil {
		return nil, err
	}

	// The URL is derivable from the ID, so readers fall back to QRCodeURL when it was not stored.
	url := QRCodeURL(s.baseURL, reg.ID)
	if err := s.repo.SetQRCodeURL(ctx, reg.ID, url); err != nil {
		s.logger.ErrorContext(ctx, "store qr code url", "registration_id", reg.ID, "err", err)
	}
	reg.QRCodeURL = url

	n := domain.NewRegistrationNotification(reg, now)
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "create registration notification", "registration_id", reg.ID, "err", err)
	} else {
		publishChange(ctx, s.publisher, s.logger, domain.TopicNotificationCreated, domain.NotificationChanged{Notification: n, ID: n.ID})
	}
	publishChange(ctx, s.publisher, s.logger, domain.TopicRegistrationCreated, domain.RegistrationChanged{Registration: reg, ID: reg.ID})

	if err := s.confirmations.Dispatch(ctx, reg); err != nil {
		s.logger.WarnContext(ctx, "dispatch confirmation email", "registration_id", reg.ID, "err", err)
	}
	s.logger.InfoContext(ctx, "registration created", "registration_id", reg.ID, "attendee_code", reg.AttendeeCode)
	return reg, nil
}

func (s *registrationService) create(ctx context.Context, in domain.RegistrationInput, now time.Time) (*domain.Registration, error) {
	for attempt := 1; ; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate attendee code: %w", err)
		}
		reg := domain.NewRegistration(in, code, now)
		err = s.repo.Create(ctx, reg)
		if err == nil {
			return reg, nil
		}
		if errors.Is(err, domain.ErrDuplicateAttendeeCode) && attempt < maxCodeAttempts {
			s.logger.DebugContext(ctx, "attendee code collision", "code", code, "attempt", attempt)
			continue
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
}

func unknownInterests(selected, allowed []string) []string {
	if len(allowed) == 0 {
		return nil
	}
	offered := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		offered[a] = struct{}{}
	}
	var problems []string
	for _, sel := range selected {
		if _, ok := offered[sel]; !ok {
			problems = append(problems, fmt.Sprintf("interest %q is not offered", sel))
		}
	}
	return problems
}

func (s *registrationService) Status(ctx context.Context) (*domain.RegistrationStatus, error) {
	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load general settings: %w", err)
	}
	interests, err := s.settings.GetInterests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interests: %w", err)
	}
	name := s.eventName
	if general != nil && general.EventName != "" {
		name = general.EventName
	}
	return &domain.RegistrationStatus{
		Enabled:   general.RegistrationsOpen(),
		EventName: name,
		Interests: interests,
	}, nil
}

func (s *registrationService) Verify(ctx context.Context, by domain.VerifyBy, value string) (*domain.Registration, error) {
	value = strings.TrimSpace(value)
	switch by {
	case domain.VerifyByID:
		code := strings.ToUpper(value)
		if !s.codePattern.MatchString(code) {
			return nil, domain.NewValidationError("attendee ID must look like " + s.exampleCode())
		}
		return s.repo.GetByAttendeeCode(ctx, code)
	case domain.VerifyByEmail:
		if !validation.IsEmail(value) {
			return nil, domain.NewValidationError("email must be a valid email address")
		}
		return s.repo.GetByEmail(ctx, strings.ToLower(value))
	default:
		return nil, domain.NewValidationError("by must be one of: id email")
	}
}

func (s *registrationService) exampleCode() string {
	prefix, _, _ := strings.Cut(strings.TrimPrefix(s.codes.Pattern(), "^"), "-")
	return prefix + "-12345"
}

// lookup resolves a pass or check-in reference: an attendee code or a registration ID.
func (s *registrationService) lookup(ctx context.Context, ref string) (*domain.Registration, error) {
	ref = strings.TrimSpace(ref)
	if s.codePattern.MatchString(strings.ToUpper(ref)) {
		return s.repo.GetByAttendeeCode(ctx, strings.ToUpper(ref))
	}
	if _, err := uuid.Parse(ref); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, ref)
}

func (s *registrationService) GetPass(ctx context.Context, ref string) (*domain.Registration, error) {
	return s.lookup(ctx, ref)
}

func (s *registrationService) QRCode(ctx context.Context, ref string, size int) ([]byte, error) {
	reg, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	content := reg.QRCodeURL
	if content == "" {
		content = QRCodeURL(s.baseURL, reg.ID)
	}
	png, err := s.qr.PNG(content, size)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

func (s *registrationService) CheckIn(ctx context.Context, ref string) (*domain.Registration, bool, error) {
	reg, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	if reg.CheckedIn {
		return reg, true, nil
	}

	now := s.now().UTC()
	updated, err := s.repo.MarkCheckedIn(ctx, reg.ID, now)
	if err != nil {
		return nil, false, fmt.Errorf("mark checked in: %w", err)
	}
	if !updated {
		// another scan won; report its timestamp
		current, err := s.repo.GetByID(ctx, reg.ID)
		if err != nil {
			return nil, false, err
		}
		return current, true, nil
	}

	reg.CheckedIn = true
	reg.CheckInTime = &now
	reg.UpdatedAt = now
	publishChange(ctx, s.publisher, s.logger, domain.TopicRegistrationCheckedIn, domain.RegistrationChanged{Registration: reg, ID: reg.ID})
	s.logger.InfoContext(ctx, "attendee checked in", "registration_id", reg.ID, "attendee_code", reg.AttendeeCode)
	return reg, false, nil
}
