package domain

import (
	"context"
	"strings"
	"time"
)

// Registration is one attendee's record for the event. ID is the document ID encoded in the
// QR pass; AttendeeCode is the human-readable code printed on badges (e.g. NEPDENT-04217).
// swagger:model Registration
type Registration struct {
	ID           string     `json:"id"`
	AttendeeCode string     `json:"attendee_code"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	MobileNumber string     `json:"mobile_number"`
	Company      string     `json:"company"`
	JobTitle     string     `json:"job_title"`
	Country      string     `json:"country"`
	Interests    []string   `json:"interests"`
	QRCodeURL    string     `json:"qr_code_url"`
	CheckedIn    bool       `json:"checked_in"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CardPrinted  bool       `json:"card_printed"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RegistrationInput is the public registration form.
type RegistrationInput struct {
	FullName     string   `json:"full_name" validate:"required,max=200"`
	Email        string   `json:"email" validate:"required,email,max=254"`
	MobileNumber string   `json:"mobile_number" validate:"required,max=40"`
	Company      string   `json:"company" validate:"required,max=200"`
	JobTitle     string   `json:"job_title" validate:"required,max=200"`
	Country      string   `json:"country" validate:"required,max=100"`
	Interests    []string `json:"interests" validate:"min=1,dive,required"`
}

// Normalize trims every field and lower-cases the email.
func (in *RegistrationInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.Company = strings.TrimSpace(in.Company)
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.Country = strings.TrimSpace(in.Country)
	interests := make([]string, 0, len(in.Interests))
	for _, s := range in.Interests {
		if s = strings.TrimSpace(s); s != "" {
			interests = append(interests, s)
		}
	}
	in.Interests = interests
}

// NewRegistration builds a Registration from validated input. ID and QRCodeURL are set after insert.
func NewRegistration(in RegistrationInput, attendeeCode string, createdAt time.Time) *Registration {
	return &Registration{
		AttendeeCode: attendeeCode,
		FullName:     in.FullName,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		Company:      in.Company,
		JobTitle:     in.JobTitle,
		Country:      in.Country,
		Interests:    in.Interests,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// PrintStatus filters registrations by badge state.
type PrintStatus string

const (
	PrintStatusAll        PrintStatus = "all"
	PrintStatusPrinted    PrintStatus = "printed"
	PrintStatusNotPrinted PrintStatus = "not-printed"
)

// ParsePrintStatus maps a query value to a PrintStatus; unknown values mean all.
func ParsePrintStatus(s string) PrintStatus {
	switch PrintStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PrintStatusPrinted:
		return PrintStatusPrinted
	case PrintStatusNotPrinted:
		return PrintStatusNotPrinted
	default:
		return PrintStatusAll
	}
}

// RegistrationFilter narrows the admin registration list.
type RegistrationFilter struct {
	Search string
	Print  PrintStatus
}

// Matches reports whether r passes the filter. Search is a case-insensitive substring
// match over full name, email, and company.
func (f RegistrationFilter) Matches(r *Registration) bool {
	switch f.Print {
	case PrintStatusPrinted:
		if !r.CardPrinted {
			return false
		}
	case PrintStatusNotPrinted:
		if r.CardPrinted {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.FullName), term) ||
		strings.Contains(strings.ToLower(r.Email), term) ||
		strings.Contains(strings.ToLower(r.Company), term)
}

// VerifyBy selects the lookup key of the public verify page.
type VerifyBy string

const (
	VerifyByID    VerifyBy = "id"
	VerifyByEmail VerifyBy = "email"
)

// RegistrationStatus is what the public form needs before rendering.
type RegistrationStatus struct {
	Enabled   bool     `json:"enabled"`
	EventName string   `json:"event_name"`
	Interests []string `json:"interests"`
}

// BulkDeleteResult reports the outcome of deleting several registrations one by one.
type BulkDeleteResult struct {
	Deleted   int      `json:"deleted"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

// RegistrationRepository defines the interface for registration storage.
type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	SetQRCodeURL(ctx context.Context, id, url string) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByAttendeeCode(ctx context.Context, code string) (*Registration, error)
	GetByEmail(ctx context.Context, email string) (*Registration, error)
	ListAll(ctx context.Context) ([]*Registration, error)
	// MarkCheckedIn sets the check-in flag only when it is still unset and reports whether it did.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error)
	MarkCardPrinted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// AttendeeCodeGenerator produces human-readable attendee codes.
type AttendeeCodeGenerator interface {
	Generate() (string, error)
	Pattern() string
}

// QRCodeGenerator renders a QR payload as an image.
type QRCodeGenerator interface {
	PNG(content string, size int) ([]byte, error)
}

// ConfirmationDispatcher hands a new registration to whatever sends the confirmation email.
type ConfirmationDispatcher interface {
	Dispatch(ctx context.Context, r *Registration) error
}

// RegistrationService covers the public registration, pass, and check-in flows.
type RegistrationService interface {
	Register(ctx context.Context, in RegistrationInput) (*Registration, error)
	Status(ctx context.Context) (*RegistrationStatus, error)
	Verify(ctx context.Context, by VerifyBy, value string) (*Registration, error)
	GetPass(ctx context.Context, ref string) (*Registration, error)
	QRCode(ctx context.Context, ref string, size int) ([]byte, error)
	CheckIn(ctx context.Context, ref string) (reg *Registration, alreadyCheckedIn bool, err error)
}

// RegistrationAdminService covers the back-office registration list.
type RegistrationAdminService interface {
	List(ctx context.Context, filter RegistrationFilter, page PaginationParams) ([]*Registration, int, error)
	Get(ctx context.Context, id string) (*Registration, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error)
	MarkCardPrinted(ctx context.Context, id string) (*Registration, error)
	PrintBadge(ctx context.Context, id string) ([]byte, *Registration, error)
}
