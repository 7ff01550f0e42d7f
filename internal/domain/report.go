package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// UnknownLabel groups registrations with an empty company, country, or interest.
const UnknownLabel = "Unknown"

// DateGroup is the registrations created on one calendar day (YYYY-MM-DD).
type DateGroup struct {
	Date          string          `json:"date"`
	Count         int             `json:"count"`
	Registrations []*Registration `json:"registrations"`
}

// KeyCount is one bucket of a categorical breakdown.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CheckInStats summarises attendance.
type CheckInStats struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	Pending   int `json:"pending"`
}

// PrintStats summarises badge printing.
type PrintStats struct {
	Total      int `json:"total"`
	Printed    int `json:"printed"`
	NotPrinted int `json:"not_printed"`
}

// Report is the admin reporting view over all registrations.
// swagger:model Report
type Report struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	Total         int             `json:"total"`
	ByDate        []DateGroup     `json:"by_date"`
	ByCompany     []KeyCount      `json:"by_company"`
	ByCountry     []KeyCount      `json:"by_country"`
	ByInterest    []KeyCount      `json:"by_interest"`
	CheckIns      CheckInStats    `json:"check_ins"`
	Printing      PrintStats      `json:"printing"`
	Registrations []*Registration `json:"-"`
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalRegistrations int             `json:"total_registrations"`
	CheckedIn          int             `json:"checked_in"`
	CheckedInToday     int             `json:"checked_in_today"`
	CardsPrinted       int             `json:"cards_printed"`
	Recent             []*Registration `json:"recent"`
}

// ExportFormat is a report download format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

// ParseExportFormat validates a format query value.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportXLSX, ExportPDF:
		return f, nil
	case "excel":
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, s)
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Filename returns the download name for a report generated at t.
func (f ExportFormat) Filename(t time.Time) string {
	return fmt.Sprintf("registrations-%s.%s", t.Format("2006-01-02"), f)
}

// ReportRenderer turns a report into a downloadable file.
type ReportRenderer interface {
	Render(format ExportFormat, report *Report) ([]byte, error)
}

// BadgeRenderer renders a printable attendee badge.
type BadgeRenderer interface {
	RenderBadge(r *Registration, eventName string, qrPNG []byte) ([]byte, error)
}

// ReportService builds the reporting and dashboard views.
type ReportService interface {
	Build(ctx context.Context) (*Report, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Export(ctx context.Context, format ExportFormat) ([]byte, error)
}
