// Package export renders registration reports and badges into downloadable files.
package export

import (
	"fmt"
	"time"

	"eventpass/internal/domain"
)

const dateLayout = "2006-01-02"

// Renderer implements domain.ReportRenderer and domain.BadgeRenderer.
type Renderer struct {
	loc *time.Location
}

// NewRenderer returns a Renderer that formats dates in loc (UTC when nil).
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

var (
	_ domain.ReportRenderer = (*Renderer)(nil)
	_ domain.BadgeRenderer  = (*Renderer)(nil)
)

// Render dispatches on format.
func (r *Renderer) Render(format domain.ExportFormat, report *domain.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}
	switch format {
	case domain.ExportCSV:
		return r.CSV(report.Registrations)
	case domain.ExportXLSX:
		return r.XLSX(report.Registrations)
	case domain.ExportPDF:
		return r.PDF(report)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}
}

func checkInStatus(reg *domain.Registration) string {
	if reg.CheckedIn {
		return "Checked In"
	}
	return "Pending"
}

func printStatus(reg *domain.Registration) string {
	if reg.CardPrinted {
		return "Printed"
	}
	return "Not Printed"
}

func (r *Renderer) date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format(dateLayout)
}

// tableRow is the flattened spreadsheet row shared by CSV and XLSX.
func (r *Renderer) tableRow(reg *domain.Registration) []string {
	return []string{
		reg.AttendeeCode,
		reg.FullName,
		reg.Email,
		reg.Company,
		reg.Country,
		checkInStatus(reg),
		r.date(reg.CreatedAt),
	}
}

var tableHeaders = []string{"User ID", "Name", "Email", "Company", "Country", "Status", "Date"}
