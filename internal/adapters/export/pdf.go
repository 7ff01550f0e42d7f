package export

import (
	"bytes"
	"fmt"
	"strings"

	"eventpass/internal/domain"

	"github.com/go-pdf/fpdf"
)

const pdfFont = "Helvetica"

type pdfColumn struct {
	title string
	width float64
	value func(r *Renderer, reg *domain.Registration) string
}

// Widths add up to the printable width of landscape A4 with 10mm margins.
var pdfColumns = []pdfColumn{
	{"User ID", 30, func(_ *Renderer, reg *domain.Registration) string { return reg.AttendeeCode }},
	{"Name", 45, func(_ *Renderer, reg *domain.Registration) string { return reg.FullName }},
	{"Email", 60, func(_ *Renderer, reg *domain.Registration) string { return reg.Email }},
	{"Company", 40, func(_ *Renderer, reg *domain.Registration) string { return reg.Company }},
	{"Country", 30, func(_ *Renderer, reg *domain.Registration) string { return reg.Country }},
	{"Check-in Status", 27, func(_ *Renderer, reg *domain.Registration) string { return checkInStatus(reg) }},
	{"Print Status", 25, func(_ *Renderer, reg *domain.Registration) string { return printStatus(reg) }},
	{"Date", 20, func(r *Renderer, reg *domain.Registration) string { return r.date(reg.CreatedAt) }},
}

// PDF renders a landscape report: title, summary lines, then the registrations table.
func (r *Renderer) PDF(report *domain.Report) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 10, "Registration Report", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.In(r.loc).Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(pdfFont, "", 11)
	for _, line := range []string{
		fmt.Sprintf("Total Registrations: %d", report.Total),
		fmt.Sprintf("Checked In: %d", report.CheckIns.CheckedIn),
		fmt.Sprintf("Pending Check-in: %d", report.CheckIns.Pending),
		fmt.Sprintf("Cards Printed: %d", report.Printing.Printed),
		fmt.Sprintf("Cards Pending Print: %d", report.Printing.NotPrinted),
	} {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(2, 132, 199)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 8)
	pdf.SetTextColor(15, 23, 42)
	for _, reg := range report.Registrations {
		for _, col := range pdfColumns {
			text := fitText(pdf, tr(col.value(r, reg)), col.width-2)
			pdf.CellFormat(col.width, 6, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return outputPDF(pdf)
}

// fitText shortens s with an ellipsis until it fits in width millimetres.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimSpace(string(runes)) + "..."
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

func outputPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
