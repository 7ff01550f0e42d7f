package export

import (
	"bytes"
	"fmt"

	"eventpass/internal/domain"

	"github.com/go-pdf/fpdf"
)

// Badge page size in millimetres (A6 portrait).
const (
	badgeWidth  = 105.0
	badgeHeight = 148.0
)

// RenderBadge lays out a single printable badge: event banner, attendee name and company,
// attendee code, and the check-in QR code.
func (r *Renderer) RenderBadge(reg *domain.Registration, eventName string, qrPNG []byte) ([]byte, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registration", domain.ErrInvalidInput)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: badgeWidth, Ht: badgeHeight},
	})
	pdf.SetMargins(8, 8, 8)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(2, 132, 199)
	pdf.Rect(0, 0, badgeWidth, 26, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(pdfFont, "B", 16)
	pdf.SetXY(8, 8)
	pdf.CellFormat(badgeWidth-16, 10, tr(eventName), "", 1, "C", false, 0, "")

	pdf.SetTextColor(15, 23, 42)
	pdf.SetXY(8, 34)
	pdf.SetFont(pdfFont, "B", 20)
	pdf.CellFormat(badgeWidth-16, 10, fitText(pdf, tr(reg.FullName), badgeWidth-16), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 12)
	pdf.SetTextColor(71, 85, 105)
	if reg.JobTitle != "" {
		pdf.CellFormat(badgeWidth-16, 7, fitText(pdf, tr(reg.JobTitle), badgeWidth-16), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(badgeWidth-16, 7, fitText(pdf, tr(reg.Company), badgeWidth-16), "", 1, "C", false, 0, "")
	pdf.CellFormat(badgeWidth-16, 7, fitText(pdf, tr(reg.Country), badgeWidth-16), "", 1, "C", false, 0, "")

	if len(qrPNG) > 0 {
		const qrSize = 50.0
		name := "qr-" + reg.ID
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
		pdf.ImageOptions(name, (badgeWidth-qrSize)/2, 72, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.SetXY(8, 126)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(badgeWidth-16, 8, reg.AttendeeCode, "", 1, "C", false, 0, "")

	return outputPDF(pdf)
}
