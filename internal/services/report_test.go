package services

import (
	"context"
	"testing"
	"time"

	"eventpass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRenderer struct {
	format domain.ExportFormat
	report *domain.Report
	err    error
}

func (f *fakeReportRenderer) Render(format domain.ExportFormat, report *domain.Report) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.format = format
	f.report = report
	return []byte("rendered-" + string(format)), nil
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestBuildReport(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	regs := []*domain.Registration{
		{AttendeeCode: "A", Company: "Smile Dental", Country: "Nepal", Interests: []string{"Materials", "Technology"}, CreatedAt: d1, CheckedIn: true},
		{AttendeeCode: "B", Company: "Everest Labs", Country: "India", Interests: []string{"Materials"}, CreatedAt: d1, CardPrinted: true},
		{AttendeeCode: "C", Company: "", Country: "Nepal", Interests: nil, CreatedAt: d2},
		{AttendeeCode: "D", Company: "Smile Dental", Country: " ", Interests: []string{"Technology"}, CreatedAt: d2, CheckedIn: true, CardPrinted: true},
	}

	r := BuildReport(regs, time.UTC, d2)

	assert.Equal(t, 4, r.Total)
	require.Len(t, r.ByDate, 2)
	assert.Equal(t, "2025-03-02", r.ByDate[0].Date)
	assert.Equal(t, 2, r.ByDate[0].Count)
	assert.Equal(t, "2025-03-01", r.ByDate[1].Date)
	assert.Len(t, r.ByDate[1].Registrations, 2)

	assert.Equal(t, []domain.KeyCount{
		{Key: "Smile Dental", Count: 2},
		{Key: "Everest Labs", Count: 1},
		{Key: "Unknown", Count: 1},
	}, r.ByCompany)
	assert.Equal(t, []domain.KeyCount{
		{Key: "Nepal", Count: 2},
		{Key: "India", Count: 1},
		{Key: "Unknown", Count: 1},
	}, r.ByCountry)
	assert.Equal(t, []domain.KeyCount{
		{Key: "Materials", Count: 2},
		{Key: "Technology", Count: 2},
		{Key: "Unknown", Count: 1},
	}, r.ByInterest)

	assert.Equal(t, domain.CheckInStats{Total: 4, CheckedIn: 2, Pending: 2}, r.CheckIns)
	assert.Equal(t, domain.PrintStats{Total: 4, Printed: 2, NotPrinted: 2}, r.Printing)
	assert.Equal(t, regs, r.Registrations)
}

func TestBuildReport_DatesUseLocation(t *testing.T) {
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	regs := []*domain.Registration{
		{AttendeeCode: "A", CreatedAt: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)},
	}
	r := BuildReport(regs, kathmandu, time.Now())
	require.Len(t, r.ByDate, 1)
	assert.Equal(t, "2025-03-02", r.ByDate[0].Date)
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport(nil, time.UTC, time.Now())
	assert.Equal(t, 0, r.Total)
	assert.Empty(t, r.ByDate)
	assert.Empty(t, r.ByCompany)
	assert.Equal(t, domain.CheckInStats{}, r.CheckIns)
}

func TestReportService_Dashboard(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	var regs []*domain.Registration
	for i := 0; i < 7; i++ {
		regs = append(regs, &domain.Registration{
			AttendeeCode: string(rune('A' + i)),
			Email:        string(rune('a'+i)) + "@example.com",
			CreatedAt:    now.Add(-time.Duration(i) * time.Hour),
		})
	}
	regs[0].CheckedIn, regs[0].CheckInTime = true, ptrTime(now.Add(-time.Hour))
	regs[1].CheckedIn, regs[1].CheckInTime = true, ptrTime(now.Add(-24*time.Hour))
	regs[2].CardPrinted = true

	svc := newReportService(newFakeRegistrationRepo(regs...), &fakeReportRenderer{}, time.UTC)
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalRegistrations)
	assert.Equal(t, 2, stats.CheckedIn)
	assert.Equal(t, 1, stats.CheckedInToday)
	assert.Equal(t, 1, stats.CardsPrinted)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, codes(stats.Recent))
}

func TestReportService_Export(t *testing.T) {
	regs := []*domain.Registration{{AttendeeCode: "A", CreatedAt: time.Now()}}
	renderer := &fakeReportRenderer{}
	svc := NewReportService(newFakeRegistrationRepo(regs...), renderer, nil)

	data, err := svc.Export(context.Background(), domain.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, "rendered-xlsx", string(data))
	assert.Equal(t, domain.ExportXLSX, renderer.format)
	assert.Equal(t, 1, renderer.report.Total)

	renderer.err = errBoom
	_, err = svc.Export(context.Background(), domain.ExportPDF)
	require.ErrorIs(t, err, errBoom)
}
