package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"eventpass/internal/domain"
)

const (
	reportDateLayout = "2006-01-02"
	recentCount      = 5
)

type reportService struct {
	repo     domain.RegistrationRepository
	renderer domain.ReportRenderer
	loc      *time.Location
	now      func() time.Time
}

// NewReportService returns the reports and dashboard service. Days are bucketed in loc.
func NewReportService(repo domain.RegistrationRepository, renderer domain.ReportRenderer, loc *time.Location) domain.ReportService {
	return newReportService(repo, renderer, loc)
}

func newReportService(repo domain.RegistrationRepository, renderer domain.ReportRenderer, loc *time.Location) *reportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{repo: repo, renderer: renderer, loc: loc, now: time.Now}
}

func (s *reportService) Build(ctx context.Context) (*domain.Report, error) {
	regs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return BuildReport(regs, s.loc, s.now()), nil
}

// BuildReport reduces regs into date, company, country, and interest tallies plus
// check-in and print counts.
func BuildReport(regs []*domain.Registration, loc *time.Location, generatedAt time.Time) *domain.Report {
	report := &domain.Report{
		GeneratedAt:   generatedAt,
		Total:         len(regs),
		Registrations: regs,
		ByDate:        []domain.DateGroup{},
	}

	byDate := map[string]*domain.DateGroup{}
	companies := map[string]int{}
	countries := map[string]int{}
	interests := map[string]int{}

	for _, r := range regs {
		day := r.CreatedAt.In(loc).Format(reportDateLayout)
		g, ok := byDate[day]
		if !ok {
			g = &domain.DateGroup{Date: day}
			byDate[day] = g
		}
		g.Count++
		g.Registrations = append(g.Registrations, r)

		companies[labelOrUnknown(r.Company)]++
		countries[labelOrUnknown(r.Country)]++
		if len(r.Interests) == 0 {
			interests[domain.UnknownLabel]++
		}
		for _, in := range r.Interests {
			interests[labelOrUnknown(in)]++
		}

		if r.CheckedIn {
			report.CheckIns.CheckedIn++
		}
		if r.CardPrinted {
			report.Printing.Printed++
		}
	}

	for _, g := range byDate {
		report.ByDate = append(report.ByDate, *g)
	}
	sort.Slice(report.ByDate, func(i, j int) bool { return report.ByDate[i].Date > report.ByDate[j].Date })

	report.ByCompany = sortedCounts(companies)
	report.ByCountry = sortedCounts(countries)
	report.ByInterest = sortedCounts(interests)

	report.CheckIns.Total = len(regs)
	report.CheckIns.Pending = len(regs) - report.CheckIns.CheckedIn
	report.Printing.Total = len(regs)
	report.Printing.NotPrinted = len(regs) - report.Printing.Printed
	return report
}

func labelOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return domain.UnknownLabel
	}
	return s
}

// sortedCounts orders buckets by count descending, then key ascending.
func sortedCounts(m map[string]int) []domain.KeyCount {
	out := make([]domain.KeyCount, 0, len(m))
	for k, c := range m {
		out = append(out, domain.KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func (s *reportService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	regs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	today := s.now().In(s.loc).Format(reportDateLayout)
	stats := &domain.DashboardStats{TotalRegistrations: len(regs), Recent: []*domain.Registration{}}
	for _, r := range regs {
		if r.CheckedIn {
			stats.CheckedIn++
			if r.CheckInTime != nil && r.CheckInTime.In(s.loc).Format(reportDateLayout) == today {
				stats.CheckedInToday++
			}
		}
		if r.CardPrinted {
			stats.CardsPrinted++
		}
	}

	recent := make([]*domain.Registration, len(regs))
	copy(recent, regs)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > recentCount {
		recent = recent[:recentCount]
	}
	stats.Recent = append(stats.Recent, recent...)
	return stats, nil
}

func (s *reportService) Export(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	report, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.renderer.Render(format, report)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}
	return data, nil
}
