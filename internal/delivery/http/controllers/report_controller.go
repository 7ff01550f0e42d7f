package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

// ReportSuccessResponse is the success response envelope for GET /admin/reports (200).
type ReportSuccessResponse struct {
	Data  *domain.Report    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DashboardSuccessResponse is the success response envelope for GET /admin/dashboard (200).
type DashboardSuccessResponse struct {
	Data  *domain.DashboardStats `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ReportController handles the dashboard, reports, and exports.
type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
	now     func() time.Time
}

// NewReportController creates a ReportController with the given logger and service.
func NewReportController(logger *slog.Logger, svc domain.ReportService) *ReportController {
	return &ReportController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// Dashboard godoc
// @Summary Dashboard summary
// @Description Totals, today's check-ins, cards printed, and the five most recent registrations.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DashboardSuccessResponse "data contains the dashboard stats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/dashboard [get]
func (c *ReportController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// Report godoc
// @Summary Registration report
// @Description Breakdowns by date, company, country, and interest, plus check-in and print statistics.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ReportSuccessResponse "data contains the report"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/reports [get]
func (c *ReportController) Report(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.Build(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Export godoc
// @Summary Export registrations
// @Description Downloads every registration as CSV, an Excel workbook, or a PDF table.
// @Tags reports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "Export format (default csv)" Enums(csv, xlsx, pdf)
// @Success 200 {file} binary
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/reports/export [get]
func (c *ReportController) Export(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(domain.ExportCSV)
	}
	format, err := domain.ParseExportFormat(raw)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "format must be one of: csv, xlsx, pdf")
		return
	}
	data, err := c.Service.Export(r.Context(), format)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteFile(w, format.ContentType(), format.Filename(c.now()), data)
}
