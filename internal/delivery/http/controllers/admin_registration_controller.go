package controllers

import (
	"log/slog"
	"net/http"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

// BulkDeleteRequest is the request body for POST /admin/registrations/bulk-delete
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// Validate implements Validator.
func (b BulkDeleteRequest) Validate() []string {
	if len(b.IDs) == 0 {
		return []string{"ids must include at least one registration"}
	}
	return nil
}

// RegistrationListResponse is the paginated registration list.
type RegistrationListResponse struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// RegistrationListSuccessResponse is the success response envelope for GET /admin/registrations (200).
type RegistrationListSuccessResponse struct {
	Data  RegistrationListResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// BulkDeleteSuccessResponse is the success response envelope for POST /admin/registrations/bulk-delete (200).
type BulkDeleteSuccessResponse struct {
	Data  *domain.BulkDeleteResult `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// AdminRegistrationController handles the back-office registration list.
type AdminRegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationAdminService
}

// NewAdminRegistrationController creates an AdminRegistrationController with the given logger and service.
func NewAdminRegistrationController(logger *slog.Logger, svc domain.RegistrationAdminService) *AdminRegistrationController {
	return &AdminRegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List registrations
// @Description Newest first. search matches name, email, or company (case-insensitive); print filters by badge state.
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param print query string false "Badge filter" Enums(all, printed, not-printed)
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.RegistrationListSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations [get]
func (c *AdminRegistrationController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	filter := domain.RegistrationFilter{
		Search: r.URL.Query().Get("search"),
		Print:  domain.ParsePrintStatus(r.URL.Query().Get("print")),
	}
	items, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	if items == nil {
		items = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Get godoc
// @Summary Get a registration
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id} [get]
func (c *AdminRegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	reg, err := c.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Delete godoc
// @Summary Delete a registration
// @Description Deletes the registration and its notifications.
// @Tags admin-registrations
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id} [delete]
func (c *AdminRegistrationController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err, "registration not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete godoc
// @Summary Delete several registrations
// @Description Deletes each ID independently and reports how many succeeded and which failed.
// @Tags admin-registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkDeleteRequest true "Registration IDs"
// @Success 200 {object} controllers.BulkDeleteSuccessResponse "data contains deleted, failed, failed_ids"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/bulk-delete [post]
func (c *AdminRegistrationController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// MarkCardPrinted godoc
// @Summary Mark a badge as printed
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the updated registration"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id}/card-printed [post]
func (c *AdminRegistrationController) MarkCardPrinted(w http.ResponseWriter, r *http.Request) {
	reg, err := c.Service.MarkCardPrinted(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "registration not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// PrintBadge godoc
// @Summary Print a badge
// @Description Renders the attendee badge as a PDF and marks the card printed.
// @Tags admin-registrations
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {file} binary
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id}/badge [post]
func (c *AdminRegistrationController) PrintBadge(w http.ResponseWriter, r *http.Request) {
	pdf, reg, err := c.Service.PrintBadge(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "registration not found")
		return
	}
	helpers.WriteFile(w, "application/pdf", "badge-"+reg.AttendeeCode+".pdf", pdf)
}
