package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
	"eventpass/internal/validation"
)

const (
	registrationNotFoundMsg = "No registration found with the provided details"
	checkInNotFoundMsg      = "Verification Failed"
)

// RegisterRequest is the request body for POST /registrations
type RegisterRequest struct {
	FullName     string   `json:"full_name" validate:"required,max=200"`
	Email        string   `json:"email" validate:"required,email,max=254"`
	MobileNumber string   `json:"mobile_number" validate:"required,max=40"`
	Company      string   `json:"company" validate:"required,max=200"`
	JobTitle     string   `json:"job_title" validate:"required,max=200"`
	Country      string   `json:"country" validate:"required,max=100"`
	Interests    []string `json:"interests" validate:"min=1,dive,required"`
}

// Input returns the normalized domain input.
func (req RegisterRequest) Input() domain.RegistrationInput {
	in := domain.RegistrationInput(req)
	in.Normalize()
	return in
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	return validation.Messages(req.Input())
}

// CheckInResponse is the response body for POST /check-in/{id}
type CheckInResponse struct {
	Registration     *domain.Registration `json:"registration"`
	AlreadyCheckedIn bool                 `json:"already_checked_in"`
}

// RegistrationSuccessResponse is the success response envelope for endpoints returning one registration.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationStatusSuccessResponse is the success response envelope for GET /registration/status (200).
type RegistrationStatusSuccessResponse struct {
	Data  *domain.RegistrationStatus `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// CheckInSuccessResponse is the success response envelope for POST /check-in/{id} (200).
type CheckInSuccessResponse struct {
	Data  CheckInResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RegistrationController handles the public registration, pass, and check-in endpoints.
type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

// NewRegistrationController creates a RegistrationController with the given logger and service.
func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Status godoc
// @Summary Registration status
// @Description Reports whether the public form accepts registrations, with the event name and the selectable interests.
// @Tags registrations
// @Produce json
// @Success 200 {object} controllers.RegistrationStatusSuccessResponse "data contains enabled, event_name, interests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registration/status [get]
func (c *RegistrationController) Status(w http.ResponseWriter, r *http.Request) {
	status, err := c.Service.Status(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// Register godoc
// @Summary Register an attendee
// @Description Creates a registration, issues an attendee code and QR pass, and sends a confirmation email.
// @Tags registrations
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration form"
// @Success 201 {object} controllers.RegistrationSuccessResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error, bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: registration_closed"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.Register(r.Context(), req.Input())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Verify godoc
// @Summary Verify a registration
// @Description Looks up a registration by attendee ID (e.g. NEPDENT-12345) or by email.
// @Tags registrations
// @Produce json
// @Param by query string true "Lookup key" Enums(id, email)
// @Param value query string true "Attendee ID or email"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/verify [get]
func (c *RegistrationController) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	by := domain.VerifyBy(strings.ToLower(strings.TrimSpace(q.Get("by"))))
	reg, err := c.Service.Verify(r.Context(), by, q.Get("value"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, registrationNotFoundMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// GetPass godoc
// @Summary Get a digital pass
// @Description Returns the attendee details shown on the digital pass, including the QR code URL.
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID or attendee code"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id}/pass [get]
func (c *RegistrationController) GetPass(w http.ResponseWriter, r *http.Request) {
	reg, err := c.Service.GetPass(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, registrationNotFoundMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// QRCode godoc
// @Summary Get the pass QR code
// @Description Renders the check-in URL of the registration as a PNG QR code.
// @Tags registrations
// @Produce png
// @Param id path string true "Registration ID or attendee code"
// @Param size query int false "Image size in pixels (64-1024, default 256)"
// @Success 200 {file} binary
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id}/qr.png [get]
func (c *RegistrationController) QRCode(w http.ResponseWriter, r *http.Request) {
	size := helpers.QueryInt(r, "size", 0, 1, 0)
	png, err := c.Service.QRCode(r.Context(), r.PathValue("id"), size)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, registrationNotFoundMsg)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	helpers.WriteFile(w, "image/png", "", png)
}

// CheckIn godoc
// @Summary Check in an attendee
// @Description Marks the attendee as checked in. Scanning a pass twice keeps the first check-in time and reports already_checked_in.
// @Tags check-in
// @Produce json
// @Param id path string true "Registration ID or attendee code"
// @Success 200 {object} controllers.CheckInSuccessResponse "data contains the registration and already_checked_in"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /check-in/{id} [post]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	reg, already, err := c.Service.CheckIn(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, checkInNotFoundMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckInResponse{Registration: reg, AlreadyCheckedIn: already})
}
