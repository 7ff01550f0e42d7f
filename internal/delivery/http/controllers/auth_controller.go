package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/delivery/http/middleware"
	"eventpass/internal/domain"
)

// LoginRequest is the request body for POST /admin/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /admin/auth/login
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	Admin     *domain.Admin `json:"admin"`
}

// LoginSuccessResponse is the success response envelope for POST /admin/auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetMeSuccessResponse is the success response envelope for GET /admin/me (200).
type GetMeSuccessResponse struct {
	Data  *domain.Admin     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AuthController handles admin sign-in, sign-out, and profile endpoints.
type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

// NewAuthController creates an AuthController with the given logger and service.
func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Admin log in
// @Description Authenticate with email and password. Returns a JWT bound to a server-side session.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type, and admin"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, admin, err := c.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", Admin: admin})
}

// Logout godoc
// @Summary Admin log out
// @Description Ends the session behind the bearer token; the token is rejected afterwards.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.SignOut(r.Context(), token); err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe godoc
// @Summary Current admin
// @Description Returns the signed-in admin's profile.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GetMeSuccessResponse "data contains the admin"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/me [get]
func (c *AuthController) GetMe(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	admin, err := c.Service.GetAdmin(r.Context(), adminID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "admin not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, admin)
}
