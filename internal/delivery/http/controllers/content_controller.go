package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

// InterestsRequest is the request body for PUT /admin/settings/interests
type InterestsRequest struct {
	Interests []string `json:"interests"`
}

// Validate implements Validator.
func (i InterestsRequest) Validate() []string {
	if len(i.Interests) == 0 {
		return []string{"interests must include at least one entry"}
	}
	return nil
}

// InterestsResponse is the response body of the interests endpoints.
type InterestsResponse struct {
	Interests []string `json:"interests"`
}

// DocumentSuccessResponse is the success response envelope for the homepage content endpoints (200).
type DocumentSuccessResponse struct {
	Data  domain.Document   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GeneralSettingsSuccessResponse is the success response envelope for the general settings endpoints (200).
type GeneralSettingsSuccessResponse struct {
	Data  *domain.GeneralSettings `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// InterestsSuccessResponse is the success response envelope for the interests endpoints (200).
type InterestsSuccessResponse struct {
	Data  InterestsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ContentController handles the homepage CMS and the settings pages.
type ContentController struct {
	Logger  *slog.Logger
	Service domain.ContentService
}

// NewContentController creates a ContentController with the given logger and service.
func NewContentController(logger *slog.Logger, svc domain.ContentService) *ContentController {
	return &ContentController{
		Logger:  logger,
		Service: svc,
	}
}

// GetHomepage godoc
// @Summary Homepage content
// @Description Returns the homepage CMS document (hero, stats, speakers, testimonials, features, eventDetails). Empty object when nothing was saved yet.
// @Tags content
// @Produce json
// @Success 200 {object} controllers.DocumentSuccessResponse "data contains the homepage document"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /content/homepage [get]
func (c *ContentController) GetHomepage(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Service.GetHomepage(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, doc)
}

// SaveHomepage godoc
// @Summary Save homepage content
// @Description Replaces the homepage document, or merges its top-level keys when merge=true.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param merge query bool false "Merge top-level keys instead of replacing"
// @Param body body object true "Homepage document"
// @Success 200 {object} controllers.DocumentSuccessResponse "data contains the saved document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/content/homepage [put]
func (c *ContentController) SaveHomepage(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if !helpers.DecodeJSON(w, r, &doc) {
		return
	}
	merge, _ := strconv.ParseBool(r.URL.Query().Get("merge"))
	saved, err := c.Service.SaveHomepage(r.Context(), doc, merge)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, saved)
}

// GetGeneralSettings godoc
// @Summary General settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GeneralSettingsSuccessResponse "data contains the settings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/settings/general [get]
func (c *ContentController) GetGeneralSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.Service.GetGeneralSettings(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// SaveGeneralSettings godoc
// @Summary Save general settings
// @Description Fields left out of the body keep their stored value.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.GeneralSettings true "Settings"
// @Success 200 {object} controllers.GeneralSettingsSuccessResponse "data contains the saved settings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/settings/general [put]
func (c *ContentController) SaveGeneralSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.GeneralSettings
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	saved, err := c.Service.SaveGeneralSettings(r.Context(), &req)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, saved)
}

// GetInterests godoc
// @Summary Interest options
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.InterestsSuccessResponse "data contains the interests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/settings/interests [get]
func (c *ContentController) GetInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := c.Service.GetInterests(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InterestsResponse{Interests: interests})
}

// SaveInterests godoc
// @Summary Save interest options
// @Description Entries are trimmed and de-duplicated case-insensitively.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InterestsRequest true "Interests"
// @Success 200 {object} controllers.InterestsSuccessResponse "data contains the saved interests"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/settings/interests [put]
func (c *ContentController) SaveInterests(w http.ResponseWriter, r *http.Request) {
	var req InterestsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	saved, err := c.Service.SaveInterests(r.Context(), req.Interests)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InterestsResponse{Interests: saved})
}
