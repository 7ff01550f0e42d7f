package controllers

import (
	"log/slog"
	"net/http"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

// MarkAllReadResponse is the response body for POST /admin/notifications/read-all
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// NotificationFeedSuccessResponse is the success response envelope for GET /admin/notifications (200).
type NotificationFeedSuccessResponse struct {
	Data  *domain.NotificationFeed `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// MarkAllReadSuccessResponse is the success response envelope for POST /admin/notifications/read-all (200).
type MarkAllReadSuccessResponse struct {
	Data  MarkAllReadResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// NotificationController handles the admin notification panel.
type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

// NewNotificationController creates a NotificationController with the given logger and service.
func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary Latest notifications
// @Description The 50 newest notifications with the unread count among them.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.NotificationFeedSuccessResponse "data contains notifications and unread_count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	feed, err := c.Service.ListLatest(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, feed)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MarkAllReadSuccessResponse "data contains the number of notifications updated"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/notifications/read-all [post]
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := c.Service.MarkAllRead(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MarkAllReadResponse{Updated: n})
}
