package http

import (
	"log/slog"
	"net/http"

	"eventpass/internal/delivery/http/controllers"
	"eventpass/internal/delivery/http/middleware"
	"eventpass/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Health            *controllers.HealthController
	Registration      *controllers.RegistrationController
	AdminRegistration *controllers.AdminRegistrationController
	Report            *controllers.ReportController
	Content           *controllers.ContentController
	Notification      *controllers.NotificationController
	Auth              *controllers.AuthController
	Stream            *controllers.StreamController
}

// NewRouter initializes the HTTP router with all application routes.
// Routes under /admin, except login, require a live admin session.
func NewRouter(c Controllers, verifier domain.SessionVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Public
	mux.HandleFunc("GET /health", c.Health.Health)
	mux.HandleFunc("GET /content/homepage", c.Content.GetHomepage)
	mux.HandleFunc("GET /registration/status", c.Registration.Status)
	mux.HandleFunc("POST /registrations", c.Registration.Register)
	mux.HandleFunc("GET /registrations/verify", c.Registration.Verify)
	mux.HandleFunc("GET /registrations/{id}/pass", c.Registration.GetPass)
	mux.HandleFunc("GET /registrations/{id}/qr.png", c.Registration.QRCode)
	mux.HandleFunc("POST /check-in/{id}", c.Registration.CheckIn)

	// Admin auth
	mux.HandleFunc("POST /admin/auth/login", c.Auth.Login)
	mux.HandleFunc("POST /admin/auth/logout", auth(c.Auth.Logout))
	mux.HandleFunc("GET /admin/me", auth(c.Auth.GetMe))

	// Admin back-office
	mux.HandleFunc("GET /admin/dashboard", auth(c.Report.Dashboard))
	mux.HandleFunc("GET /admin/registrations", auth(c.AdminRegistration.List))
	mux.HandleFunc("GET /admin/registrations/{id}", auth(c.AdminRegistration.Get))
	mux.HandleFunc("DELETE /admin/registrations/{id}", auth(c.AdminRegistration.Delete))
	mux.HandleFunc("POST /admin/registrations/bulk-delete", auth(c.AdminRegistration.BulkDelete))
	mux.HandleFunc("POST /admin/registrations/{id}/card-printed", auth(c.AdminRegistration.MarkCardPrinted))
	mux.HandleFunc("POST /admin/registrations/{id}/badge", auth(c.AdminRegistration.PrintBadge))
	mux.HandleFunc("GET /admin/reports", auth(c.Report.Report))
	mux.HandleFunc("GET /admin/reports/export", auth(c.Report.Export))
	mux.HandleFunc("GET /admin/notifications", auth(c.Notification.List))
	mux.HandleFunc("POST /admin/notifications/{id}/read", auth(c.Notification.MarkRead))
	mux.HandleFunc("POST /admin/notifications/read-all", auth(c.Notification.MarkAllRead))
	mux.HandleFunc("GET /admin/events/stream", auth(c.Stream.Stream))
	mux.HandleFunc("GET /admin/content/homepage", auth(c.Content.GetHomepage))
	mux.HandleFunc("PUT /admin/content/homepage", auth(c.Content.SaveHomepage))
	mux.HandleFunc("GET /admin/settings/general", auth(c.Content.GetGeneralSettings))
	mux.HandleFunc("PUT /admin/settings/general", auth(c.Content.SaveGeneralSettings))
	mux.HandleFunc("GET /admin/settings/interests", auth(c.Content.GetInterests))
	mux.HandleFunc("PUT /admin/settings/interests", auth(c.Content.SaveInterests))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
