package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventpass/internal/adapters/auth"
	"eventpass/internal/adapters/email"
	"eventpass/internal/adapters/export"
	"eventpass/internal/adapters/idgen"
	"eventpass/internal/adapters/qrcode"
	"eventpass/internal/adapters/queue"
	httpdelivery "eventpass/internal/delivery/http"
	"eventpass/internal/delivery/http/controllers"
	"eventpass/internal/delivery/http/middleware"
	"eventpass/internal/domain"
	"eventpass/internal/events"
	"eventpass/internal/repository/postgres"
	"eventpass/internal/services"
	"eventpass/internal/worker"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	serveMigrate       bool
	serveSweepInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the HTTP API",
	GroupID: "server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg, logger := a.cfg, a.logger

		if err := cfg.RequireJWTSecret(); err != nil {
			return err
		}
		if serveMigrate {
			if err := postgres.MigrateUp(a.db); err != nil {
				return err
			}
			logger.Info("migrations applied")
		}

		// Change feed: the hub serves SSE clients; with NATS configured it is fed from the bus.
		hub := events.NewHub()
		var publisher events.Publisher = hub
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			a.onClose(func() { pub.Close() })
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				return err
			}
			a.onClose(func() { sub.Close() })
			go func() {
				if err := events.Forward(ctx, sub, domain.TopicAll, hub); err != nil {
					logger.Error("change feed forwarding stopped", "err", err)
				}
			}()
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			logger.Info("events in-process (NATS_URL not set)")
		}

		registrations := postgres.NewRegistrationRepository(a.db)
		notifications := postgres.NewNotificationRepository(a.db)
		sessions := postgres.NewAdminSessionRepository(a.db)

		contentSvc := services.NewContentService(a.docs, publisher, logger, cfg.Profile.Interests)

		mailer, err := email.NewMailer(email.MailerConfig{
			Provider:    cfg.Email.Provider,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			SES: email.SESConfig{
				Region:             cfg.Email.AWSRegion,
				AccessKeyID:        cfg.Email.AWSAccessKeyID,
				SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
				InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
			},
		}, logger)
		if err != nil {
			return fmt.Errorf("create mailer: %w", err)
		}
		emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
		sender := services.NewConfirmationSender(registrations, contentSvc, emailSvc, logger, cfg.PublicBaseURL, cfg.Profile.Name)

		dispatcher := services.NewInlineDispatcher(sender)
		if cfg.RabbitMQURL != "" {
			qc, err := queue.NewClient(cfg.RabbitMQURL, "eventpass", cfg.RabbitMQQueue, logger)
			if err != nil {
				return err
			}
			a.onClose(qc.Close)
			dispatcher = queue.NewConfirmationPublisher(qc)

			w := worker.NewConfirmationWorker(qc, sender, logger)
			w.Start(ctx)
			a.onClose(w.Stop)
			logger.Info("confirmations queued", "queue", cfg.RabbitMQQueue)
		}

		sweeper := worker.NewSessionSweeper(sessions, serveSweepInterval, logger)
		sweeper.Start(ctx)
		a.onClose(sweeper.Stop)

		qrCodes := qrcode.NewGenerator()
		renderer := export.NewRenderer(cfg.Location)
		tokens := auth.NewJWTIssuer(cfg.JWTSecret)

		registrationSvc := services.NewRegistrationService(services.RegistrationDeps{
			Registrations: registrations,
			Notifications: notifications,
			Settings:      contentSvc,
			Codes:         idgen.NewCodeGenerator(cfg.Profile.AttendeeIDPrefix),
			QRCodes:       qrCodes,
			Confirmations: dispatcher,
			Publisher:     publisher,
			Logger:        logger,
			PublicBaseURL: cfg.PublicBaseURL,
			EventName:     cfg.Profile.Name,
		})
		adminRegistrationSvc := services.NewAdminRegistrationService(services.AdminRegistrationDeps{
			Registrations: registrations,
			Notifications: notifications,
			Settings:      contentSvc,
			QRCodes:       qrCodes,
			Badges:        renderer,
			Publisher:     publisher,
			Logger:        logger,
			PublicBaseURL: cfg.PublicBaseURL,
			EventName:     cfg.Profile.Name,
		})
		authSvc := services.NewAuthService(
			postgres.NewAdminRepository(a.db),
			sessions,
			a.docs,
			auth.NewBcryptHasher(bcrypt.DefaultCost),
			tokens,
			tokens,
			cfg.JWTExpiry,
		)

		router := httpdelivery.NewRouter(httpdelivery.Controllers{
			Health:            controllers.NewHealthController(logger, a.checks),
			Registration:      controllers.NewRegistrationController(logger, registrationSvc),
			AdminRegistration: controllers.NewAdminRegistrationController(logger, adminRegistrationSvc),
			Report:            controllers.NewReportController(logger, services.NewReportService(registrations, renderer, cfg.Location)),
			Content:           controllers.NewContentController(logger, contentSvc),
			Notification:      controllers.NewNotificationController(logger, services.NewNotificationService(notifications, publisher, logger)),
			Auth:              controllers.NewAuthController(logger, authSvc),
			Stream:            controllers.NewStreamController(logger, hub),
		}, authSvc, logger)

		// Request contexts derive from baseCtx so open SSE streams end when shutdown begins.
		baseCtx, cancelBase := context.WithCancel(context.Background())
		defer cancelBase()
		server := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router)),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		}
		server.RegisterOnShutdown(cancelBase)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", server.Addr, "environment", cfg.Environment)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending migrations before serving")
	serveCmd.Flags().DurationVar(&serveSweepInterval, "session-sweep-interval", time.Hour, "how often expired admin sessions are deleted")
}
