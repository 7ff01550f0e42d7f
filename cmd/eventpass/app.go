package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"eventpass/config"
	"eventpass/internal/delivery/http/controllers"
	"eventpass/internal/domain"
	mongorepo "eventpass/internal/repository/mongo"
	"eventpass/internal/repository/postgres"

	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// app holds the configuration and stores shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	docs   domain.DocumentRepository
	checks map[string]controllers.Pinger

	closers []func()
}

// newApp loads configuration, opens PostgreSQL, and opens the configured document store.
func newApp(ctx context.Context) (*app, error) {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		checks: map[string]controllers.Pinger{"postgres": db},
	}
	a.onClose(func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "err", err)
		}
	})

	switch cfg.ContentStore {
	case "mongo":
		client, err := mongorepo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.onClose(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Error("failed to disconnect from MongoDB", "err", err)
			}
		})
		a.docs = mongorepo.NewDocumentRepository(client.Database(cfg.MongoDatabase))
		a.checks["mongo"] = controllers.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		})
		logger.Info("content store: mongo", "database", cfg.MongoDatabase)
	default:
		a.docs = postgres.NewDocumentRepository(db)
		logger.Info("content store: postgres")
	}
	return a, nil
}

// onClose registers fn to run on Close, in reverse registration order.
func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
