// Package bootstrap wires configuration, storage, the pipeline, and
// the HTTP server into a runnable service.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/firehallhq/cadintel/internal/api"
	"github.com/firehallhq/cadintel/internal/bayes"
	"github.com/firehallhq/cadintel/internal/config"
	"github.com/firehallhq/cadintel/internal/database"
	"github.com/firehallhq/cadintel/internal/extractor"
	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/parser"
	"github.com/firehallhq/cadintel/internal/pattern"
	"github.com/firehallhq/cadintel/internal/reconciler"
	"github.com/firehallhq/cadintel/internal/review"
	"github.com/firehallhq/cadintel/internal/rmsclient"
	"github.com/firehallhq/cadintel/internal/scheduler"
	"github.com/firehallhq/cadintel/internal/telemetry"
	"github.com/firehallhq/cadintel/internal/training"
)

// Components holds every wired piece of the running service.
type Components struct {
	Config    *config.Config
	Logger    logger.Logger
	DB        *sqlx.DB
	Model     *bayes.Model
	Training  *training.Service
	Scheduler *scheduler.Scheduler
	Server    *api.Server
}

// LoadConfig loads configuration, using defaults when no config file
// exists.
func LoadConfig() (*config.Config, error) {
	return config.Load(config.GetConfigPath("config.yml"))
}

// New assembles the full service.
func New(cfg *config.Config) (*Components, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	bundles := database.NewBundleRepository(db)
	trainingRepo := database.NewTrainingRepository(db)

	var store reconciler.IncidentStore
	if cfg.RMS.BaseURL != "" {
		store = rmsclient.NewClient(cfg.RMS.BaseURL, cfg.RMS.APIKey, cfg.RMS.Timeout)
	} else {
		// Standalone deployment without an RMS keeps canonical fields
		// in process.
		store = rmsclient.NewMemoryStore()
		log.Warn("no RMS base URL configured, using in-memory field store")
	}

	model := bayes.NewModel()
	trainingSvc := training.NewService(trainingRepo, model, cfg.Training, log)
	if err := trainingSvc.Bootstrap(context.Background()); err != nil {
		log.Warn("classifier bootstrap incomplete, pattern layer only", logger.Error(err))
	}

	rec := reconciler.New(store, log)
	matcher := pattern.NewMatcher(pattern.DefaultRules(), log)
	ex := extractor.New(extractor.DefaultEventRules(), log)
	p := parser.New(matcher, model, ex, rec, cfg.Pipeline.MLConfidenceThreshold, log)

	reviewSvc := review.NewService(bundles, trainingRepo, log)

	var sched *scheduler.Scheduler
	if cfg.Training.ScheduleEnabled {
		sched, err = scheduler.New(cfg.Training.RetrainSchedule, trainingSvc, log)
		if err != nil {
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
	}

	tel := telemetry.NewProvider()
	handler := api.NewHandler(p, bundles, reviewSvc, rec, trainingSvc, tel, db, log)
	server := api.NewServer(handler, tel, cfg.Service.Port, cfg.Service.Debug, log)

	return &Components{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Model:     model,
		Training:  trainingSvc,
		Scheduler: sched,
		Server:    server,
	}, nil
}

// Run starts the server and scheduler and blocks until SIGINT/SIGTERM,
// then shuts everything down in order.
func (c *Components) Run() error {
	if c.Scheduler != nil {
		c.Scheduler.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		c.Logger.Info("shutting down", logger.String("signal", sig.String()))
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if err := c.Server.Shutdown(context.Background()); err != nil {
		c.Logger.Error("server shutdown failed", logger.Error(err))
	}
	if err := c.DB.Close(); err != nil {
		c.Logger.Error("database close failed", logger.Error(err))
	}
	return c.Logger.Sync()
}
