package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/antoniostano/reminders/internal/config"
	"github.com/antoniostano/reminders/internal/extract"
	"github.com/antoniostano/reminders/internal/httpapi"
	"github.com/antoniostano/reminders/internal/intake"
	"github.com/antoniostano/reminders/internal/observability"
	"github.com/antoniostano/reminders/internal/reminders"
	"github.com/antoniostano/reminders/internal/scanner"
)

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Intake    *intake.Service
	Scanner   *scanner.Scanner
	Store     *reminders.Guarded
	StoreMode string
	Metrics   *observability.Metrics

	// Cleanup should be called on shutdown to release the store (DB pool).
	Cleanup func() error
}

type Options struct {
	Logger *slog.Logger
	// Registry defaults to the Prometheus default registry.
	Registry *prometheus.Registry
	Notifier   scanner.Notifier
}

func Build(ctx context.Context, cfg config.Config, opts Options) (*BuildResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var metrics *observability.Metrics
	if opts.Registry != nil {
		metrics = observability.NewMetricsWith(cfg.MetricsNamespace, opts.Registry)
	} else {
		metrics = observability.NewMetrics(cfg.MetricsNamespace)
	}

	backing, mode, err := reminders.NewStore(ctx, reminders.Options{
		Mode:        cfg.StoreMode,
		FilePath:    cfg.ReminderFile,
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("reminder store init failed: %w", err)
	}
	store := reminders.NewGuarded(backing)

	svc := intake.New(extract.New(), store, metrics, logger)
	scan := scanner.New(scanner.Config{
		Interval:    cfg.ScanInterval,
		LockTimeout: cfg.ScanLockTimeout,
	}, store, opts.Notifier, metrics, logger)

	api := httpapi.New(cfg, svc, scan, metrics, mode, logger)

	cleanup := func() error {
		var errs []string
		if scan.Running() {
			scan.Stop()
		}
		if err := store.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	logger.Info("reminder store ready", "mode", mode)
	return &BuildResult{
		Config:    cfg,
		API:       api,
		Intake:    svc,
		Scanner:   scan,
		Store:     store,
		StoreMode: mode,
		Metrics:   metrics,
		Cleanup:   cleanup,
	}, nil
}
