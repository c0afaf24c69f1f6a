// Package app wires the configured source and the dashboard together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/voltview/internal/controllers/dashboard"
	"github.com/chrissnell/voltview/internal/log"
	"github.com/chrissnell/voltview/internal/source"
	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// LoadSeries reads the configured source once. An empty source is logged and
// returned as an empty series so the dashboard can still start.
func LoadSeries(ctx context.Context, src source.Source) (voltage.Series, error) {
	log.Infof("loading voltage data from %s", src.Describe())

	series, err := src.Load(ctx)
	switch {
	case errors.Is(err, voltage.ErrEmptyInput):
		log.Warnf("%s contains no data rows; every section will be empty", src.Describe())
	case err != nil:
		return voltage.Series{}, fmt.Errorf("error loading %s: %w", src.Describe(), err)
	default:
		st := voltage.Describe(series)
		log.Infow("voltage data loaded",
			"records", series.Len(),
			"start", st.Start,
			"end", st.End,
			"min", st.Min,
			"max", st.Max,
			"mean", st.Mean,
		)
	}
	return series, nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfgData, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	cfgData.ApplyDefaults()
	if err := cfgData.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	src, err := source.New(cfgData.Source)
	if err != nil {
		return err
	}

	series, err := LoadSeries(ctx, src)
	if err != nil {
		return err
	}

	ctrl, err := dashboard.NewController(ctx, &wg, a.configProvider, series, src.Describe(), a.logger)
	if err != nil {
		return fmt.Errorf("error creating dashboard: %w", err)
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	log.Info("waiting for the dashboard to stop...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
