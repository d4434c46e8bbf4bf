package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-mehta/wikiweather/internal/config"
	"github.com/a-mehta/wikiweather/internal/export"
	"github.com/a-mehta/wikiweather/internal/fetcher"
	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/openweather"
	"github.com/a-mehta/wikiweather/internal/scheduler"
	"github.com/a-mehta/wikiweather/internal/services"
	"github.com/a-mehta/wikiweather/internal/storage"
)

type Bootstrap struct {
	config *config.Config
	logger logger.Logger
}

func NewBootstrap() (*Bootstrap, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", cfg.App.Name)

	return &Bootstrap{
		config: cfg,
		logger: log,
	}, nil
}

func (b *Bootstrap) Run() error {
	b.logger.Infof("Starting %s", b.config.App.Name)
	b.logger.Infof("Environment: %s, run mode: %s, cities: %d",
		b.config.App.Env, b.config.App.RunMode, len(b.config.Cities))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		b.logger.Infof("Received signal: %v. Shutting down...", sig)
		cancel()
	}()

	service, err := b.initService()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	if err := service.HealthCheck(ctx); err != nil {
		service.Stop()
		return fmt.Errorf("initial health check failed: %w", err)
	}

	if b.config.App.RunMode == config.RunModeOnce {
		summary, err := service.RunOnce(ctx)
		service.Stop()
		if err != nil {
			return fmt.Errorf("extraction run failed: %w", err)
		}
		b.logger.Infof("Run finished: %d/%d cities successful", summary.Processed, summary.Total)
		return nil
	}

	// Recurring mode runs once immediately, then on the interval.
	if _, err := service.RunOnce(ctx); err != nil {
		b.logger.Errorf("Initial extraction run failed: %v", err)
	}

	if err := service.Start(ctx, b.config.Scheduler.Interval); err != nil {
		service.Stop()
		return fmt.Errorf("failed to start service: %w", err)
	}

	<-ctx.Done()

	b.logger.Info("Stopping service...")
	service.Stop()

	b.logger.Info("Service stopped gracefully")
	return nil
}

func (b *Bootstrap) initService() (services.Service, error) {
	b.logger.Info("Initializing dependencies...")

	store, err := storage.NewSQLiteStore(b.config.Database.Path, b.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	pageFetcher := fetcher.NewWikipediaFetcher(
		b.config.Fetcher.Timeout,
		b.config.Fetcher.Delay,
		b.config.Fetcher.UserAgent,
		b.logger,
	)

	var current openweather.CurrentProvider
	if b.config.OpenWeather.APIKey != "" {
		current = openweather.NewClient(
			b.config.OpenWeather.BaseURL,
			b.config.OpenWeather.APIKey,
			b.config.OpenWeather.Units,
			b.logger,
		)
		b.logger.Info("Current-conditions collection enabled")
	} else {
		b.logger.Info("Current-conditions collection disabled (no API key)")
	}

	var exporter export.ReportGenerator
	if b.config.Report.Path != "" {
		exporter = export.NewExcelGenerator(b.logger)
		b.logger.Infof("Report export enabled: %s", b.config.Report.Path)
	}

	cronScheduler := scheduler.NewCronScheduler(b.config.Scheduler.Timeout, b.logger)

	return services.NewExtractionService(services.Options{
		Fetcher:    pageFetcher,
		Store:      store,
		Scheduler:  cronScheduler,
		Current:    current,
		Exporter:   exporter,
		ReportPath: b.config.Report.Path,
		Cities:     b.config.Cities,
		Logger:     b.logger,
	}), nil
}
