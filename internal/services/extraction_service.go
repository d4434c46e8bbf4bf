package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/a-mehta/wikiweather/internal/config"
	"github.com/a-mehta/wikiweather/internal/export"
	"github.com/a-mehta/wikiweather/internal/extract"
	"github.com/a-mehta/wikiweather/internal/fetcher"
	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/openweather"
	"github.com/a-mehta/wikiweather/internal/scheduler"
	"github.com/a-mehta/wikiweather/internal/storage"
)

type Service interface {
	RunOnce(ctx context.Context) (*RunSummary, error)
	Start(ctx context.Context, interval time.Duration) error
	Stop()
	HealthCheck(ctx context.Context) error
}

// RunSummary is the user-visible outcome of one extraction run: every
// city either counts as processed or appears in FailedCities by name.
type RunSummary struct {
	Total        int
	Processed    int
	FailedCities []string
}

type ExtractionService struct {
	fetcher    fetcher.PageFetcher
	runner     *extract.Runner
	store      storage.Repository
	scheduler  scheduler.Scheduler
	current    openweather.CurrentProvider
	exporter   export.ReportGenerator
	reportPath string
	cities     []config.CityConfig
	logger     logger.Logger
}

type Options struct {
	Fetcher   fetcher.PageFetcher
	Store     storage.Repository
	Scheduler scheduler.Scheduler
	// Current enables the supplementary API collection when non-nil.
	Current openweather.CurrentProvider
	// Exporter writes the tabular report to ReportPath when non-nil.
	Exporter   export.ReportGenerator
	ReportPath string
	Cities     []config.CityConfig
	Logger     logger.Logger
}

func NewExtractionService(opts Options) *ExtractionService {
	return &ExtractionService{
		fetcher:    opts.Fetcher,
		runner:     extract.NewRunner(opts.Logger),
		store:      opts.Store,
		scheduler:  opts.Scheduler,
		current:    opts.Current,
		exporter:   opts.Exporter,
		reportPath: opts.ReportPath,
		cities:     opts.Cities,
		logger:     opts.Logger.WithField("component", "extraction_service"),
	}
}

// RunOnce processes every configured city sequentially: fetch, extract,
// persist. A fetch failure skips that city only; a persistence failure
// aborts the run and propagates.
func (s *ExtractionService) RunOnce(ctx context.Context) (*RunSummary, error) {
	startTime := time.Now()
	summary := &RunSummary{Total: len(s.cities)}

	s.logger.Infof("Starting extraction run for %d cities", summary.Total)

	for _, city := range s.cities {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run interrupted: %w", err)
		}

		doc, err := s.fetcher.Fetch(ctx, city.Name, city.URL)
		if err != nil {
			s.logger.Errorf("Failed to fetch page for %s: %v", city.Name, err)
			summary.FailedCities = append(summary.FailedCities, city.Name)
			continue
		}

		record := s.runner.Extract(city.Name, doc)

		if err := s.store.SaveRecord(ctx, record); err != nil {
			return summary, fmt.Errorf("save record for %s: %w", city.Name, err)
		}

		summary.Processed++
		s.logger.Infof("Processed %s", city.Name)
	}

	s.logger.Infof("Extraction completed in %v: %d/%d cities successful",
		time.Since(startTime), summary.Processed, summary.Total)
	if len(summary.FailedCities) > 0 {
		s.logger.Warnf("Failed cities: %v", summary.FailedCities)
	}

	if s.current != nil {
		s.collectCurrent(ctx)
	}

	if s.exporter != nil && s.reportPath != "" {
		if err := s.writeReport(ctx); err != nil {
			s.logger.Errorf("Failed to write report: %v", err)
		}
	}

	return summary, nil
}

// collectCurrent stores one point-in-time observation per city. Each
// failure is local to its city.
func (s *ExtractionService) collectCurrent(ctx context.Context) {
	collected := 0
	for _, city := range s.cities {
		if ctx.Err() != nil {
			return
		}

		current, err := s.current.Current(ctx, city.Name, city.Lat, city.Lon)
		if err != nil {
			s.logger.Warnf("Failed to collect current conditions for %s: %v", city.Name, err)
			continue
		}

		if err := s.store.SaveCurrent(ctx, current); err != nil {
			s.logger.Errorf("Failed to save current conditions for %s: %v", city.Name, err)
			continue
		}
		collected++
	}

	s.logger.Infof("API collection completed: %d/%d cities", collected, len(s.cities))
}

func (s *ExtractionService) writeReport(ctx context.Context) error {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	data, err := s.exporter.Generate(ctx, records)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if err := os.WriteFile(s.reportPath, data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	s.logger.Infof("Report written to %s", s.reportPath)
	return nil
}

func (s *ExtractionService) Start(ctx context.Context, interval time.Duration) error {
	s.logger.Infof("Starting recurring extraction for %d cities, interval %v", len(s.cities), interval)

	task := func(taskCtx context.Context) error {
		_, err := s.RunOnce(taskCtx)
		return err
	}

	if err := s.scheduler.Schedule(ctx, interval, task); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

func (s *ExtractionService) Stop() {
	s.logger.Info("Stopping extraction service")
	s.scheduler.Stop()

	if err := s.store.Close(); err != nil {
		s.logger.Errorf("Failed to close store: %v", err)
	}
}

func (s *ExtractionService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}

	if s.current != nil {
		if err := s.current.HealthCheck(ctx); err != nil {
			return fmt.Errorf("weather API health check failed: %w", err)
		}
	}

	return nil
}
