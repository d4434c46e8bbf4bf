package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/a-mehta/wikiweather/internal/config"
	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/models"
	"github.com/a-mehta/wikiweather/internal/testutils"
)

func testDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func testCities() []config.CityConfig {
	return []config.CityConfig{
		{Name: "Dubai", URL: "https://example.org/Dubai", Lat: 25.2048, Lon: 55.2708},
		{Name: "Sharjah", URL: "https://example.org/Sharjah", Lat: 25.3373, Lon: 55.4120},
	}
}

func newTestService(opts Options) *ExtractionService {
	if opts.Logger == nil {
		opts.Logger = logger.NewWithWriter("error", &bytes.Buffer{})
	}
	if opts.Cities == nil {
		opts.Cities = testCities()
	}
	return NewExtractionService(opts)
}

func TestExtractionService_RunOnce(t *testing.T) {
	page := `<html><body><h2>Climate</h2><p>A hot desert climate.</p></body></html>`

	t.Run("all cities processed", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}

		mockFetcher.On("Fetch", mock.Anything, "Dubai", "https://example.org/Dubai").Return(testDoc(t, page), nil)
		mockFetcher.On("Fetch", mock.Anything, "Sharjah", "https://example.org/Sharjah").Return(testDoc(t, page), nil)
		mockStore.On("SaveRecord", mock.Anything, mock.Anything).Return(nil).Twice()

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore})

		summary, err := service.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 2, summary.Processed)
		assert.Empty(t, summary.FailedCities)
		mockFetcher.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("fetch failure skips that city only", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}

		mockFetcher.On("Fetch", mock.Anything, "Dubai", mock.Anything).Return(nil, errors.New("status 503"))
		mockFetcher.On("Fetch", mock.Anything, "Sharjah", mock.Anything).Return(testDoc(t, page), nil)
		mockStore.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r *models.WeatherRecord) bool {
			return r.CityName == "Sharjah"
		})).Return(nil).Once()

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore})

		summary, err := service.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Processed)
		assert.Equal(t, []string{"Dubai"}, summary.FailedCities)
		mockStore.AssertExpectations(t)
	})

	t.Run("extracted fields reach the store", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}

		mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(testDoc(t, page), nil)

		var saved []*models.WeatherRecord
		mockStore.On("SaveRecord", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*models.WeatherRecord))
		}).Return(nil)

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore})

		_, err := service.RunOnce(context.Background())

		require.NoError(t, err)
		require.Len(t, saved, 2)
		require.NotNil(t, saved[0].ClimateType)
		assert.Equal(t, "Desert", *saved[0].ClimateType)
		require.NotNil(t, saved[0].WeatherDescription)
	})

	t.Run("persistence failure aborts the run", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}

		mockFetcher.On("Fetch", mock.Anything, "Dubai", mock.Anything).Return(testDoc(t, page), nil)
		mockStore.On("SaveRecord", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore})

		summary, err := service.RunOnce(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, 0, summary.Processed)
		// Sharjah was never fetched.
		mockFetcher.AssertNumberOfCalls(t, "Fetch", 1)
	})

	t.Run("cancelled context interrupts the run", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore})

		_, err := service.RunOnce(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		mockFetcher.AssertNumberOfCalls(t, "Fetch", 0)
	})

	t.Run("current conditions collected when provider configured", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}
		mockCurrent := &testutils.MockCurrentProvider{}

		mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(testDoc(t, page), nil)
		mockStore.On("SaveRecord", mock.Anything, mock.Anything).Return(nil)

		observation := &models.CurrentWeather{
			CityName: "Dubai", Temperature: 41, Humidity: 20,
			DataSource: "OpenWeatherMap", Timestamp: time.Now(),
		}
		mockCurrent.On("Current", mock.Anything, "Dubai", 25.2048, 55.2708).Return(observation, nil)
		mockCurrent.On("Current", mock.Anything, "Sharjah", 25.3373, 55.4120).Return(nil, errors.New("timeout"))
		mockStore.On("SaveCurrent", mock.Anything, observation).Return(nil).Once()

		service := newTestService(Options{Fetcher: mockFetcher, Store: mockStore, Current: mockCurrent})

		_, err := service.RunOnce(context.Background())

		require.NoError(t, err)
		mockCurrent.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("report written when exporter configured", func(t *testing.T) {
		mockFetcher := &testutils.MockPageFetcher{}
		mockStore := &testutils.MockRepository{}
		mockExporter := &testutils.MockReportGenerator{}

		mockFetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(testDoc(t, page), nil)
		mockStore.On("SaveRecord", mock.Anything, mock.Anything).Return(nil)
		mockStore.On("ListRecords", mock.Anything).Return([]models.WeatherRecord{{CityName: "Dubai"}}, nil)
		mockExporter.On("Generate", mock.Anything, mock.Anything).Return([]byte("workbook"), nil)

		reportPath := filepath.Join(t.TempDir(), "report.xlsx")
		service := newTestService(Options{
			Fetcher:    mockFetcher,
			Store:      mockStore,
			Exporter:   mockExporter,
			ReportPath: reportPath,
		})

		_, err := service.RunOnce(context.Background())

		require.NoError(t, err)
		data, err := os.ReadFile(reportPath)
		require.NoError(t, err)
		assert.Equal(t, "workbook", string(data))
	})
}

func TestExtractionService_StartStop(t *testing.T) {
	t.Run("start schedules the run task", func(t *testing.T) {
		mockScheduler := &testutils.MockScheduler{}
		interval := 6 * time.Hour

		mockScheduler.On("Schedule", mock.Anything, interval, mock.Anything).Return(nil)

		service := newTestService(Options{Scheduler: mockScheduler})

		assert.NoError(t, service.Start(context.Background(), interval))
		mockScheduler.AssertExpectations(t)
	})

	t.Run("scheduler error propagates", func(t *testing.T) {
		mockScheduler := &testutils.MockScheduler{}

		mockScheduler.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bad expression"))

		service := newTestService(Options{Scheduler: mockScheduler})

		err := service.Start(context.Background(), time.Hour)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start scheduler")
	})

	t.Run("stop halts scheduler and closes store", func(t *testing.T) {
		mockScheduler := &testutils.MockScheduler{}
		mockStore := &testutils.MockRepository{}

		mockScheduler.On("Stop").Once()
		mockStore.On("Close").Return(nil).Once()

		service := newTestService(Options{Scheduler: mockScheduler, Store: mockStore})

		service.Stop()

		mockScheduler.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})
}

func TestExtractionService_HealthCheck(t *testing.T) {
	t.Run("store only", func(t *testing.T) {
		mockStore := &testutils.MockRepository{}
		mockStore.On("HealthCheck", mock.Anything).Return(nil)

		service := newTestService(Options{Store: mockStore})

		assert.NoError(t, service.HealthCheck(context.Background()))
	})

	t.Run("store failure", func(t *testing.T) {
		mockStore := &testutils.MockRepository{}
		mockStore.On("HealthCheck", mock.Anything).Return(errors.New("locked"))

		service := newTestService(Options{Store: mockStore})

		err := service.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "store health check")
	})

	t.Run("weather API failure", func(t *testing.T) {
		mockStore := &testutils.MockRepository{}
		mockCurrent := &testutils.MockCurrentProvider{}
		mockStore.On("HealthCheck", mock.Anything).Return(nil)
		mockCurrent.On("HealthCheck", mock.Anything).Return(errors.New("401"))

		service := newTestService(Options{Store: mockStore, Current: mockCurrent})

		err := service.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "weather API health check")
	})
}
