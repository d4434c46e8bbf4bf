package testutils

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/mock"

	"github.com/a-mehta/wikiweather/internal/models"
	"github.com/a-mehta/wikiweather/internal/scheduler"
)

type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) Fetch(ctx context.Context, cityName, pageURL string) (*goquery.Document, error) {
	args := m.Called(ctx, cityName, pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goquery.Document), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveRecord(ctx context.Context, record *models.WeatherRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) SaveCurrent(ctx context.Context, current *models.CurrentWeather) error {
	args := m.Called(ctx, current)
	return args.Error(0)
}

func (m *MockRepository) LatestByCity(ctx context.Context, cityName string) (*models.WeatherRecord, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherRecord), args.Error(1)
}

func (m *MockRepository) ListRecords(ctx context.Context) ([]models.WeatherRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WeatherRecord), args.Error(1)
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, interval time.Duration, task scheduler.Task) error {
	args := m.Called(ctx, interval, task)
	return args.Error(0)
}

func (m *MockScheduler) Stop() {
	m.Called()
}

type MockCurrentProvider struct {
	mock.Mock
}

func (m *MockCurrentProvider) Current(ctx context.Context, cityName string, lat, lon float64) (*models.CurrentWeather, error) {
	args := m.Called(ctx, cityName, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentWeather), args.Error(1)
}

func (m *MockCurrentProvider) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) Generate(ctx context.Context, records []models.WeatherRecord) ([]byte, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
