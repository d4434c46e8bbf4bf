package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/models"
)

// Repository persists extraction output and reads it back for reports.
type Repository interface {
	SaveRecord(ctx context.Context, record *models.WeatherRecord) error
	SaveCurrent(ctx context.Context, current *models.CurrentWeather) error
	LatestByCity(ctx context.Context, cityName string) (*models.WeatherRecord, error)
	ListRecords(ctx context.Context) ([]models.WeatherRecord, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS weather_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city_name TEXT NOT NULL,
	latitude REAL,
	longitude REAL,
	climate_type TEXT,
	avg_temperature_celsius REAL,
	annual_rainfall_mm REAL,
	hottest_month TEXT,
	coldest_month TEXT,
	weather_description TEXT,
	data_source TEXT NOT NULL DEFAULT 'Wikipedia',
	extracted_at TIMESTAMP NOT NULL,
	extracted_on TEXT NOT NULL,
	UNIQUE(city_name, extracted_on)
);

CREATE TABLE IF NOT EXISTS current_weather_api (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city_name TEXT NOT NULL,
	temperature REAL,
	humidity REAL,
	pressure REAL,
	weather_condition TEXT,
	wind_speed REAL,
	visibility REAL,
	data_source TEXT NOT NULL DEFAULT 'OpenWeatherMap',
	timestamp TIMESTAMP NOT NULL
);
`

// NewSQLiteStore opens (or creates) the database file and applies the
// schema if missing.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: log.WithField("component", "sqlite_store"),
	}
	store.logger.Infof("Database initialized at %s", path)
	return store, nil
}

// SaveRecord inserts one record per (city, day); a later run the same
// day replaces the earlier row. ExtractedAt is stamped here.
func (s *SQLiteStore) SaveRecord(ctx context.Context, record *models.WeatherRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	record.ExtractedAt = time.Now().UTC()

	query := `
		INSERT INTO weather_data (
			city_name, latitude, longitude, climate_type,
			avg_temperature_celsius, annual_rainfall_mm,
			hottest_month, coldest_month, weather_description,
			data_source, extracted_at, extracted_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city_name, extracted_on) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			climate_type = excluded.climate_type,
			avg_temperature_celsius = excluded.avg_temperature_celsius,
			annual_rainfall_mm = excluded.annual_rainfall_mm,
			hottest_month = excluded.hottest_month,
			coldest_month = excluded.coldest_month,
			weather_description = excluded.weather_description,
			data_source = excluded.data_source,
			extracted_at = excluded.extracted_at
	`

	_, err := s.db.ExecContext(ctx, query,
		record.CityName,
		record.Latitude,
		record.Longitude,
		record.ClimateType,
		record.AvgTemperatureCelsius,
		record.AnnualRainfallMM,
		record.HottestMonth,
		record.ColdestMonth,
		record.WeatherDescription,
		record.DataSource,
		record.ExtractedAt.Format(time.RFC3339),
		record.ExtractedAt.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to save record for %s: %w", record.CityName, err)
	}

	s.logger.Debugf("Saved record for %s", record.CityName)
	return nil
}

func (s *SQLiteStore) SaveCurrent(ctx context.Context, current *models.CurrentWeather) error {
	if err := current.Validate(); err != nil {
		return fmt.Errorf("invalid observation: %w", err)
	}

	query := `
		INSERT INTO current_weather_api (
			city_name, temperature, humidity, pressure,
			weather_condition, wind_speed, visibility,
			data_source, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		current.CityName,
		current.Temperature,
		current.Humidity,
		current.Pressure,
		current.Condition,
		current.WindSpeed,
		current.Visibility,
		current.DataSource,
		current.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save observation for %s: %w", current.CityName, err)
	}

	s.logger.Debugf("Saved current conditions for %s", current.CityName)
	return nil
}

const recordColumns = `
	city_name, latitude, longitude, climate_type,
	avg_temperature_celsius, annual_rainfall_mm,
	hottest_month, coldest_month, weather_description,
	data_source, extracted_at
`

func (s *SQLiteStore) LatestByCity(ctx context.Context, cityName string) (*models.WeatherRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM weather_data
		WHERE city_name = ?
		ORDER BY extracted_at DESC
		LIMIT 1`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, cityName))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query record for %s: %w", cityName, err)
	}
	return record, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context) ([]models.WeatherRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM weather_data
		ORDER BY city_name, extracted_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.WeatherRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.logger.Debug("Closing database")
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.WeatherRecord, error) {
	var (
		record      models.WeatherRecord
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
		climate     sql.NullString
		temperature sql.NullFloat64
		rainfall    sql.NullFloat64
		hottest     sql.NullString
		coldest     sql.NullString
		description sql.NullString
		extractedAt string
	)

	err := row.Scan(
		&record.CityName,
		&latitude,
		&longitude,
		&climate,
		&temperature,
		&rainfall,
		&hottest,
		&coldest,
		&description,
		&record.DataSource,
		&extractedAt,
	)
	if err != nil {
		return nil, err
	}

	if latitude.Valid {
		record.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		record.Longitude = &longitude.Float64
	}
	if climate.Valid {
		record.ClimateType = &climate.String
	}
	if temperature.Valid {
		record.AvgTemperatureCelsius = &temperature.Float64
	}
	if rainfall.Valid {
		record.AnnualRainfallMM = &rainfall.Float64
	}
	if hottest.Valid {
		record.HottestMonth = &hottest.String
	}
	if coldest.Valid {
		record.ColdestMonth = &coldest.String
	}
	if description.Valid {
		record.WeatherDescription = &description.String
	}

	if ts, err := time.Parse(time.RFC3339, extractedAt); err == nil {
		record.ExtractedAt = ts
	}

	return &record, nil
}
