package models

import (
	"time"
)

// WeatherRecord is one city-level climate record produced by a single
// extraction run. Optional fields use pointers so that "no extractor
// produced a value" stays distinguishable from a zero value.
type WeatherRecord struct {
	CityName              string    `json:"city_name"`
	Latitude              *float64  `json:"latitude,omitempty"`
	Longitude             *float64  `json:"longitude,omitempty"`
	ClimateType           *string   `json:"climate_type,omitempty"`
	AvgTemperatureCelsius *float64  `json:"avg_temperature_celsius,omitempty"`
	AnnualRainfallMM      *float64  `json:"annual_rainfall_mm,omitempty"`
	HottestMonth          *string   `json:"hottest_month,omitempty"`
	ColdestMonth          *string   `json:"coldest_month,omitempty"`
	WeatherDescription    *string   `json:"weather_description,omitempty"`
	DataSource            string    `json:"data_source"`
	ExtractedAt           time.Time `json:"extracted_at"`
}

func NewWeatherRecord(cityName string) *WeatherRecord {
	return &WeatherRecord{
		CityName:   cityName,
		DataSource: "Wikipedia",
	}
}

func (r *WeatherRecord) Validate() error {
	if r.CityName == "" {
		return ErrInvalidCityName
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return ErrInvalidLatitude
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return ErrInvalidLongitude
	}
	return nil
}

// CurrentWeather is a point-in-time observation from the supplementary
// weather API. It is independent of WeatherRecord and stored separately.
type CurrentWeather struct {
	CityName    string    `json:"city_name"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Condition   string    `json:"weather_condition"`
	WindSpeed   float64   `json:"wind_speed"`
	Visibility  float64   `json:"visibility"`
	DataSource  string    `json:"data_source"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c *CurrentWeather) Validate() error {
	if c.CityName == "" {
		return ErrInvalidCityName
	}
	if c.Humidity < 0 || c.Humidity > 100 {
		return ErrInvalidHumidity
	}
	if c.WindSpeed < 0 {
		return ErrInvalidWindSpeed
	}
	if c.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

var (
	ErrInvalidCityName  = ValidationError{Field: "city_name", Reason: "must not be empty"}
	ErrInvalidLatitude  = ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	ErrInvalidLongitude = ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	ErrInvalidHumidity  = ValidationError{Field: "humidity", Reason: "must be between 0 and 100"}
	ErrInvalidWindSpeed = ValidationError{Field: "wind_speed", Reason: "must not be negative"}
	ErrInvalidTimestamp = ValidationError{Field: "timestamp", Reason: "must not be zero"}
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
