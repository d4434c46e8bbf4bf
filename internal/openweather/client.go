package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/a-mehta/wikiweather/internal/logger"
	"github.com/a-mehta/wikiweather/internal/models"
)

// CurrentProvider supplies point-in-time conditions for a coordinate
// pair. It backs the optional API collection run.
type CurrentProvider interface {
	Current(ctx context.Context, cityName string, lat, lon float64) (*models.CurrentWeather, error)
	HealthCheck(ctx context.Context) error
}

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	units   string
	logger  logger.Logger
}

func NewClient(baseURL, apiKey, units string, log logger.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		units:   units,
		logger:  log.WithField("component", "openweather_client"),
	}
}

type currentResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

func (c *Client) Current(ctx context.Context, cityName string, lat, lon float64) (*models.CurrentWeather, error) {
	c.logger.Debugf("Fetching current conditions for %s", cityName)

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	condition := ""
	if len(apiResp.Weather) > 0 {
		condition = apiResp.Weather[0].Main
	}

	current := &models.CurrentWeather{
		CityName:    cityName,
		Temperature: apiResp.Main.Temp,
		Humidity:    apiResp.Main.Humidity,
		Pressure:    apiResp.Main.Pressure,
		Condition:   condition,
		WindSpeed:   apiResp.Wind.Speed,
		Visibility:  apiResp.Visibility,
		DataSource:  "OpenWeatherMap",
		Timestamp:   time.Now(),
	}

	c.logger.Debugf("Fetched current conditions for %s: %.1f°", cityName, current.Temperature)
	return current, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	query := url.Values{}
	query.Set("lat", "25.2048")
	query.Set("lon", "55.2708")
	query.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status: %d", resp.StatusCode)
	}

	return nil
}
