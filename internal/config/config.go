package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	RunModeOnce     = "once"
	RunModeSchedule = "schedule"
)

type Config struct {
	App         AppConfig
	Cities      []CityConfig
	Fetcher     FetcherConfig
	OpenWeather OpenWeatherConfig
	Database    DatabaseConfig
	Scheduler   SchedulerConfig
	Report      ReportConfig
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	RunMode  string `mapstructure:"run_mode"`
}

type CityConfig struct {
	Name string  `mapstructure:"name"`
	URL  string  `mapstructure:"url"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

type FetcherConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Delay     time.Duration `mapstructure:"delay"`
	UserAgent string        `mapstructure:"user_agent"`
}

type OpenWeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Units   string `mapstructure:"units"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultCities is the built-in scrape target set, used when the config
// file lists none. Coordinates feed the optional current-conditions
// collector.
var DefaultCities = []CityConfig{
	{Name: "Abu Dhabi", URL: "https://en.wikipedia.org/wiki/Abu_Dhabi", Lat: 24.2992, Lon: 54.6969},
	{Name: "Dubai", URL: "https://en.wikipedia.org/wiki/Dubai", Lat: 25.2048, Lon: 55.2708},
	{Name: "Sharjah", URL: "https://en.wikipedia.org/wiki/Sharjah", Lat: 25.3373, Lon: 55.4120},
	{Name: "Ajman", URL: "https://en.wikipedia.org/wiki/Ajman", Lat: 25.4052, Lon: 55.5136},
	{Name: "Ras Al Khaimah", URL: "https://en.wikipedia.org/wiki/Ras_Al_Khaimah", Lat: 25.7889, Lon: 55.9598},
	{Name: "Fujairah", URL: "https://en.wikipedia.org/wiki/Fujairah", Lat: 25.1164, Lon: 56.3265},
	{Name: "Umm Al Quwain", URL: "https://en.wikipedia.org/wiki/Umm_Al_Quwain", Lat: 25.5641, Lon: 55.6552},
}

// Load reads config.yaml from the given paths (or the standard
// locations when none are given) and applies environment overrides.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/etc/wikiweather/"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		v.Set("openweather.api_key", apiKey)
	}

	if baseURL := os.Getenv("OPENWEATHER_BASE_URL"); baseURL != "" {
		v.Set("openweather.base_url", baseURL)
	}

	if dbPath := os.Getenv("WEATHER_DB_PATH"); dbPath != "" {
		v.Set("database.path", dbPath)
	}

	if runMode := os.Getenv("RUN_MODE"); runMode != "" {
		v.Set("app.run_mode", runMode)
	}

	if reportPath := os.Getenv("REPORT_PATH"); reportPath != "" {
		v.Set("report.path", reportPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Cities) == 0 {
		cfg.Cities = DefaultCities
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "wikiweather")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.run_mode", RunModeOnce)
	v.SetDefault("fetcher.timeout", 30*time.Second)
	v.SetDefault("fetcher.delay", 3*time.Second)
	v.SetDefault("fetcher.user_agent", "Mozilla/5.0 (compatible; WikiWeatherBot/1.0; Educational purposes)")
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("openweather.units", "metric")
	v.SetDefault("database.path", "uae_weather.db")
	v.SetDefault("scheduler.interval", 24*time.Hour)
	v.SetDefault("scheduler.timeout", 10*time.Minute)
}

func validateConfig(cfg *Config) error {
	if cfg.App.RunMode != RunModeOnce && cfg.App.RunMode != RunModeSchedule {
		return fmt.Errorf("run mode must be %q or %q, got %q", RunModeOnce, RunModeSchedule, cfg.App.RunMode)
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	for i, city := range cfg.Cities {
		if city.Name == "" {
			return fmt.Errorf("city %d: name must not be empty", i)
		}
		if city.URL == "" {
			return fmt.Errorf("city %q: url must not be empty", city.Name)
		}
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive")
	}

	if cfg.App.RunMode == RunModeSchedule && cfg.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}

	return nil
}
