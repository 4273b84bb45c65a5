package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	GeoAPIKey     string
	GeoAPIURL     string
	RatesAPIURL   string
	GeoAPITimeout time.Duration

	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration

	// News is optional; the news routes are registered only when a key is set.
	NewsAPIKey     string
	NewsAPIURL     string
	NewsAPITimeout time.Duration

	DatabaseURL             string
	DatabaseMaxConns        int32
	DatabaseMinConns        int32
	DatabaseMaxConnLifetime time.Duration
	DatabaseMaxConnIdleTime time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	MaxNameLength int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	GeoAPI struct {
		URL      string `yaml:"url"`
		RatesURL string `yaml:"rates_url"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"geo_api"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	NewsAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"news_api"`

	Database struct {
		URL             string `yaml:"url"`
		MaxConns        int32  `yaml:"max_conns"`
		MinConns        int32  `yaml:"min_conns"`
		MaxConnLifetime string `yaml:"max_conn_lifetime"`
		MaxConnIdleTime string `yaml:"max_conn_idle_time"`
	} `yaml:"database"`

	Auth struct {
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`

	Validation struct {
		MaxNameLength int `yaml:"max_name_length"`
	} `yaml:"validation"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`
}

type secretsFile struct {
	GeoAPIKey     string `yaml:"geo_api_key"`
	WeatherAPIKey string `yaml:"weather_api_key"`
	NewsAPIKey    string `yaml:"news_api_key"`
	JWTSecret     string `yaml:"jwt_secret"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) and
// config/secrets.yaml. Provider API keys, the database URL and the JWT secret
// come from env first, then the secrets file. Call from project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	var sec secretsFile
	secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
	secretsData, err := os.ReadFile(secretsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read secrets file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(secretsData, &sec); err != nil {
			return nil, fmt.Errorf("parse secrets file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.GeoAPIKey = firstNonEmpty(os.Getenv("GEO_API_KEY"), sec.GeoAPIKey)
	if cfg.GeoAPIKey == "" {
		return nil, fmt.Errorf("GEO_API_KEY required (set env or config/secrets.yaml geo_api_key)")
	}
	cfg.GeoAPIURL = fc.GeoAPI.URL
	if cfg.GeoAPIURL == "" {
		cfg.GeoAPIURL = "https://api.apilayer.com/geo"
	}
	cfg.RatesAPIURL = fc.GeoAPI.RatesURL
	if cfg.RatesAPIURL == "" {
		cfg.RatesAPIURL = "https://api.apilayer.com/fixer"
	}
	cfg.GeoAPITimeout = parseDuration(fc.GeoAPI.Timeout, 5*time.Second)

	cfg.WeatherAPIKey = firstNonEmpty(os.Getenv("WEATHER_API_KEY"), sec.WeatherAPIKey)
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY required (set env or config/secrets.yaml weather_api_key)")
	}
	cfg.WeatherAPIURL = fc.WeatherAPI.URL
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, 5*time.Second)

	cfg.NewsAPIKey = firstNonEmpty(os.Getenv("NEWS_API_KEY"), sec.NewsAPIKey)
	cfg.NewsAPIURL = fc.NewsAPI.URL
	if cfg.NewsAPIURL == "" {
		cfg.NewsAPIURL = "https://newsapi.org/v2/top-headlines"
	}
	cfg.NewsAPITimeout = parseDuration(fc.NewsAPI.Timeout, 5*time.Second)

	cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), fc.Database.URL)
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL required (set env or config database.url)")
	}
	cfg.DatabaseMaxConns = fc.Database.MaxConns
	if cfg.DatabaseMaxConns <= 0 {
		cfg.DatabaseMaxConns = 25
	}
	cfg.DatabaseMinConns = fc.Database.MinConns
	if cfg.DatabaseMinConns <= 0 {
		cfg.DatabaseMinConns = 5
	}
	cfg.DatabaseMaxConnLifetime = parseDuration(fc.Database.MaxConnLifetime, 5*time.Minute)
	cfg.DatabaseMaxConnIdleTime = parseDuration(fc.Database.MaxConnIdleTime, 10*time.Minute)

	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), sec.JWTSecret)
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET required (set env or config/secrets.yaml jwt_secret)")
	}
	cfg.TokenTTL = parseDuration(fc.Auth.TokenTTL, time.Hour)

	cfg.MaxNameLength = fc.Validation.MaxNameLength
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = 100
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.GeoAPITimeout <= 0 || cfg.WeatherAPITimeout <= 0 {
		return fmt.Errorf("provider timeouts must be positive")
	}
	if cfg.DatabaseMinConns > cfg.DatabaseMaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			cfg.DatabaseMinConns, cfg.DatabaseMaxConns)
	}
	if len(cfg.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}
