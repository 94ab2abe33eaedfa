package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TRAINGUIDE_"

type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Server  ServerConfig  `yaml:"server"`
	Routes  RoutesConfig  `yaml:"routes"`
	Display DisplayConfig `yaml:"display"`
}

type SourceConfig struct {
	URL          string        `yaml:"url"`
	CachePath    string        `yaml:"cache_path"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	CellSelector string        `yaml:"cell_selector"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RoutesConfig struct {
	Limit     int           `yaml:"limit"`
	VisitMode string        `yaml:"visit_mode"` // "strict" or "permissive"
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type DisplayConfig struct {
	// Language is a BCP 47 tag for number formatting. Empty means take it
	// from the environment's locale.
	Language string `yaml:"language"`
}

// Default returns a configuration that works without any config file.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:          "https://underspace.fandom.com/wiki/Train_Travel",
			CachePath:    "wiki_site.html",
			Timeout:      10 * time.Second,
			UserAgent:    "trainguide/1.0",
			CellSelector: "td",
		},
		Server: ServerConfig{Port: 8080},
		Routes: RoutesConfig{
			Limit:     10,
			VisitMode: "strict",
			CacheTTL:  10 * time.Minute,
		},
	}
}

// Load reads path on top of Default, then applies a .env file (if any) and
// TRAINGUIDE_* environment overrides. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Source.URL = getEnv("SOURCE_URL", c.Source.URL)
	c.Source.CachePath = getEnv("CACHE_PATH", c.Source.CachePath)
	c.Source.UserAgent = getEnv("USER_AGENT", c.Source.UserAgent)
	c.Display.Language = getEnv("LANGUAGE", c.Display.Language)
	c.Routes.VisitMode = getEnv("VISIT_MODE", c.Routes.VisitMode)

	var err error
	if c.Server.Port, err = getEnvAsInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Routes.Limit, err = getEnvAsInt("ROUTE_LIMIT", c.Routes.Limit); err != nil {
		return err
	}
	if c.Source.Timeout, err = getEnvAsDuration("TIMEOUT", c.Source.Timeout); err != nil {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Source.URL == "":
		return errors.New("config: source.url is required")
	case c.Source.CachePath == "":
		return errors.New("config: source.cache_path is required")
	case c.Source.Timeout <= 0:
		return fmt.Errorf("config: source.timeout must be positive, got %s", c.Source.Timeout)
	case c.Source.CellSelector == "":
		return errors.New("config: source.cell_selector is required")
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	case c.Routes.Limit < 0:
		return fmt.Errorf("config: routes.limit must not be negative, got %d", c.Routes.Limit)
	case c.Routes.CacheTTL < 0:
		return fmt.Errorf("config: routes.cache_ttl must not be negative, got %s", c.Routes.CacheTTL)
	}

	switch c.Routes.VisitMode {
	case "strict", "permissive":
	default:
		return fmt.Errorf("config: routes.visit_mode must be 'strict' or 'permissive', got %q", c.Routes.VisitMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return v, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return v, nil
}
