// Package config resolves runtime settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the server and CLI read.
type Config struct {
	Port     int    `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	Dataset  string `yaml:"dataset"`
	LogLevel string `yaml:"log_level"`

	PlexURL    string `yaml:"plex_url"`
	PlexToken  string `yaml:"plex_token"`
	TMDbAPIKey string `yaml:"tmdb_api_key"`

	Limiter Limiter `yaml:"limiter"`
}

// Limiter configures the per-client request rate limit.
type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:     8080,
		DBPath:   "moviestats.db",
		LogLevel: "info",
		Limiter: Limiter{
			Enabled: true,
			RPS:     2,
			Burst:   4,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if set), then individual environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		// #nosec G304 - path comes from operator configuration
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	setString(&cfg.DBPath, getenv("DB_PATH"))
	setString(&cfg.Dataset, getenv("DATASET"))
	setString(&cfg.LogLevel, getenv("LOG_LEVEL"))
	setString(&cfg.PlexURL, getenv("PLEX_URL"))
	setString(&cfg.PlexToken, getenv("PLEX_TOKEN"))
	setString(&cfg.TMDbAPIKey, getenv("TMDB_API_KEY"))

	if err := setParsed(&cfg.Port, getenv("PORT"), strconv.Atoi); err != nil {
		return Config{}, fmt.Errorf("invalid PORT: %w", err)
	}
	if err := setParsed(&cfg.Limiter.Enabled, getenv("LIMITER_ENABLED"), strconv.ParseBool); err != nil {
		return Config{}, fmt.Errorf("invalid LIMITER_ENABLED: %w", err)
	}
	if err := setParsed(&cfg.Limiter.RPS, getenv("LIMITER_RPS"), func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); err != nil {
		return Config{}, fmt.Errorf("invalid LIMITER_RPS: %w", err)
	}
	if err := setParsed(&cfg.Limiter.Burst, getenv("LIMITER_BURST"), strconv.Atoi); err != nil {
		return Config{}, fmt.Errorf("invalid LIMITER_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail later at startup.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.Limiter.Enabled && (c.Limiter.RPS <= 0 || c.Limiter.Burst < 1) {
		return fmt.Errorf("limiter needs a positive rps and burst")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// PlexEnabled reports whether a Plex server is configured.
func (c Config) PlexEnabled() bool {
	return c.PlexURL != "" && c.PlexToken != ""
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setParsed[T any](dst *T, v string, parse func(string) (T, error)) error {
	if v == "" {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
