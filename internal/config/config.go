// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	LogDir           string
	FilePattern      string
	OriginStation    string
	DepartureEvent   string
	ArrivalEvent     string
	OutputPath       string
	OutputFormat     OutputFormat
	OutlierThreshold float64
	LogLevel         string
	Notify           bool
	WatchDebounce    time.Duration
}

const (
	defaultWatchDebounce = 2 * time.Second
)

// Default returns a Config populated only from built-in defaults.
func Default() *Config {
	return &Config{
		LogDir:           DefaultLogDir,
		FilePattern:      DefaultFilePattern,
		OriginStation:    DefaultOriginStation,
		DepartureEvent:   DefaultDepartureEvent,
		ArrivalEvent:     DefaultArrivalEvent,
		OutputPath:       DefaultCSVOutput,
		OutputFormat:     FormatCSV,
		OutlierThreshold: DefaultOutlierThreshold,
		LogLevel:         DefaultLogLevel,
		WatchDebounce:    defaultWatchDebounce,
	}
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Only the first .env found is applied
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	format := OutputFormat(strings.ToLower(getEnvString("RUNSTATS_FORMAT", string(FormatCSV))))

	cfg := &Config{
		LogDir:           getEnvString("RUNSTATS_LOG_DIR", DefaultLogDir),
		FilePattern:      getEnvString("RUNSTATS_FILE_PATTERN", DefaultFilePattern),
		OriginStation:    getEnvString("RUNSTATS_ORIGIN_STATION", DefaultOriginStation),
		DepartureEvent:   getEnvString("RUNSTATS_DEPARTURE_EVENT", DefaultDepartureEvent),
		ArrivalEvent:     getEnvString("RUNSTATS_ARRIVAL_EVENT", DefaultArrivalEvent),
		OutputPath:       getEnvString("RUNSTATS_OUTPUT", DefaultOutputFor(format)),
		OutputFormat:     format,
		OutlierThreshold: getEnvFloat("RUNSTATS_OUTLIER_THRESHOLD", DefaultOutlierThreshold),
		LogLevel:         getEnvString("RUNSTATS_LOG_LEVEL", DefaultLogLevel),
		Notify:           getEnvBool("RUNSTATS_NOTIFY", false),
		WatchDebounce:    getEnvDuration("RUNSTATS_WATCH_DEBOUNCE", defaultWatchDebounce),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the run definition is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OriginStation) == "" {
		return errors.New("origin station must not be empty")
	}
	if c.DepartureEvent == "" || c.ArrivalEvent == "" {
		return errors.New("departure and arrival event tags must not be empty")
	}
	if c.DepartureEvent == c.ArrivalEvent {
		return fmt.Errorf("departure and arrival event tags must differ (both %q)", c.DepartureEvent)
	}
	if _, err := c.Pattern(); err != nil {
		return err
	}
	if c.OutlierThreshold < 0 {
		return fmt.Errorf("outlier threshold must not be negative (got %v)", c.OutlierThreshold)
	}
	switch c.OutputFormat {
	case FormatCSV, FormatSQLite:
	default:
		return fmt.Errorf("invalid output format %q (use 'csv' or 'sqlite')", c.OutputFormat)
	}
	if c.OutputPath == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// Pattern compiles the filename pattern.
func (c *Config) Pattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.FilePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", c.FilePattern, err)
	}
	return re, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "runstats", ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
