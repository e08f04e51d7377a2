package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"greenpulse/domain/core"
	"greenpulse/domain/series"
	"greenpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
	LogLevel string
}

// DataConfig holds dataset sources and normalization settings
type DataConfig struct {
	DataFile      string
	CountryFile   string
	GeoFile       string
	Categories    []string
	BaselineStart int
	BaselineEnd   int
	StrictIngest  bool
}

// DatabaseConfig holds the optional Postgres row source
type DatabaseConfig struct {
	URL   string
	Table string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	UIPort  string
}

// CategorySet returns the configured closed category set in display order
func (d DataConfig) CategorySet() series.CategorySet {
	labels := make([]series.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		labels = append(labels, series.Category(c))
	}
	return series.NewCategorySet(labels...)
}

// UsesDatabase reports whether observations come from Postgres instead of a file
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Database: *loadDatabaseConfig(),
		Server:   *loadServerConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		DataFile:      getEnvOrDefault("DATA_FILE", ""),
		CountryFile:   getEnvOrDefault("COUNTRY_FILE", ""),
		GeoFile:       getEnvOrDefault("GEO_FILE", ""),
		Categories:    getEnvListOrDefault("CATEGORIES", defaultCategoryLabels()),
		BaselineStart: getEnvIntOrDefault("BASELINE_START", series.DefaultBaselineStart),
		BaselineEnd:   getEnvIntOrDefault("BASELINE_END", series.DefaultBaselineEnd),
		StrictIngest:  getEnvBoolOrDefault("STRICT_INGEST", false),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:   getEnvOrDefault("DATABASE_URL", ""),
		Table: getEnvOrDefault("DATA_TABLE", "ndvi_income_year"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
	}
}

func defaultCategoryLabels() []string {
	cats := series.DefaultCategories().Categories()
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.String()
	}
	return labels
}

func validateConfig(config *Config) error {
	if config.Data.DataFile == "" && config.Database.URL == "" {
		return errors.ConfigInvalid("DATA_FILE or DATABASE_URL is required")
	}
	if config.Data.CategorySet().Len() == 0 {
		return errors.ConfigInvalid("CATEGORIES must name at least one category")
	}
	if config.Data.BaselineStart > config.Data.BaselineEnd {
		return errors.WithCode(errors.CodeConfigInvalid,
			fmt.Errorf("BASELINE_START %d must not be after BASELINE_END %d: %w",
				config.Data.BaselineStart, config.Data.BaselineEnd, core.ErrInvalidWindow))
	}
	if config.UsesDatabase() && !validIdentifier(config.Database.Table) {
		return errors.ConfigInvalid("DATA_TABLE must be a plain SQL identifier")
	}
	return nil
}

// validIdentifier accepts [A-Za-z_][A-Za-z0-9_]* with an optional schema prefix
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
