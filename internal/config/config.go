package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"ncclens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Ingest  IngestConfig
	Data    DataConfig
	Columns ColumnConfig
	Server  ServerConfig
	Ledger  LedgerConfig
	Log     LogConfig
}

// IngestConfig holds workbook extraction settings
type IngestConfig struct {
	Workbook       string
	Sheet          string
	Marker         string
	MarkerColumn   int
	TagOrigin      bool
	OriginColumn   string
	OriginLabels   [2]string
	SequenceColumn string
}

// DataConfig holds artifact paths shared by the pipeline and its consumers
type DataConfig struct {
	MergedFile string
	ReportFile string
}

// ColumnConfig names the merged-table columns consumers read
type ColumnConfig struct {
	NetworkType string
	ClientType  string
	Region      string
	State       string
	Status      string
	Bandwidth   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LedgerConfig holds the optional run ledger location; empty disables it
type LedgerConfig struct {
	Path string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Default column names of the NCC client workbook
const (
	DefaultSheet          = "Corporate and Retail Clients"
	DefaultMarker         = "S/N"
	DefaultSequenceColumn = "S/N"
	DefaultOriginColumn   = "origin"
)

// DefaultColumns returns the column names of the NCC client workbook
func DefaultColumns() ColumnConfig {
	return ColumnConfig{
		NetworkType: "WAN/INTERNET CLIENT",
		ClientType:  "CLIENT",
		Region:      "REGION",
		State:       "STATE",
		Status:      "CUSTOMER STATUS",
		Bandwidth:   "BANDWIDTH SUBSCRIPTION (Mbps)",
	}
}

// Default returns a configuration with every default applied and no environment read
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			Sheet:          DefaultSheet,
			Marker:         DefaultMarker,
			TagOrigin:      true,
			OriginColumn:   DefaultOriginColumn,
			OriginLabels:   [2]string{"Corporate", "Retail"},
			SequenceColumn: DefaultSequenceColumn,
		},
		Data: DataConfig{
			MergedFile: "data/merged_clients.csv",
			ReportFile: "data/insights.pdf",
		},
		Columns: DefaultColumns(),
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()

	config.Ingest.Workbook = getEnvOrDefault("NCC_WORKBOOK", config.Ingest.Workbook)
	config.Ingest.Sheet = getEnvOrDefault("NCC_SHEET", config.Ingest.Sheet)
	config.Ingest.Marker = getEnvOrDefault("NCC_MARKER", config.Ingest.Marker)
	var err error
	if config.Ingest.MarkerColumn, err = getEnvIntOrDefault("NCC_MARKER_COLUMN", config.Ingest.MarkerColumn); err != nil {
		return nil, err
	}
	if config.Ingest.TagOrigin, err = getEnvBoolOrDefault("NCC_TAG_ORIGIN", config.Ingest.TagOrigin); err != nil {
		return nil, err
	}
	// set but empty disables renumbering
	if value, ok := os.LookupEnv("NCC_SEQUENCE_COLUMN"); ok {
		config.Ingest.SequenceColumn = strings.TrimSpace(value)
	}
	if labels := os.Getenv("NCC_ORIGIN_LABELS"); labels != "" {
		parts := strings.Split(labels, ",")
		if len(parts) != 2 {
			return nil, errors.ConfigInvalid("NCC_ORIGIN_LABELS must hold exactly two comma-separated labels")
		}
		config.Ingest.OriginLabels = [2]string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}
	}

	config.Data.MergedFile = getEnvOrDefault("NCC_DATA_FILE", config.Data.MergedFile)
	config.Data.ReportFile = getEnvOrDefault("NCC_REPORT_FILE", config.Data.ReportFile)

	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)

	config.Ledger.Path = getEnvOrDefault("NCC_LEDGER_PATH", "")
	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Ingest.Marker) == "" {
		return errors.ConfigInvalid("header marker must not be empty")
	}
	if config.Ingest.MarkerColumn < 0 {
		return errors.ConfigInvalid("marker column must be zero or positive")
	}
	if config.Ingest.OriginLabels[0] == "" || config.Ingest.OriginLabels[1] == "" {
		return errors.ConfigInvalid("origin labels must not be empty")
	}
	if config.Ingest.OriginLabels[0] == config.Ingest.OriginLabels[1] {
		return errors.ConfigInvalid("origin labels must differ")
	}
	if config.Data.MergedFile == "" {
		return errors.ConfigInvalid("merged data file path is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be true or false, got %q", key, value))
	}
	return boolValue, nil
}
