package config

import (
	"fmt"
	"regexp"

	"github.com/chrissnell/voltview/internal/voltage"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetSourceConfig() (*SourceData, error)
	GetAnalysisDefaults() (*AnalysisData, error)
	GetDashboardConfig() (*DashboardData, error)

	IsReadOnly() bool
	Close() error
}

// WritableProvider is a ConfigProvider that can persist changes
type WritableProvider interface {
	ConfigProvider
	SaveConfig(configData *ConfigData) error
	UpdateAnalysisDefaults(analysis AnalysisData) error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Source    SourceData    `json:"source" yaml:"source"`
	Analysis  AnalysisData  `json:"analysis" yaml:"analysis"`
	Dashboard DashboardData `json:"dashboard" yaml:"dashboard"`
	Logging   LoggingData   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// Source types
const (
	SourceCSV         = "csv"
	SourceTimescaleDB = "timescaledb"
)

// SourceData selects where voltage samples are loaded from
type SourceData struct {
	Type        string           `json:"type" yaml:"type"`
	CSV         *CSVData         `json:"csv,omitempty" yaml:"csv,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty" yaml:"timescaledb,omitempty"`
}

type CSVData struct {
	Path string `json:"path" yaml:"path"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
	Table            string `json:"table,omitempty" yaml:"table,omitempty"`
	TimeColumn       string `json:"time_column,omitempty" yaml:"time_column,omitempty"`
	ValueColumn      string `json:"value_column,omitempty" yaml:"value_column,omitempty"`
	StationColumn    string `json:"station_column,omitempty" yaml:"station_column,omitempty"`
	Station          string `json:"station,omitempty" yaml:"station,omitempty"`
}

// AnalysisData holds the initial positions of the dashboard controls
type AnalysisData struct {
	Window                  int     `json:"window,omitempty" yaml:"window,omitempty"`
	Threshold               float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	SlopeSensitivity        float64 `json:"slope_sensitivity,omitempty" yaml:"slope_sensitivity,omitempty"`
	AccelerationSensitivity float64 `json:"acceleration_sensitivity" yaml:"acceleration_sensitivity"`
	PeakDistance            int     `json:"peak_distance,omitempty" yaml:"peak_distance,omitempty"`
}

// Params converts the analysis defaults into pipeline parameters
func (a AnalysisData) Params() voltage.Params {
	return voltage.Params{
		Window:                  a.Window,
		Threshold:               a.Threshold,
		SlopeSensitivity:        a.SlopeSensitivity,
		AccelerationSensitivity: a.AccelerationSensitivity,
		PeakDistance:            a.PeakDistance,
	}
}

// AnalysisDataFromParams is the inverse of AnalysisData.Params
func AnalysisDataFromParams(p voltage.Params) AnalysisData {
	return AnalysisData{
		Window:                  p.Window,
		Threshold:               p.Threshold,
		SlopeSensitivity:        p.SlopeSensitivity,
		AccelerationSensitivity: p.AccelerationSensitivity,
		PeakDistance:            p.PeakDistance,
	}
}

type DashboardData struct {
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	PageTitle  string `json:"page_title,omitempty" yaml:"page_title,omitempty"`
}

type LoggingData struct {
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// ApplyDefaults fills every unset value with its default
func (c *ConfigData) ApplyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = SourceCSV
	}
	if c.Source.Type == SourceCSV && c.Source.CSV == nil {
		c.Source.CSV = &CSVData{Path: "Sample_Data.csv"}
	}
	if ts := c.Source.TimescaleDB; ts != nil {
		if ts.Table == "" {
			ts.Table = "voltage_readings"
		}
		if ts.TimeColumn == "" {
			ts.TimeColumn = "time"
		}
		if ts.ValueColumn == "" {
			ts.ValueColumn = "value"
		}
	}

	// An absent analysis section takes every default. Otherwise a zero
	// acceleration sensitivity is a legitimate setting and is kept.
	defaults := voltage.DefaultParams()
	if c.Analysis == (AnalysisData{}) {
		c.Analysis = AnalysisDataFromParams(defaults)
	}
	if c.Analysis.Window == 0 {
		c.Analysis.Window = defaults.Window
	}
	if c.Analysis.Threshold == 0 {
		c.Analysis.Threshold = defaults.Threshold
	}
	if c.Analysis.SlopeSensitivity == 0 {
		c.Analysis.SlopeSensitivity = defaults.SlopeSensitivity
	}
	if c.Analysis.PeakDistance == 0 {
		c.Analysis.PeakDistance = defaults.PeakDistance
	}

	if c.Dashboard.ListenAddr == "" {
		c.Dashboard.ListenAddr = "0.0.0.0"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Dashboard.PageTitle == "" {
		c.Dashboard.PageTitle = "Voltage Analysis Dashboard"
	}

	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB == 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups == 0 {
			c.Logging.MaxBackups = 3
		}
		if c.Logging.MaxAgeDays == 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidIdentifier reports whether s is safe to interpolate as a SQL table or column name
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Validate checks that all configuration values are valid
func (c *ConfigData) Validate() error {
	switch c.Source.Type {
	case SourceCSV:
		if c.Source.CSV == nil || c.Source.CSV.Path == "" {
			return fmt.Errorf("source.csv.path is required for a csv source")
		}
	case SourceTimescaleDB:
		ts := c.Source.TimescaleDB
		if ts == nil || ts.ConnectionString == "" {
			return fmt.Errorf("source.timescaledb.connection_string is required for a timescaledb source")
		}
		for name, ident := range map[string]string{
			"table":        ts.Table,
			"time_column":  ts.TimeColumn,
			"value_column": ts.ValueColumn,
		} {
			if !ValidIdentifier(ident) {
				return fmt.Errorf("source.timescaledb.%s %q is not a valid identifier", name, ident)
			}
		}
		if ts.StationColumn != "" && !ValidIdentifier(ts.StationColumn) {
			return fmt.Errorf("source.timescaledb.station_column %q is not a valid identifier", ts.StationColumn)
		}
		if ts.Station != "" && ts.StationColumn == "" {
			return fmt.Errorf("source.timescaledb.station_column is required when station is set")
		}
	default:
		return fmt.Errorf("unsupported source type: %s. Use 'csv' or 'timescaledb'", c.Source.Type)
	}

	if err := c.Analysis.Params().Validate(); err != nil {
		return fmt.Errorf("analysis defaults: %w", err)
	}

	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard.port must be between 1 and 65535")
	}
	if (c.Dashboard.Cert == "") != (c.Dashboard.Key == "") {
		return fmt.Errorf("dashboard.cert and dashboard.key must be set together")
	}

	return nil
}
