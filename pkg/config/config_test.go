package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
source:
  type: csv
  csv:
    path: data/Sample_Data.csv
analysis:
  window: 25
  threshold: 18.5
  slope_sensitivity: 3
  acceleration_sensitivity: 0
  peak_distance: 12
dashboard:
  port: 9090
  page_title: Bench PSU
logging:
  file: /var/log/voltview.log
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeFile(t, "config.yaml", sampleYAML))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Source.Type != SourceCSV || cfg.Source.CSV == nil || cfg.Source.CSV.Path != "data/Sample_Data.csv" {
		t.Errorf("unexpected source: %+v", cfg.Source)
	}
	if cfg.Analysis.Window != 25 || cfg.Analysis.Threshold != 18.5 || cfg.Analysis.PeakDistance != 12 {
		t.Errorf("unexpected analysis: %+v", cfg.Analysis)
	}
	if cfg.Dashboard.Port != 9090 || cfg.Dashboard.PageTitle != "Bench PSU" {
		t.Errorf("unexpected dashboard: %+v", cfg.Dashboard)
	}

	cfg.ApplyDefaults()
	if cfg.Analysis.AccelerationSensitivity != 0 {
		t.Errorf("explicit zero acceleration sensitivity should be kept, got %g", cfg.Analysis.AccelerationSensitivity)
	}
	if cfg.Dashboard.ListenAddr != "0.0.0.0" {
		t.Errorf("expected default listen address, got %q", cfg.Dashboard.ListenAddr)
	}
	if cfg.Logging.MaxSizeMB != 100 {
		t.Errorf("expected default log size, got %d", cfg.Logging.MaxSizeMB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	var cfg ConfigData
	cfg.ApplyDefaults()

	if cfg.Source.Type != SourceCSV || cfg.Source.CSV == nil || cfg.Source.CSV.Path == "" {
		t.Errorf("expected default csv source, got %+v", cfg.Source)
	}
	if cfg.Analysis.AccelerationSensitivity != 1 {
		t.Errorf("absent analysis section should take default acceleration sensitivity, got %g", cfg.Analysis.AccelerationSensitivity)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Dashboard.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ConfigData)
		wantErr string
	}{
		{
			name:    "unknown source",
			mutate:  func(c *ConfigData) { c.Source.Type = "ftp" },
			wantErr: "unsupported source type",
		},
		{
			name: "timescaledb without connection string",
			mutate: func(c *ConfigData) {
				c.Source = SourceData{Type: SourceTimescaleDB, TimescaleDB: &TimescaleDBData{Table: "v", TimeColumn: "t", ValueColumn: "v"}}
			},
			wantErr: "connection_string",
		},
		{
			name: "timescaledb with unsafe identifier",
			mutate: func(c *ConfigData) {
				c.Source = SourceData{Type: SourceTimescaleDB, TimescaleDB: &TimescaleDBData{
					ConnectionString: "postgres://localhost/volts",
					Table:            "readings; DROP TABLE x",
					TimeColumn:       "time",
					ValueColumn:      "value",
				}}
			},
			wantErr: "not a valid identifier",
		},
		{
			name:    "analysis default out of range",
			mutate:  func(c *ConfigData) { c.Analysis.Window = 1000 },
			wantErr: "window",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ConfigData) { c.Dashboard.Cert = "cert.pem" },
			wantErr: "cert and dashboard.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg ConfigData
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidIdentifier(t *testing.T) {
	valid := []string{"voltage_readings", "public.voltage_readings", "_t1"}
	invalid := []string{"", "1abc", "a-b", "a b", "a;b", "a.b.c", `"quoted"`}

	for _, s := range valid {
		if !ValidIdentifier(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidIdentifier(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")
	provider, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteProvider failed: %v", err)
	}
	defer provider.Close()

	empty, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig on empty database failed: %v", err)
	}
	if empty.Source.Type != "" || empty.Analysis != (AnalysisData{}) {
		t.Errorf("expected empty config, got %+v", empty)
	}

	cfg := &ConfigData{
		Source: SourceData{
			Type: SourceTimescaleDB,
			TimescaleDB: &TimescaleDBData{
				ConnectionString: "postgres://voltview@localhost/volts",
				Table:            "voltage_readings",
				TimeColumn:       "time",
				ValueColumn:      "value",
				StationColumn:    "stationname",
				Station:          "bench-1",
			},
		},
		Analysis:  AnalysisData{Window: 30, Threshold: 15, SlopeSensitivity: 4, AccelerationSensitivity: 0.5, PeakDistance: 7},
		Dashboard: DashboardData{ListenAddr: "127.0.0.1", Port: 8181, PageTitle: "Rack A"},
		Logging:   LoggingData{File: "voltview.log", MaxSizeMB: 10, MaxBackups: 2, MaxAgeDays: 7},
	}
	if err := provider.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Source.Type != SourceTimescaleDB || loaded.Source.TimescaleDB == nil {
		t.Fatalf("unexpected source: %+v", loaded.Source)
	}
	if *loaded.Source.TimescaleDB != *cfg.Source.TimescaleDB {
		t.Errorf("timescaledb mismatch: %+v vs %+v", loaded.Source.TimescaleDB, cfg.Source.TimescaleDB)
	}
	if loaded.Source.CSV != nil {
		t.Errorf("expected no csv section, got %+v", loaded.Source.CSV)
	}
	if loaded.Analysis != cfg.Analysis {
		t.Errorf("analysis mismatch: %+v vs %+v", loaded.Analysis, cfg.Analysis)
	}
	if loaded.Dashboard != cfg.Dashboard {
		t.Errorf("dashboard mismatch: %+v vs %+v", loaded.Dashboard, cfg.Dashboard)
	}
	if loaded.Logging != cfg.Logging {
		t.Errorf("logging mismatch: %+v vs %+v", loaded.Logging, cfg.Logging)
	}

	updated := AnalysisData{Window: 60, Threshold: 22, SlopeSensitivity: 2, AccelerationSensitivity: 1, PeakDistance: 10}
	if err := provider.UpdateAnalysisDefaults(updated); err != nil {
		t.Fatalf("UpdateAnalysisDefaults failed: %v", err)
	}
	analysis, err := provider.GetAnalysisDefaults()
	if err != nil {
		t.Fatalf("GetAnalysisDefaults failed: %v", err)
	}
	if *analysis != updated {
		t.Errorf("expected %+v, got %+v", updated, *analysis)
	}

	// Reopening must not clobber existing rows.
	provider.Close()
	reopened, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	source, err := reopened.GetSourceConfig()
	if err != nil {
		t.Fatalf("GetSourceConfig failed: %v", err)
	}
	if source.TimescaleDB == nil || source.TimescaleDB.Station != "bench-1" {
		t.Errorf("expected persisted station, got %+v", source)
	}
}
