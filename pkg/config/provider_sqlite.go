package config

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/chrissnell/voltview/pkg/migrate"
	_ "modernc.org/sqlite"
)

const defaultConfigName = "default"

//go:embed migrations/*.sql
var migrations embed.FS

// MigrateSQLite brings the configuration schema of db up to date
func MigrateSQLite(db *sql.DB) error {
	provider := migrate.NewFSProvider(migrations, "migrations", "schema_migrations", migrate.SQLite, nil)
	if _, err := migrate.NewMigrator(db, provider).MigrateUp(); err != nil {
		return fmt.Errorf("failed to migrate configuration schema: %w", err)
	}
	return nil
}

var _ WritableProvider = (*SQLiteProvider)(nil)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (creating if needed) the SQLite configuration database
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if err := MigrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	source, err := s.GetSourceConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load source config: %w", err)
	}
	config.Source = *source

	analysis, err := s.GetAnalysisDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis defaults: %w", err)
	}
	config.Analysis = *analysis

	dashboard, err := s.GetDashboardConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard config: %w", err)
	}
	config.Dashboard = *dashboard

	logging, err := s.getLoggingConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	config.Logging = *logging

	return config, nil
}

// GetSourceConfig returns the sample source configuration. A missing row
// yields an empty SourceData.
func (s *SQLiteProvider) GetSourceConfig() (*SourceData, error) {
	query := `
		SELECT source_type, csv_path, connection_string, table_name,
		       time_column, value_column, station_column, station
		FROM source_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var source SourceData
	var csvPath, connStr, table, timeCol, valueCol, stationCol, station sql.NullString

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&source.Type, &csvPath, &connStr, &table,
		&timeCol, &valueCol, &stationCol, &station,
	)
	if err == sql.ErrNoRows {
		return &source, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source config: %w", err)
	}

	if csvPath.Valid {
		source.CSV = &CSVData{Path: csvPath.String}
	}
	if connStr.Valid {
		source.TimescaleDB = &TimescaleDBData{
			ConnectionString: connStr.String,
			Table:            table.String,
			TimeColumn:       timeCol.String,
			ValueColumn:      valueCol.String,
			StationColumn:    stationCol.String,
			Station:          station.String,
		}
	}

	return &source, nil
}

// GetAnalysisDefaults returns the stored analysis defaults, or an empty
// AnalysisData when none were saved
func (s *SQLiteProvider) GetAnalysisDefaults() (*AnalysisData, error) {
	query := `
		SELECT window_size, threshold, slope_sensitivity, acceleration_sensitivity, peak_distance
		FROM analysis_defaults
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var analysis AnalysisData
	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&analysis.Window, &analysis.Threshold, &analysis.SlopeSensitivity,
		&analysis.AccelerationSensitivity, &analysis.PeakDistance,
	)
	if err == sql.ErrNoRows {
		return &analysis, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis defaults: %w", err)
	}

	return &analysis, nil
}

// GetDashboardConfig returns the dashboard server configuration
func (s *SQLiteProvider) GetDashboardConfig() (*DashboardData, error) {
	query := `
		SELECT listen_addr, port, tls_cert, tls_key, page_title
		FROM dashboard_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var dashboard DashboardData
	var listenAddr, cert, key, title sql.NullString
	var port sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(&listenAddr, &port, &cert, &key, &title)
	if err == sql.ErrNoRows {
		return &dashboard, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard config: %w", err)
	}

	dashboard.ListenAddr = listenAddr.String
	dashboard.Port = int(port.Int64)
	dashboard.Cert = cert.String
	dashboard.Key = key.String
	dashboard.PageTitle = title.String

	return &dashboard, nil
}

func (s *SQLiteProvider) getLoggingConfig() (*LoggingData, error) {
	query := `
		SELECT file, max_size_mb, max_backups, max_age_days
		FROM logging_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var logging LoggingData
	var file sql.NullString
	var maxSize, maxBackups, maxAge sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(&file, &maxSize, &maxBackups, &maxAge)
	if err == sql.ErrNoRows {
		return &logging, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query logging config: %w", err)
	}

	logging.File = file.String
	logging.MaxSizeMB = int(maxSize.Int64)
	logging.MaxBackups = int(maxBackups.Int64)
	logging.MaxAgeDays = int(maxAge.Int64)

	return &logging, nil
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces every stored section with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return err
	}

	if err := s.upsertSource(tx, configID, &configData.Source); err != nil {
		return err
	}
	if err := s.upsertAnalysis(tx, configID, configData.Analysis); err != nil {
		return err
	}
	if err := s.upsertDashboard(tx, configID, &configData.Dashboard); err != nil {
		return err
	}
	if err := s.upsertLogging(tx, configID, &configData.Logging); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateAnalysisDefaults replaces the stored analysis defaults
func (s *SQLiteProvider) UpdateAnalysisDefaults(analysis AnalysisData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return err
	}
	if err := s.upsertAnalysis(tx, configID, analysis); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteProvider) upsertSource(tx *sql.Tx, configID int64, source *SourceData) error {
	var csvPath sql.NullString
	if source.CSV != nil {
		csvPath = nullString(source.CSV.Path)
	}

	var connStr, table, timeCol, valueCol, stationCol, station sql.NullString
	if ts := source.TimescaleDB; ts != nil {
		connStr = nullString(ts.ConnectionString)
		table = nullString(ts.Table)
		timeCol = nullString(ts.TimeColumn)
		valueCol = nullString(ts.ValueColumn)
		stationCol = nullString(ts.StationColumn)
		station = nullString(ts.Station)
	}

	query := `
		INSERT OR REPLACE INTO source_configs
		(config_id, source_type, csv_path, connection_string, table_name,
		 time_column, value_column, station_column, station)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, source.Type, csvPath, connStr, table, timeCol, valueCol, stationCol, station)
	if err != nil {
		return fmt.Errorf("failed to save source config: %w", err)
	}
	return nil
}

func (s *SQLiteProvider) upsertAnalysis(tx *sql.Tx, configID int64, analysis AnalysisData) error {
	query := `
		INSERT OR REPLACE INTO analysis_defaults
		(config_id, window_size, threshold, slope_sensitivity, acceleration_sensitivity, peak_distance)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, analysis.Window, analysis.Threshold,
		analysis.SlopeSensitivity, analysis.AccelerationSensitivity, analysis.PeakDistance)
	if err != nil {
		return fmt.Errorf("failed to save analysis defaults: %w", err)
	}

	_, err = tx.Exec(`UPDATE configs SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, configID)
	if err != nil {
		return fmt.Errorf("failed to touch config: %w", err)
	}
	return nil
}

func (s *SQLiteProvider) upsertDashboard(tx *sql.Tx, configID int64, dashboard *DashboardData) error {
	query := `
		INSERT OR REPLACE INTO dashboard_configs
		(config_id, listen_addr, port, tls_cert, tls_key, page_title)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, nullString(dashboard.ListenAddr), dashboard.Port,
		nullString(dashboard.Cert), nullString(dashboard.Key), nullString(dashboard.PageTitle))
	if err != nil {
		return fmt.Errorf("failed to save dashboard config: %w", err)
	}
	return nil
}

func (s *SQLiteProvider) upsertLogging(tx *sql.Tx, configID int64, logging *LoggingData) error {
	query := `
		INSERT OR REPLACE INTO logging_configs
		(config_id, file, max_size_mb, max_backups, max_age_days)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, nullString(logging.File), logging.MaxSizeMB, logging.MaxBackups, logging.MaxAgeDays)
	if err != nil {
		return fmt.Errorf("failed to save logging config: %w", err)
	}
	return nil
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	var configID int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, defaultConfigName).Scan(&configID)
	if err == nil {
		return configID, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up config: %w", err)
	}

	result, err := tx.Exec(`INSERT INTO configs (name) VALUES (?)`, defaultConfigName)
	if err != nil {
		return 0, fmt.Errorf("failed to create config: %w", err)
	}
	return result.LastInsertId()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
