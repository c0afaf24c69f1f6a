package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chrissnell/voltview/internal/database"
	"github.com/chrissnell/voltview/internal/log"
	"github.com/chrissnell/voltview/internal/source"
	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

type options struct {
	input       string
	cfgFile     string
	cfgBackend  string
	connString  string
	table       string
	station     string
	skipMigrate bool
	dryRun      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "Path to the Timestamp,Values CSV file (required)")
	flag.StringVar(&opts.cfgFile, "config", "", "Read source.timescaledb settings from this configuration")
	flag.StringVar(&opts.cfgBackend, "config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	flag.StringVar(&opts.connString, "connection-string", "", "TimescaleDB connection string (overrides the configuration)")
	flag.StringVar(&opts.table, "table", "", "Target table (overrides the configuration)")
	flag.StringVar(&opts.station, "station", "", "Station name stored with every reading")
	flag.BoolVar(&opts.skipMigrate, "skip-migrate", false, "Do not create or migrate the target table")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Parse the input and show what would be imported")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if opts.input == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <data.csv> [-config config.yaml | -connection-string <dsn>]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Errorf("import failed: %v", err)
		os.Exit(1)
	}
}

// targetConfig merges the configuration file with command-line overrides
func targetConfig(opts options) (config.TimescaleDBData, error) {
	cfgData := &config.ConfigData{}

	if opts.cfgFile != "" {
		filename, _ := filepath.Abs(opts.cfgFile)

		var provider config.ConfigProvider
		switch opts.cfgBackend {
		case "yaml":
			provider = config.NewYAMLProvider(filename)
		case "sqlite":
			p, err := config.NewSQLiteProvider(filename)
			if err != nil {
				return config.TimescaleDBData{}, fmt.Errorf("error creating SQLite provider: %w", err)
			}
			provider = p
		default:
			return config.TimescaleDBData{}, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", opts.cfgBackend)
		}
		defer provider.Close()

		loaded, err := provider.LoadConfig()
		if err != nil {
			return config.TimescaleDBData{}, fmt.Errorf("error reading configuration: %w", err)
		}
		cfgData = loaded
	}

	if cfgData.Source.TimescaleDB == nil {
		cfgData.Source.TimescaleDB = &config.TimescaleDBData{}
	}
	ts := cfgData.Source.TimescaleDB
	if opts.connString != "" {
		ts.ConnectionString = opts.connString
	}
	if opts.table != "" {
		ts.Table = opts.table
	}
	if opts.station != "" {
		ts.Station = opts.station
	}
	if ts.Station != "" && ts.StationColumn == "" {
		ts.StationColumn = database.DefaultStationColumn
	}

	cfgData.Source.Type = config.SourceTimescaleDB
	cfgData.ApplyDefaults()
	if err := cfgData.Validate(); err != nil {
		return config.TimescaleDBData{}, err
	}
	return *cfgData.Source.TimescaleDB, nil
}

func run(ctx context.Context, opts options) error {
	target, err := targetConfig(opts)
	if err != nil {
		return err
	}

	query, err := source.ReadingQueryFor(target)
	if err != nil {
		return err
	}

	series, err := voltage.Load(opts.input)
	if errors.Is(err, voltage.ErrEmptyInput) {
		log.Warnf("%s contains no data rows; nothing to import", opts.input)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error loading %s: %w", opts.input, err)
	}

	st := voltage.Describe(series)
	log.Infof("read %d readings from %s spanning %s to %s", series.Len(), opts.input,
		st.Start.Format(time.RFC3339), st.End.Format(time.RFC3339))

	if opts.dryRun {
		log.Infof("dry run: would import %d readings into %s", series.Len(), query.Table)
		return nil
	}

	conn, err := pgx.Connect(ctx, target.ConnectionString)
	if err != nil {
		return fmt.Errorf("could not connect to TimescaleDB: %w", err)
	}
	defer conn.Close(context.Background())

	if !opts.skipMigrate {
		db := stdlib.OpenDB(*conn.Config())
		applied, err := database.MigrateReadings(db, query)
		db.Close()
		if err != nil {
			return err
		}
		log.Infof("applied %d migrations to %s", applied, query.Table)
	}

	start := time.Now()
	n, err := database.CopyReadings(ctx, conn, query, target.Station, series.Samples())
	if err != nil {
		return err
	}
	log.Infow("import complete", "rows", n, "table", query.Table, "station", target.Station, "elapsed", time.Since(start))
	return nil
}
