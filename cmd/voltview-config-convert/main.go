package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/voltview/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := convert(*yamlFile, *sqliteFile, *force, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func convert(yamlFile, sqliteFile string, force, dryRun bool) error {
	// Check if YAML file exists
	if _, err := os.Stat(yamlFile); os.IsNotExist(err) {
		return fmt.Errorf("YAML file does not exist: %s", yamlFile)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(sqliteFile); err == nil && !force {
		return fmt.Errorf("SQLite file already exists: %s (use -force to overwrite or choose a different filename)", sqliteFile)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", yamlFile)
	fmt.Printf("  Target: %s\n", sqliteFile)

	fmt.Printf("Loading YAML configuration...\n")
	configData, err := config.NewYAMLProvider(yamlFile).LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading YAML configuration: %w", err)
	}
	configData.ApplyDefaults()
	if err := configData.Validate(); err != nil {
		return fmt.Errorf("invalid YAML configuration: %w", err)
	}

	if dryRun {
		fmt.Println("DRY RUN - No changes will be made")
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return nil
	}

	if force {
		if err := os.Remove(sqliteFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing existing SQLite file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(sqliteFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Opening the provider creates the database and applies the schema migrations
	fmt.Printf("Creating SQLite database...\n")
	provider, err := config.NewSQLiteProvider(sqliteFile)
	if err != nil {
		return fmt.Errorf("failed to create SQLite provider: %w", err)
	}
	defer provider.Close()

	fmt.Printf("Loading configuration into SQLite database...\n")
	if err := provider.SaveConfig(configData); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", sqliteFile)
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	fmt.Println("\nConfiguration Summary:")

	fmt.Printf("Source: %s\n", configData.Source.Type)
	switch {
	case configData.Source.CSV != nil && configData.Source.Type == config.SourceCSV:
		fmt.Printf("  - CSV: %s\n", configData.Source.CSV.Path)
	case configData.Source.TimescaleDB != nil:
		ts := configData.Source.TimescaleDB
		fmt.Printf("  - TimescaleDB table %s (%s, %s)\n", ts.Table, ts.TimeColumn, ts.ValueColumn)
	}

	fmt.Printf("\nAnalysis defaults: %s\n", configData.Analysis.Params())
	fmt.Printf("Dashboard: %s:%d (%q)\n", configData.Dashboard.ListenAddr, configData.Dashboard.Port, configData.Dashboard.PageTitle)
	if configData.Logging.File != "" {
		fmt.Printf("Log file: %s\n", configData.Logging.File)
	}
}
