package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/chrissnell/voltview/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlConfig, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")
	if !compare(os.Stdout, yamlConfig, sqliteConfig) {
		os.Exit(1)
	}
	fmt.Println("\nTest completed!")
}

// compare reports every section that differs once defaults are applied to both sides
func compare(w io.Writer, yamlConfig, sqliteConfig *config.ConfigData) bool {
	yamlConfig.ApplyDefaults()
	sqliteConfig.ApplyDefaults()

	sections := []struct {
		name         string
		yaml, sqlite any
	}{
		{"Source", yamlConfig.Source, sqliteConfig.Source},
		{"Analysis", yamlConfig.Analysis, sqliteConfig.Analysis},
		{"Dashboard", yamlConfig.Dashboard, sqliteConfig.Dashboard},
		{"Logging", yamlConfig.Logging, sqliteConfig.Logging},
	}

	ok := true
	for _, s := range sections {
		if reflect.DeepEqual(s.yaml, s.sqlite) {
			fmt.Fprintf(w, "✓ %s matches\n", s.name)
			continue
		}
		ok = false
		fmt.Fprintf(w, "✗ %s differs\n", s.name)
		fmt.Fprintf(w, "  YAML:   %+v\n", s.yaml)
		fmt.Fprintf(w, "  SQLite: %+v\n", s.sqlite)
	}
	return ok
}
