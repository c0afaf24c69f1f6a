package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chrissnell/voltview/internal/constants"
	"github.com/chrissnell/voltview/internal/log"
	"github.com/chrissnell/voltview/internal/render"
	"github.com/chrissnell/voltview/internal/voltage"
)

func main() {
	defaults := voltage.DefaultParams()

	input := flag.String("input", "Sample_Data.csv", "Path to the Timestamp,Values CSV file")
	window := flag.Int("window", defaults.Window, "Rolling window size in samples")
	threshold := flag.Float64("threshold", defaults.Threshold, "Report samples below this voltage")
	slope := flag.Float64("slope", defaults.SlopeSensitivity, "Slope sensitivity")
	acceleration := flag.Float64("acceleration", defaults.AccelerationSensitivity, "Acceleration sensitivity")
	distance := flag.Int("distance", defaults.PeakDistance, "Minimum index distance between peaks")
	rows := flag.Int("rows", 20, "Maximum rows printed per table (0 prints all)")
	chartsDir := flag.String("charts", "", "Write the charts as PNG files into this directory")
	csvDir := flag.String("csv", "", "Write every table as a CSV file into this directory")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("voltview-report %s\n", constants.Version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	params := voltage.Params{
		Window:                  *window,
		Threshold:               *threshold,
		SlopeSensitivity:        *slope,
		AccelerationSensitivity: *acceleration,
		PeakDistance:            *distance,
	}

	r := reporter{rows: *rows, chartsDir: *chartsDir, csvDir: *csvDir}
	if err := r.run(os.Stdout, *input, params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type reporter struct {
	rows      int
	chartsDir string
	csvDir    string
}

func (r reporter) run(w io.Writer, input string, params voltage.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	series, err := voltage.Load(input)
	if errors.Is(err, voltage.ErrEmptyInput) {
		log.Warnf("%s contains no data rows", input)
	} else if err != nil {
		return fmt.Errorf("error loading %s: %w", input, err)
	}

	a, err := voltage.Analyze(series, params)
	if err != nil {
		return err
	}
	log.Debugw("analysis complete", "run_id", a.RunID.String(), "params", params.String())

	fmt.Fprintf(w, "Voltage analysis of %s (%s)\n\n", input, params)

	for _, name := range render.TableNames {
		table, err := render.BuildTable(a, name)
		if err != nil {
			return err
		}
		if err := render.WriteText(w, table, r.rows); err != nil {
			return err
		}
		fmt.Fprintln(w)

		if r.csvDir != "" {
			if err := writeFile(filepath.Join(r.csvDir, name+".csv"), func(f io.Writer) error {
				return render.WriteCSV(f, table)
			}); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total Records:       %d\n", a.Summary.TotalRecords)
	fmt.Fprintf(w, "  Detected Peaks:      %d\n", a.Summary.Peaks)
	fmt.Fprintf(w, "  Acceleration Events: %d\n", a.Summary.AccelerationEvents)

	if r.chartsDir != "" {
		for _, name := range render.ChartNames {
			path := filepath.Join(r.chartsDir, name+".png")
			err := writeFile(path, func(f io.Writer) error {
				return render.RenderChart(f, a, name)
			})
			if errors.Is(err, render.ErrNotEnoughData) {
				log.Warnf("skipping %s chart: %v", name, err)
				os.Remove(path)
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
