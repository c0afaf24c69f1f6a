package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chrissnell/voltview/internal/voltage"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrNotEnoughData is returned when a series is too short to plot
	ErrNotEnoughData = errors.New("at least two samples spanning a time range are required to draw a chart")

	// ErrUnknownChart is returned for a chart name that RenderChart does not know
	ErrUnknownChart = errors.New("unknown chart")
)

// Chart names
const (
	ChartRaw      = "raw"
	ChartSmoothed = "smoothed"
	ChartExtrema  = "extrema"
	ChartEvents   = "events"
)

// ChartNames lists every chart in dashboard order
var ChartNames = []string{ChartRaw, ChartSmoothed, ChartExtrema, ChartEvents}

const (
	chartWidth  = 1200
	chartHeight = 400
)

var (
	colorTrace   = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorRolling = drawing.ColorRed
	colorPeak    = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	colorLow     = drawing.ColorRed
	colorEvent   = drawing.Color{R: 255, G: 165, B: 0, A: 255}
)

// pointStyle renders points only, with no connecting line
func pointStyle(col drawing.Color, size float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    size,
		DotColor:    col,
	}
}

// RenderChart draws the named chart for an analysis as a PNG
func RenderChart(w io.Writer, a *voltage.Analysis, name string) error {
	switch name {
	case ChartRaw:
		return RawChart(w, a.Series)
	case ChartSmoothed:
		return SmoothedChart(w, a.Series, a.Smoothed)
	case ChartExtrema:
		return ExtremaChart(w, a.Series, a.Extrema)
	case ChartEvents:
		return EventsChart(w, a.Series, a.Events)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}
}

func traceSeries(s voltage.Series, name string, style chart.Style) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		XValues: s.Timestamps(),
		YValues: s.Values(),
		Style:   style,
	}
}

// RawChart draws the voltage trace alone
func RawChart(w io.Writer, s voltage.Series) error {
	return draw(w, s, false, traceSeries(s, "Voltage", chart.Style{StrokeColor: colorTrace, StrokeWidth: 1}))
}

// SmoothedChart overlays the rolling average on a faded raw trace. Missing
// rolling values are left out of the overlay rather than plotted as zero.
func SmoothedChart(w io.Writer, s voltage.Series, smoothed []voltage.Optional) error {
	raw := traceSeries(s, "Raw Voltage", chart.Style{StrokeColor: colorTrace.WithAlpha(102), StrokeWidth: 1})

	var xs []time.Time
	var ys []float64
	for i, v := range smoothed {
		if v.Valid {
			xs = append(xs, s.At(i).Timestamp)
			ys = append(ys, v.Float64)
		}
	}

	series := []chart.Series{raw}
	if len(xs) > 0 {
		series = append(series, chart.TimeSeries{
			Name:    "Rolling Average",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: colorRolling, StrokeWidth: 2},
		})
	}
	return draw(w, s, true, series...)
}

// ExtremaChart marks peaks and lows on the trace
func ExtremaChart(w io.Writer, s voltage.Series, events []voltage.ExtremumEvent) error {
	series := []chart.Series{traceSeries(s, "Voltage", chart.Style{StrokeColor: colorTrace, StrokeWidth: 1})}

	if peaks := voltage.Peaks(events); len(peaks) > 0 {
		series = append(series, extremaScatter("Peaks", peaks, colorPeak))
	}
	if lows := voltage.Lows(events); len(lows) > 0 {
		series = append(series, extremaScatter("Lows", lows, colorLow))
	}
	return draw(w, s, true, series...)
}

func extremaScatter(name string, events []voltage.ExtremumEvent, col drawing.Color) chart.TimeSeries {
	ts := chart.TimeSeries{Name: name, Style: pointStyle(col, 4)}
	for _, e := range events {
		ts.XValues = append(ts.XValues, e.Timestamp)
		ts.YValues = append(ts.YValues, e.Value)
	}
	return ts
}

// EventsChart marks downward acceleration events on the trace
func EventsChart(w io.Writer, s voltage.Series, events []voltage.AccelerationEvent) error {
	series := []chart.Series{traceSeries(s, "Voltage", chart.Style{StrokeColor: colorTrace, StrokeWidth: 1})}

	if len(events) > 0 {
		scatter := chart.TimeSeries{Name: "Acceleration Events", Style: pointStyle(colorEvent, 5)}
		for _, e := range events {
			scatter.XValues = append(scatter.XValues, e.Timestamp)
			scatter.YValues = append(scatter.YValues, e.Value)
		}
		series = append(series, scatter)
	}
	return draw(w, s, true, series...)
}

// yRange pads a flat series so the axis never has a zero-height range
func yRange(s voltage.Series) *chart.ContinuousRange {
	st := voltage.Describe(s)
	lo, hi := st.Min, st.Max
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func draw(w io.Writer, s voltage.Series, legend bool, series ...chart.Series) error {
	if s.Len() < 2 || !s.At(s.Len()-1).Timestamp.After(s.At(0).Timestamp) {
		return ErrNotEnoughData
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Timestamp",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
			GridMajorStyle: chart.Style{StrokeColor: drawing.ColorFromHex("e0e0e0"), StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Name:           "Voltage",
			Range:          yRange(s),
			GridMajorStyle: chart.Style{StrokeColor: drawing.ColorFromHex("e0e0e0"), StrokeWidth: 1},
		},
		Series: series,
	}
	if legend {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
