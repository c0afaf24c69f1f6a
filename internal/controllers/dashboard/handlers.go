package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chrissnell/voltview/internal/constants"
	"github.com/chrissnell/voltview/internal/log"
	"github.com/chrissnell/voltview/internal/render"
	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/config"
	"github.com/chrissnell/voltview/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the dashboard
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

func intParam(q url.Values, key string, dst *int) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func floatParam(q url.Values, key string, dst *float64) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

// paramsFromRequest overlays the query string on the current defaults
func (h *Handlers) paramsFromRequest(req *http.Request) (voltage.Params, error) {
	p := h.controller.Defaults()
	q := req.URL.Query()

	if err := intParam(q, "window", &p.Window); err != nil {
		return p, err
	}
	if err := floatParam(q, "threshold", &p.Threshold); err != nil {
		return p, err
	}
	if err := floatParam(q, "slope", &p.SlopeSensitivity); err != nil {
		return p, err
	}
	if err := floatParam(q, "acceleration", &p.AccelerationSensitivity); err != nil {
		return p, err
	}
	if err := intParam(q, "distance", &p.PeakDistance); err != nil {
		return p, err
	}

	return p, p.Validate()
}

// analyze runs the pipeline for the request and writes an error response on failure
func (h *Handlers) analyze(w http.ResponseWriter, req *http.Request) (*voltage.Analysis, bool) {
	p, err := h.paramsFromRequest(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err)
		return nil, false
	}

	a, err := voltage.Analyze(h.controller.Series, p)
	if err != nil {
		var cfgErr *voltage.ConfigError
		if errors.As(err, &cfgErr) {
			h.formatter.WriteError(w, req, http.StatusBadRequest, err)
		} else {
			log.Errorf("analysis failed: %v", err)
			h.formatter.WriteError(w, req, http.StatusInternalServerError, err)
		}
		return nil, false
	}

	w.Header().Set(constants.RunIDHeader, a.RunID.String())
	log.Debugw("analysis complete", "run_id", a.RunID.String(), "params", p.String(),
		"peaks", a.Summary.Peaks, "events", a.Summary.AccelerationEvents)
	return a, true
}

// GetParams returns the control defaults and bounds
func (h *Handlers) GetParams(w http.ResponseWriter, req *http.Request) {
	resp := ParamsResponse{
		Defaults: h.controller.Defaults(),
		Bounds:   paramBounds(),
		ReadOnly: h.readOnly(),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Errorf("error writing params response: %v", err)
	}
}

// GetAnalysis returns the full analysis for the requested parameters
func (h *Handlers) GetAnalysis(w http.ResponseWriter, req *http.Request) {
	a, ok := h.analyze(w, req)
	if !ok {
		return
	}
	if err := h.formatter.WriteResponse(w, req, transformAnalysis(a, h.controller.SourceName), nil); err != nil {
		log.Errorf("error writing analysis response: %v", err)
	}
}

// GetSummary returns only the summary counters
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	a, ok := h.analyze(w, req)
	if !ok {
		return
	}
	resp := SummaryResponse{RunID: a.RunID.String(), Params: a.Params, Summary: a.Summary}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		log.Errorf("error writing summary response: %v", err)
	}
}

// GetTable returns one rendered table. format=csv returns it as CSV.
func (h *Handlers) GetTable(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	limit := 0
	if err := intParam(req.URL.Query(), "limit", &limit); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err)
		return
	}

	a, ok := h.analyze(w, req)
	if !ok {
		return
	}

	table, err := render.BuildTable(a, name)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, err)
		return
	}
	table = table.Limit(limit)

	if req.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		if err := render.WriteCSV(w, table); err != nil {
			log.Errorf("error writing %s table as csv: %v", name, err)
		}
		return
	}

	if err := h.formatter.WriteResponse(w, req, table, nil); err != nil {
		log.Errorf("error writing %s table: %v", name, err)
	}
}

// GetChart renders one chart as a PNG
func (h *Handlers) GetChart(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	a, ok := h.analyze(w, req)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.RenderChart(&buf, a, name); err != nil {
		switch {
		case errors.Is(err, render.ErrUnknownChart), errors.Is(err, render.ErrNotEnoughData):
			h.formatter.WriteError(w, req, http.StatusNotFound, err)
		default:
			log.Errorf("error rendering %s chart: %v", name, err)
			h.formatter.WriteError(w, req, http.StatusInternalServerError, errors.New("chart rendering failed"))
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

func (h *Handlers) readOnly() bool {
	_, writable := h.controller.configProvider.(config.WritableProvider)
	return !writable || h.controller.configProvider.IsReadOnly()
}

// PutDefaults persists new control defaults when the configuration backend allows it
func (h *Handlers) PutDefaults(w http.ResponseWriter, req *http.Request) {
	wp, writable := h.controller.configProvider.(config.WritableProvider)
	if !writable || wp.IsReadOnly() {
		h.formatter.WriteError(w, req, http.StatusForbidden, errors.New("configuration backend is read-only"))
		return
	}

	var p voltage.Params
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<16)).Decode(&p); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := p.Validate(); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err)
		return
	}

	if err := wp.UpdateAnalysisDefaults(config.AnalysisDataFromParams(p)); err != nil {
		log.Errorf("error saving analysis defaults: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, errors.New("failed to save analysis defaults"))
		return
	}
	h.controller.setDefaults(p)
	log.Infof("analysis defaults updated: %s", p)

	if err := h.formatter.WriteResponse(w, req, p, nil); err != nil {
		log.Errorf("error writing defaults response: %v", err)
	}
}

// control describes one slider on the dashboard page
type control struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

func controls(p voltage.Params) map[string]control {
	return map[string]control{
		"window":       {"window", "Rolling Window Size", voltage.WindowBounds.Min, voltage.WindowBounds.Max, 1, float64(p.Window)},
		"threshold":    {"threshold", "Voltage Threshold", voltage.ThresholdBounds.Min, voltage.ThresholdBounds.Max, 0.5, p.Threshold},
		"slope":        {"slope", "Slope Sensitivity", voltage.SlopeSensitivityBounds.Min, voltage.SlopeSensitivityBounds.Max, 0.5, p.SlopeSensitivity},
		"acceleration": {"acceleration", "Acceleration Sensitivity", voltage.AccelerationSensitivityBounds.Min, voltage.AccelerationSensitivityBounds.Max, 0.5, p.AccelerationSensitivity},
		"distance":     {"distance", "Minimum Peak Distance", voltage.PeakDistanceBounds.Min, voltage.PeakDistanceBounds.Max, 1, float64(p.PeakDistance)},
	}
}

// ServeIndexTemplate serves the dashboard page
func (h *Handlers) ServeIndexTemplate(w http.ResponseWriter, req *http.Request) {
	view, err := htmltemplate.New("index.html.tmpl").ParseFS(h.controller.FS, "index.html.tmpl")
	if err != nil {
		log.Error("error parsing index template:", err)
		http.Error(w, "dashboard template unavailable", http.StatusInternalServerError)
		return
	}

	defaults := h.controller.Defaults()
	templateData := struct {
		PageTitle string
		Source    string
		Stats     voltage.Stats
		Total     int
		Controls  map[string]control
		ReadOnly  bool
		Version   string
	}{
		PageTitle: h.controller.dashboardConfig.PageTitle,
		Source:    h.controller.SourceName,
		Stats:     voltage.Describe(h.controller.Series),
		Total:     h.controller.Series.Len(),
		Controls:  controls(defaults),
		ReadOnly:  h.readOnly(),
		Version:   constants.Version,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Execute(w, templateData); err != nil {
		log.Error("error executing index template:", err)
	}
}
