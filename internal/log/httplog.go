package log

import (
	"time"
)

// HTTPRequest describes one completed dashboard request
type HTTPRequest struct {
	Method     string
	Path       string
	Status     int
	Duration   time.Duration
	Size       int
	RemoteAddr string
	UserAgent  string
	RunID      string
}

// LogHTTPRequest writes a structured access log entry. Server errors are logged
// at error level, everything else at debug level.
func LogHTTPRequest(r HTTPRequest) {
	fields := []interface{}{
		"method", r.Method,
		"path", r.Path,
		"status", r.Status,
		"duration_ms", r.Duration.Milliseconds(),
		"size", r.Size,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent,
	}
	if r.RunID != "" {
		fields = append(fields, "run_id", r.RunID)
	}

	if r.Status >= 500 {
		Errorw("http request failed", fields...)
		return
	}
	Debugw("http request", fields...)
}
