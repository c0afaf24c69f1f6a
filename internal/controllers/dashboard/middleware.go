package dashboard

import (
	"net/http"
	"time"

	"github.com/chrissnell/voltview/internal/constants"
	"github.com/chrissnell/voltview/internal/log"
)

// statusRecorder captures the status and size of a response
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// loggingMiddleware writes one access log entry per request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, req)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		log.LogHTTPRequest(log.HTTPRequest{
			Method:     req.Method,
			Path:       req.URL.Path,
			Status:     rec.status,
			Duration:   time.Since(start),
			Size:       rec.size,
			RemoteAddr: req.RemoteAddr,
			UserAgent:  req.UserAgent(),
			RunID:      rec.Header().Get(constants.RunIDHeader),
		})
	})
}
