package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/scoutcalc/pkg/metrics"
)

// Route labels for HTTP metrics, one per path served by Register.
const (
	routeHealthz     = "healthz"
	routeStats       = "stats"
	routeRecords     = "records"
	routeRefresh     = "refresh"
	routeTeams       = "teams"
	routeNormalized  = "normalized"
	routeLeaderboard = "leaderboard"
	routeTeam        = "team"
	routeMatch       = "match"
)

// Instrument counts and times every response of next under route. Error
// statuses are also counted per route as http errors of the kind returned
// by errorKind, e.g. "records_unavailable" when ingest is disabled.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next(sw, r)

		status := sw.status()
		code := strconv.Itoa(status)
		ms := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(route, r.Method, code)
		metrics.RecordHTTPRequestDuration(route, r.Method, code, ms)
		if kind := errorKind(status); kind != "" {
			metrics.RecordErrorByComponent("http", route+"_"+kind)
		}
	}
}

// errorKind is empty for statuses below 400.
func errorKind(status int) string {
	switch {
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "rejected"
	}
	return ""
}

// statusWriter remembers the first status written. A handler that only
// calls Write answers 200.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}
