package api

import (
	"net/http"
	"strings"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves service statistics.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. An optional comma-separated keys parameter,
// e.g. /stats?keys=lastRun,teams, narrows the response to those entries.
// Stats change with every run, so responses are never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	if keys := r.URL.Query().Get("keys"); keys != "" {
		picked := make(map[string]interface{})
		for _, k := range strings.Split(keys, ",") {
			if v, ok := stats[strings.TrimSpace(k)]; ok {
				picked[strings.TrimSpace(k)] = v
			}
		}
		stats = picked
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, stats)
}
