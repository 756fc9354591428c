package api

import (
	"context"
	"net/http"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// TableDependencies exposes the published aggregate tables.
type TableDependencies interface {
	Aggregates(ctx context.Context) []model.TeamAggregate
	Normalized(ctx context.Context) []model.NormalizedAggregate
}

// TablesHandler serves the aggregate tables as published.
type TablesHandler struct {
	deps TableDependencies
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TableDependencies) *TablesHandler {
	return &TablesHandler{deps: deps}
}

// HandleTeams handles GET /teams requests.
func (h *TablesHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Aggregates(r.Context()))
}

// HandleNormalized handles GET /normalized requests.
func (h *TablesHandler) HandleNormalized(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Normalized(r.Context()))
}
