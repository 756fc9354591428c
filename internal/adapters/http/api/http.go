// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/scoutcalc/internal/adapters/repository"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecordDependencies
	RefreshDependencies
	TableDependencies
	LeaderboardDependencies
	TeamDependencies
	MatchDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	recordsHandler     *RecordsHandler
	refreshHandler     *RefreshHandler
	tablesHandler      *TablesHandler
	leaderboardHandler *LeaderboardHandler
	teamHandler        *TeamHandler
	matchHandler       *MatchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		recordsHandler:     NewRecordsHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		tablesHandler:      NewTablesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		teamHandler:        NewTeamHandler(deps),
		matchHandler:       NewMatchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", Instrument(routeHealthz, s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", Instrument(routeStats, s.statsHandler.HandleStats))
	mux.HandleFunc("/records", Instrument(routeRecords, s.recordsHandler.HandleRecords))
	mux.HandleFunc("/refresh", Instrument(routeRefresh, s.refreshHandler.HandleRefresh))
	mux.HandleFunc("/teams", Instrument(routeTeams, s.tablesHandler.HandleTeams))
	mux.HandleFunc("/normalized", Instrument(routeNormalized, s.tablesHandler.HandleNormalized))
	mux.HandleFunc("/leaderboard", Instrument(routeLeaderboard, s.leaderboardHandler.HandleGetLeaderboard))
	mux.HandleFunc("/teams/", Instrument(routeTeam, s.teamHandler.HandleGetTeam))
	mux.HandleFunc("/matches/", Instrument(routeMatch, s.matchHandler.HandleGetMatch))
}

// recordRequest mirrors the OpenAPI schema for POST /records.
type recordRequest struct {
	SubmissionID string         `json:"submission_id"`
	Team         int            `json:"team"`
	Match        int            `json:"match"`
	Fields       map[string]any `json:"fields"`
}

func (r recordRequest) validate() error {
	switch {
	case r.Team <= 0:
		return errInvalidField("team")
	case r.Match <= 0:
		return errInvalidField("match")
	}
	return nil
}

func (r recordRequest) record() model.RawRecord {
	return model.RawRecord{ID: r.SubmissionID, Team: r.Team, Match: r.Match, Fields: r.Fields}
}

type ackResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id,omitempty"`
	Duplicate    bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps repository errors to 404/400, anything else to 500.
func writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrUnknownMetric), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}

func errInvalidField(name string) error {
	return fmt.Errorf("%s must be a positive integer", name)
}
