package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/scoutcalc/internal/domain/types"
)

// TeamDependencies defines the interface for team lookups.
type TeamDependencies interface {
	Team(ctx context.Context, team int) (types.TeamView, error)
}

// TeamHandler handles team requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleGetTeam handles GET /teams/{team} requests.
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	team, ok := pathInt(r.URL.Path, "/teams/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Team(r.Context(), team)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MatchDependencies defines the interface for match lookups.
type MatchDependencies interface {
	Match(ctx context.Context, match int) (types.MatchView, error)
}

// MatchHandler handles match requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleGetMatch handles GET /matches/{match} requests.
func (h *MatchHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	match, ok := pathInt(r.URL.Path, "/matches/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", newKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Match(r.Context(), match)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// pathInt extracts a single positive integer segment after prefix.
func pathInt(path, prefix string) (int, bool) {
	seg := strings.TrimPrefix(path, prefix)
	if seg == "" || strings.Contains(seg, "/") {
		return 0, false
	}
	v, err := strconv.Atoi(seg)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
