package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const defaultRefreshReason = "api"

// RefreshDependencies defines the interface for scheduling pipeline runs.
type RefreshDependencies interface {
	RequestRefresh(ctx context.Context, reason string) bool
}

// RefreshHandler handles POST /refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshRequest struct {
	Reason string `json:"reason"`
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandleRefresh queues a run. A request arriving while one is pending is
// coalesced into it; both answers are 202.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultRefreshReason
	}

	status := "coalesced"
	if h.deps.RequestRefresh(r.Context(), reason) {
		status = "queued"
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: status})
}
