package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// RecordDependencies defines the interface for submissions and the scored table.
type RecordDependencies interface {
	Ingest(ctx context.Context, rec model.RawRecord) (bool, model.RawRecord, error)
	Records(ctx context.Context) []model.SequencedRecord
}

// RecordsHandler handles /records requests.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleRecords serves GET (scored table) and POST (ingest one submission).
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Records(r.Context()))
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RecordsHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_record"
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req recordRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, stored, err := h.deps.Ingest(r.Context(), req.record())
	switch {
	case errors.Is(err, model.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, model.ErrIngestDisabled):
		writeError(w, http.StatusServiceUnavailable, "ingest_disabled", wrapKind(op, ErrIngest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "ingest_failed", wrapKind(op, ErrIngest, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SubmissionID: stored.ID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SubmissionID: stored.ID})
}
