package sqlstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/pkg/metrics"
)

// InsertRaw stores one submission. A record without an ID gets a new UUID.
// ErrDuplicate is returned when the submission ID is already stored.
func (s *Store) InsertRaw(ctx context.Context, rec model.RawRecord) (model.RawRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordSQLQueryLatency(millisSince(start)) }()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	fields, err := json.Marshal(nonNilFields(rec.Fields))
	if err != nil {
		return rec, fmt.Errorf("encode fields: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO raw_records (submission_id, team, match_number, fields_json, created_at)
VALUES (?, ?, ?, ?, ?) ON CONFLICT (submission_id) DO NOTHING`),
		rec.ID, rec.Team, rec.Match, string(fields), time.Now().UnixMilli())
	if err != nil {
		return rec, fmt.Errorf("insert raw record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rec, ErrDuplicate
	}
	return rec, nil
}

// Records returns every stored submission in insertion order.
func (s *Store) Records(ctx context.Context) ([]model.RawRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordSQLQueryLatency(millisSince(start)) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT submission_id, team, match_number, fields_json FROM raw_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query raw records: %w", err)
	}
	defer rows.Close()

	out := make([]model.RawRecord, 0)
	for rows.Next() {
		var (
			rec    model.RawRecord
			fields string
		)
		if err := rows.Scan(&rec.ID, &rec.Team, &rec.Match, &fields); err != nil {
			return nil, fmt.Errorf("scan raw record: %w", err)
		}
		if rec.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SubmissionIDs returns the IDs of every stored submission, oldest first.
func (s *Store) SubmissionIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT submission_id FROM raw_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query submission ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan submission id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// decodeFields keeps numbers as json.Number so their text survives intact.
func decodeFields(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func nonNilFields(f map[string]any) map[string]any {
	if f == nil {
		return map[string]any{}
	}
	return f
}
