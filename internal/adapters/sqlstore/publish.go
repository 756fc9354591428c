package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/pkg/metrics"
)

// Publish replaces the three output tables with res and records the run, all
// in one transaction. Readers see either the previous tables or the new ones.
func (s *Store) Publish(ctx context.Context, res pipeline.Result, meta model.RunMeta) error {
	start := time.Now()
	defer func() { metrics.RecordSQLPublishLatency(millisSince(start)) }()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"scored_records", "team_aggregates", "normalized_aggregates"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := s.insertScored(ctx, tx, res.Records); err != nil {
			return err
		}
		if err := s.insertAggregates(ctx, tx, res.Aggregates); err != nil {
			return err
		}
		if err := s.insertNormalized(ctx, tx, res.Normalized); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO pipeline_runs (id, season, started_at, finished_at, records, teams, issues)
VALUES (?, ?, ?, ?, ?, ?, ?)`),
			meta.ID, meta.Season, meta.StartedAt.UnixMilli(), meta.FinishedAt.UnixMilli(),
			meta.Records, meta.Teams, meta.Issues)
		if err != nil {
			return fmt.Errorf("insert pipeline run: %w", err)
		}
		return nil
	})
}

func (s *Store) insertScored(ctx context.Context, tx *sql.Tx, records []model.SequencedRecord) error {
	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO scored_records (team, match_number, team_match, submission_id,
  auto_score, teleop_score, endgame_score, total_score, fields_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare scored insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		fields, err := json.Marshal(nonNilFields(r.Fields))
		if err != nil {
			return fmt.Errorf("encode fields of team %d match %d: %w", r.Team, r.Match, err)
		}
		if _, err := stmt.ExecContext(ctx, r.Team, r.Match, r.TeamMatch, r.ID,
			r.Auto, r.Teleop, r.Endgame, r.Total, string(fields)); err != nil {
			return fmt.Errorf("insert scored record: %w", err)
		}
	}
	return nil
}

func (s *Store) insertAggregates(ctx context.Context, tx *sql.Tx, aggs []model.TeamAggregate) error {
	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO team_aggregates (team, auto_mean, teleop_mean, endgame_mean,
  total_mean, total_stddev, consistency, match_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare aggregate insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range aggs {
		if _, err := stmt.ExecContext(ctx, a.Team, a.AutoMean, a.TeleopMean, a.EndgameMean,
			a.TotalMean, a.TotalStdDev, a.Consistency, a.MatchCount); err != nil {
			return fmt.Errorf("insert aggregate for team %d: %w", a.Team, err)
		}
	}
	return nil
}

func (s *Store) insertNormalized(ctx context.Context, tx *sql.Tx, rows []model.NormalizedAggregate) error {
	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO normalized_aggregates (team, auto, teleop, endgame,
  total, total_stddev, consistency, match_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare normalized insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range rows {
		if _, err := stmt.ExecContext(ctx, n.Team, n.Auto, n.Teleop, n.Endgame,
			n.Total, n.TotalStdDev, n.Consistency, n.MatchCount); err != nil {
			return fmt.Errorf("insert normalized row for team %d: %w", n.Team, err)
		}
	}
	return nil
}

// Published reads back the last published tables and the run that produced
// them. ok is false when nothing was published yet.
func (s *Store) Published(ctx context.Context) (res pipeline.Result, meta model.RunMeta, ok bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordSQLQueryLatency(millisSince(start)) }()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var startedAt, finishedAt int64
		row := tx.QueryRowContext(ctx, `SELECT id, season, started_at, finished_at, records, teams, issues
FROM pipeline_runs ORDER BY finished_at DESC, id DESC LIMIT 1`)
		switch err := row.Scan(&meta.ID, &meta.Season, &startedAt, &finishedAt, &meta.Records, &meta.Teams, &meta.Issues); {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return fmt.Errorf("query last run: %w", err)
		}
		meta.StartedAt = time.UnixMilli(startedAt).UTC()
		meta.FinishedAt = time.UnixMilli(finishedAt).UTC()
		ok = true

		var e error
		if res.Records, e = readScored(ctx, tx); e != nil {
			return e
		}
		if res.Aggregates, e = readAggregates(ctx, tx); e != nil {
			return e
		}
		res.Normalized, e = readNormalized(ctx, tx)
		return e
	})
	res.Issues = []model.Issue{}
	return res, meta, ok, err
}

func readScored(ctx context.Context, tx *sql.Tx) ([]model.SequencedRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT team, match_number, team_match, submission_id,
  auto_score, teleop_score, endgame_score, total_score, fields_json
FROM scored_records ORDER BY team, team_match`)
	if err != nil {
		return nil, fmt.Errorf("query scored records: %w", err)
	}
	defer rows.Close()

	out := make([]model.SequencedRecord, 0)
	for rows.Next() {
		var (
			r      model.SequencedRecord
			fields string
		)
		if err := rows.Scan(&r.Team, &r.Match, &r.TeamMatch, &r.ID,
			&r.Auto, &r.Teleop, &r.Endgame, &r.Total, &fields); err != nil {
			return nil, fmt.Errorf("scan scored record: %w", err)
		}
		if r.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("decode scored fields: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readAggregates(ctx context.Context, tx *sql.Tx) ([]model.TeamAggregate, error) {
	rows, err := tx.QueryContext(ctx, `SELECT team, auto_mean, teleop_mean, endgame_mean,
  total_mean, total_stddev, consistency, match_count FROM team_aggregates ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("query team aggregates: %w", err)
	}
	defer rows.Close()

	out := make([]model.TeamAggregate, 0)
	for rows.Next() {
		var a model.TeamAggregate
		if err := rows.Scan(&a.Team, &a.AutoMean, &a.TeleopMean, &a.EndgameMean,
			&a.TotalMean, &a.TotalStdDev, &a.Consistency, &a.MatchCount); err != nil {
			return nil, fmt.Errorf("scan team aggregate: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func readNormalized(ctx context.Context, tx *sql.Tx) ([]model.NormalizedAggregate, error) {
	rows, err := tx.QueryContext(ctx, `SELECT team, auto, teleop, endgame,
  total, total_stddev, consistency, match_count FROM normalized_aggregates ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("query normalized aggregates: %w", err)
	}
	defer rows.Close()

	out := make([]model.NormalizedAggregate, 0)
	for rows.Next() {
		var n model.NormalizedAggregate
		if err := rows.Scan(&n.Team, &n.Auto, &n.Teleop, &n.Endgame,
			&n.Total, &n.TotalStdDev, &n.Consistency, &n.MatchCount); err != nil {
			return nil, fmt.Errorf("scan normalized aggregate: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
