// Package model contains domain models passed between layers.
package model

import "time"

// RawRecord is one scouting row: one team in one match.
// Fields holds every reported column keyed by column name. Values are
// string, bool, numeric (float64, int, json.Number) or nil for blanks.
type RawRecord struct {
	ID     string         `json:"submission_id,omitempty"`
	Team   int            `json:"team"`
	Match  int            `json:"match"`
	Fields map[string]any `json:"fields"`
}

// ScoredRecord is a RawRecord with its phase scores.
// Total is always Auto + Teleop + Endgame.
type ScoredRecord struct {
	RawRecord
	Auto    float64 `json:"auto_score"`
	Teleop  float64 `json:"teleop_score"`
	Endgame float64 `json:"endgame_score"`
	Total   float64 `json:"total_score"`
}

// SequencedRecord adds the team's chronological match index (1-based).
type SequencedRecord struct {
	ScoredRecord
	TeamMatch int `json:"team_match"`
}

// TeamAggregate holds per-team statistics over all of its records.
type TeamAggregate struct {
	Team        int     `json:"team"`
	AutoMean    float64 `json:"auto_mean"`
	TeleopMean  float64 `json:"teleop_mean"`
	EndgameMean float64 `json:"endgame_mean"`
	TotalMean   float64 `json:"total_mean"`
	TotalStdDev float64 `json:"total_stddev"`
	Consistency float64 `json:"consistency"`
	MatchCount  int     `json:"match_count"`
}

// NormalizedAggregate rescales every TeamAggregate metric onto 0..100,
// where 100 is the best team for that metric.
type NormalizedAggregate struct {
	Team        int     `json:"team"`
	Auto        float64 `json:"auto"`
	Teleop      float64 `json:"teleop"`
	Endgame     float64 `json:"endgame"`
	Total       float64 `json:"total"`
	TotalStdDev float64 `json:"total_stddev"`
	Consistency float64 `json:"consistency"`
	MatchCount  float64 `json:"match_count"`
}

// RefreshRequest asks for a full pipeline run.
type RefreshRequest struct {
	ID          string
	Reason      string
	RequestedAt time.Time
}

// RunMeta describes one pipeline run.
type RunMeta struct {
	ID         string    `json:"run_id"`
	Season     string    `json:"season"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Records    int       `json:"records"`
	Teams      int       `json:"teams"`
	Issues     int       `json:"issues"`
}
