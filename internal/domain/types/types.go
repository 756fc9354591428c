// Package types contains read shapes shared by the API and the repository.
package types

import "github.com/okian/scoutcalc/internal/domain/model"

// Entry is one row of a metric leaderboard.
type Entry struct {
	Rank  int     `json:"rank"`
	Team  int     `json:"team"`
	Value float64 `json:"value"`
	// Normalized is the same metric on the 0..100 scale.
	Normalized float64 `json:"normalized"`
}

// TeamView is everything published about one team.
type TeamView struct {
	Team       int                       `json:"team"`
	Rank       int                       `json:"rank"` // by mean total
	Aggregate  model.TeamAggregate       `json:"aggregate"`
	Normalized model.NormalizedAggregate `json:"normalized"`
	Matches    []model.SequencedRecord   `json:"matches"`
}

// MatchTeam is one team's line in a match reference.
type MatchTeam struct {
	Record    model.SequencedRecord `json:"record"`
	Aggregate model.TeamAggregate   `json:"aggregate"`
}

// MatchView lists the teams scouted in a match with their season averages.
type MatchView struct {
	Match int         `json:"match"`
	Teams []MatchTeam `json:"teams"`
}
