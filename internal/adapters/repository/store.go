// Package repository holds the published pipeline tables in memory and
// answers read queries against them.
package repository

import (
	"context"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/internal/domain/types"
)

// Store provides access to the latest published tables.
type Store interface {
	// Publish replaces every table at once. Readers never see a mix of two runs.
	Publish(ctx context.Context, res pipeline.Result, meta model.RunMeta) error

	// Current returns the latest snapshot, or nil before the first publish.
	Current() *Snapshot

	// TopN returns the n best teams for metric, best first.
	TopN(ctx context.Context, metric Metric, n int) ([]types.Entry, error)

	// Team returns one team's published view. ErrNotFound if the team is absent.
	Team(ctx context.Context, team int) (types.TeamView, error)

	// Match returns the teams scouted in a match. ErrNotFound if no record has it.
	Match(ctx context.Context, match int) (types.MatchView, error)
}
