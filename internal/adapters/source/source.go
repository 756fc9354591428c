// Package source supplies raw scouting records to the pipeline.
package source

import (
	"context"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// Source returns the current raw record set. Every call returns the full set.
type Source interface {
	Records(ctx context.Context) ([]model.RawRecord, error)
}

// Default identifier columns of a scouting sheet export.
const (
	DefaultTeamColumn  = "Team Number"
	DefaultMatchColumn = "Match Number"
)

// Merge returns a Source that reads every src in order and concatenates the
// results. The first failing source fails the whole read.
func Merge(srcs ...Source) Source {
	return merged(srcs)
}

type merged []Source

func (m merged) Records(ctx context.Context) ([]model.RawRecord, error) {
	out := make([]model.RawRecord, 0)
	for _, src := range m {
		recs, err := src.Records(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}
