// Package pipeline runs the full scoring pipeline over a batch of raw records.
package pipeline

import (
	"math"

	"github.com/okian/scoutcalc/internal/domain/aggregate"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/normalize"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/internal/domain/scoring"
	"github.com/okian/scoutcalc/internal/domain/sequence"
)

// Precision is the number of decimals kept in the published aggregate tables.
const Precision = 2

// Option configures Run.
type Option func(*options)

type options struct {
	aggregate []aggregate.Option
}

// WithPopulationStdDev uses the population estimator for total-score spread.
func WithPopulationStdDev() Option {
	return func(o *options) {
		o.aggregate = append(o.aggregate, aggregate.WithPopulationStdDev())
	}
}

// Result holds the three output tables of a run plus the data-quality notes
// collected while scoring. Tables are never nil.
type Result struct {
	Records    []model.SequencedRecord     `json:"records"`
	Aggregates []model.TeamAggregate       `json:"aggregates"`
	Normalized []model.NormalizedAggregate `json:"normalized"`
	Issues     []model.Issue               `json:"issues"`
}

// Run scores, sequences, aggregates and normalizes records using rb.
// It is deterministic: the same input always yields the same Result.
func Run(records []model.RawRecord, rb *rubric.Rubric, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	scorer := scoring.NewRowScorer(rb)
	scored := make([]model.ScoredRecord, len(records))
	issues := make([]model.Issue, 0)
	for i, rec := range records {
		var rowIssues []model.Issue
		scored[i], rowIssues = scorer.ScoreRow(rec)
		issues = append(issues, rowIssues...)
	}

	sequenced := sequence.Sequence(scored)
	aggs := aggregate.Aggregate(sequenced, o.aggregate...)
	normalized := normalize.Normalize(aggs)

	for i := range aggs {
		aggs[i] = roundAggregate(aggs[i])
	}
	for i := range normalized {
		normalized[i] = roundNormalized(normalized[i])
	}

	return Result{
		Records:    sequenced,
		Aggregates: aggs,
		Normalized: normalized,
		Issues:     issues,
	}
}

// Round rounds v half away from zero to Precision decimals.
func Round(v float64) float64 {
	scale := math.Pow10(Precision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func roundAggregate(a model.TeamAggregate) model.TeamAggregate {
	a.AutoMean = Round(a.AutoMean)
	a.TeleopMean = Round(a.TeleopMean)
	a.EndgameMean = Round(a.EndgameMean)
	a.TotalMean = Round(a.TotalMean)
	a.TotalStdDev = Round(a.TotalStdDev)
	a.Consistency = Round(a.Consistency)
	return a
}

func roundNormalized(n model.NormalizedAggregate) model.NormalizedAggregate {
	n.Auto = Round(n.Auto)
	n.Teleop = Round(n.Teleop)
	n.Endgame = Round(n.Endgame)
	n.Total = Round(n.Total)
	n.TotalStdDev = Round(n.TotalStdDev)
	n.Consistency = Round(n.Consistency)
	n.MatchCount = Round(n.MatchCount)
	return n
}
