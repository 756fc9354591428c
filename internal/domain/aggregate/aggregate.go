// Package aggregate computes per-team statistics over scored records.
package aggregate

import (
	"math"
	"sort"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// Epsilon keeps the consistency denominator positive when every total is zero.
const Epsilon = 1e-6

// Option configures Aggregate.
type Option func(*options)

type options struct {
	population bool
}

// WithPopulationStdDev divides by n instead of n-1 when computing the
// standard deviation of total scores.
func WithPopulationStdDev() Option {
	return func(o *options) {
		o.population = true
	}
}

// Aggregate groups records by team and returns one row per team in ascending
// team order. Values are full precision; rounding is left to the publisher.
//
// Consistency is 1 - stddev/(peak+Epsilon) clamped to [0,1], where peak is the
// highest single-record total across all teams.
func Aggregate(records []model.SequencedRecord, opts ...Option) []model.TeamAggregate {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	groups := groupByTeam(records)
	peak := PeakTotal(records)

	out := make([]model.TeamAggregate, 0, len(groups))
	for _, g := range groups {
		n := float64(len(g.totals))
		agg := model.TeamAggregate{
			Team:        g.team,
			AutoMean:    g.auto / n,
			TeleopMean:  g.teleop / n,
			EndgameMean: g.endgame / n,
			MatchCount:  len(g.totals),
		}
		agg.TotalMean, agg.TotalStdDev = meanStdDev(g.totals, o.population)
		agg.Consistency = Consistency(agg.TotalStdDev, peak)
		out = append(out, agg)
	}
	return out
}

// PeakTotal returns the highest total score among records, or 0 when empty.
func PeakTotal(records []model.SequencedRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	peak := records[0].Total
	for _, r := range records[1:] {
		if r.Total > peak {
			peak = r.Total
		}
	}
	return peak
}

// Consistency maps a team's total-score spread onto [0,1].
func Consistency(stddev, peak float64) float64 {
	if stddev == 0 {
		return 1
	}
	c := 1 - stddev/(peak+Epsilon)
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

type group struct {
	team                  int
	auto, teleop, endgame float64
	totals                []float64
}

func groupByTeam(records []model.SequencedRecord) []*group {
	var groups []*group
	index := make(map[int]*group)
	for _, r := range records {
		g, ok := index[r.Team]
		if !ok {
			g = &group{team: r.Team}
			index[r.Team] = g
			groups = append(groups, g)
		}
		g.auto += r.Auto
		g.teleop += r.Teleop
		g.endgame += r.Endgame
		g.totals = append(g.totals, r.Total)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].team < groups[j].team
	})
	return groups
}

func meanStdDev(xs []float64, population bool) (mean, sd float64) {
	n := float64(len(xs))
	for _, x := range xs {
		mean += x
	}
	mean /= n

	denom := n - 1
	if population {
		denom = n
	}
	if denom <= 0 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	sd = math.Sqrt(ss / denom)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		sd = 0
	}
	return mean, sd
}
