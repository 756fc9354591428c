package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/types"
)

// Metric names a column of the aggregate tables.
type Metric string

const (
	MetricAuto        Metric = "auto"
	MetricTeleop      Metric = "teleop"
	MetricEndgame     Metric = "endgame"
	MetricTotal       Metric = "total"
	MetricStdDev      Metric = "stddev"
	MetricConsistency Metric = "consistency"
	MetricMatches     Metric = "matches"
)

// Metrics lists every rankable metric.
var Metrics = []Metric{MetricAuto, MetricTeleop, MetricEndgame, MetricTotal, MetricStdDev, MetricConsistency, MetricMatches}

// ParseMetric resolves a metric name; the empty string means total.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MetricTotal, nil
	}
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownMetric, s)
}

func (m Metric) values(a model.TeamAggregate, n model.NormalizedAggregate) (raw, normalized float64) {
	switch m {
	case MetricAuto:
		return a.AutoMean, n.Auto
	case MetricTeleop:
		return a.TeleopMean, n.Teleop
	case MetricEndgame:
		return a.EndgameMean, n.Endgame
	case MetricStdDev:
		return a.TotalStdDev, n.TotalStdDev
	case MetricConsistency:
		return a.Consistency, n.Consistency
	case MetricMatches:
		return float64(a.MatchCount), n.MatchCount
	default:
		return a.TotalMean, n.Total
	}
}

// rank builds the full ranking of metric. Aggregates and normalized rows are
// parallel slices in team order.
func rank(metric Metric, aggs []model.TeamAggregate, norm []model.NormalizedAggregate) []types.Entry {
	entries := make([]types.Entry, len(aggs))
	for i, a := range aggs {
		var n model.NormalizedAggregate
		if i < len(norm) {
			n = norm[i]
		}
		raw, normalized := metric.values(a, n)
		entries[i] = types.Entry{Team: a.Team, Value: raw, Normalized: normalized}
	}
	sortEntries(entries)
	assignRanksWithTies(entries)
	return entries
}

// sortEntries orders by value descending, then team ascending.
func sortEntries(entries []types.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Team < entries[j].Team
	})
}

// assignRanksWithTies gives equal values the same rank; the next distinct
// value takes the next consecutive rank.
func assignRanksWithTies(entries []types.Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Value != entries[i-1].Value {
			rank++
		}
		entries[i].Rank = rank
	}
}
