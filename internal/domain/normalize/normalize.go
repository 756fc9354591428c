// Package normalize rescales team aggregates onto a shared 0..100 scale.
package normalize

import (
	"math"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// Scale is the value given to the best team of every metric.
const Scale = 100

// Normalize rescales every metric independently so the team with the highest
// value reads Scale. A metric whose maximum is not positive reads 0 for every
// team. Output order follows the input.
func Normalize(aggs []model.TeamAggregate) []model.NormalizedAggregate {
	var maxes model.TeamAggregate
	for i, a := range aggs {
		if i == 0 {
			maxes = a
			continue
		}
		maxes.AutoMean = math.Max(maxes.AutoMean, a.AutoMean)
		maxes.TeleopMean = math.Max(maxes.TeleopMean, a.TeleopMean)
		maxes.EndgameMean = math.Max(maxes.EndgameMean, a.EndgameMean)
		maxes.TotalMean = math.Max(maxes.TotalMean, a.TotalMean)
		maxes.TotalStdDev = math.Max(maxes.TotalStdDev, a.TotalStdDev)
		maxes.Consistency = math.Max(maxes.Consistency, a.Consistency)
		if a.MatchCount > maxes.MatchCount {
			maxes.MatchCount = a.MatchCount
		}
	}

	out := make([]model.NormalizedAggregate, len(aggs))
	for i, a := range aggs {
		out[i] = model.NormalizedAggregate{
			Team:        a.Team,
			Auto:        rescale(a.AutoMean, maxes.AutoMean),
			Teleop:      rescale(a.TeleopMean, maxes.TeleopMean),
			Endgame:     rescale(a.EndgameMean, maxes.EndgameMean),
			Total:       rescale(a.TotalMean, maxes.TotalMean),
			TotalStdDev: rescale(a.TotalStdDev, maxes.TotalStdDev),
			Consistency: rescale(a.Consistency, maxes.Consistency),
			MatchCount:  rescale(float64(a.MatchCount), float64(maxes.MatchCount)),
		}
	}
	return out
}

func rescale(v, peak float64) float64 {
	if peak <= 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return 0
	}
	r := v * (Scale / peak)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
