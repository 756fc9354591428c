// Package sequence numbers each team's records in match order.
package sequence

import (
	"sort"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// Sequence stable-sorts records by team then match and numbers every team's
// records 1..N. Records sharing a (team, match) pair keep their input order.
// The input slice is not modified.
func Sequence(records []model.ScoredRecord) []model.SequencedRecord {
	out := make([]model.SequencedRecord, len(records))
	for i, r := range records {
		out[i] = model.SequencedRecord{ScoredRecord: r}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Match < out[j].Match
	})

	n := 0
	for i := range out {
		if i == 0 || out[i].Team != out[i-1].Team {
			n = 0
		}
		n++
		out[i].TeamMatch = n
	}
	return out
}
