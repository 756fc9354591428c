// Package scoring converts raw scouting records into phase scores.
package scoring

import (
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/rubric"
)

// RowScorer scores records against one rubric. It holds no mutable state and
// is safe for concurrent use.
type RowScorer struct {
	rb           *rubric.Rubric
	auto         []string
	teleop       []string
	endgameField string
}

// NewRowScorer prepares a scorer for rb. Field order is fixed here so every
// record is summed in the same order.
func NewRowScorer(rb *rubric.Rubric) *RowScorer {
	return &RowScorer{
		rb:           rb,
		auto:         rb.Rules(rubric.Auto).Fields(),
		teleop:       rb.Rules(rubric.Teleop).Fields(),
		endgameField: rb.EndgameField(),
	}
}

// ScoreRow scores one record. Anomalies never fail the row: they score zero
// and are returned as issues.
func (s *RowScorer) ScoreRow(rec model.RawRecord) (model.ScoredRecord, []model.Issue) {
	var issues []model.Issue
	out := model.ScoredRecord{RawRecord: rec}

	out.Auto = s.sum(rec, rubric.Auto, s.auto, &issues)
	out.Teleop = s.sum(rec, rubric.Teleop, s.teleop, &issues)
	if s.endgameField != "" {
		out.Endgame = s.lookup(rec, rubric.Endgame, s.endgameField, &issues)
	}
	out.Total = out.Auto + out.Teleop + out.Endgame
	return out, issues
}

func (s *RowScorer) sum(rec model.RawRecord, phase rubric.Phase, fields []string, issues *[]model.Issue) float64 {
	var total float64
	for _, f := range fields {
		total += s.lookup(rec, phase, f, issues)
	}
	return total
}

func (s *RowScorer) lookup(rec model.RawRecord, phase rubric.Phase, field string, issues *[]model.Issue) float64 {
	raw, ok := rec.Fields[field]
	pts, outcome := s.rb.Lookup(phase, field, raw)
	if !ok {
		outcome = rubric.Missing
	}
	if kind, bad := issueKind(outcome); bad {
		*issues = append(*issues, model.Issue{
			Kind:  kind,
			Team:  rec.Team,
			Match: rec.Match,
			Phase: string(phase),
			Field: field,
			Value: raw,
		})
	}
	return pts
}

func issueKind(o rubric.Outcome) (model.IssueKind, bool) {
	switch o {
	case rubric.Missing:
		return model.IssueMissingField, true
	case rubric.Unmapped:
		return model.IssueUnmappedCategory, true
	case rubric.Malformed:
		return model.IssueMalformedNumeric, true
	default:
		return "", false
	}
}
