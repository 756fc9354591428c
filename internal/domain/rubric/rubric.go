// Package rubric maps scouting fields to point values for each match phase.
//
// A Rubric is read-only configuration. Lookups never fail: blank, unknown or
// malformed values score zero and the Outcome tells the caller why.
package rubric

import (
	"fmt"
	"math"
	"sort"
)

// Phase is a scoring period of a match.
type Phase string

const (
	Auto    Phase = "auto"
	Teleop  Phase = "teleop"
	Endgame Phase = "endgame"
)

// Phases lists every phase in match order.
var Phases = []Phase{Auto, Teleop, Endgame}

// Outcome describes how a single lookup was resolved.
type Outcome int

const (
	// Scored means the value was mapped or weighted normally.
	Scored Outcome = iota
	// Missing means the record had no value (absent or blank).
	Missing
	// Unmapped means a categorical value has no entry in the rubric.
	Unmapped
	// Malformed means a weighted field held something that is not a number.
	Malformed
	// UnknownField means the phase does not score this field at all.
	UnknownField
)

func (o Outcome) String() string {
	switch o {
	case Scored:
		return "scored"
	case Missing:
		return "missing"
	case Unmapped:
		return "unmapped"
	case Malformed:
		return "malformed"
	case UnknownField:
		return "unknown_field"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PhaseRules scores the fields of one phase.
type PhaseRules struct {
	// Categories maps a categorical field to its value -> points table.
	Categories map[string]map[string]float64 `koanf:"categories" json:"categories,omitempty"`
	// Weights maps a counter field to its per-unit points.
	Weights map[string]float64 `koanf:"weights" json:"weights,omitempty"`
}

// Fields returns the scored field names in sorted order.
func (p PhaseRules) Fields() []string {
	out := make([]string, 0, len(p.Categories)+len(p.Weights))
	for f := range p.Categories {
		out = append(out, f)
	}
	for f := range p.Weights {
		if _, dup := p.Categories[f]; !dup {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Rubric is the scoring configuration of one competition season.
type Rubric struct {
	Season  string     `koanf:"-" json:"season"`
	Auto    PhaseRules `koanf:"auto" json:"auto"`
	Teleop  PhaseRules `koanf:"teleop" json:"teleop"`
	Endgame PhaseRules `koanf:"endgame" json:"endgame"`
}

// Rules returns the rules of phase p. Unknown phases have no rules.
func (r *Rubric) Rules(p Phase) PhaseRules {
	if r == nil {
		return PhaseRules{}
	}
	switch p {
	case Auto:
		return r.Auto
	case Teleop:
		return r.Teleop
	case Endgame:
		return r.Endgame
	default:
		return PhaseRules{}
	}
}

// EndgameField returns the single categorical field scored in the endgame.
func (r *Rubric) EndgameField() string {
	for f := range r.Rules(Endgame).Categories {
		return f
	}
	return ""
}

// Score returns the points for raw in field of phase p; anything that cannot
// be scored is worth zero.
func (r *Rubric) Score(p Phase, field string, raw any) float64 {
	v, _ := r.Lookup(p, field, raw)
	return v
}

// Lookup is Score with the resolution Outcome.
func (r *Rubric) Lookup(p Phase, field string, raw any) (float64, Outcome) {
	rules := r.Rules(p)
	if table, ok := rules.Categories[field]; ok {
		key, present := categoryKey(raw)
		if !present {
			return 0, Missing
		}
		pts, ok := table[key]
		if !ok {
			return 0, Unmapped
		}
		return pts, Scored
	}
	if w, ok := rules.Weights[field]; ok {
		n, outcome := numeric(raw)
		if outcome != Scored {
			return 0, outcome
		}
		return n * w, Scored
	}
	return 0, UnknownField
}

// Validate checks the structural rules every rubric must satisfy.
func (r *Rubric) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil rubric", ErrInvalidRubric)
	}
	if r.Season == "" {
		return fmt.Errorf("%w: season is empty", ErrInvalidRubric)
	}
	for _, p := range Phases {
		rules := r.Rules(p)
		for field, table := range rules.Categories {
			if _, dup := rules.Weights[field]; dup {
				return fmt.Errorf("%w: season %s %s field %q is both categorical and weighted", ErrInvalidRubric, r.Season, p, field)
			}
			for value, pts := range table {
				if !finite(pts) {
					return fmt.Errorf("%w: season %s %s %q=%q has non-finite points", ErrInvalidRubric, r.Season, p, field, value)
				}
			}
		}
		for field, w := range rules.Weights {
			if !finite(w) {
				return fmt.Errorf("%w: season %s %s weight %q is non-finite", ErrInvalidRubric, r.Season, p, field)
			}
		}
	}
	if n := len(r.Endgame.Categories); n != 1 {
		return fmt.Errorf("%w: season %s endgame needs exactly one categorical field, has %d", ErrInvalidRubric, r.Season, n)
	}
	if len(r.Endgame.Weights) != 0 {
		return fmt.Errorf("%w: season %s endgame cannot have weighted fields", ErrInvalidRubric, r.Season)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
