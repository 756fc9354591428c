package rubric

import (
	"context"
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// keyDelim separates koanf path segments. Category values routinely contain
// dots ("1.5") so the default "." delimiter cannot be used.
const keyDelim = "::"

// Set holds one rubric per season.
type Set struct {
	rubrics map[string]*Rubric
}

// NewSet validates rubrics and indexes them by season.
func NewSet(rubrics ...*Rubric) (*Set, error) {
	s := &Set{rubrics: make(map[string]*Rubric, len(rubrics))}
	for _, r := range rubrics {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.rubrics[r.Season]; dup {
			return nil, fmt.Errorf("%w: season %s defined twice", ErrInvalidRubric, r.Season)
		}
		s.rubrics[r.Season] = r
	}
	return s, nil
}

// Get returns the rubric of season.
func (s *Set) Get(season string) (*Rubric, error) {
	if s != nil {
		if r, ok := s.rubrics[season]; ok {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSeason, season)
}

// Seasons returns the configured seasons in ascending order.
func (s *Set) Seasons() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.rubrics))
	for season := range s.rubrics {
		out = append(out, season)
	}
	sort.Strings(out)
	return out
}

type document struct {
	Seasons map[string]Rubric `koanf:"seasons"`
}

// Load reads a YAML rubric file of the form
//
//	seasons:
//	  "2026":
//	    auto:
//	      categories:
//	        Auto Climb: {"Yes": 15, "No": 0}
//	    teleop:
//	      weights:
//	        Fuel: 1
//	    endgame:
//	      categories:
//	        Endgame: {"L3 Climb": 30, "Nothing": 0}
func Load(_ context.Context, path string) (*Set, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadRubric, path, err)
	}
	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadRubric, path, err)
	}
	if len(doc.Seasons) == 0 {
		return nil, fmt.Errorf("%w: %s: no seasons defined", ErrInvalidRubric, path)
	}
	rubrics := make([]*Rubric, 0, len(doc.Seasons))
	for season, r := range doc.Seasons {
		r.Season = season
		rubrics = append(rubrics, &r)
	}
	return NewSet(rubrics...)
}

// Resolve returns the rubric for season from the file at path, or from the
// built-in set when path is empty.
func Resolve(ctx context.Context, path, season string) (*Rubric, error) {
	set := Default()
	if path != "" {
		var err error
		if set, err = Load(ctx, path); err != nil {
			return nil, err
		}
	}
	return set.Get(season)
}
