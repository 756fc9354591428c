// Package testdata generates synthetic scouting records for tests, local
// seeding and load runs against a live server.
package testdata

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/rubric"
)

// Defaults for Config.
const (
	DefaultTeams     = 24
	DefaultMatches   = 12
	DefaultFirstTeam = 100
	DefaultSeed      = 42
	AllianceSize     = 6
)

// Profile ranges for a team's underlying skill in [0,1].
const (
	lowSkillMin     = 0.05
	lowSkillRange   = 0.30
	avgSkillMin     = 0.35
	avgSkillRange   = 0.30
	highSkillMin    = 0.65
	highSkillRange  = 0.25
	eliteSkillMin   = 0.90
	eliteSkillRange = 0.10
	matchNoise      = 0.20
	maxCount        = 20
)

// Config controls record generation.
type Config struct {
	Teams     int
	Matches   int // matches played per team
	FirstTeam int
	Seed      int64
	// BlankRate is the probability that any scored cell is left blank.
	BlankRate float64
}

func (c Config) withDefaults() Config {
	if c.Teams <= 0 {
		c.Teams = DefaultTeams
	}
	if c.Matches <= 0 {
		c.Matches = DefaultMatches
	}
	if c.FirstTeam <= 0 {
		c.FirstTeam = DefaultFirstTeam
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Generate produces one record per team per match for the fields rb scores.
// Output is fully determined by cfg, including submission IDs.
func Generate(rb *rubric.Rubric, cfg Config) []model.RawRecord {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data

	teams := make([]int, cfg.Teams)
	skill := make(map[int]float64, cfg.Teams)
	for i := range teams {
		teams[i] = cfg.FirstTeam + i
		skill[teams[i]] = teamSkill(rng)
	}

	records := make([]model.RawRecord, 0, cfg.Teams*cfg.Matches)
	match := 0
	for round := 0; round < cfg.Matches; round++ {
		order := rng.Perm(len(teams))
		for i, idx := range order {
			if i%AllianceSize == 0 {
				match++
			}
			team := teams[idx]
			records = append(records, model.RawRecord{
				ID:     recordID(rb.Season, team, match),
				Team:   team,
				Match:  match,
				Fields: fields(rng, rb, skill[team], cfg.BlankRate),
			})
		}
	}
	return records
}

// teamSkill draws a team profile: mostly average, some strong, few elite.
func teamSkill(rng *rand.Rand) float64 {
	switch rng.Intn(8) {
	case 0, 1:
		return lowSkillMin + rng.Float64()*lowSkillRange
	case 2, 3, 4:
		return avgSkillMin + rng.Float64()*avgSkillRange
	case 5, 6:
		return highSkillMin + rng.Float64()*highSkillRange
	default:
		return eliteSkillMin + rng.Float64()*eliteSkillRange
	}
}

func fields(rng *rand.Rand, rb *rubric.Rubric, skill, blankRate float64) map[string]any {
	out := make(map[string]any)
	for _, phase := range rubric.Phases {
		rules := rb.Rules(phase)
		for _, f := range rules.Fields() {
			if blankRate > 0 && rng.Float64() < blankRate {
				out[f] = ""
				continue
			}
			level := clamp01(skill + (rng.Float64()*2-1)*matchNoise)
			if table, ok := rules.Categories[f]; ok {
				out[f] = pickCategory(table, level)
				continue
			}
			out[f] = strconv.Itoa(int(level * maxCount))
		}
	}
	return out
}

// pickCategory maps level onto the categories ordered by points.
func pickCategory(table map[string]float64, level float64) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if table[keys[i]] != table[keys[j]] {
			return table[keys[i]] < table[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return ""
	}
	idx := int(level * float64(len(keys)))
	if idx >= len(keys) {
		idx = len(keys) - 1
	}
	return keys[idx]
}

func recordID(season string, team, match int) string {
	name := fmt.Sprintf("scoutcalc/%s/%d/%d", season, team, match)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
