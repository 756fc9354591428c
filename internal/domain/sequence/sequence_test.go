package sequence_test

import (
	"math/rand"
	"testing"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func scored(team, match int, id string) model.ScoredRecord {
	return model.ScoredRecord{RawRecord: model.RawRecord{ID: id, Team: team, Match: match}}
}

func TestSequence(t *testing.T) {
	Convey("Given records in arbitrary order", t, func() {
		in := []model.ScoredRecord{
			scored(200, 4, "a"),
			scored(100, 2, "b"),
			scored(200, 1, "c"),
			scored(100, 1, "d"),
			scored(200, 9, "e"),
		}
		out := sequence.Sequence(in)

		Convey("Then they are ordered by team and match", func() {
			ids := make([]string, len(out))
			for i, r := range out {
				ids[i] = r.ID
			}
			So(ids, ShouldResemble, []string{"d", "b", "c", "a", "e"})
		})

		Convey("Then each team is numbered from 1", func() {
			nums := make([]int, len(out))
			for i, r := range out {
				nums[i] = r.TeamMatch
			}
			So(nums, ShouldResemble, []int{1, 2, 1, 2, 3})
		})

		Convey("Then the input is left alone", func() {
			So(in[0].ID, ShouldEqual, "a")
		})
	})

	Convey("Given duplicate team and match pairs", t, func() {
		in := []model.ScoredRecord{
			scored(5, 3, "first"),
			scored(5, 1, "early"),
			scored(5, 3, "second"),
		}
		out := sequence.Sequence(in)

		Convey("Then input order breaks the tie", func() {
			So(out[1].ID, ShouldEqual, "first")
			So(out[2].ID, ShouldEqual, "second")
			So(out[2].TeamMatch, ShouldEqual, 3)
		})
	})

	Convey("Given no records", t, func() {
		out := sequence.Sequence(nil)
		So(out, ShouldNotBeNil)
		So(out, ShouldBeEmpty)
	})

	Convey("Sequence numbers are contiguous for any input order", t, func() {
		rng := rand.New(rand.NewSource(7))
		var in []model.ScoredRecord
		for i := 0; i < 300; i++ {
			in = append(in, scored(rng.Intn(12), rng.Intn(40), ""))
		}
		counts := map[int]int{}
		for _, r := range in {
			counts[r.Team]++
		}

		seen := map[int]int{}
		lastMatch := map[int]int{}
		for _, r := range sequence.Sequence(in) {
			seen[r.Team]++
			So(r.TeamMatch, ShouldEqual, seen[r.Team])
			So(r.Match, ShouldBeGreaterThanOrEqualTo, lastMatch[r.Team])
			lastMatch[r.Team] = r.Match
		}
		So(seen, ShouldResemble, counts)
	})
}
