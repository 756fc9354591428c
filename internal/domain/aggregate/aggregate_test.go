package aggregate_test

import (
	"math"
	"testing"

	"github.com/okian/scoutcalc/internal/domain/aggregate"
	"github.com/okian/scoutcalc/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(team int, auto, teleop, endgame float64) model.SequencedRecord {
	return model.SequencedRecord{ScoredRecord: model.ScoredRecord{
		RawRecord: model.RawRecord{Team: team},
		Auto:      auto,
		Teleop:    teleop,
		Endgame:   endgame,
		Total:     auto + teleop + endgame,
	}}
}

func TestAggregate(t *testing.T) {
	Convey("Given one team with two climbs", t, func() {
		out := aggregate.Aggregate([]model.SequencedRecord{
			rec(100, 0, 0, 10),
			rec(100, 0, 0, 5),
		})

		Convey("Then means and spread are computed per team", func() {
			So(out, ShouldHaveLength, 1)
			a := out[0]
			So(a.Team, ShouldEqual, 100)
			So(a.MatchCount, ShouldEqual, 2)
			So(a.EndgameMean, ShouldEqual, 7.5)
			So(a.TotalMean, ShouldEqual, 7.5)
			So(a.TotalStdDev, ShouldAlmostEqual, math.Sqrt(12.5), 1e-9)
			So(a.Consistency, ShouldAlmostEqual, 1-math.Sqrt(12.5)/(10+aggregate.Epsilon), 1e-9)
		})
	})

	Convey("Given a single record for a team", t, func() {
		out := aggregate.Aggregate([]model.SequencedRecord{rec(200, 10, 30, 10)})

		Convey("Then there is no variance and consistency is 1", func() {
			So(out[0].TotalMean, ShouldEqual, 50)
			So(out[0].TotalStdDev, ShouldEqual, 0)
			So(out[0].Consistency, ShouldEqual, 1)
		})
	})

	Convey("Given two teams with totals [100] and [100, 0]", t, func() {
		records := []model.SequencedRecord{
			rec(2, 0, 100, 0),
			rec(2, 0, 0, 0),
			rec(1, 0, 100, 0),
		}

		Convey("With the population estimator the spread is 50", func() {
			out := aggregate.Aggregate(records, aggregate.WithPopulationStdDev())
			So(out[0].Team, ShouldEqual, 1)
			So(out[0].Consistency, ShouldEqual, 1)
			So(out[1].TotalStdDev, ShouldEqual, 50)
			So(out[1].Consistency, ShouldAlmostEqual, 0.5, 1e-6)
		})

		Convey("With the sample estimator the spread is larger", func() {
			out := aggregate.Aggregate(records)
			So(out[1].TotalStdDev, ShouldAlmostEqual, 100/math.Sqrt2, 1e-9)
			So(out[1].Consistency, ShouldAlmostEqual, 1-(100/math.Sqrt2)/100, 1e-6)
		})
	})

	Convey("Given identical totals on every match", t, func() {
		out := aggregate.Aggregate([]model.SequencedRecord{
			rec(3, 5, 5, 5), rec(3, 0, 15, 0), rec(3, 15, 0, 0), rec(4, 90, 0, 0),
		})
		So(out[0].TotalStdDev, ShouldEqual, 0)
		So(out[0].Consistency, ShouldEqual, 1)
	})

	Convey("Given only zero scores", t, func() {
		out := aggregate.Aggregate([]model.SequencedRecord{rec(5, 0, 0, 0), rec(5, 0, 0, 0)})
		So(out[0].Consistency, ShouldEqual, 1)
		So(math.IsNaN(out[0].TotalStdDev), ShouldBeFalse)
	})

	Convey("Given no records", t, func() {
		out := aggregate.Aggregate(nil)
		So(out, ShouldNotBeNil)
		So(out, ShouldBeEmpty)
	})
}

func TestConsistency(t *testing.T) {
	Convey("Consistency stays within [0,1]", t, func() {
		So(aggregate.Consistency(0, 0), ShouldEqual, 1)
		So(aggregate.Consistency(200, 100), ShouldEqual, 0)
		So(aggregate.Consistency(10, -50), ShouldEqual, 1)
		So(aggregate.Consistency(100, 100), ShouldAlmostEqual, 0, 1e-6)
		So(aggregate.Consistency(25, 100), ShouldAlmostEqual, 0.75, 1e-6)
	})

	Convey("PeakTotal is the largest single total", t, func() {
		So(aggregate.PeakTotal(nil), ShouldEqual, 0)
		So(aggregate.PeakTotal([]model.SequencedRecord{rec(1, 0, 3, 0), rec(2, 0, 9, 0)}), ShouldEqual, 9)
	})
}
