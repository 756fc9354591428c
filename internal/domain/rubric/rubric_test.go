package rubric_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/scoutcalc/internal/domain/rubric"
	. "github.com/smartystreets/goconvey/convey"
)

func climbRubric() *rubric.Rubric {
	return &rubric.Rubric{
		Season: "test",
		Auto: rubric.PhaseRules{
			Categories: map[string]map[string]float64{"Leave": {"Yes": 3, "No": 0}},
			Weights:    map[string]float64{"Coral": 4},
		},
		Teleop: rubric.PhaseRules{
			Weights: map[string]float64{"Fuel": 1.5},
		},
		Endgame: rubric.PhaseRules{
			Categories: map[string]map[string]float64{"Climb": {"High": 10, "Low": 5, "None": 0, "1.5": 2}},
		},
	}
}

func TestRubricScore(t *testing.T) {
	Convey("Given a rubric with categorical and weighted fields", t, func() {
		rb := climbRubric()
		So(rb.Validate(), ShouldBeNil)

		Convey("Categorical values map to their points", func() {
			So(rb.Score(rubric.Endgame, "Climb", "High"), ShouldEqual, 10)
			So(rb.Score(rubric.Endgame, "Climb", " Low "), ShouldEqual, 5)
			So(rb.Score(rubric.Auto, "Leave", "Yes"), ShouldEqual, 3)
		})

		Convey("Numeric categorical values are matched by their text", func() {
			So(rb.Score(rubric.Endgame, "Climb", 1.5), ShouldEqual, 2)
			So(rb.Score(rubric.Endgame, "Climb", json.Number("1.5")), ShouldEqual, 2)
		})

		Convey("Unmapped and blank categories score zero", func() {
			v, outcome := rb.Lookup(rubric.Endgame, "Climb", "Hover")
			So(v, ShouldEqual, 0)
			So(outcome, ShouldEqual, rubric.Unmapped)

			v, outcome = rb.Lookup(rubric.Endgame, "Climb", "   ")
			So(v, ShouldEqual, 0)
			So(outcome, ShouldEqual, rubric.Missing)

			_, outcome = rb.Lookup(rubric.Endgame, "Climb", nil)
			So(outcome, ShouldEqual, rubric.Missing)
		})

		Convey("Weighted fields multiply the count by the weight", func() {
			So(rb.Score(rubric.Teleop, "Fuel", 4), ShouldEqual, 6)
			So(rb.Score(rubric.Teleop, "Fuel", "2"), ShouldEqual, 3)
			So(rb.Score(rubric.Teleop, "Fuel", json.Number("10")), ShouldEqual, 15)
			So(rb.Score(rubric.Auto, "Coral", true), ShouldEqual, 4)
		})

		Convey("Malformed counts score zero", func() {
			for _, raw := range []any{"lots", math.NaN(), math.Inf(1), []int{1}} {
				v, outcome := rb.Lookup(rubric.Teleop, "Fuel", raw)
				So(v, ShouldEqual, 0)
				So(outcome, ShouldEqual, rubric.Malformed)
			}
			_, outcome := rb.Lookup(rubric.Teleop, "Fuel", "")
			So(outcome, ShouldEqual, rubric.Missing)
		})

		Convey("Fields outside the phase are unknown", func() {
			v, outcome := rb.Lookup(rubric.Teleop, "Climb", "High")
			So(v, ShouldEqual, 0)
			So(outcome, ShouldEqual, rubric.UnknownField)
			So(rb.Score(rubric.Phase("overtime"), "Fuel", 3), ShouldEqual, 0)
		})

		Convey("Fields are listed in sorted order", func() {
			So(rb.Auto.Fields(), ShouldResemble, []string{"Coral", "Leave"})
			So(rb.EndgameField(), ShouldEqual, "Climb")
		})
	})

	Convey("A nil rubric scores nothing", t, func() {
		var rb *rubric.Rubric
		So(rb.Score(rubric.Auto, "x", 1), ShouldEqual, 0)
		So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
	})
}

func TestRubricValidate(t *testing.T) {
	Convey("Given a valid rubric", t, func() {
		rb := climbRubric()

		Convey("An empty season is rejected", func() {
			rb.Season = ""
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})

		Convey("An endgame without a categorical field is rejected", func() {
			rb.Endgame = rubric.PhaseRules{}
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})

		Convey("An endgame with two categorical fields is rejected", func() {
			rb.Endgame.Categories["Park"] = map[string]float64{"Yes": 2}
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})

		Convey("An endgame weight is rejected", func() {
			rb.Endgame.Weights = map[string]float64{"Fuel": 1}
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})

		Convey("A field that is both categorical and weighted is rejected", func() {
			rb.Auto.Weights["Leave"] = 1
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})

		Convey("Non-finite points are rejected", func() {
			rb.Teleop.Weights["Fuel"] = math.Inf(1)
			So(errors.Is(rb.Validate(), rubric.ErrInvalidRubric), ShouldBeTrue)
		})
	})
}

func TestOutcomeString(t *testing.T) {
	Convey("Outcomes have readable names", t, func() {
		So(rubric.Scored.String(), ShouldEqual, "scored")
		So(rubric.Unmapped.String(), ShouldEqual, "unmapped")
		So(rubric.Outcome(42).String(), ShouldEqual, "outcome(42)")
	})
}
