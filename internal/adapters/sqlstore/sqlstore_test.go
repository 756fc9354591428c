package sqlstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/scoutcalc/internal/adapters/sqlstore"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/internal/testdata"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "scouting.db") + "?_pragma=busy_timeout(5000)"
	s, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	Convey("Opening an unknown driver fails", t, func() {
		_, err := sqlstore.Open(context.Background(), sqlstore.Driver("oracle"), "")
		So(errors.Is(err, sqlstore.ErrUnsupportedDriver), ShouldBeTrue)
	})

	Convey("Opening twice keeps the schema", t, func() {
		dsn := "file:" + filepath.Join(t.TempDir(), "twice.db")
		a, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
		So(err, ShouldBeNil)
		So(a.Close(), ShouldBeNil)
		b, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
		So(err, ShouldBeNil)
		So(b.Driver(), ShouldEqual, sqlstore.DriverSQLite)
		So(b.Close(), ShouldBeNil)
	})
}

func TestRawRecords(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := openTestStore(t)
		ctx := context.Background()

		Convey("When submissions are inserted", func() {
			first, err := s.InsertRaw(ctx, model.RawRecord{Team: 254, Match: 1, Fields: map[string]any{
				"Fuel": 12, "Endgame": "L3 Climb", "Notes": nil,
			}})
			So(err, ShouldBeNil)
			So(first.ID, ShouldNotBeEmpty)

			_, err = s.InsertRaw(ctx, model.RawRecord{ID: "fixed", Team: 1678, Match: 1})
			So(err, ShouldBeNil)

			Convey("Then they are read back in insertion order", func() {
				records, err := s.Records(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].ID, ShouldEqual, first.ID)
				So(records[0].Team, ShouldEqual, 254)
				So(records[0].Fields["Fuel"], ShouldEqual, json.Number("12"))
				So(records[0].Fields["Endgame"], ShouldEqual, "L3 Climb")
				So(records[0].Fields, ShouldContainKey, "Notes")
				So(records[1].ID, ShouldEqual, "fixed")
				So(records[1].Fields, ShouldBeEmpty)

				ids, err := s.SubmissionIDs(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{first.ID, "fixed"})
			})

			Convey("Then a repeated submission ID is rejected", func() {
				_, err := s.InsertRaw(ctx, model.RawRecord{ID: "fixed", Team: 1, Match: 9})
				So(errors.Is(err, sqlstore.ErrDuplicate), ShouldBeTrue)
				records, _ := s.Records(ctx)
				So(records, ShouldHaveLength, 2)
			})

			Convey("Then stored records score like the originals", func() {
				rb, _ := rubric.Default().Get("2026")
				records, err := s.Records(ctx)
				So(err, ShouldBeNil)
				res := pipeline.Run(records, rb)
				So(res.Records[0].Total, ShouldEqual, 42)
			})
		})

		Convey("Then reading returns an empty slice", func() {
			records, err := s.Records(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldNotBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}

func TestPublish(t *testing.T) {
	Convey("Given a pipeline result", t, func() {
		s := openTestStore(t)
		ctx := context.Background()
		rb, _ := rubric.Default().Get("2026")

		_, _, ok, err := s.Published(ctx)
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)

		records := testdata.Generate(rb, testdata.Config{Teams: 8, Matches: 3})
		res := pipeline.Run(records, rb)
		meta := model.RunMeta{
			ID:         "run-1",
			Season:     "2026",
			StartedAt:  time.UnixMilli(1_700_000_000_000).UTC(),
			FinishedAt: time.UnixMilli(1_700_000_000_500).UTC(),
			Records:    len(res.Records),
			Teams:      len(res.Aggregates),
		}

		Convey("When it is published", func() {
			So(s.Publish(ctx, res, meta), ShouldBeNil)

			Convey("Then the tables can be read back", func() {
				got, gotMeta, ok, err := s.Published(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(gotMeta, ShouldResemble, meta)
				So(got.Aggregates, ShouldResemble, res.Aggregates)
				So(got.Normalized, ShouldResemble, res.Normalized)
				So(got.Records, ShouldHaveLength, len(res.Records))
				for i := range got.Records {
					So(got.Records[i].Team, ShouldEqual, res.Records[i].Team)
					So(got.Records[i].TeamMatch, ShouldEqual, res.Records[i].TeamMatch)
					So(got.Records[i].Total, ShouldEqual, res.Records[i].Total)
				}
			})

			Convey("Then publishing again replaces every table", func() {
				smaller := pipeline.Run(records[:4], rb)
				meta2 := meta
				meta2.ID = "run-2"
				meta2.FinishedAt = meta.FinishedAt.Add(time.Second)
				So(s.Publish(ctx, smaller, meta2), ShouldBeNil)

				got, gotMeta, _, err := s.Published(ctx)
				So(err, ShouldBeNil)
				So(gotMeta.ID, ShouldEqual, "run-2")
				So(got.Records, ShouldHaveLength, 4)
				So(got.Aggregates, ShouldResemble, smaller.Aggregates)
			})

			Convey("Then a failed publish leaves the previous tables", func() {
				err := s.Publish(ctx, smallerWithDuplicateTeam(res), model.RunMeta{ID: "run-bad"})
				So(err, ShouldNotBeNil)

				got, gotMeta, _, err := s.Published(ctx)
				So(err, ShouldBeNil)
				So(gotMeta.ID, ShouldEqual, "run-1")
				So(got.Aggregates, ShouldResemble, res.Aggregates)
			})
		})
	})
}

// smallerWithDuplicateTeam violates the team primary key halfway through.
func smallerWithDuplicateTeam(res pipeline.Result) pipeline.Result {
	bad := res
	bad.Aggregates = append([]model.TeamAggregate{}, res.Aggregates[0], res.Aggregates[0])
	return bad
}
