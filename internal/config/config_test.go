package config_test

import (
	"testing"

	"github.com/okian/scoutcalc/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Season, convey.ShouldEqual, "2026")
			convey.So(cfg.Source, convey.ShouldEqual, config.SourceSQLite)
			convey.So(cfg.DBDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.RefreshQueueSize, convey.ShouldEqual, 1)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.TeamColumn, convey.ShouldEqual, "Team Number")
			convey.So(cfg.MatchColumn, convey.ShouldEqual, "Match Number")
			convey.So(cfg.PopulationStdDev, convey.ShouldBeFalse)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
