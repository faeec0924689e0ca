package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/footprint/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 200_000)
			convey.So(cfg.ReductionRate, convey.ShouldEqual, 0.10)
			convey.So(cfg.ForecastMonths, convey.ShouldEqual, 12)
			convey.So(cfg.RecommendationLimit, convey.ShouldEqual, 3)
			convey.So(cfg.PeerTopN, convey.ShouldEqual, 5)
			convey.So(cfg.TrendMonths, convey.ShouldEqual, 6)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single invalid field", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"negative rate", func(c *config.Config) { c.ReductionRate = -0.1 }},
			{"rate above one", func(c *config.Config) { c.ReductionRate = 1.5 }},
			{"zero forecast", func(c *config.Config) { c.ForecastMonths = 0 }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"negative worker count", func(c *config.Config) { c.WorkerCount = -1 }},
			{"negative rate limit", func(c *config.Config) { c.SubmitRateLimit = -1 }},
			{"zero burst", func(c *config.Config) { c.SubmitRateLimit = 10; c.SubmitBurst = 0 }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then "+tc.name+" is rejected with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then boundary rates are accepted", func() {
			cfg := config.New()
			cfg.ReductionRate = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			cfg.ReductionRate = 1
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
