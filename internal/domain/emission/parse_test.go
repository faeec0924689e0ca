package emission_test

import (
	"testing"

	"github.com/okian/footprint/internal/domain/emission"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given raw form values", t, func() {
		Convey("Then commute modes are trimmed and case-insensitive", func() {
			So(emission.ParseCommuteMode(" Car "), ShouldEqual, emission.ModeCar)
			So(emission.ParseCommuteMode("TRAIN"), ShouldEqual, emission.ModeTrain)
			So(emission.ParseCommuteMode("walk"), ShouldEqual, emission.ModeWalk)
			So(emission.ParseCommuteMode("hovercraft"), ShouldEqual, emission.ModeUnknown)
			So(emission.ParseCommuteMode(""), ShouldEqual, emission.ModeUnknown)
		})

		Convey("Then car types default to gas", func() {
			So(emission.ParseCarType("Electric"), ShouldEqual, emission.CarElectric)
			So(emission.ParseCarType("hybrid"), ShouldEqual, emission.CarHybrid)
			So(emission.ParseCarType(""), ShouldEqual, emission.CarGas)
			So(emission.ParseCarType("diesel"), ShouldEqual, emission.CarGas)
		})

		Convey("Then diets default to omnivore", func() {
			So(emission.ParseDietType("VEGAN"), ShouldEqual, emission.DietVegan)
			So(emission.ParseDietType("mixed"), ShouldEqual, emission.DietOmnivore)
		})

		Convey("Then levels default to medium", func() {
			So(emission.ParseLevel("low"), ShouldEqual, emission.LevelLow)
			So(emission.ParseLevel(" HIGH"), ShouldEqual, emission.LevelHigh)
			So(emission.ParseLevel("extreme"), ShouldEqual, emission.LevelMedium)
			So(emission.ParseLevel(""), ShouldEqual, emission.LevelMedium)
		})

		Convey("Then transaction categories are normalised", func() {
			So(emission.ParseCategory(" Food "), ShouldEqual, "food")
			So(emission.ParseCategory(""), ShouldEqual, "other")
		})
	})
}
