package mathx_test

import (
	"testing"

	"github.com/okian/footprint/internal/domain/mathx"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound(t *testing.T) {
	Convey("Given values that need rounding", t, func() {
		So(mathx.Round2(105.499), ShouldEqual, 105.5)
		So(mathx.Round2(1.005+1e-9), ShouldEqual, 1.01)
		So(mathx.Round2(-3.14159), ShouldEqual, -3.14)
		So(mathx.Round1(47.25), ShouldEqual, 47.3)
		So(mathx.Round1(0.1*100), ShouldEqual, 10)
		So(mathx.Round(1234.5678, 0), ShouldEqual, 1235)
	})
}

func TestSafeDiv(t *testing.T) {
	Convey("Given a zero denominator", t, func() {
		Convey("Then SafeDiv returns 0 instead of NaN or Inf", func() {
			So(mathx.SafeDiv(10, 0), ShouldEqual, 0)
			So(mathx.SafeDiv(0, 0), ShouldEqual, 0)
		})
	})

	Convey("Given a non-zero denominator", t, func() {
		So(mathx.SafeDiv(10, 4), ShouldEqual, 2.5)
	})
}
