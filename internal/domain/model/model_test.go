package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/footprint/internal/domain/emission"
	"github.com/okian/footprint/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestFormType(t *testing.T) {
	convey.Convey("Given form types", t, func() {
		convey.So(model.FormOffice.Valid(), convey.ShouldBeTrue)
		convey.So(model.FormPersonal.Valid(), convey.ShouldBeTrue)
		convey.So(model.FormLifestyle.Valid(), convey.ShouldBeTrue)
		convey.So(model.FormType("quiz").Valid(), convey.ShouldBeFalse)
		convey.So(model.FormType("").Valid(), convey.ShouldBeFalse)
	})
}

func TestFootprintJSON(t *testing.T) {
	convey.Convey("Given a footprint with a breakdown", t, func() {
		fp := model.Footprint{
			ID:         "01J0000000000000000000000",
			EmployeeID: "emp-1",
			FormType:   model.FormLifestyle,
			Date:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			Breakdown:  emission.Breakdown{Commute: 20.5, Diet: 50, Office: 35, Total: 105.5, Score: 47},
		}

		convey.Convey("When it is encoded", func() {
			raw, err := json.Marshal(fp)
			convey.So(err, convey.ShouldBeNil)

			var out map[string]any
			convey.So(json.Unmarshal(raw, &out), convey.ShouldBeNil)

			convey.Convey("Then the breakdown fields are flattened", func() {
				convey.So(out["total_footprint"], convey.ShouldEqual, 105.5)
				convey.So(out["footprint_score"], convey.ShouldEqual, 47.0)
				convey.So(out["commute_footprint"], convey.ShouldEqual, 20.5)
				convey.So(out, convey.ShouldNotContainKey, "Breakdown")
				convey.So(out, convey.ShouldNotContainKey, "office")
			})
		})
	})
}

func TestChangePct(t *testing.T) {
	convey.Convey("Given two consecutive totals", t, func() {
		convey.So(model.ChangePct(100, 80), convey.ShouldAlmostEqual, -20)
		convey.So(model.ChangePct(50, 75), convey.ShouldAlmostEqual, 50)
		convey.So(model.ChangePct(0, 75), convey.ShouldEqual, 0)
		convey.So(model.ChangePct(40, 40), convey.ShouldEqual, 0)
	})
}
