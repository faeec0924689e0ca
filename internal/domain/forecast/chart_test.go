package forecast_test

import (
	"testing"
	"time"

	"github.com/okian/footprint/internal/domain/forecast"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
)

func TestChartData(t *testing.T) {
	Convey("Given a three month forecast starting in November", t, func() {
		f := forecast.New(forecast.WithClock(fixedClock(2026, time.November)))
		r := f.Individual(100, 3)
		c := forecast.ChartData(r)

		Convey("Then the series are parallel and labelled month/year", func() {
			So(c.Labels, ShouldResemble, []string{"11/2026", "12/2026", "1/2027"})
			So(c.Baseline, ShouldHaveLength, 3)
			So(c.Forecast[1], ShouldEqual, r.Forecast[1].Emissions)
			So(c.Savings[2], ShouldEqual, r.Forecast[2].Savings)
		})
	})

	Convey("Given an empty forecast", t, func() {
		c := forecast.ChartData(forecast.Result{})
		So(c.Labels, ShouldBeEmpty)
		So(c.Labels, ShouldNotBeNil)
	})
}

func TestImpact(t *testing.T) {
	Convey("Given 410 kg of savings", t, func() {
		imp := forecast.ImpactOf(410)

		Convey("Then trees and car miles are derived from fixed factors", func() {
			So(imp.TreesPlanted, ShouldEqual, 20)
			So(imp.CarMiles, ShouldEqual, 1_000_000)
		})

		Convey("Then the text uses grouped English numbers", func() {
			So(imp.Text, ShouldContainSubstring, "410.00 kg")
			So(imp.Text, ShouldContainSubstring, "1,000,000 car miles")
		})
	})

	Convey("Given German formatting", t, func() {
		imp := forecast.ImpactIn(language.German, 1234.5)
		So(imp.CarMiles, ShouldEqual, 3_010_976)
		So(imp.Text, ShouldContainSubstring, "3.010.976")
	})

	Convey("Given no savings", t, func() {
		imp := forecast.ImpactOf(0)
		So(imp.TreesPlanted, ShouldEqual, 0)
		So(imp.CarMiles, ShouldEqual, 0)
	})
}

func TestOverview(t *testing.T) {
	Convey("Given a company forecast", t, func() {
		f := forecast.New(forecast.WithClock(fixedClock(2026, time.October)))
		c := f.Company([]forecast.EmployeeEmissions{{TotalFootprint: 80}, {TotalFootprint: 40}}, 12)
		o := forecast.Overview(c)

		Convey("Then the overview mirrors the forecast summary", func() {
			So(o.EmployeeCount, ShouldEqual, 2)
			So(o.AverageEmployeeEmissions, ShouldEqual, 60.0)
			So(o.ReductionPercentage, ShouldEqual, 10.0)
			So(o.TotalAnnualSavings, ShouldEqual, c.TotalAnnualSavings)
			So(o.Forecast, ShouldResemble, c.Forecast)
			So(o.Chart.Labels, ShouldHaveLength, 12)
			So(o.Impact.TreesPlanted, ShouldBeGreaterThan, 0)
		})
	})
}
