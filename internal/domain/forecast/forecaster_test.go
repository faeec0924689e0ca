package forecast_test

import (
	"testing"
	"time"

	"github.com/okian/footprint/internal/domain/forecast"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 15, 9, 0, 0, 0, time.UTC) }
}

func TestForecaster_Individual(t *testing.T) {
	Convey("Given a forecaster starting in October 2026", t, func() {
		f := forecast.New(forecast.WithClock(fixedClock(2026, time.October)))

		Convey("When forecasting 100 kg/week for 12 months", func() {
			r := f.Individual(100, 12)

			Convey("Then it returns one point per month", func() {
				So(r.Forecast, ShouldHaveLength, 12)
				So(r.ReductionPercentage, ShouldEqual, 10.0)
			})

			Convey("Then the first month carries the unreduced baseline", func() {
				So(r.Forecast[0].Month, ShouldEqual, 10)
				So(r.Forecast[0].Year, ShouldEqual, 2026)
				So(r.Forecast[0].Baseline, ShouldEqual, 433.33)
				So(r.Forecast[0].Emissions, ShouldEqual, 433.33)
				So(r.Forecast[0].Savings, ShouldEqual, 0)
			})

			Convey("Then the calendar rolls over into the next year", func() {
				So(r.Forecast[2].Month, ShouldEqual, 12)
				So(r.Forecast[2].Year, ShouldEqual, 2026)
				So(r.Forecast[3].Month, ShouldEqual, 1)
				So(r.Forecast[3].Year, ShouldEqual, 2027)
				So(r.Forecast[11].Month, ShouldEqual, 9)
				So(r.Forecast[11].Year, ShouldEqual, 2027)
			})

			Convey("Then total annual savings equal the final cumulative savings", func() {
				So(r.TotalAnnualSavings, ShouldEqual, 238.33)
				So(r.Forecast[11].CumulativeSavings, ShouldEqual, r.TotalAnnualSavings)
			})

			Convey("Then cumulative savings never decrease", func() {
				for i := 1; i < len(r.Forecast); i++ {
					So(r.Forecast[i].CumulativeSavings, ShouldBeGreaterThanOrEqualTo, r.Forecast[i-1].CumulativeSavings)
				}
			})
		})

		Convey("When forecasting a range of weekly totals", func() {
			Convey("Then the first baseline is always weekly*52/12", func() {
				for _, w := range []float64{0, 1, 8, 17.5, 105.5, 300.7, 1234.56} {
					r := f.Individual(w, 12)
					So(r.Forecast[0].Baseline, ShouldAlmostEqual, w*52/12, 0.005)
				}
			})
		})

		Convey("When the horizon is not positive", func() {
			So(f.Individual(50, 0).Forecast, ShouldHaveLength, forecast.DefaultMonths)
			So(f.Individual(50, -3).Forecast, ShouldHaveLength, forecast.DefaultMonths)
		})

		Convey("When the horizon spans several years", func() {
			r := f.Individual(10, 27)
			last := r.Forecast[26]
			So(last.Month, ShouldEqual, 12)
			So(last.Year, ShouldEqual, 2028)
		})
	})

	Convey("Given a forecaster starting in December", t, func() {
		f := forecast.New(forecast.WithClock(fixedClock(2026, time.December)))
		r := f.Individual(10, 2)

		Convey("Then the second month is January of the next year", func() {
			So(r.Forecast[0].Month, ShouldEqual, 12)
			So(r.Forecast[0].Year, ShouldEqual, 2026)
			So(r.Forecast[1].Month, ShouldEqual, 1)
			So(r.Forecast[1].Year, ShouldEqual, 2027)
		})
	})

	Convey("Given a high reduction rate and a long horizon", t, func() {
		f := forecast.New(forecast.WithReductionRate(0.3), forecast.WithClock(fixedClock(2026, time.January)))
		r := f.Individual(100, 48)

		Convey("Then the linear model projects negative emissions without clamping", func() {
			last := r.Forecast[47]
			So(last.Emissions, ShouldBeLessThan, 0)
			So(last.Savings, ShouldBeGreaterThan, last.Baseline)
			So(r.ReductionPercentage, ShouldEqual, 30.0)
		})
	})

	Convey("Given a zero reduction rate", t, func() {
		f := forecast.New(forecast.WithReductionRate(0))
		r := f.Individual(100, 6)

		Convey("Then nothing is saved", func() {
			So(r.TotalAnnualSavings, ShouldEqual, 0)
			for _, p := range r.Forecast {
				So(p.Emissions, ShouldEqual, p.Baseline)
			}
		})
	})

	Convey("Given invalid options", t, func() {
		f := forecast.New(forecast.WithReductionRate(-0.5), forecast.WithClock(nil))

		Convey("Then the defaults are kept", func() {
			So(f.ReductionRate(), ShouldEqual, forecast.DefaultReductionRate)
			So(f.Individual(1, 1).Forecast, ShouldHaveLength, 1)
		})
	})
}

func TestForecaster_Company(t *testing.T) {
	Convey("Given a forecaster", t, func() {
		f := forecast.New(forecast.WithClock(fixedClock(2026, time.October)))

		Convey("When there are no employees", func() {
			r := f.Company(nil, 12)

			Convey("Then it returns a zero forecast instead of failing", func() {
				So(r.EmployeeCount, ShouldEqual, 0)
				So(r.AverageEmployeeEmissions, ShouldEqual, 0)
				So(r.TotalAnnualSavings, ShouldEqual, 0)
				So(r.Forecast, ShouldHaveLength, 12)
				for _, p := range r.Forecast {
					So(p.Emissions, ShouldEqual, 0)
				}
			})
		})

		Convey("When there are three employees", func() {
			records := []forecast.EmployeeEmissions{
				{EmployeeID: "a", TotalFootprint: 100},
				{EmployeeID: "b", TotalFootprint: 50},
				{EmployeeID: "c", TotalFootprint: 30},
			}
			r := f.Company(records, 12)
			ind := f.Individual(60, 12)

			Convey("Then it reports the count and mean", func() {
				So(r.EmployeeCount, ShouldEqual, 3)
				So(r.AverageEmployeeEmissions, ShouldEqual, 60.0)
				So(r.ReductionPercentage, ShouldEqual, ind.ReductionPercentage)
			})

			Convey("Then every month is the mean employee scaled by the headcount", func() {
				for i := range r.Forecast {
					So(r.Forecast[i].Month, ShouldEqual, ind.Forecast[i].Month)
					So(r.Forecast[i].Emissions, ShouldAlmostEqual, ind.Forecast[i].Emissions*3, 0.03)
					So(r.Forecast[i].Baseline, ShouldAlmostEqual, ind.Forecast[i].Baseline*3, 0.03)
					So(r.Forecast[i].Savings, ShouldAlmostEqual, ind.Forecast[i].Savings*3, 0.03)
					So(r.Forecast[i].CumulativeSavings, ShouldAlmostEqual, ind.Forecast[i].CumulativeSavings*3, 0.03)
				}
				So(r.TotalAnnualSavings, ShouldAlmostEqual, ind.TotalAnnualSavings*3, 0.03)
			})
		})
	})
}

func TestForecaster_Scenarios(t *testing.T) {
	Convey("Given 100 kg/week of emissions", t, func() {
		f := forecast.New()
		out := f.Scenarios(100)

		Convey("Then the four catalog scenarios are returned in order", func() {
			So(out, ShouldHaveLength, 4)
			So(out[0].Name, ShouldEqual, "Conservative")
			So(out[1].Name, ShouldEqual, "Moderate")
			So(out[2].Name, ShouldEqual, "Ambitious")
			So(out[3].Name, ShouldEqual, "Aggressive")
		})

		Convey("Then the five-year projection compounds", func() {
			So(out[0].Year1Emissions, ShouldEqual, 4940.0)
			So(out[0].Year1Savings, ShouldEqual, 260.0)
			So(out[0].Year5Emissions, ShouldEqual, 4023.66)
			So(out[0].Year5ReductionPercentage, ShouldEqual, 22.6)
			So(out[3].Year5ReductionPercentage, ShouldEqual, 83.2)
		})

		Convey("Then five-year savings strictly increase with the rate", func() {
			for i := 1; i < len(out); i++ {
				So(out[i].Year5Savings, ShouldBeGreaterThan, out[i-1].Year5Savings)
			}
		})

		Convey("Then the scenarios ignore the forecaster's own rate", func() {
			other := forecast.New(forecast.WithReductionRate(0.5)).Scenarios(100)
			So(other, ShouldResemble, out)
		})
	})

	Convey("Given zero emissions", t, func() {
		out := forecast.New().Scenarios(0)

		Convey("Then nothing is saved in any scenario", func() {
			for _, s := range out {
				So(s.Year5Savings, ShouldEqual, 0)
				So(s.Year5ReductionPercentage, ShouldBeGreaterThan, 0)
			}
		})
	})
}
