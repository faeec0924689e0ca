// Package forecast projects monthly emissions under an assumed annual
// reduction rate and compares named reduction scenarios.
//
// The monthly projection is linear in the month index: the reduction factor
// 1 - rate/12*i is not clamped, so long horizons or high rates produce
// negative projected emissions. The scenario model compounds yearly. The two
// models are independent.
package forecast

import (
	"time"

	"github.com/okian/footprint/internal/domain/mathx"
)

const (
	// DefaultReductionRate is the assumed annual reduction (10%).
	DefaultReductionRate = 0.10
	// DefaultMonths is the horizon used when a non-positive one is requested.
	DefaultMonths = 12

	weeksPerYear  = 52
	monthsPerYear = 12
)

// Point is one projected month.
type Point struct {
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	Emissions         float64 `json:"emissions"`
	Baseline          float64 `json:"baseline"`
	Savings           float64 `json:"savings"`
	CumulativeSavings float64 `json:"cumulative_savings"`
}

// Result is an individual forecast.
type Result struct {
	Forecast            []Point `json:"forecast"`
	TotalAnnualSavings  float64 `json:"total_annual_savings"`
	ReductionPercentage float64 `json:"reduction_percentage"`
}

// CompanyResult is a forecast scaled to the whole company.
type CompanyResult struct {
	Result
	EmployeeCount            int     `json:"employee_count"`
	AverageEmployeeEmissions float64 `json:"average_employee_emissions"`
}

// EmployeeEmissions is the latest weekly total of one employee.
type EmployeeEmissions struct {
	EmployeeID     string  `json:"employee_id,omitempty"`
	TotalFootprint float64 `json:"total_footprint"`
}

// Option applies a configuration option to the Forecaster.
type Option func(*Forecaster)

// WithReductionRate sets the annual reduction rate. Negative rates are ignored.
func WithReductionRate(rate float64) Option {
	return func(f *Forecaster) {
		if rate >= 0 {
			f.rate = rate
		}
	}
}

// WithClock sets the clock used to label the first forecast month.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) {
		if now != nil {
			f.now = now
		}
	}
}

// Forecaster is immutable after construction and safe for concurrent use.
type Forecaster struct {
	rate float64
	now  func() time.Time
}

// New creates a Forecaster with a 10% annual reduction rate.
func New(opts ...Option) *Forecaster {
	f := &Forecaster{
		rate: DefaultReductionRate,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ReductionRate returns the configured annual rate.
func (f *Forecaster) ReductionRate() float64 { return f.rate }

// Individual projects weekly emissions over the given number of months,
// starting with the current calendar month. months <= 0 selects DefaultMonths.
func (f *Forecaster) Individual(weekly float64, months int) Result {
	if months <= 0 {
		months = DefaultMonths
	}
	baseline := weekly * weeksPerYear / monthsPerYear
	monthlyReduction := f.rate / monthsPerYear

	start := f.now()
	startMonth, startYear := int(start.Month()), start.Year()

	points := make([]Point, 0, months)
	var cumulative float64
	for i := 0; i < months; i++ {
		emissions := baseline * (1 - monthlyReduction*float64(i))
		savings := baseline - emissions
		cumulative += savings

		month := (startMonth + i) % monthsPerYear
		if month == 0 {
			month = monthsPerYear
		}
		points = append(points, Point{
			Month:             month,
			Year:              startYear + (startMonth+i-1)/monthsPerYear,
			Emissions:         mathx.Round2(emissions),
			Baseline:          mathx.Round2(baseline),
			Savings:           mathx.Round2(savings),
			CumulativeSavings: mathx.Round2(cumulative),
		})
	}

	return Result{
		Forecast:            points,
		TotalAnnualSavings:  mathx.Round2(cumulative),
		ReductionPercentage: mathx.Round1(f.rate * 100),
	}
}

// Company forecasts the mean employee and scales every monthly figure by the
// number of employees. An empty slice yields a zero forecast.
func (f *Forecaster) Company(records []EmployeeEmissions, months int) CompanyResult {
	n := len(records)
	var sum float64
	for _, r := range records {
		sum += r.TotalFootprint
	}
	avg := mathx.SafeDiv(sum, float64(n))

	ind := f.Individual(avg, months)
	scale := float64(n)

	points := make([]Point, len(ind.Forecast))
	for i, p := range ind.Forecast {
		points[i] = Point{
			Month:             p.Month,
			Year:              p.Year,
			Emissions:         mathx.Round2(p.Emissions * scale),
			Baseline:          mathx.Round2(p.Baseline * scale),
			Savings:           mathx.Round2(p.Savings * scale),
			CumulativeSavings: mathx.Round2(p.CumulativeSavings * scale),
		}
	}

	return CompanyResult{
		Result: Result{
			Forecast:            points,
			TotalAnnualSavings:  mathx.Round2(ind.TotalAnnualSavings * scale),
			ReductionPercentage: ind.ReductionPercentage,
		},
		EmployeeCount:            n,
		AverageEmployeeEmissions: mathx.Round2(avg),
	}
}
