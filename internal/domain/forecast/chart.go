package forecast

import (
	"fmt"
	"math"

	"github.com/okian/footprint/internal/domain/mathx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Impact equivalence constants.
const (
	treeKgPerYear  = 20.0 // kg CO2e absorbed by one tree in a year
	carKgPerMile   = 0.41 // gas car factor
	carMilesFactor = 1000.0
)

// Chart holds forecast series ready for plotting.
type Chart struct {
	Labels   []string  `json:"labels"`
	Baseline []float64 `json:"baseline"`
	Forecast []float64 `json:"forecast"`
	Savings  []float64 `json:"savings"`
}

// Impact translates savings into familiar equivalents.
type Impact struct {
	TreesPlanted int    `json:"trees_planted"`
	CarMiles     int    `json:"car_miles"`
	Text         string `json:"text"`
}

// CompanyOverview is the company forecast with its chart series and
// impact equivalents.
type CompanyOverview struct {
	CompanyResult
	Chart  Chart  `json:"chart_data"`
	Impact Impact `json:"impact_equivalents"`
}

// ChartData splits a forecast into parallel series labelled "month/year".
func ChartData(r Result) Chart {
	c := Chart{
		Labels:   make([]string, len(r.Forecast)),
		Baseline: make([]float64, len(r.Forecast)),
		Forecast: make([]float64, len(r.Forecast)),
		Savings:  make([]float64, len(r.Forecast)),
	}
	for i, p := range r.Forecast {
		c.Labels[i] = fmt.Sprintf("%d/%d", p.Month, p.Year)
		c.Baseline[i] = p.Baseline
		c.Forecast[i] = p.Emissions
		c.Savings[i] = p.Savings
	}
	return c
}

// ImpactOf describes savings in English.
func ImpactOf(savings float64) Impact {
	return ImpactIn(language.English, savings)
}

// ImpactIn describes savings using the number formatting of tag.
func ImpactIn(tag language.Tag, savings float64) Impact {
	trees := int(math.RoundToEven(savings / treeKgPerYear))
	miles := int(math.RoundToEven(savings / carKgPerMile * carMilesFactor))
	p := message.NewPrinter(tag)
	return Impact{
		TreesPlanted: trees,
		CarMiles:     miles,
		Text: p.Sprintf("Saving %.2f kg CO2e is like planting %d trees or skipping %d car miles.",
			savings, trees, miles),
	}
}

// Overview assembles the dashboard view of a company forecast.
func Overview(c CompanyResult) CompanyOverview {
	return CompanyOverview{
		CompanyResult: c,
		Chart:         ChartData(c.Result),
		Impact:        ImpactOf(mathx.Round2(c.TotalAnnualSavings)),
	}
}
