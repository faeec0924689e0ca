package forecast

import (
	"math"

	"github.com/okian/footprint/internal/domain/mathx"
)

// Scenario is a named annual reduction rate.
type Scenario struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
}

// ScenarioOutcome is the projected effect of a scenario on annual emissions.
type ScenarioOutcome struct {
	Scenario
	Year1Emissions           float64 `json:"year1_emissions"`
	Year5Emissions           float64 `json:"year5_emissions"`
	Year1Savings             float64 `json:"year1_savings"`
	Year5Savings             float64 `json:"year5_savings"`
	Year5ReductionPercentage float64 `json:"year5_reduction_percentage"`
}

// Catalog returns the fixed scenario catalog, ordered from least to most aggressive.
func Catalog() []Scenario {
	return []Scenario{
		{Name: "Conservative", Description: "5% annual reduction", Rate: 0.05},
		{Name: "Moderate", Description: "10% annual reduction", Rate: 0.10},
		{Name: "Ambitious", Description: "20% annual reduction", Rate: 0.20},
		{Name: "Aggressive", Description: "30% annual reduction", Rate: 0.30},
	}
}

// Scenarios projects weekly emissions one and five years out under each
// catalog scenario, compounding yearly.
func (f *Forecaster) Scenarios(weekly float64) []ScenarioOutcome {
	annual := weekly * weeksPerYear
	catalog := Catalog()
	out := make([]ScenarioOutcome, len(catalog))
	for i, s := range catalog {
		retained := 1 - s.Rate
		year1 := annual * retained
		year5 := annual * math.Pow(retained, 5)
		out[i] = ScenarioOutcome{
			Scenario:                 s,
			Year1Emissions:           mathx.Round2(year1),
			Year5Emissions:           mathx.Round2(year5),
			Year1Savings:             mathx.Round2(annual - year1),
			Year5Savings:             mathx.Round2(annual - year5),
			Year5ReductionPercentage: mathx.Round1((1 - math.Pow(retained, 5)) * 100),
		}
	}
	return out
}
