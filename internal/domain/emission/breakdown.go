package emission

import "github.com/okian/footprint/internal/domain/mathx"

// Breakdown holds the per-category sub-totals behind a footprint. Units are
// not uniform: commute, diet and office are weekly, travel and transactions
// are monthly.
type Breakdown struct {
	Commute     float64 `json:"commute_footprint"`
	Diet        float64 `json:"diet_footprint"`
	Office      float64 `json:"office_footprint"`
	Travel      float64 `json:"travel_footprint"`
	Transaction float64 `json:"transaction_footprint"`
	Total       float64 `json:"total_footprint"`
	Score       int     `json:"footprint_score"`
}

// OfficeBreakdown scores an office submission with the rich usage models.
func (c *Calculator) OfficeBreakdown(commute CommuteUsage, office OfficeUsage, travel TravelUsage) Breakdown {
	b := Breakdown{
		Commute: c.CommuteFootprint(commute),
		Office:  c.OfficeFootprint(office),
		Travel:  c.TravelFootprint(travel),
	}
	return c.finish(b, b.Commute+b.Office+b.Travel)
}

// PersonalBreakdown scores a personal-spending submission from the sum of
// the period's transaction impacts.
func (c *Calculator) PersonalBreakdown(transactionTotal float64) Breakdown {
	b := Breakdown{Transaction: transactionTotal}
	return c.finish(b, transactionTotal)
}

// LifestyleBreakdown scores a lifestyle submission with the simple models.
// Total and score match TotalFootprint.
func (c *Calculator) LifestyleBreakdown(commute CommuteInput, diet DietInput, office OfficeInput) Breakdown {
	b := Breakdown{
		Commute: c.CommuteEmissions(commute.Distance, commute.Mode, commute.CarType),
		Diet:    c.DietEmissions(diet.Diet, diet.LocalFoodPct),
		Office:  c.OfficeEmissions(office.DaysPerWeek, office.Paper, office.Energy),
	}
	return c.finish(b, b.Commute+b.Diet+b.Office)
}

func (c *Calculator) finish(b Breakdown, total float64) Breakdown {
	b.Commute = mathx.Round2(b.Commute)
	b.Diet = mathx.Round2(b.Diet)
	b.Office = mathx.Round2(b.Office)
	b.Travel = mathx.Round2(b.Travel)
	b.Transaction = mathx.Round2(b.Transaction)
	b.Total = mathx.Round2(total)
	b.Score = c.FootprintScore(total)
	return b
}
