// Package emission converts reported activity quantities into CO2-equivalent
// emissions and a bounded footprint score.
//
// Two independent model families coexist and are kept separate on purpose:
// the simple per-category methods (CommuteEmissions, DietEmissions,
// OfficeEmissions) used by TotalFootprint, and the richer usage models
// (CommuteFootprint, OfficeFootprint, TravelFootprint) used by office
// submissions. They are not expected to agree.
//
// Every method is total. Missing numerics are nil and contribute 0; unknown
// categories are normalised by the Parse functions.
package emission

import (
	"math"

	"github.com/okian/footprint/internal/domain/mathx"
)

const (
	scoreBaseline = 100.0 // kg CO2e/week that maps to a score of 50
	scoreMax      = 100
	scoreFloorAt  = 200.0
)

// CommuteUsage is the input of the rich commute model.
type CommuteUsage struct {
	Distance          float64 // one-way miles
	DaysByCar         int
	DaysPublicTransit int
	DaysEV            int
	CarType           CarType
}

// OfficeUsage is the input of the rich office model.
type OfficeUsage struct {
	RemoteDays    int
	VideoHours    float64
	ComputerHours float64
	PrinterPages  int
	HVAC          Level
}

// TravelUsage is the monthly business travel input.
type TravelUsage struct {
	AirMiles      float64
	HotelNights   int
	RentalCarDays int
}

// CommuteInput feeds the simple commute model.
type CommuteInput struct {
	Distance *float64 // one-way daily miles
	Mode     CommuteMode
	CarType  CarType
}

// DietInput feeds the diet model.
type DietInput struct {
	Diet         DietType
	LocalFoodPct float64
}

// OfficeInput feeds the simple office model.
type OfficeInput struct {
	DaysPerWeek *int
	Paper       Level
	Energy      Level
}

// Total is the result of TotalFootprint.
type Total struct {
	TotalEmissions float64 `json:"total_emissions"`
	FootprintScore int     `json:"footprint_score"`
}

// Calculator computes emissions from activity inputs. The zero value is ready
// to use and safe for concurrent use.
type Calculator struct{}

// New returns a Calculator.
func New() *Calculator { return &Calculator{} }

// CommuteEmissions returns weekly kg CO2e for a daily one-way distance over
// five workdays. A nil distance or an unknown mode yields 0.
func (c *Calculator) CommuteEmissions(distance *float64, mode CommuteMode, car CarType) float64 {
	if distance == nil {
		return 0
	}
	weekly := *distance * workdaysPerWeek

	var factor float64
	switch mode {
	case ModeCar:
		factor = lookup(carFactors, car, CarGas)
	default:
		f, ok := modeFactors[mode]
		if !ok {
			return 0
		}
		factor = f
	}
	return weekly * factor
}

// DietEmissions returns the weekly diet baseline discounted by up to 20% for
// locally sourced food.
func (c *Calculator) DietEmissions(diet DietType, localFoodPct float64) float64 {
	base := lookup(dietFactors, diet, DietOmnivore)
	return base * (1 - localFoodMaxDiscount*localFoodPct/100)
}

// OfficeEmissions returns weekly paper and energy emissions scaled by office
// days. A nil day count yields 0.
func (c *Calculator) OfficeEmissions(daysPerWeek *int, paper, energy Level) float64 {
	if daysPerWeek == nil {
		return 0
	}
	perWeek := lookup(paperFactors, paper, LevelMedium) + lookup(energyFactor, energy, LevelMedium)
	return perWeek * float64(*daysPerWeek) / workdaysPerWeek
}

// CommuteFootprint returns weekly round-trip emissions across car, EV and
// public transit days.
func (c *Calculator) CommuteFootprint(u CommuteUsage) float64 {
	car := u.Distance * float64(u.DaysByCar) * lookup(carFactors, u.CarType, CarGas)
	ev := u.Distance * float64(u.DaysEV) * carFactors[CarElectric]
	transit := u.Distance * float64(u.DaysPublicTransit) * modeFactors[ModeBus]
	return (car + ev + transit) * 2
}

// OfficeFootprint returns weekly office emissions net of the remote-work
// credit, floored at 0.
func (c *Calculator) OfficeFootprint(u OfficeUsage) float64 {
	total := u.VideoHours*videoPerHour +
		u.ComputerHours*computerPerHour +
		float64(u.PrinterPages)*printingPerPage +
		float64(workdaysPerWeek-u.RemoteDays)*lookup(hvacFactors, u.HVAC, LevelMedium) -
		float64(u.RemoteDays)*remoteCreditPerDay
	return math.Max(0, total)
}

// TravelFootprint returns monthly business travel emissions.
func (c *Calculator) TravelFootprint(u TravelUsage) float64 {
	return u.AirMiles*airPerMile +
		float64(u.HotelNights)*hotelPerNight +
		float64(u.RentalCarDays)*rentalCarPerDay
}

// FootprintScore maps total emissions to 0..100 where 100 is best.
// 100 kg CO2e scores 50; the score reaches 0 at 200 kg CO2e.
// Halves round to even.
func (c *Calculator) FootprintScore(total float64) int {
	switch {
	case total <= 0:
		return scoreMax
	case total >= scoreFloorAt:
		return 0
	}
	score := scoreMax - total/scoreBaseline*50
	score = math.Max(0, math.Min(scoreMax, score))
	return int(math.RoundToEven(score))
}

// TotalFootprint sums the simple commute, diet and office models.
func (c *Calculator) TotalFootprint(commute CommuteInput, diet DietInput, office OfficeInput) Total {
	total := c.CommuteEmissions(commute.Distance, commute.Mode, commute.CarType) +
		c.DietEmissions(diet.Diet, diet.LocalFoodPct) +
		c.OfficeEmissions(office.DaysPerWeek, office.Paper, office.Energy)
	return Total{
		TotalEmissions: mathx.Round2(total),
		FootprintScore: c.FootprintScore(total),
	}
}

// TransactionFactor returns kg CO2e per currency unit for a spending category.
func TransactionFactor(category string) float64 {
	if f, ok := transactionFactors[ParseCategory(category)]; ok {
		return f
	}
	return defaultTransactionFactor
}

// TransactionImpact returns the kg CO2e attributed to a purchase.
func (c *Calculator) TransactionImpact(category string, amount float64) float64 {
	return amount * TransactionFactor(category)
}
