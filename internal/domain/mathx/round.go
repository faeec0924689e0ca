// Package mathx holds the rounding helpers shared by the footprint domain packages.
package mathx

import "math"

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 { return Round(x, 2) }

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 { return Round(x, 1) }

// SafeDiv returns num/den, or 0 when den is 0.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
