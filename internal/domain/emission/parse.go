package emission

import "strings"

// The Parse functions normalise loosely validated form values at the input
// boundary. They never fail: unknown values map to the documented default so
// the calculator stays total.

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ParseCommuteMode maps s to a known commute mode, or ModeUnknown.
func ParseCommuteMode(s string) CommuteMode {
	m := CommuteMode(normalize(s))
	if m == ModeCar {
		return m
	}
	if _, ok := modeFactors[m]; ok {
		return m
	}
	return ModeUnknown
}

// ParseCarType maps s to a known car type, defaulting to CarGas.
func ParseCarType(s string) CarType {
	c := CarType(normalize(s))
	if _, ok := carFactors[c]; ok {
		return c
	}
	return CarGas
}

// ParseDietType maps s to a known diet, defaulting to DietOmnivore.
func ParseDietType(s string) DietType {
	d := DietType(normalize(s))
	if _, ok := dietFactors[d]; ok {
		return d
	}
	return DietOmnivore
}

// ParseLevel maps s to low, medium or high, defaulting to LevelMedium.
func ParseLevel(s string) Level {
	switch l := Level(normalize(s)); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l
	default:
		return LevelMedium
	}
}

// ParseCategory normalises a transaction category. Unknown categories are
// kept as given; they are priced with the default factor.
func ParseCategory(s string) string {
	c := normalize(s)
	if c == "" {
		return "other"
	}
	return c
}
