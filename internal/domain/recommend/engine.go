// Package recommend turns an employee's latest footprint into a short list of
// prioritised reduction tips.
package recommend

import (
	"slices"
	"strings"

	"github.com/okian/footprint/internal/domain/emission"
	"github.com/okian/footprint/internal/domain/model"
)

// DefaultLimit is the number of tips returned when no limit is given.
const DefaultLimit = 3

const (
	longCommuteMiles  = 20
	shortCommuteMiles = 5
	lowLocalFoodPct   = 30
	heavyPrintPages   = 50
	mediumPrintPages  = 10
)

// Profile is the subset of a footprint the engine looks at.
type Profile struct {
	CommuteMode     emission.CommuteMode
	CarType         emission.CarType
	CommuteDistance float64
	Diet            emission.DietType
	DietReported    bool
	LocalFoodPct    float64
	Paper           emission.Level
	Energy          emission.Level
}

// Recommendation is a single tip.
type Recommendation struct {
	Category    string `json:"category"`
	ImpactLevel Impact `json:"impact_level"`
	Text        string `json:"text"`
}

type area struct {
	category Category
	impact   Impact
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDefaultLimit sets the limit used when For is called with limit <= 0.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// Engine selects recommendations from the built-in catalog.
type Engine struct {
	limit int
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{limit: DefaultLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// For returns up to limit recommendations for p, highest impact first.
// Improvement areas contribute their first two tips; remaining slots are
// filled with general medium and low tips.
func (e *Engine) For(p Profile, limit int) []Recommendation {
	if limit <= 0 {
		limit = e.limit
	}

	recs := make([]Recommendation, 0, limit)
	areas := improvementAreas(p)
	if len(areas) > limit {
		areas = areas[:limit]
	}
	for _, a := range areas {
		tips := catalog[a.category][a.impact]
		recs = append(recs, newRecommendation(a.category, a.impact, tips[0]))
		if len(recs) < limit && len(tips) > 1 {
			recs = append(recs, newRecommendation(a.category, a.impact, tips[1]))
		}
	}

fill:
	for _, c := range []Category{CategoryCommute, CategoryDiet, CategoryOffice} {
		for _, imp := range []Impact{ImpactMedium, ImpactLow} {
			if len(recs) >= limit {
				break fill
			}
			r := newRecommendation(c, imp, catalog[c][imp][0])
			if !slices.Contains(recs, r) {
				recs = append(recs, r)
			}
		}
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// ForFootprint is For applied to ProfileFrom(fp).
func (e *Engine) ForFootprint(fp model.Footprint, limit int) []Recommendation {
	return e.For(ProfileFrom(fp), limit)
}

func newRecommendation(c Category, i Impact, text string) Recommendation {
	name := string(c)
	return Recommendation{
		Category:    strings.ToUpper(name[:1]) + name[1:],
		ImpactLevel: i,
		Text:        text,
	}
}

func improvementAreas(p Profile) []area {
	var areas []area

	switch {
	case p.CommuteMode == emission.ModeCar && p.CarType == emission.CarGas:
		areas = append(areas, area{CategoryCommute, ImpactHigh})
	case p.CommuteMode == emission.ModeCar:
		areas = append(areas, area{CategoryCommute, ImpactMedium})
	case p.CommuteDistance > longCommuteMiles:
		areas = append(areas, area{CategoryCommute, ImpactMedium})
	case p.CommuteDistance > shortCommuteMiles:
		areas = append(areas, area{CategoryCommute, ImpactLow})
	}

	switch {
	case p.DietReported && p.Diet == emission.DietOmnivore:
		areas = append(areas, area{CategoryDiet, ImpactHigh})
	case p.DietReported && p.Diet == emission.DietPescatarian:
		areas = append(areas, area{CategoryDiet, ImpactMedium})
	case p.LocalFoodPct < lowLocalFoodPct:
		areas = append(areas, area{CategoryDiet, ImpactMedium})
	default:
		areas = append(areas, area{CategoryDiet, ImpactLow})
	}

	switch {
	case p.Paper == emission.LevelHigh || p.Energy == emission.LevelHigh:
		areas = append(areas, area{CategoryOffice, ImpactHigh})
	case p.Paper == emission.LevelMedium || p.Energy == emission.LevelMedium:
		areas = append(areas, area{CategoryOffice, ImpactMedium})
	default:
		areas = append(areas, area{CategoryOffice, ImpactLow})
	}

	slices.SortStableFunc(areas, func(a, b area) int {
		return a.impact.priority() - b.impact.priority()
	})
	return areas
}

// ProfileFrom derives a Profile from the inputs stored with a footprint.
// Office forms report no diet; their paper level follows printed pages and
// their energy level follows HVAC usage. Personal forms report nothing.
func ProfileFrom(fp model.Footprint) Profile {
	switch {
	case fp.Lifestyle != nil:
		l := fp.Lifestyle
		p := Profile{
			CommuteMode:  emission.ParseCommuteMode(l.CommuteMode),
			CarType:      emission.ParseCarType(l.CarType),
			Diet:         emission.ParseDietType(l.DietType),
			DietReported: strings.TrimSpace(l.DietType) != "",
			LocalFoodPct: l.LocalFoodPercentage,
			Paper:        emission.ParseLevel(l.PaperUsage),
			Energy:       emission.ParseLevel(l.EnergyUsage),
		}
		if l.CommuteDistance != nil {
			p.CommuteDistance = *l.CommuteDistance
		}
		return p
	case fp.Office != nil:
		o := fp.Office
		p := Profile{
			CarType:         emission.ParseCarType(o.CarType),
			CommuteDistance: o.CommuteDistance,
			LocalFoodPct:    lowLocalFoodPct,
			Paper:           emission.LevelLow,
			Energy:          emission.ParseLevel(o.HVACUsage),
		}
		if o.CommuteDaysByCar > 0 {
			p.CommuteMode = emission.ModeCar
		}
		switch {
		case o.PrinterPages >= heavyPrintPages:
			p.Paper = emission.LevelHigh
		case o.PrinterPages >= mediumPrintPages:
			p.Paper = emission.LevelMedium
		}
		return p
	default:
		return Profile{LocalFoodPct: lowLocalFoodPct, Paper: emission.LevelLow, Energy: emission.LevelLow}
	}
}
