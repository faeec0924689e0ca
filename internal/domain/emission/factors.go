package emission

// CommuteMode is a transport mode reported by the simple commute model.
type CommuteMode string

// Commute modes with a known factor. ModeUnknown yields zero emissions.
const (
	ModeUnknown    CommuteMode = ""
	ModeCar        CommuteMode = "car"
	ModeBus        CommuteMode = "bus"
	ModeTrain      CommuteMode = "train"
	ModeMotorcycle CommuteMode = "motorcycle"
	ModeBike       CommuteMode = "bike"
	ModeWalk       CommuteMode = "walk"
)

// CarType is the car sub-mode used when the commute mode is car.
type CarType string

// Car sub-modes. CarGas is the default.
const (
	CarGas      CarType = "gas"
	CarHybrid   CarType = "hybrid"
	CarElectric CarType = "electric"
)

// DietType is a weekly diet baseline.
type DietType string

// Diet types. DietOmnivore is the default.
const (
	DietOmnivore    DietType = "omnivore"
	DietPescatarian DietType = "pescatarian"
	DietVegetarian  DietType = "vegetarian"
	DietVegan       DietType = "vegan"
)

// Level is a low/medium/high usage level for paper, energy and HVAC.
type Level string

// Usage levels. LevelMedium is the default.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Per-unit constants (kg CO2e).
const (
	workdaysPerWeek = 5

	videoPerHour       = 0.5
	computerPerHour    = 0.1
	printingPerPage    = 0.05
	remoteCreditPerDay = 1.5

	airPerMile      = 0.2
	hotelPerNight   = 15.0
	rentalCarPerDay = 10.0

	localFoodMaxDiscount = 0.2

	defaultTransactionFactor = 0.3
)

// kg CO2e per mile.
var carFactors = map[CarType]float64{ //nolint:gochecknoglobals // immutable lookup table
	CarGas:      0.41,
	CarHybrid:   0.19,
	CarElectric: 0.1,
}

// kg CO2e per mile, modes other than car.
var modeFactors = map[CommuteMode]float64{ //nolint:gochecknoglobals // immutable lookup table
	ModeBus:        0.18,
	ModeTrain:      0.12,
	ModeMotorcycle: 0.22,
	ModeBike:       0,
	ModeWalk:       0,
}

// kg CO2e per week.
var dietFactors = map[DietType]float64{ //nolint:gochecknoglobals // immutable lookup table
	DietOmnivore:    50,
	DietPescatarian: 30,
	DietVegetarian:  20,
	DietVegan:       10,
}

// kg CO2e per full office week for paper and energy; per office day for HVAC.
//
//nolint:gochecknoglobals // immutable lookup tables
var (
	paperFactors = map[Level]float64{LevelLow: 0.5, LevelMedium: 2, LevelHigh: 5}
	energyFactor = map[Level]float64{LevelLow: 5, LevelMedium: 15, LevelHigh: 30}
	hvacFactors  = map[Level]float64{LevelLow: 1.0, LevelMedium: 2.0, LevelHigh: 3.0}
)

// kg CO2e per currency unit spent.
var transactionFactors = map[string]float64{ //nolint:gochecknoglobals // immutable lookup table
	"food":           0.4,
	"groceries":      0.2,
	"transportation": 0.5,
	"shopping":       0.3,
	"utilities":      0.6,
	"travel":         0.8,
	"entertainment":  0.2,
}

// Factors is a read-only snapshot of the emission factor tables.
type Factors struct {
	Car          map[CarType]float64     `json:"car"`
	Commute      map[CommuteMode]float64 `json:"commute"`
	Diet         map[DietType]float64    `json:"diet"`
	Paper        map[Level]float64       `json:"paper"`
	Energy       map[Level]float64       `json:"energy"`
	HVAC         map[Level]float64       `json:"hvac"`
	Transactions map[string]float64      `json:"transactions"`
}

// DefaultFactors returns a copy of the built-in factor tables. Mutating the
// result has no effect on calculations.
func DefaultFactors() Factors {
	return Factors{
		Car:          clone(carFactors),
		Commute:      clone(modeFactors),
		Diet:         clone(dietFactors),
		Paper:        clone(paperFactors),
		Energy:       clone(energyFactor),
		HVAC:         clone(hvacFactors),
		Transactions: clone(transactionFactors),
	}
}

func clone[K comparable](m map[K]float64) map[K]float64 {
	out := make(map[K]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// lookup returns table[key], falling back to table[def] for unknown keys.
func lookup[K comparable](table map[K]float64, key, def K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return table[def]
}
