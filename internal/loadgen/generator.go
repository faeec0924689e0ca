package loadgen

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/footprint/internal/domain/model"
)

var (
	departments  = []string{"Engineering", "Sales", "Marketing", "Operations", "Finance", "HR"}
	commuteModes = []string{"car", "car", "bus", "train", "motorcycle", "bike", "walk"}
	carTypes     = []string{"gas", "gas", "hybrid", "electric"}
	dietTypes    = []string{"omnivore", "omnivore", "pescatarian", "vegetarian", "vegan"}
	levels       = []string{"low", "medium", "medium", "high"}
)

// Generator produces random but plausible submissions.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator returns a Generator. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
}

// Generate returns n submissions, each for a distinct employee. Roughly a
// third are office forms; the rest are lifestyle forms.
func (g *Generator) Generate(n int) []model.Submission {
	subs := make([]model.Submission, n)
	ts := g.now().UTC().Truncate(time.Second)
	for i := range subs {
		sub := model.Submission{
			SubmissionID: uuid.NewString(),
			EmployeeID:   "emp-" + uuid.NewString(),
			Department:   pick(g.rnd, departments),
			TS:           ts,
		}
		if g.rnd.IntN(3) == 0 {
			sub.FormType = model.FormOffice
			sub.Office = g.office()
		} else {
			sub.FormType = model.FormLifestyle
			sub.Lifestyle = g.lifestyle()
		}
		subs[i] = sub
	}
	return subs
}

func (g *Generator) lifestyle() *model.LifestyleForm {
	distance := float64(g.rnd.IntN(400)) / 10
	days := g.rnd.IntN(6)
	return &model.LifestyleForm{
		CommuteDistance:     &distance,
		CommuteMode:         pick(g.rnd, commuteModes),
		CarType:             pick(g.rnd, carTypes),
		DietType:            pick(g.rnd, dietTypes),
		LocalFoodPercentage: float64(g.rnd.IntN(11) * 10),
		OfficeDaysPerWeek:   &days,
		PaperUsage:          pick(g.rnd, levels),
		EnergyUsage:         pick(g.rnd, levels),
	}
}

func (g *Generator) office() *model.OfficeForm {
	remote := g.rnd.IntN(3)
	car := g.rnd.IntN(6 - remote)
	transit := 5 - remote - car
	return &model.OfficeForm{
		CommuteDistance:          float64(g.rnd.IntN(300)) / 10,
		CarType:                  pick(g.rnd, carTypes),
		CommuteDaysByCar:         car,
		CommuteDaysPublicTransit: transit,
		RemoteWorkDays:           remote,
		VideoConferenceHours:     float64(g.rnd.IntN(20)),
		ComputerHours:            float64(20 + g.rnd.IntN(30)),
		PrinterPages:             g.rnd.IntN(100),
		HVACUsage:                pick(g.rnd, levels),
		AirTravelMiles:           float64(g.rnd.IntN(4) * 250),
		HotelNights:              g.rnd.IntN(4),
		RentalCarDays:            g.rnd.IntN(3),
	}
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.IntN(len(values))]
}
