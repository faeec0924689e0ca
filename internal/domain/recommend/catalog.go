package recommend

// Category groups recommendations by lifestyle area.
type Category string

// Categories in fill order.
const (
	CategoryCommute Category = "commute"
	CategoryDiet    Category = "diet"
	CategoryOffice  Category = "office"
)

// Impact ranks how much a recommendation can reduce emissions.
type Impact string

// Impact levels from highest to lowest priority.
const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

func (i Impact) priority() int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	default:
		return 2
	}
}

var catalog = map[Category]map[Impact][]string{ //nolint:gochecknoglobals // immutable catalog
	CategoryCommute: {
		ImpactHigh: {
			"Switch from a gas car to an electric or hybrid vehicle to reduce emissions by up to 75%.",
			"Start carpooling with colleagues to share commute emissions and reduce traffic congestion.",
			"Transition to a 3-day office schedule and work remotely the other days to cut commute emissions.",
		},
		ImpactMedium: {
			"Use public transportation once or twice a week instead of driving.",
			"Optimize your driving route to reduce miles traveled on your commute.",
			"Maintain proper tire pressure to improve fuel efficiency by up to 3%.",
		},
		ImpactLow: {
			"Turn off your engine instead of idling when waiting more than 30 seconds.",
			"Drive at moderate speeds to optimize fuel consumption.",
			"Reduce AC usage in your vehicle to improve fuel efficiency.",
		},
	},
	CategoryDiet: {
		ImpactHigh: {
			"Try going meatless for 2-3 days per week to reduce your food carbon footprint by up to 30%.",
			"Replace beef with chicken or plant-based proteins to significantly reduce emissions.",
			"Shop at local farmers markets to reduce food transportation emissions.",
		},
		ImpactMedium: {
			"Reduce food waste by planning meals and storing food properly.",
			"Choose seasonal fruits and vegetables that require less energy for production.",
			"Buy in bulk to reduce packaging waste and transportation emissions.",
		},
		ImpactLow: {
			"Bring reusable bags when shopping to reduce plastic waste.",
			"Choose products with minimal packaging when shopping.",
			"Start a small herb garden to supplement some of your produce needs.",
		},
	},
	CategoryOffice: {
		ImpactHigh: {
			"Switch to digital documentation and implement a paperless workflow.",
			"Use energy-efficient equipment and turn off devices when not in use.",
			"Advocate for renewable energy sources for your office building.",
		},
		ImpactMedium: {
			"Print on both sides of paper and use recycled paper products.",
			"Adjust your thermostat by 1-2 degrees to reduce energy consumption.",
			"Use natural lighting when possible instead of artificial lighting.",
		},
		ImpactLow: {
			"Use a reusable water bottle and coffee cup at work.",
			"Power down your computer at the end of the day instead of leaving it on standby.",
			"Use stairs instead of elevators for short trips between floors.",
		},
	},
}
