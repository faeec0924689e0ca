package forecast

// EmployeeForecast is an employee's forecast with its chart series.
type EmployeeForecast struct {
	EmployeeID      string  `json:"employee_id"`
	WeeklyEmissions float64 `json:"current_emissions"`
	Result
	Chart  Chart  `json:"chart_data"`
	Impact Impact `json:"impact_equivalents"`
}

// EmployeeScenarios lists the reduction scenarios for one employee.
type EmployeeScenarios struct {
	EmployeeID      string            `json:"employee_id"`
	WeeklyEmissions float64           `json:"current_emissions"`
	Scenarios       []ScenarioOutcome `json:"scenarios"`
}

// ForEmployee forecasts weekly emissions and attaches the chart series and
// impact equivalents.
func (f *Forecaster) ForEmployee(employeeID string, weekly float64, months int) EmployeeForecast {
	res := f.Individual(weekly, months)
	return EmployeeForecast{
		EmployeeID:      employeeID,
		WeeklyEmissions: weekly,
		Result:          res,
		Chart:           ChartData(res),
		Impact:          ImpactOf(res.TotalAnnualSavings),
	}
}

// ScenariosForEmployee runs the scenario catalog for one employee.
func (f *Forecaster) ScenariosForEmployee(employeeID string, weekly float64) EmployeeScenarios {
	return EmployeeScenarios{
		EmployeeID:      employeeID,
		WeeklyEmissions: weekly,
		Scenarios:       f.Scenarios(weekly),
	}
}
