// Package insights aggregates stored footprints into company, department,
// trend and peer views.
package insights

import (
	"sort"
	"time"

	"github.com/okian/footprint/internal/domain/mathx"
	"github.com/okian/footprint/internal/domain/model"
)

// DefaultTrendMonths is the trend window used when none is given.
const DefaultTrendMonths = 6

// OtherDepartment groups employees that did not report a department.
const OtherDepartment = "Other"

// Change directions reported by CompanyMetrics.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// CompanyMetrics summarises the current calendar month.
type CompanyMetrics struct {
	TotalEmissions    float64 `json:"total_emissions"`
	AvgScore          float64 `json:"avg_score"`
	EmployeeCount     int     `json:"employee_count"`
	EmployeesWithData int     `json:"employees_with_data"`
	PerEmployee       float64 `json:"per_employee"`
	ChangePercentage  float64 `json:"change_percentage"`
	ChangeDirection   string  `json:"change_direction"`
}

// DepartmentStats aggregates the latest footprint of each department member.
type DepartmentStats struct {
	Department     string  `json:"department"`
	Count          int     `json:"count"`
	TotalEmissions float64 `json:"total_emissions"`
	AvgScore       float64 `json:"avg_score"`
	AvgEmissions   float64 `json:"avg_emissions"`
}

// TrendPoint is one calendar month of history.
type TrendPoint struct {
	Month     string  `json:"month"`
	Emissions float64 `json:"emissions"`
	Score     float64 `json:"score"`
}

// PeerComparison places an employee among colleagues.
type PeerComparison struct {
	EmployeeID          string         `json:"employee_id"`
	Department          string         `json:"department,omitempty"`
	TotalFootprint      float64        `json:"total_footprint"`
	FootprintScore      int            `json:"footprint_score"`
	CompanyAvgFootprint float64        `json:"company_avg_footprint"`
	CompanyAvgScore     float64        `json:"company_avg_score"`
	DeptAvgFootprint    *float64       `json:"dept_avg_footprint,omitempty"`
	DeptAvgScore        *float64       `json:"dept_avg_score,omitempty"`
	Percentile          int            `json:"percentile"`
	TopCompany          []model.Ranked `json:"top_company"`
	TopDepartment       []model.Ranked `json:"top_department,omitempty"`
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Company compares this month's records with last month's. employeesWithData
// is the number of employees that have ever submitted.
func Company(current, previous []model.Footprint, employeesWithData int) CompanyMetrics {
	var total, prevTotal, scoreSum float64
	employees := make(map[string]struct{}, len(current))
	for _, fp := range current {
		total += fp.Total
		scoreSum += float64(fp.Score)
		employees[fp.EmployeeID] = struct{}{}
	}
	for _, fp := range previous {
		prevTotal += fp.Total
	}

	var change float64
	if prevTotal > 0 {
		change = (total - prevTotal) / prevTotal * 100
	}
	direction := DirectionDecrease
	if change > 0 {
		direction = DirectionIncrease
	}

	return CompanyMetrics{
		TotalEmissions:    mathx.Round2(total),
		AvgScore:          mathx.Round1(mathx.SafeDiv(scoreSum, float64(len(current)))),
		EmployeeCount:     len(employees),
		EmployeesWithData: employeesWithData,
		PerEmployee:       mathx.Round2(mathx.SafeDiv(total, float64(employeesWithData))),
		ChangePercentage:  mathx.Round1(change),
		ChangeDirection:   direction,
	}
}

// Departments groups the latest footprint per employee by department,
// sorted by department name.
func Departments(latest []model.Footprint) []DepartmentStats {
	byDept := make(map[string]*DepartmentStats)
	scoreSums := make(map[string]float64)
	for _, fp := range latest {
		dept := fp.Department
		if dept == "" {
			dept = OtherDepartment
		}
		s, ok := byDept[dept]
		if !ok {
			s = &DepartmentStats{Department: dept}
			byDept[dept] = s
		}
		s.Count++
		s.TotalEmissions += fp.Total
		scoreSums[dept] += float64(fp.Score)
	}

	out := make([]DepartmentStats, 0, len(byDept))
	for dept, s := range byDept {
		s.AvgScore = mathx.Round1(scoreSums[dept] / float64(s.Count))
		s.AvgEmissions = mathx.Round2(s.TotalEmissions / float64(s.Count))
		s.TotalEmissions = mathx.Round2(s.TotalEmissions)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// Trends sums emissions and averages scores per calendar month for the
// months ending with now's month, oldest first. months <= 0 selects
// DefaultTrendMonths.
func Trends(records []model.Footprint, now time.Time, months int) []TrendPoint {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	first := MonthStart(now).AddDate(0, -(months - 1), 0)

	type bucket struct {
		total, scoreSum float64
		n               int
	}
	buckets := make([]bucket, months)
	for _, fp := range records {
		if fp.Date.Before(first) || fp.Date.After(now) {
			continue
		}
		idx := monthsBetween(first, fp.Date)
		if idx < 0 || idx >= months {
			continue
		}
		buckets[idx].total += fp.Total
		buckets[idx].scoreSum += float64(fp.Score)
		buckets[idx].n++
	}

	out := make([]TrendPoint, months)
	for i, b := range buckets {
		out[i] = TrendPoint{
			Month:     first.AddDate(0, i, 0).Format("Jan 2006"),
			Emissions: mathx.Round2(b.total),
			Score:     mathx.Round1(mathx.SafeDiv(b.scoreSum, float64(b.n))),
		}
	}
	return out
}

func monthsBetween(from, t time.Time) int {
	t = t.In(from.Location())
	return (t.Year()-from.Year())*12 + int(t.Month()) - int(from.Month())
}

// Peers compares user with the latest footprint of every employee. The
// percentile is the share of employees scoring strictly lower, truncated.
func Peers(user model.Footprint, latest []model.Footprint) PeerComparison {
	pc := PeerComparison{
		EmployeeID:     user.EmployeeID,
		Department:     user.Department,
		TotalFootprint: user.Total,
		FootprintScore: user.Score,
	}

	var total, scoreSum, deptTotal, deptScore float64
	var lower, deptCount int
	for _, fp := range latest {
		total += fp.Total
		scoreSum += float64(fp.Score)
		if fp.Score < user.Score {
			lower++
		}
		if user.Department != "" && fp.Department == user.Department {
			deptTotal += fp.Total
			deptScore += float64(fp.Score)
			deptCount++
		}
	}

	n := float64(len(latest))
	pc.CompanyAvgFootprint = mathx.Round2(mathx.SafeDiv(total, n))
	pc.CompanyAvgScore = mathx.Round1(mathx.SafeDiv(scoreSum, n))
	pc.Percentile = int(mathx.SafeDiv(float64(lower), n) * 100)
	if deptCount > 0 {
		avgFp := mathx.Round2(deptTotal / float64(deptCount))
		avgScore := mathx.Round1(deptScore / float64(deptCount))
		pc.DeptAvgFootprint = &avgFp
		pc.DeptAvgScore = &avgScore
	}
	return pc
}
