package model

import (
	"time"

	"github.com/okian/footprint/internal/domain/emission"
)

// Footprint is a scored submission as kept by the store.
type Footprint struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	EmployeeID   string    `json:"employee_id"`
	Department   string    `json:"department,omitempty"`
	FormType     FormType  `json:"form_type"`
	Date         time.Time `json:"date"`

	emission.Breakdown

	// ChangePct is the percent change of Total against the employee's
	// previous record; 0 for the first record.
	ChangePct float64 `json:"footprint_change"`

	Office    *OfficeForm    `json:"office,omitempty"`
	Lifestyle *LifestyleForm `json:"lifestyle,omitempty"`
}

// Transaction is a purchase with its attributed carbon impact.
type Transaction struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Date         time.Time `json:"transaction_date"`
	Category     string    `json:"category"`
	Merchant     string    `json:"merchant,omitempty"`
	Amount       float64   `json:"amount"`
	CarbonImpact float64   `json:"carbon_impact"`
	Description  string    `json:"description,omitempty"`
	Source       string    `json:"source"`
}

// Ranked is an employee's position on the leaderboard.
type Ranked struct {
	Rank       int     `json:"rank"`
	EmployeeID string  `json:"employee_id"`
	Department string  `json:"department,omitempty"`
	Score      int     `json:"footprint_score"`
	Total      float64 `json:"total_footprint"`
}

// ChangePct returns the percent change from prev to cur, 0 when prev is 0.
func ChangePct(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
