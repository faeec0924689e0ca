// Package model contains domain models passed between layers.
package model

import (
	"time"
)

// FormType selects how a submission is scored.
type FormType string

// Supported form types.
const (
	FormOffice    FormType = "office"
	FormPersonal  FormType = "personal"
	FormLifestyle FormType = "lifestyle"
)

// Valid reports whether f is a supported form type.
func (f FormType) Valid() bool {
	switch f {
	case FormOffice, FormPersonal, FormLifestyle:
		return true
	default:
		return false
	}
}

// Submission is an employee's activity report. Fields mirror the OpenAPI
// schema for POST /footprints.
type Submission struct {
	SubmissionID string         `json:"submission_id"` // unique id for idempotency
	EmployeeID   string         `json:"employee_id"`
	Department   string         `json:"department,omitempty"`
	FormType     FormType       `json:"form_type"`
	Office       *OfficeForm    `json:"office,omitempty"`
	Lifestyle    *LifestyleForm `json:"lifestyle,omitempty"`
	TS           time.Time      `json:"ts"`
}

// OfficeForm carries the weekly commute and office usage plus monthly
// business travel of an office submission.
type OfficeForm struct {
	CommuteDistance          float64 `json:"commute_distance"`
	CarType                  string  `json:"car_type,omitempty"`
	CommuteDaysByCar         int     `json:"commute_days_by_car"`
	CommuteDaysPublicTransit int     `json:"commute_days_public_transit"`
	CommuteDaysEV            int     `json:"commute_days_ev"`
	RemoteWorkDays           int     `json:"remote_work_days"`
	VideoConferenceHours     float64 `json:"video_conference_hours"`
	ComputerHours            float64 `json:"computer_hours"`
	PrinterPages             int     `json:"printer_pages"`
	HVACUsage                string  `json:"hvac_usage,omitempty"`
	AirTravelMiles           float64 `json:"air_travel_miles"`
	HotelNights              int     `json:"hotel_nights"`
	RentalCarDays            int     `json:"rental_car_days"`
}

// LifestyleForm carries the commute, diet and office habits of a lifestyle
// submission. Nil numerics mean "not answered".
type LifestyleForm struct {
	CommuteDistance     *float64 `json:"commute_distance,omitempty"`
	CommuteMode         string   `json:"commute_mode,omitempty"`
	CarType             string   `json:"car_type,omitempty"`
	DietType            string   `json:"diet_type,omitempty"`
	LocalFoodPercentage float64  `json:"local_food_percentage"`
	OfficeDaysPerWeek   *int     `json:"office_days_per_week,omitempty"`
	PaperUsage          string   `json:"paper_usage,omitempty"`
	EnergyUsage         string   `json:"energy_usage,omitempty"`
}

// Receipt acknowledges a submission.
type Receipt struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
}

// Receipt statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)
