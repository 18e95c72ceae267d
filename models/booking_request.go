package models

// BookingRequest is the input for creating a slot-model booking.
type BookingRequest struct {
	ProfessionalID string `json:"professionalId"`
	ServiceID      string `json:"serviceId,omitempty"`
	Date           string `json:"date"` // "YYYY-MM-DD"
	Time           string `json:"time"` // "HH:MM"
	Notes          string `json:"notes,omitempty"`
}

// RangeBookingRequest is the input for the range-based variant, where the
// reservation spans [startTime, endTime) instead of a single grid slot.
type RangeBookingRequest struct {
	ProfessionalID string `json:"professionalId"`
	ServiceID      string `json:"serviceId,omitempty"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"` // "HH:MM"
	EndTime        string `json:"endTime"`   // "HH:MM", exclusive
	Notes          string `json:"notes,omitempty"`
}

// ProvisionRequest marks a period as unavailable for a professional,
// e.g. vacations or blocked working hours.
type ProvisionRequest struct {
	ProfessionalID  string `json:"professionalId"`
	StartDate       string `json:"startDate"` // inclusive
	EndDate         string `json:"endDate"`   // inclusive
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	IntervalMinutes int    `json:"intervalMinutes,omitempty"` // 0 means platform default
}

// ProvisionResult reports how many slots a provisioning call touched.
type ProvisionResult struct {
	SlotsAffected int64 `json:"slotsAffected"`
}
