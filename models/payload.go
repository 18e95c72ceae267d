package models

// Booking lifecycle events carried on the task queue.
const (
	BookingEventCreated   = "created"
	BookingEventCancelled = "cancelled"
)

// BookingEventPayload is the queued form of a booking lifecycle event. It
// carries the full slot coordinates so handlers never need a second lookup to
// address the push.
type BookingEventPayload struct {
	Event          string `json:"event"`
	AppointmentID  string `json:"appointmentId"`
	ClientID       string `json:"clientId"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// SweepPayload bounds one reconciliation pass over claimed slots.
type SweepPayload struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}
