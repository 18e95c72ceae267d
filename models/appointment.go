package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// statusTransitions is the allowed transition table. Cancelled and completed
// are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsLive reports whether the status still holds the professional's time.
func (s AppointmentStatus) IsLive() bool {
	return s != StatusCancelled
}

// Appointment is a client's reservation of a professional's time for a service.
type Appointment struct {
	ID             string            `bson:"id" json:"id"`
	ClientID       string            `bson:"clientId" json:"clientId"`
	ProfessionalID string            `bson:"professionalId" json:"professionalId"`
	ServiceID      string            `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Date           string            `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time           string            `bson:"time" json:"time"` // "HH:MM", the claimed slot
	StartMinute    int               `bson:"startMinute" json:"startMinute"` // minutes from midnight
	EndMinute      int               `bson:"endMinute" json:"endMinute"`     // exclusive
	Duration       int               `bson:"duration" json:"duration"`       // minutes
	Status         AppointmentStatus `bson:"status" json:"status"`
	Notes          string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updatedAt" json:"updatedAt"`
}
