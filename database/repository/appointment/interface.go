package appointmentRepo

import (
	"context"
	"errors"

	"booked/database"
	"booked/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no appointment matches the given ID.
	ErrNotFound = errors.New("appointment not found")
	// ErrStatusConflict is returned when a guarded status update loses to a
	// concurrent transition.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// AppointmentRepository persists appointment records and answers the overlap
// queries the range-based booking model needs.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	DeleteByID(ctx context.Context, id string) error

	// ListByProfessionalAndDate returns all appointments for the professional
	// on the date, ordered by start time.
	ListByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Appointment, error)

	// CountOverlapping counts non-cancelled appointments for the professional
	// on the date whose [startMinute, endMinute) range intersects the given
	// half-open range.
	CountOverlapping(ctx context.Context, professionalID, date string, startMinute, endMinute int) (int64, error)

	// ExistsLiveAt reports whether a non-cancelled appointment holds the exact
	// (professionalId, date, time) slot. Used by the reconciliation sweep.
	ExistsLiveAt(ctx context.Context, professionalID, date, slotTime string) (bool, error)

	// UpdateStatus transitions the appointment from one status to another with
	// a conditional write, returning the updated record. ErrStatusConflict is
	// returned when the appointment is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a MongoDB-backed AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}
