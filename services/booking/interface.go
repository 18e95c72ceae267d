package booking

import (
	"context"
	"time"

	appointmentRepo "booked/database/repository/appointment"
	availabilityRepo "booked/database/repository/availability"
	catalogRepo "booked/database/repository/catalog"
	userRepo "booked/database/repository/user"
	"booked/models"

	"github.com/go-redis/redis/v8"
)

// BookingService is the single entry point turning booking requests into
// appointments or typed failures.
type BookingService interface {
	CreateBooking(ctx context.Context, clientID string, req models.BookingRequest) (*models.Appointment, error)
	CreateRangeBooking(ctx context.Context, clientID string, req models.RangeBookingRequest) (*models.Appointment, error)
	CancelBooking(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ConfirmAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	CompleteAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	QueryAvailability(ctx context.Context, professionalID, date string) (*models.DayAvailability, error)
	ProvisionUnavailability(ctx context.Context, req models.ProvisionRequest) (int64, error)
	ListAppointments(ctx context.Context, professionalID, date string) ([]models.Appointment, error)
}

// Notifier receives booking lifecycle events for asynchronous delivery.
// Implementations must be best-effort; a failed notification never fails the
// booking.
type Notifier interface {
	BookingCreated(ctx context.Context, appt *models.Appointment)
	BookingCancelled(ctx context.Context, appt *models.Appointment)
}

// GridConfig describes the canonical slot grid for a working day.
type GridConfig struct {
	DayStart        string // "HH:MM"
	DayEnd          string // "HH:MM", exclusive
	IntervalMinutes int
	DefaultDuration int // minutes, used when the service specifies none
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Catalog      catalogRepo.ServiceRepository
	Users        userRepo.UserRepository
	Notifier     Notifier
	Cache        *redis.Client // optional day-view cache
	CacheTTL     time.Duration
	Grid         GridConfig
}
