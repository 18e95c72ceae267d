package availabilityRepo

import (
	"context"
	"errors"

	"booked/database"
	"booked/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotUnavailable is returned by ClaimSlot when the slot is already claimed.
var ErrSlotUnavailable = errors.New("slot is already claimed")

// AvailabilityRepository persists per-professional, per-date slot state.
// Only exceptions to the available-by-default policy are stored; the claim
// operation is a single conditional write so that two concurrent claims for
// the same (professionalId, date, time) can never both succeed.
type AvailabilityRepository interface {
	// GetOrCreate returns the day aggregate for the professional and date,
	// merging persisted exception records onto the given canonical grid.
	GetOrCreate(ctx context.Context, professionalID, date string, grid []string) (*models.DayAvailability, error)

	// ClaimSlot atomically flips the slot to unavailable, creating it as
	// available-by-default first if no record exists. Returns
	// ErrSlotUnavailable when the slot is already claimed.
	ClaimSlot(ctx context.Context, professionalID, date, slotTime string) (*models.Slot, error)

	// ReleaseSlot sets the slot back to available. Releasing an available or
	// nonexistent slot is a no-op, and provisioned (blocked) holds are never
	// released by this path; they take precedence over booking churn.
	ReleaseSlot(ctx context.Context, professionalID, date, slotTime string) error

	// BulkMarkUnavailable ensures a record exists for every (date, time) pair
	// and marks it unavailable. Idempotent; returns the number of slots now
	// held unavailable by the call.
	BulkMarkUnavailable(ctx context.Context, professionalID string, dates, times []string) (int64, error)

	// ListClaimed returns unavailable slot records with date in
	// [fromDate, toDate] that were claimed by bookings. Provisioned (blocked)
	// holds are excluded; the reconciliation sweep must not free them.
	ListClaimed(ctx context.Context, fromDate, toDate string) ([]models.SlotRecord, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("slots"),
	}
}
