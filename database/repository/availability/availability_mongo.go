package availabilityRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"booked/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

func (r *mongoAvailabilityRepo) GetOrCreate(ctx context.Context, professionalID, date string, grid []string) (*models.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"professionalId": professionalID, "date": date}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SlotRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding slot records: %w", err)
	}

	byTime := make(map[string]bool, len(records))
	for _, rec := range records {
		byTime[rec.Time] = rec.Available
	}

	day := &models.DayAvailability{
		ProfessionalID: professionalID,
		Date:           date,
		Slots:          make([]models.Slot, 0, len(grid)+len(records)),
	}

	seen := make(map[string]bool, len(grid))
	for _, t := range grid {
		available, hasRecord := byTime[t]
		if !hasRecord {
			available = true // no record means the default state
		}
		day.Slots = append(day.Slots, models.Slot{Time: t, Available: available})
		seen[t] = true
	}
	// Records off the canonical grid still belong to the day.
	for _, rec := range records {
		if !seen[rec.Time] {
			day.Slots = append(day.Slots, models.Slot{Time: rec.Time, Available: rec.Available})
		}
	}

	sort.Slice(day.Slots, func(i, j int) bool {
		return day.Slots[i].Time < day.Slots[j].Time
	})

	return day, nil
}

// ClaimSlot is a single conditional upsert. The filter only matches a record
// that is still available; when no record exists the upsert inserts one and
// the $set flips it to unavailable in the same write. A concurrent loser
// either matches nothing (the winner flipped the record first) or trips the
// unique (professionalId, date, time) index on insert — both map to
// ErrSlotUnavailable.
func (r *mongoAvailabilityRepo) ClaimSlot(ctx context.Context, professionalID, date, slotTime string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"professionalId": professionalID,
		"date":           date,
		"time":           slotTime,
		"available":      true,
	}
	update := bson.M{
		"$set":         bson.M{"available": false, "blocked": false, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to claim slot: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return nil, ErrSlotUnavailable
	}

	return &models.Slot{Time: slotTime, Available: false}, nil
}

func (r *mongoAvailabilityRepo) ReleaseSlot(ctx context.Context, professionalID, date, slotTime string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Only booking claims are releasable. Blocked records are provisioned
	// holds that outlive booking churn; cancelling an appointment whose slot
	// was later blocked must not reopen it.
	filter := bson.M{
		"professionalId": professionalID,
		"date":           date,
		"time":           slotTime,
		"blocked":        bson.M{"$ne": true},
	}
	update := bson.M{
		"$set": bson.M{"available": true, "updatedAt": time.Now()},
	}

	// No record means the slot is already in its default (available) state,
	// so MatchedCount == 0 is not an error.
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) BulkMarkUnavailable(ctx context.Context, professionalID string, dates, times []string) (int64, error) {
	if len(dates) == 0 || len(times) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(dates)*len(times))
	for _, date := range dates {
		for _, t := range times {
			filter := bson.M{
				"professionalId": professionalID,
				"date":           date,
				"time":           t,
			}
			update := bson.M{
				"$set":         bson.M{"available": false, "blocked": true, "updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			}
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(filter).
				SetUpdate(update).
				SetUpsert(true))
		}
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk mark slots unavailable: %w", err)
	}
	// Matched + upserted counts every slot the call now holds unavailable,
	// which keeps the result stable under re-invocation.
	return res.MatchedCount + res.UpsertedCount, nil
}

func (r *mongoAvailabilityRepo) ListClaimed(ctx context.Context, fromDate, toDate string) ([]models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Blocked records are intentional holds, not claims, and stay out of the
	// sweep's view.
	filter := bson.M{
		"available": false,
		"blocked":   bson.M{"$ne": true},
		"date":      bson.M{"$gte": fromDate, "$lte": toDate},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimed slots: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SlotRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding claimed slots: %w", err)
	}
	return records, nil
}
