package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slots collection.
// The unique compound index is what makes the claim upsert race-safe.
func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "professionalId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_professional_date_time"),
		},
		{
			Keys: bson.D{
				{Key: "professionalId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "available", Value: 1},
			},
			Options: options.Index().SetName("professional_date_available_idx"),
		},
		// Sweep query pattern: unavailable slots in a date window.
		{
			Keys: bson.D{
				{Key: "available", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("available_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
