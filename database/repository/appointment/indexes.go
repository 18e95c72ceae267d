package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary overlap-query pattern.
		{
			Keys: bson.D{
				{Key: "professionalId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "startMinute", Value: 1},
				{Key: "endMinute", Value: 1},
			},
			Options: options.Index().SetName("professional_date_range_idx"),
		},
		{
			Keys: bson.D{
				{Key: "professionalId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("professional_date_time_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("client_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
