// internal/app/store/outcomes/outcomestore.go
package outcomestore

import (
	"context"
	"errors"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding one outcomes record per range.
const CollectionName = "clinic_outcomes"

// ErrNotFound is returned when no record exists for a range.
var ErrNotFound = errors.New("outcome record not found")

// Store provides access to the clinic_outcomes collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new outcomes store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// GetByRange returns the record for the given lookback range.
func (s *Store) GetByRange(ctx context.Context, rangeDays int) (models.ClinicData, error) {
	var rec models.OutcomeRecord
	err := s.c.FindOne(ctx, bson.M{"range_days": rangeDays}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return models.ClinicData{}, ErrNotFound
	}
	if err != nil {
		return models.ClinicData{}, err
	}
	return rec.Data, nil
}

// Upsert creates or replaces the record for a range.
func (s *Store) Upsert(ctx context.Context, rangeDays int, data models.ClinicData) error {
	filter := bson.M{"range_days": rangeDays}
	update := bson.M{
		"$set": bson.M{
			"range_days": rangeDays,
			"data":       data,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// Exists reports whether a record exists for a range.
func (s *Store) Exists(ctx context.Context, rangeDays int) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"range_days": rangeDays})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ranges returns every range that has a record, ascending.
func (s *Store) Ranges(ctx context.Context) ([]int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "range_days", Value: 1}}).
		SetProjection(bson.M{"range_days": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.OutcomeRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.RangeDays
	}
	return out, nil
}
