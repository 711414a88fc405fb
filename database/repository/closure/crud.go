// File: database/repository/closure/crud.go
package closureRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoClosureRepo) Create(ctx context.Context, closure *models.Closure) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if closure.ID == "" {
		closure.ID = uuid.New().String()
	}
	if closure.CreatedAt.IsZero() {
		closure.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, closure); err != nil {
		return fmt.Errorf("failed to insert closure: %w", err)
	}
	return nil
}

func (r *mongoClosureRepo) DeleteByID(ctx context.Context, roomID, closureID string) (*models.Closure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var closure models.Closure
	err := r.coll.FindOneAndDelete(ctx, bson.M{"id": closureID, "room_id": roomID}).Decode(&closure)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrClosureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete closure %s: %w", closureID, err)
	}
	return &closure, nil
}

func (r *mongoClosureRepo) ListByRoomAndDate(ctx context.Context, roomID, date string) ([]models.Closure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"room_id": roomID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("error fetching closures: %w", err)
	}
	defer cursor.Close(ctx)

	var closures []models.Closure
	if err := cursor.All(ctx, &closures); err != nil {
		return nil, fmt.Errorf("error decoding closures: %w", err)
	}
	return closures, nil
}

// ListByRoomAndMonth returns the month's closures keyed by date.
func (r *mongoClosureRepo) ListByRoomAndMonth(ctx context.Context, roomID string, year, month int) (map[string][]models.Closure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	filter := bson.M{
		"room_id": roomID,
		"date": bson.M{
			"$gte": first.Format("2006-01-02"),
			"$lt":  first.AddDate(0, 1, 0).Format("2006-01-02"),
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching month closures: %w", err)
	}
	defer cursor.Close(ctx)

	byDate := make(map[string][]models.Closure)
	for cursor.Next(ctx) {
		var c models.Closure
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("error decoding closure: %w", err)
		}
		byDate[c.Date] = append(byDate[c.Date], c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return byDate, nil
}
