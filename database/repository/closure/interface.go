// File: database/repository/closure/interface.go
package closureRepo

import (
	"context"
	"errors"

	"roombook/database"
	"roombook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrClosureNotFound means the room has no closure with the given id.
var ErrClosureNotFound = errors.New("closure not found")

type ClosureRepository interface {
	Create(ctx context.Context, closure *models.Closure) error
	// DeleteByID removes a closure of roomID and returns what was removed.
	DeleteByID(ctx context.Context, roomID, closureID string) (*models.Closure, error)
	ListByRoomAndDate(ctx context.Context, roomID, date string) ([]models.Closure, error)
	ListByRoomAndMonth(ctx context.Context, roomID string, year, month int) (map[string][]models.Closure, error)
	EnsureIndexes() error
}

type mongoClosureRepo struct {
	coll *mongo.Collection
}

// NewMongoClosureRepo constructs a new MongoDB ClosureRepository.
func NewMongoClosureRepo() ClosureRepository {
	return &mongoClosureRepo{
		coll: database.Database().Collection("closures"),
	}
}
