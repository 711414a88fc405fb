// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"roombook/database"
	"roombook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrBookingConflict means an active booking already overlaps the window.
	ErrBookingConflict = errors.New("booking overlaps an existing booking")
	// ErrBookingNotFound means no active booking has the given id.
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByRoomAndDate(ctx context.Context, roomID, date string) ([]models.Booking, error)
	ListByRoomAndMonth(ctx context.Context, roomID string, year, month int) (map[string][]models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
	// days holds one lock document per room and date. Every booking
	// transaction writes it so concurrent bookings of a day conflict.
	days *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.Database().Collection("bookings"),
		days: database.Database().Collection("room_days"),
	}
}
