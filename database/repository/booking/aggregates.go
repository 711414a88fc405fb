package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"roombook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MonthRange returns the [first, next) "YYYY-MM-DD" bounds of year/month.
func MonthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), first.AddDate(0, 1, 0).Format("2006-01-02")
}

type dayBookings struct {
	Date     string           `bson:"_id"`
	Bookings []models.Booking `bson:"bookings"`
}

// ListByRoomAndMonth groups the month's active bookings by date.
func (r *mongoBookingRepo) ListByRoomAndMonth(ctx context.Context, roomID string, year, month int) (map[string][]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	from, to := MonthRange(year, month)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"room_id":      roomID,
			"booking_date": bson.M{"$gte": from, "$lt": to},
			"status":       bson.M{"$ne": models.BookingStatusCancelled},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "start_time", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$booking_date"},
			{Key: "bookings", Value: bson.D{{Key: "$push", Value: "$$ROOT"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate month bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []dayBookings
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode month bookings: %w", err)
	}

	byDate := make(map[string][]models.Booking, len(groups))
	for _, g := range groups {
		byDate[g.Date] = g.Bookings
	}
	return byDate, nil
}
