// File: database/repository/booking/crud.go
package bookingRepo

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

// overlapFilter matches active bookings of roomID/date sharing time with
// [start, end). "HH:MM" strings order lexicographically.
func overlapFilter(roomID, date, start, end string) bson.M {
	return bson.M{
		"room_id":      roomID,
		"booking_date": date,
		"status":       bson.M{"$ne": models.BookingStatusCancelled},
		"start_time":   bson.M{"$lt": end},
		"end_time":     bson.M{"$gt": start},
	}
}

const writeConflictCode = 112

// dayLockFilter selects the lock document of roomID/date.
func dayLockFilter(roomID, date string) bson.M {
	return bson.M{"room_id": roomID, "booking_date": date}
}

// isWriteConflict reports whether err means another transaction touched the
// same room day first.
func isWriteConflict(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(writeConflictCode)
	}
	return false
}

// Create inserts the booking inside a transaction that first bumps the room
// day's lock document and then checks for an overlapping active booking. Two
// transactions on the same day both write the lock, so one of them aborts.
func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusBooked
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		lock := bson.M{"$inc": bson.M{"version": 1}}
		if _, err := r.days.UpdateOne(sc, dayLockFilter(booking.RoomID, booking.BookingDate), lock,
			options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("room day lock failed: %w", err)
		}

		filter := overlapFilter(booking.RoomID, booking.BookingDate, booking.StartTime, booking.EndTime)
		n, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrBookingConflict
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrBookingConflict) {
			return err
		}
		if isWriteConflict(err) {
			return fmt.Errorf("%w: concurrent booking of %s %s", ErrBookingConflict, booking.RoomID, booking.BookingDate)
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) ListByRoomAndDate(ctx context.Context, roomID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"room_id":      roomID,
		"booking_date": date,
		"status":       bson.M{"$ne": models.BookingStatusCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// Cancel flips an active booking to cancelled and returns it.
func (r *mongoBookingRepo) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": models.BookingStatusBooked}
	update := bson.M{"$set": bson.M{"status": models.BookingStatusCancelled}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return &booking, nil
}
