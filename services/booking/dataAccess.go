package booking

import (
	"context"
	"errors"
	"fmt"

	"roombook/database/repository"
	"roombook/models"
	"roombook/services/availability"
)

// MongoRoomData implements RoomDataAccess over the booking and closure
// repositories.
type MongoRoomData struct {
	Bookings repository.BookingRepository
	Closures repository.ClosureRepository
	Window   availability.Window
}

func NewMongoRoomData(bookings repository.BookingRepository, closures repository.ClosureRepository, w availability.Window) *MongoRoomData {
	return &MongoRoomData{Bookings: bookings, Closures: closures, Window: w}
}

func (d *MongoRoomData) FetchDayDetail(ctx context.Context, roomID, date string) (models.DayDetail, error) {
	bookings, err := d.Bookings.ListByRoomAndDate(ctx, roomID, date)
	if err != nil {
		return models.DayDetail{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	closures, err := d.Closures.ListByRoomAndDate(ctx, roomID, date)
	if err != nil {
		return models.DayDetail{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return models.DayDetail{Bookings: bookings, Closures: closures}, nil
}

// FetchMonthlyAggregate classifies every date of the month that has at least
// one booking or closure. Untouched dates are left out.
func (d *MongoRoomData) FetchMonthlyAggregate(ctx context.Context, roomID string, year, month int) (map[string]models.DayStatus, error) {
	bookings, err := d.Bookings.ListByRoomAndMonth(ctx, roomID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	closures, err := d.Closures.ListByRoomAndMonth(ctx, roomID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	details := make(map[string]models.DayDetail, len(bookings)+len(closures))
	for date, list := range bookings {
		detail := details[date]
		detail.Bookings = list
		details[date] = detail
	}
	for date, list := range closures {
		detail := details[date]
		detail.Closures = list
		details[date] = detail
	}

	statuses := make(map[string]models.DayStatus, len(details))
	for date, detail := range details {
		statuses[date] = availability.ClassifyDay(d.Window, detail)
	}
	return statuses, nil
}

func (d *MongoRoomData) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return d.Bookings.GetByID(ctx, bookingID)
}

func (d *MongoRoomData) CreateBooking(ctx context.Context, booking *models.Booking) error {
	err := d.Bookings.Create(ctx, booking)
	if errors.Is(err, repository.ErrBookingConflict) {
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	}
	return err
}

func (d *MongoRoomData) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return d.Bookings.Cancel(ctx, bookingID)
}

func (d *MongoRoomData) CreateClosure(ctx context.Context, closure *models.Closure) error {
	return d.Closures.Create(ctx, closure)
}

func (d *MongoRoomData) DeleteClosure(ctx context.Context, roomID, closureID string) (*models.Closure, error) {
	return d.Closures.DeleteByID(ctx, roomID, closureID)
}
