package booking

import (
	"context"

	"roombook/models"
	"roombook/services/availability"

	"go.uber.org/zap"
)

// PeriodBooking is a booked whole period and the periods after the booking.
type PeriodBooking struct {
	Booking *models.Booking `json:"booking"`
	Periods []models.Period `json:"periods"`
}

func (s *RoomService) recomputePeriods(ctx context.Context, roomID, date string) ([]models.Period, error) {
	grid, err := s.Grid(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	return availability.AggregatePeriodsWith(s.Periods, grid.Points), nil
}

// BookWholePeriod books every slot of a period in one booking. The period is
// marked unavailable before submission; if submission fails the periods are
// recomputed from fresh day detail and returned in a PeriodBookingError.
func (s *RoomService) BookWholePeriod(ctx context.Context, userID, roomID, date, periodID, title string) (*PeriodBooking, error) {
	def, err := availability.FindPeriod(s.Periods, periodID)
	if err != nil {
		return nil, err
	}
	periods, err := s.recomputePeriods(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	var current models.Period
	for _, p := range periods {
		if p.ID == periodID {
			current = p
		}
	}
	if !current.CanBookWholePeriod {
		return nil, &PeriodBookingError{PeriodID: periodID, Periods: periods, Err: ErrPeriodUnavailable}
	}

	booking := &models.Booking{
		RoomID:      roomID,
		UserID:      userID,
		BookingDate: date,
		StartTime:   def.StartTime,
		EndTime:     def.EndTime,
		Status:      models.BookingStatusBooked,
		Title:       title,
		PeriodID:    periodID,
	}

	view, err := runOptimistic(ctx,
		func() []models.Period { return availability.MarkPeriodUnavailable(periods, periodID) },
		func(ctx context.Context) error { return s.Data.CreateBooking(ctx, booking) },
		func(ctx context.Context) ([]models.Period, error) { return s.recomputePeriods(ctx, roomID, date) },
	)
	if err != nil {
		s.Logger.Warn("Whole-period booking failed",
			zap.String("roomID", roomID), zap.String("date", date),
			zap.String("periodID", periodID), zap.Bool("recomputed", view != nil), zap.Error(err))
		return nil, &PeriodBookingError{PeriodID: periodID, Periods: view, Err: err}
	}

	s.Logger.Info("Whole period booked",
		zap.String("bookingID", booking.ID), zap.String("roomID", roomID),
		zap.String("date", date), zap.String("periodID", periodID))
	s.invalidate(ctx, roomID, date)
	return &PeriodBooking{Booking: booking, Periods: view}, nil
}
