package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombook/models"
	"roombook/services/availability"

	"go.uber.org/zap"
)

// RoomService serves day views and writes that change a room's day.
type RoomService struct {
	Data        RoomDataAccess
	Window      availability.Window
	Periods     []availability.PeriodDef
	Invalidator CalendarInvalidator
	Now         func() time.Time
	Logger      *zap.Logger
}

func NewRoomService(data RoomDataAccess, w availability.Window, invalidator CalendarInvalidator, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{
		Data:        data,
		Window:      w,
		Periods:     availability.DefaultPeriods,
		Invalidator: invalidator,
		Now:         time.Now,
		Logger:      logger,
	}
}

// DayView is the grid of one room and date with its period roll-ups.
type DayView struct {
	Date    string             `json:"date"`
	Points  []models.TimePoint `json:"points"`
	Lookup  models.SlotLookup  `json:"lookup"`
	Periods []models.Period    `json:"periods"`
}

func (s *RoomService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Grid fetches the day's detail and builds a fresh grid from it.
func (s *RoomService) Grid(ctx context.Context, roomID, date string) (availability.DayGrid, error) {
	if _, err := availability.ParseDate(date, time.UTC); err != nil {
		return availability.DayGrid{}, err
	}
	detail, err := s.Data.FetchDayDetail(ctx, roomID, date)
	if err != nil {
		return availability.DayGrid{}, upstream(err)
	}
	return availability.BuildDayGrid(s.Window, detail.Bookings, detail.Closures, date, s.now())
}

func (s *RoomService) GetDayView(ctx context.Context, roomID, date string) (*DayView, error) {
	grid, err := s.Grid(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	return &DayView{
		Date:    grid.Date,
		Points:  grid.Points,
		Lookup:  grid.Lookup,
		Periods: availability.AggregatePeriodsWith(s.Periods, grid.Points),
	}, nil
}

func upstream(err error) error {
	if errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

// invalidate tells the calendar a day changed. Failures only cost freshness.
func (s *RoomService) invalidate(ctx context.Context, roomID, date string) {
	if s.Invalidator == nil {
		return
	}
	if err := s.Invalidator.InvalidateDay(ctx, roomID, date); err != nil {
		s.Logger.Warn("Failed to invalidate calendar",
			zap.String("roomID", roomID), zap.String("date", date), zap.Error(err))
	}
}

// CancelBooking cancels bookingID. Only its owner or an admin may do so.
func (s *RoomService) CancelBooking(ctx context.Context, userID, bookingID string, isAdmin bool) (*models.Booking, error) {
	existing, err := s.Data.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && existing.UserID != userID {
		return nil, ErrNotOwner
	}
	cancelled, err := s.Data.CancelBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Booking cancelled",
		zap.String("bookingID", bookingID), zap.String("roomID", cancelled.RoomID), zap.String("userID", userID))
	s.invalidate(ctx, cancelled.RoomID, cancelled.BookingDate)
	return cancelled, nil
}

// AddClosure blocks a room for a window of a day, or for the whole day.
func (s *RoomService) AddClosure(ctx context.Context, roomID string, req models.ClosureRequest) (*models.Closure, error) {
	if _, err := availability.ParseDate(req.Date, time.UTC); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClosure, err)
	}
	closure := &models.Closure{
		RoomID:   roomID,
		Date:     req.Date,
		IsAllDay: req.IsAllDay,
		Reason:   req.Reason,
	}
	if !req.IsAllDay {
		if _, ok := availability.IntervalFromClock(req.StartTime, req.EndTime); !ok {
			return nil, fmt.Errorf("%w: window %q-%q", ErrInvalidClosure, req.StartTime, req.EndTime)
		}
		closure.StartTime = req.StartTime
		closure.EndTime = req.EndTime
	}
	if err := s.Data.CreateClosure(ctx, closure); err != nil {
		return nil, err
	}
	s.Logger.Info("Closure created",
		zap.String("roomID", roomID), zap.String("date", req.Date), zap.Bool("allDay", req.IsAllDay))
	s.invalidate(ctx, roomID, req.Date)
	return closure, nil
}

// RemoveClosure reopens the window a closure blocked.
func (s *RoomService) RemoveClosure(ctx context.Context, roomID, closureID string) (*models.Closure, error) {
	closure, err := s.Data.DeleteClosure(ctx, roomID, closureID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Closure removed",
		zap.String("roomID", roomID), zap.String("closureID", closureID), zap.String("date", closure.Date))
	s.invalidate(ctx, roomID, closure.Date)
	return closure, nil
}
