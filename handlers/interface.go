package handlers

import (
	"context"

	"roombook/models"
	"roombook/services/availability"
	"roombook/services/booking"
)

// RoomAPI is what the room and booking endpoints need.
type RoomAPI interface {
	GetDayView(ctx context.Context, roomID, date string) (*booking.DayView, error)
	BookWholePeriod(ctx context.Context, userID, roomID, date, periodID, title string) (*booking.PeriodBooking, error)
	CancelBooking(ctx context.Context, userID, bookingID string, isAdmin bool) (*models.Booking, error)
	AddClosure(ctx context.Context, roomID string, req models.ClosureRequest) (*models.Closure, error)
	RemoveClosure(ctx context.Context, roomID, closureID string) (*models.Closure, error)
}

// SessionAPI is what the selection session endpoints need.
type SessionAPI interface {
	Focus(ctx context.Context, userID, roomID, date string) (*models.SessionView, error)
	Get(ctx context.Context, userID, sessionID string) (*models.SessionView, error)
	Tap(ctx context.Context, userID, sessionID string, index int) (*models.SessionView, error)
	ApplyPreset(ctx context.Context, userID, sessionID, name string) (*models.SessionView, error)
	Clear(ctx context.Context, userID, sessionID string) (*models.SessionView, error)
	Confirm(ctx context.Context, userID, sessionID, title string) (*models.Booking, error)
	ListPresets() []availability.Preset
}

// CalendarAPI serves reconciled month calendars.
type CalendarAPI interface {
	Month(ctx context.Context, roomID string, year, month int) (*models.MonthCalendar, error)
}
