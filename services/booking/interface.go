package booking

import (
	"context"

	"roombook/models"
)

// RoomDataAccess is the persistence port for bookings and closures.
type RoomDataAccess interface {
	FetchDayDetail(ctx context.Context, roomID, date string) (models.DayDetail, error)
	FetchMonthlyAggregate(ctx context.Context, roomID string, year, month int) (map[string]models.DayStatus, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	CreateClosure(ctx context.Context, closure *models.Closure) error
	DeleteClosure(ctx context.Context, roomID, closureID string) (*models.Closure, error)
}

// SessionStore keeps selection sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.SelectionSession, error)
	// ForUser returns the user's current session, or ErrSessionNotFound.
	ForUser(ctx context.Context, userID string) (*models.SelectionSession, error)
	Save(ctx context.Context, session *models.SelectionSession) error
	Delete(ctx context.Context, session *models.SelectionSession) error
}

// CalendarInvalidator is told whenever a day's bookings or closures change.
type CalendarInvalidator interface {
	InvalidateDay(ctx context.Context, roomID, date string) error
}

// CalendarCache stores reconciled month calendars. Each key carries a
// generation that Invalidate bumps; a calendar built before the bump is never
// stored by SetIfGeneration.
type CalendarCache interface {
	Get(ctx context.Context, key string) (*models.MonthCalendar, error)
	Generation(ctx context.Context, key string) (int64, error)
	SetIfGeneration(ctx context.Context, key string, gen int64, cal *models.MonthCalendar) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// RefreshEnqueuer schedules a background rebuild of a cached month.
type RefreshEnqueuer interface {
	EnqueueCalendarRefresh(payload models.CalendarRefreshPayload) error
}
