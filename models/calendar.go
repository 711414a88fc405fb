package models

// DayStatus is the coarse per-day status produced by the monthly aggregate.
type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayPartial   DayStatus = "partial"
	DayBooked    DayStatus = "booked"
	DayClosed    DayStatus = "closed"
)

// DisplayStatus is what the month calendar shows after reconciliation.
type DisplayStatus string

const (
	DisplayAvailable   DisplayStatus = "available"
	DisplayPartial     DisplayStatus = "partial"
	DisplayFull        DisplayStatus = "full"
	DisplayUnavailable DisplayStatus = "unavailable"
)

// DayDetail is the authoritative booking/closure list for one room and date.
type DayDetail struct {
	Bookings []Booking `json:"bookings"`
	Closures []Closure `json:"closures"`
}

// MonthCalendar is the reconciled month view returned to clients.
type MonthCalendar struct {
	RoomID string                   `json:"roomId"`
	Year   int                      `json:"year"`
	Month  int                      `json:"month"`
	Days   map[string]DisplayStatus `json:"days"`
}

// CalendarRefreshPayload asks the worker to rebuild one cached month.
type CalendarRefreshPayload struct {
	RoomID string `json:"roomId"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}
