package models

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of a room for a time window on one day.
type Booking struct {
	ID          string        `bson:"id" json:"id"`                           // Unique booking identifier (UUID)
	RoomID      string        `bson:"room_id" json:"roomId"`                  // Room that was booked
	UserID      string        `bson:"user_id" json:"userId"`                  // User who made the booking
	BookingDate string        `bson:"booking_date" json:"bookingDate"`        // "YYYY-MM-DD"
	StartTime   string        `bson:"start_time" json:"startTime"`            // "HH:MM"
	EndTime     string        `bson:"end_time" json:"endTime"`                // "HH:MM"
	Status      BookingStatus `bson:"status" json:"status"`                   // booked | cancelled
	Title       string        `bson:"title,omitempty" json:"title,omitempty"` // Meeting subject
	PeriodID    string        `bson:"period_id,omitempty" json:"periodId,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
}

// IsActive reports whether the booking still occupies its window.
func (b Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}
