package models

import "time"

// Closure blocks a room administratively, either for a window or the whole day.
type Closure struct {
	ID        string    `bson:"id" json:"id"`                                   // Unique identifier for the closure
	RoomID    string    `bson:"room_id" json:"roomId"`                          // Room that is closed
	Date      string    `bson:"date" json:"date"`                               // Date (e.g., "2025-02-25")
	IsAllDay  bool      `bson:"is_all_day" json:"isAllDay"`                     // Spans the whole operating window
	StartTime string    `bson:"start_time,omitempty" json:"startTime,omitempty"` // "HH:MM", ignored when IsAllDay
	EndTime   string    `bson:"end_time,omitempty" json:"endTime,omitempty"`     // "HH:MM", ignored when IsAllDay
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`       // e.g., "maintenance", "holiday"
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ClosureRequest defines the payload for creating a closure.
type ClosureRequest struct {
	Date      string `json:"date" binding:"required"`
	IsAllDay  bool   `json:"isAllDay"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}
