package models

// PointStatus is the occupancy of the slot that begins at a TimePoint.
type PointStatus string

const (
	StatusAvailable PointStatus = "available"
	StatusBooked    PointStatus = "booked"
	StatusClosed    PointStatus = "closed"
)

// TimePoint is a grid vertex: a clock instant usable as a selection boundary.
type TimePoint struct {
	Time              string      `json:"time"`    // "HH:MM"
	Minutes           int         `json:"minutes"` // minutes from midnight
	Index             int         `json:"index"`
	Status            PointStatus `json:"status"`
	CanSelectStart    bool        `json:"canSelectStart"`
	CanSelectEnd      bool        `json:"canSelectEnd"`
	IsPastClient      bool        `json:"isPastClient"`
	IsSelectedStart   bool        `json:"isSelectedStart"`
	IsSelectedEnd     bool        `json:"isSelectedEnd"`
	IsInSelectedRange bool        `json:"isInSelectedRange"`
}

// Slot is the half-open interval between two consecutive TimePoints.
type Slot struct {
	StartTime      string      `json:"startTime"`
	EndTime        string      `json:"endTime"`
	Status         PointStatus `json:"status"`
	CanBeStartTime bool        `json:"canBeStartTime"`
	CanBeEndTime   bool        `json:"canBeEndTime"`
}

// SlotEntry is a SlotLookup value; Index is the slot's position in the grid.
type SlotEntry struct {
	Index int  `json:"index"`
	Slot  Slot `json:"slot"`
}

// SlotLookup maps a slot's start minute-of-day to its entry.
type SlotLookup map[int]SlotEntry
