package booking

import (
	"errors"
	"fmt"

	"roombook/models"
	"roombook/services/availability"
)

var (
	ErrSessionNotFound     = errors.New("selection session not found or expired")
	ErrSessionConflict     = errors.New("selection session changed concurrently")
	ErrSelectionIncomplete = errors.New("selection has no end time yet")
	ErrSlotTaken           = errors.New("selected time is no longer available")
	ErrPeriodUnavailable   = errors.New("period cannot be booked as a whole")
	ErrNotOwner            = errors.New("booking belongs to another user")
	ErrUpstream            = errors.New("room data unavailable")
	ErrInvalidClosure      = errors.New("invalid closure")
)

// SelectionError is a rejected tap or preset. Message is safe to show users.
type SelectionError struct {
	Code    string
	Message string
	Err     error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

func newSelectionError(res availability.SelectionResult) error {
	code := "selectionRejected"
	switch {
	case errors.Is(res.Err, availability.ErrRangeUnavailable):
		code = "rangeUnavailable"
	case errors.Is(res.Err, availability.ErrInvalidStart):
		code = "invalidStart"
	case errors.Is(res.Err, availability.ErrIndexOutOfRange):
		code = "indexOutOfRange"
	case errors.Is(res.Err, availability.ErrUnknownPreset):
		code = "unknownPreset"
	}
	return &SelectionError{Code: code, Message: res.Error(), Err: res.Err}
}

// PeriodBookingError reports a failed whole-period booking together with the
// periods recomputed from authoritative data. Periods is nil when the
// recompute itself failed.
type PeriodBookingError struct {
	PeriodID string
	Periods  []models.Period
	Err      error
}

func (e *PeriodBookingError) Error() string {
	return fmt.Sprintf("booking period %s: %v", e.PeriodID, e.Err)
}

func (e *PeriodBookingError) Unwrap() error {
	return e.Err
}
