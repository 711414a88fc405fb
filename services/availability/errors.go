package availability

import "errors"

// Grid construction errors. These are caller-contract violations.
var (
	ErrInvalidWindow = errors.New("invalid operating window")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidClock  = errors.New("invalid clock time")
)

// Selection errors. A rejected transition leaves the selection untouched.
var (
	ErrIndexOutOfRange  = errors.New("point index out of range")
	ErrInvalidStart     = errors.New("point cannot start a booking")
	ErrInvalidRange     = errors.New("invalid selection range")
	ErrRangeUnavailable = errors.New("所选时间段包含不可用时段")
	ErrUnknownPreset    = errors.New("unknown preset")
	ErrPresetOutOfGrid  = errors.New("preset does not fit the day grid")
	ErrUnknownPeriod    = errors.New("unknown period")
)
