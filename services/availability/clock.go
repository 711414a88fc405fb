package availability

import (
	"fmt"
	"time"
)

const (
	// SlotMinutes is the width of one bookable slot.
	SlotMinutes = 30

	DefaultDayStart = "08:30"
	DefaultDayEnd   = "22:00"

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

// FormatDate formats t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Window is the operating day: grid points run from Start to End inclusive
// in SlotMinutes steps. Seams are the minutes that always accept a start.
type Window struct {
	Start int
	End   int
	Seams []int
}

// DefaultWindow is 08:30-22:00 with the noon and afternoon period seams.
func DefaultWindow() Window {
	return Window{
		Start: 8*60 + 30,
		End:   22 * 60,
		Seams: []int{12 * 60, 14*60 + 30},
	}
}

// NewWindow builds a window from clock strings, keeping the default seams
// that fall strictly inside it.
func NewWindow(dayStart, dayEnd string) (Window, error) {
	start, err := ParseClock(dayStart)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(dayEnd)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: start, End: end}
	for _, s := range DefaultWindow().Seams {
		if s > start && s < end {
			w.Seams = append(w.Seams, s)
		}
	}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate checks the window is non-empty and aligned to the slot width.
func (w Window) Validate() error {
	if w.End <= w.Start {
		return fmt.Errorf("%w: end %s not after start %s", ErrInvalidWindow, FormatClock(w.End), FormatClock(w.Start))
	}
	if w.Start%SlotMinutes != 0 || w.End%SlotMinutes != 0 {
		return fmt.Errorf("%w: bounds not aligned to %d minutes", ErrInvalidWindow, SlotMinutes)
	}
	return nil
}

// Interval returns the whole window as an interval.
func (w Window) Interval() Interval {
	return Interval{Start: w.Start, End: w.End}
}

// SlotCount is the number of slots in the window.
func (w Window) SlotCount() int {
	return (w.End - w.Start) / SlotMinutes
}

func (w Window) isSeam(minute int) bool {
	for _, s := range w.Seams {
		if s == minute {
			return true
		}
	}
	return false
}
