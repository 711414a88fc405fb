package availability

// Interval is a half-open minute range [Start, End).
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IntervalFromClock builds an interval from "HH:MM" bounds. Malformed input
// (unparseable or End <= Start) yields ok == false.
func IntervalFromClock(start, end string) (Interval, bool) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, false
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, false
	}
	if e <= s {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}

// Contains reports whether minute lies in the interval. inclusiveStart and
// exclusiveEnd select the boundary semantics.
func (iv Interval) Contains(minute int, inclusiveStart, exclusiveEnd bool) bool {
	if inclusiveStart {
		if minute < iv.Start {
			return false
		}
	} else if minute <= iv.Start {
		return false
	}
	if exclusiveEnd {
		return minute < iv.End
	}
	return minute <= iv.End
}

// Overlaps reports whether two half-open intervals share any minute.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Snap widens the interval outward to slot boundaries.
func (iv Interval) Snap() Interval {
	start := iv.Start - iv.Start%SlotMinutes
	end := iv.End
	if r := end % SlotMinutes; r != 0 {
		end += SlotMinutes - r
	}
	return Interval{Start: start, End: end}
}
