package availability

import (
	"fmt"

	"roombook/models"
)

// SelectionResult is the outcome of one transition. On failure State is the
// unchanged input state and Points is nil.
type SelectionResult struct {
	Success           bool               `json:"success"`
	Err               error              `json:"-"`
	State             models.Selection   `json:"state"`
	SelectedRangeText string             `json:"selectedRangeText,omitempty"`
	SlotIndices       []int              `json:"slotIndices,omitempty"`
	Points            []models.TimePoint `json:"points,omitempty"`
}

// Error returns the rejection message, if any.
func (r SelectionResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func rejected(state models.Selection, err error) SelectionResult {
	return SelectionResult{State: state, Err: err}
}

// SelectPoint applies a tap on points[index] to state.
//
//	Empty      -> PendingEnd  (legal start)
//	PendingEnd -> Empty       (tap on the start again)
//	PendingEnd -> Complete    (tap elsewhere, range valid)
//	Complete   -> Empty       (tap on the start again)
//	Complete   -> PendingEnd  (tap elsewhere, legal start)
func SelectPoint(state models.Selection, index int, points []models.TimePoint, lookup models.SlotLookup) SelectionResult {
	if index < 0 || index >= len(points) {
		return rejected(state, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index))
	}

	switch state.Phase {
	case models.PhasePendingEnd:
		if index == state.StartIndex {
			return clearSelection(points)
		}
		return completeRange(state, state.StartIndex, index, points, lookup)
	case models.PhaseComplete:
		if index == state.StartIndex {
			return clearSelection(points)
		}
		return beginAt(state, index, points, lookup)
	default:
		return beginAt(state, index, points, lookup)
	}
}

// ClearSelection resets to Empty and unmarks every point.
func ClearSelection(points []models.TimePoint) SelectionResult {
	return clearSelection(points)
}

func clearSelection(points []models.TimePoint) SelectionResult {
	empty := models.EmptySelection()
	return SelectionResult{
		Success: true,
		State:   empty,
		Points:  MarkSelectedRange(points, empty.StartIndex, empty.EndIndex),
	}
}

func beginAt(state models.Selection, index int, points []models.TimePoint, lookup models.SlotLookup) SelectionResult {
	p := points[index]
	if index == len(points)-1 {
		return rejected(state, fmt.Errorf("%w: %s closes the day", ErrInvalidStart, p.Time))
	}
	if p.IsPastClient {
		return rejected(state, fmt.Errorf("%w: %s has passed", ErrInvalidStart, p.Time))
	}
	entry, ok := lookup[p.Minutes]
	if !p.CanSelectStart || !ok || !entry.Slot.CanBeStartTime {
		return rejected(state, fmt.Errorf("%w: %s", ErrInvalidStart, p.Time))
	}

	next := models.Selection{Phase: models.PhasePendingEnd, StartIndex: index, EndIndex: -1}
	return SelectionResult{
		Success: true,
		State:   next,
		Points:  MarkSelectedRange(points, next.StartIndex, next.EndIndex),
	}
}

func completeRange(state models.Selection, a, b int, points []models.TimePoint, lookup models.SlotLookup) SelectionResult {
	if a < 0 || a >= len(points) {
		return rejected(state, fmt.Errorf("%w: start %d", ErrIndexOutOfRange, a))
	}
	lo, hi := min(a, b), max(a, b)
	if hi <= lo {
		return rejected(state, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, lo, hi))
	}
	if err := ValidateRange(points, lookup, lo, hi); err != nil {
		return rejected(state, err)
	}
	return completed(lo, hi, points)
}

func completed(lo, hi int, points []models.TimePoint) SelectionResult {
	slots := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		slots = append(slots, i)
	}
	return SelectionResult{
		Success:           true,
		State:             models.Selection{Phase: models.PhaseComplete, StartIndex: lo, EndIndex: hi},
		SelectedRangeText: RangeText(points, lo, hi),
		SlotIndices:       slots,
		Points:            MarkSelectedRange(points, lo, hi),
	}
}

// ValidateRange checks every slot in [lo, hi) can be booked and no point in
// [lo, hi] has passed.
func ValidateRange(points []models.TimePoint, lookup models.SlotLookup, lo, hi int) error {
	if lo < 0 || hi >= len(points) || hi <= lo {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, lo, hi)
	}
	for i := lo; i < hi; i++ {
		entry, ok := lookup[points[i].Minutes]
		if !ok || !entry.Slot.CanBeStartTime {
			return ErrRangeUnavailable
		}
	}
	for i := lo; i <= hi; i++ {
		if points[i].IsPastClient {
			return ErrRangeUnavailable
		}
	}
	return nil
}

// RangeText renders "HH:MM - HH:MM" for points[lo]..points[hi].
func RangeText(points []models.TimePoint, lo, hi int) string {
	return points[lo].Time + " - " + points[hi].Time
}

// MarkSelectedRange returns a copy of points with the selection flags set
// for [start, end]. A negative index leaves that side unset.
func MarkSelectedRange(points []models.TimePoint, start, end int) []models.TimePoint {
	out := make([]models.TimePoint, len(points))
	copy(out, points)
	for i := range out {
		out[i].IsSelectedStart = start >= 0 && i == start
		out[i].IsSelectedEnd = end >= 0 && i == end
		out[i].IsInSelectedRange = start >= 0 && end >= 0 && i >= start && i <= end
	}
	return out
}

// ApplySelection re-marks a freshly built grid with a stored selection.
func ApplySelection(points []models.TimePoint, sel models.Selection) []models.TimePoint {
	if sel.StartIndex >= len(points) || sel.EndIndex >= len(points) {
		return MarkSelectedRange(points, -1, -1)
	}
	return MarkSelectedRange(points, sel.StartIndex, sel.EndIndex)
}
