package availability

import (
	"fmt"

	"roombook/models"
)

const (
	PeriodMorning   = "morning"
	PeriodNoon      = "noon"
	PeriodAfternoon = "afternoon"
)

// PeriodDef is a fixed window the day's slots are rolled up into.
type PeriodDef struct {
	ID        string
	Name      string
	StartTime string
	EndTime   string
}

// DefaultPeriods are the three seams-aligned groupings of the default window.
var DefaultPeriods = []PeriodDef{
	{ID: PeriodMorning, Name: "Morning", StartTime: "08:30", EndTime: "12:00"},
	{ID: PeriodNoon, Name: "Noon", StartTime: "12:00", EndTime: "14:30"},
	{ID: PeriodAfternoon, Name: "Afternoon", StartTime: "14:30", EndTime: "22:00"},
}

// FindPeriod returns the period of defs with the given id.
func FindPeriod(defs []PeriodDef, id string) (PeriodDef, error) {
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return PeriodDef{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, id)
}

// AggregatePeriods rolls the grid up into DefaultPeriods.
func AggregatePeriods(points []models.TimePoint) []models.Period {
	return AggregatePeriodsWith(DefaultPeriods, points)
}

// AggregatePeriodsWith rolls the grid up into the given periods. A slot
// belongs to a period when it lies entirely inside the period's bounds, and
// counts as available only when a selection can reach it: a free slot right
// after a closure that is not on a seam can never be booked.
func AggregatePeriodsWith(defs []PeriodDef, points []models.TimePoint) []models.Period {
	periods := make([]models.Period, 0, len(defs))
	for _, def := range defs {
		bounds, ok := IntervalFromClock(def.StartTime, def.EndTime)
		if !ok {
			continue
		}

		var free []Interval
		total := 0
		for i := 0; i+1 < len(points); i++ {
			slot := Interval{Start: points[i].Minutes, End: points[i+1].Minutes}
			if slot.Start < bounds.Start || slot.End > bounds.End {
				continue
			}
			total++
			if reachable(points, i) {
				free = append(free, slot)
			}
		}

		contiguous := true
		for i := 0; i+1 < len(free); i++ {
			if free[i].End != free[i+1].Start {
				contiguous = false
				break
			}
		}

		p := models.Period{
			ID:             def.ID,
			Name:           def.Name,
			StartTime:      def.StartTime,
			EndTime:        def.EndTime,
			AvailableCount: len(free),
			TotalCount:     total,
			Available:      len(free) > 0,
			FullyBooked:    len(free) == 0,
		}
		p.PartiallyBooked = p.Available && len(free) < total
		p.CanBookWholePeriod = total > 0 && len(free) == total && contiguous

		switch {
		case p.FullyBooked:
			p.Status = models.PeriodUnavailable
		case p.PartiallyBooked:
			p.Status = models.PeriodPartial
		default:
			p.Status = models.PeriodAvailable
		}
		periods = append(periods, p)
	}
	return periods
}

// reachable reports whether slot i is free and some selection can cover it.
// Start eligibility propagates through a free run, so the slot itself must
// be a legal start.
func reachable(points []models.TimePoint, i int) bool {
	p := points[i]
	return p.Status == models.StatusAvailable && !p.IsPastClient && p.CanSelectStart
}

// MarkPeriodUnavailable returns a copy of periods with id flagged as taken.
// It is the optimistic half of a whole-period booking.
func MarkPeriodUnavailable(periods []models.Period, id string) []models.Period {
	out := make([]models.Period, len(periods))
	copy(out, periods)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].AvailableCount = 0
		out[i].Available = false
		out[i].PartiallyBooked = false
		out[i].FullyBooked = true
		out[i].CanBookWholePeriod = false
		out[i].Status = models.PeriodUnavailable
	}
	return out
}
