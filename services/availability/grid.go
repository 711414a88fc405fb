package availability

import (
	"time"

	"roombook/models"
)

// DayGrid is the discretized operating day for one room and date.
type DayGrid struct {
	Date   string             `json:"date"`
	Window Window             `json:"-"`
	Points []models.TimePoint `json:"points"`
	Lookup models.SlotLookup  `json:"lookup"`
}

// occupancy is the day's unavailability split by source.
type occupancy struct {
	bookings    []Interval
	closures    []Interval
	bookingEnds map[int]bool
}

func buildOccupancy(w Window, bookings []models.Booking, closures []models.Closure) occupancy {
	occ := occupancy{bookingEnds: make(map[int]bool)}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		iv, ok := IntervalFromClock(b.StartTime, b.EndTime)
		if !ok {
			continue
		}
		iv = iv.Snap()
		occ.bookings = append(occ.bookings, iv)
		occ.bookingEnds[iv.End] = true
	}

	for _, c := range closures {
		if c.IsAllDay {
			occ.closures = append(occ.closures, w.Interval())
			continue
		}
		iv, ok := IntervalFromClock(c.StartTime, c.EndTime)
		if !ok {
			continue
		}
		occ.closures = append(occ.closures, iv.Snap())
	}
	return occ
}

// statusAt classifies a grid minute. The terminal point uses a closed upper
// bound so that an interval reaching the end of the window covers it.
func (o occupancy) statusAt(minute int, terminal bool) models.PointStatus {
	exclusiveEnd := !terminal
	for _, iv := range o.closures {
		if iv.Contains(minute, true, exclusiveEnd) {
			return models.StatusClosed
		}
	}
	for _, iv := range o.bookings {
		if iv.Contains(minute, true, exclusiveEnd) {
			return models.StatusBooked
		}
	}
	return models.StatusAvailable
}

// BuildDayGrid turns a day's bookings and closures into TimePoints and the
// matching SlotLookup. now decides which points are already past.
func BuildDayGrid(w Window, bookings []models.Booking, closures []models.Closure, date string, now time.Time) (DayGrid, error) {
	if err := w.Validate(); err != nil {
		return DayGrid{}, err
	}
	day, err := ParseDate(date, now.Location())
	if err != nil {
		return DayGrid{}, err
	}

	occ := buildOccupancy(w, bookings, closures)

	// Past cut-off in seconds of day; -1 means nothing is past.
	pastBefore := -1
	today := FormatDate(now)
	switch {
	case date == today:
		pastBefore = now.Hour()*3600 + now.Minute()*60 + now.Second()
	case day.Before(now):
		pastBefore = 24 * 3600
	}

	n := w.SlotCount() + 1
	points := make([]models.TimePoint, n)
	for i := 0; i < n; i++ {
		m := w.Start + i*SlotMinutes
		points[i] = models.TimePoint{
			Time:         FormatClock(m),
			Minutes:      m,
			Index:        i,
			Status:       occ.statusAt(m, i == n-1),
			IsPastClient: m*60 < pastBefore,
		}
	}

	// Slot i spans points[i]..points[i+1]; its occupancy is points[i].Status.
	slotFree := func(i int) bool {
		return i >= 0 && i < n-1 && points[i].Status == models.StatusAvailable
	}

	for i := range points {
		p := &points[i]
		if p.IsPastClient {
			continue
		}
		if i < n-1 && slotFree(i) {
			afterBooking := occ.bookingEnds[p.Minutes]
			p.CanSelectStart = i == 0 || slotFree(i-1) || afterBooking || w.isSeam(p.Minutes)
		}
		if i > 0 && slotFree(i-1) && !points[i-1].IsPastClient {
			p.CanSelectEnd = true
		}
	}

	lookup := make(models.SlotLookup, n-1)
	for i := 0; i < n-1; i++ {
		lookup[points[i].Minutes] = models.SlotEntry{
			Index: i,
			Slot: models.Slot{
				StartTime:      points[i].Time,
				EndTime:        points[i+1].Time,
				Status:         points[i].Status,
				CanBeStartTime: points[i].CanSelectStart,
				CanBeEndTime:   points[i+1].CanSelectEnd,
			},
		}
	}

	return DayGrid{Date: date, Window: w, Points: points, Lookup: lookup}, nil
}

// ClassifyDay derives the coarse status used by the monthly aggregate. It
// ignores selection legality and the clock, so "partial" may be optimistic.
func ClassifyDay(w Window, detail models.DayDetail) models.DayStatus {
	occ := buildOccupancy(w, detail.Bookings, detail.Closures)
	total := w.SlotCount()
	closed, occupied := 0, 0
	for i := 0; i < total; i++ {
		switch occ.statusAt(w.Start+i*SlotMinutes, false) {
		case models.StatusClosed:
			closed++
			occupied++
		case models.StatusBooked:
			occupied++
		}
	}
	switch {
	case total > 0 && closed == total:
		return models.DayClosed
	case occupied == total:
		return models.DayBooked
	case occupied > 0:
		return models.DayPartial
	default:
		return models.DayAvailable
	}
}
