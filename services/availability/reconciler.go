package availability

import (
	"context"
	"sort"
	"time"

	"roombook/models"

	"go.uber.org/zap"
)

// DefaultMaxRefinements caps detail fetches per month reconciliation.
const DefaultMaxRefinements = 12

// DayDetailFetcher supplies the authoritative bookings and closures of a day.
type DayDetailFetcher interface {
	FetchDayDetail(ctx context.Context, roomID, date string) (models.DayDetail, error)
}

// Reconciler refines the optimistic monthly aggregate with per-day detail.
type Reconciler struct {
	Fetcher        DayDetailFetcher
	Window         Window
	MaxRefinements int
	Now            func() time.Time
	Logger         *zap.Logger
}

// NewReconciler builds a Reconciler with the default cap and clock.
func NewReconciler(fetcher DayDetailFetcher, w Window, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		Fetcher:        fetcher,
		Window:         w,
		MaxRefinements: DefaultMaxRefinements,
		Now:            time.Now,
		Logger:         logger,
	}
}

// DisplayFor maps a coarse status to its calendar status before refinement.
func DisplayFor(s models.DayStatus) models.DisplayStatus {
	switch s {
	case models.DayBooked:
		return models.DisplayFull
	case models.DayClosed:
		return models.DisplayUnavailable
	case models.DayPartial:
		return models.DisplayPartial
	default:
		return models.DisplayAvailable
	}
}

// ReconcileMonth returns the display status of every date in dates. Dates
// missing from coarse count as available. Partial days are re-derived from
// detail one at a time in date order, up to MaxRefinements of them; a day
// whose refinement fails keeps its coarse status.
func (r *Reconciler) ReconcileMonth(ctx context.Context, coarse map[string]models.DayStatus, roomID string, dates []string) map[string]models.DisplayStatus {
	ordered := append([]string(nil), dates...)
	sort.Strings(ordered)

	refined := make(map[string]models.DisplayStatus, len(ordered))
	var partial []string
	for _, date := range ordered {
		status, ok := coarse[date]
		if !ok {
			status = models.DayAvailable
		}
		refined[date] = DisplayFor(status)
		if status == models.DayPartial {
			partial = append(partial, date)
		}
	}

	limit := r.MaxRefinements
	if limit <= 0 {
		limit = DefaultMaxRefinements
	}
	if len(partial) > limit {
		partial = partial[:limit]
	}

	for _, date := range partial {
		if ctx.Err() != nil {
			r.Logger.Warn("reconcile: context done, keeping coarse status",
				zap.String("roomID", roomID), zap.String("date", date), zap.Error(ctx.Err()))
			break
		}
		full, err := r.isFull(ctx, roomID, date)
		if err != nil {
			r.Logger.Warn("reconcile: day refinement failed",
				zap.String("roomID", roomID), zap.String("date", date), zap.Error(err))
			continue
		}
		if full {
			refined[date] = models.DisplayFull
		}
	}
	return refined
}

func (r *Reconciler) isFull(ctx context.Context, roomID, date string) (bool, error) {
	detail, err := r.Fetcher.FetchDayDetail(ctx, roomID, date)
	if err != nil {
		return false, err
	}
	grid, err := BuildDayGrid(r.Window, detail.Bookings, detail.Closures, date, r.now())
	if err != nil {
		return false, err
	}
	return !HasHeadroom(grid), nil
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// HasHeadroom reports whether some free slot can open a booking and is not
// the final slot of the day. A lone trailing slot does not count.
func HasHeadroom(grid DayGrid) bool {
	for _, entry := range grid.Lookup {
		s := entry.Slot
		if s.Status != models.StatusAvailable || !s.CanBeStartTime {
			continue
		}
		if end, err := ParseClock(s.EndTime); err == nil && end < grid.Window.End {
			return true
		}
	}
	return false
}

// MonthDates lists the dates of year/month from today onward. A month that
// has fully passed yields nothing.
func MonthDates(year int, month time.Month, today time.Time) []string {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	start := first
	if todayStart.After(first) {
		start = todayStart
	}
	var dates []string
	for d := start; d.Before(next); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}
