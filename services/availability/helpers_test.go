package availability

import (
	"testing"
	"time"

	"roombook/models"

	"github.com/stretchr/testify/require"
)

const testDate = "2025-03-10"

var testNow = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

func booking(start, end string) models.Booking {
	return models.Booking{BookingDate: testDate, StartTime: start, EndTime: end, Status: models.BookingStatusBooked}
}

func closure(start, end string) models.Closure {
	return models.Closure{Date: testDate, StartTime: start, EndTime: end}
}

func buildGrid(t *testing.T, bookings []models.Booking, closures []models.Closure) DayGrid {
	t.Helper()
	grid, err := BuildDayGrid(DefaultWindow(), bookings, closures, testDate, testNow)
	require.NoError(t, err)
	return grid
}

func pointAt(t *testing.T, points []models.TimePoint, clock string) models.TimePoint {
	t.Helper()
	for _, p := range points {
		if p.Time == clock {
			return p
		}
	}
	t.Fatalf("no point at %s", clock)
	return models.TimePoint{}
}

func indexAt(t *testing.T, points []models.TimePoint, clock string) int {
	t.Helper()
	return pointAt(t, points, clock).Index
}
