package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalContains(t *testing.T) {
	iv := Interval{Start: 540, End: 600}

	assert.True(t, iv.Contains(540, true, true))
	assert.False(t, iv.Contains(540, false, true))
	assert.False(t, iv.Contains(600, true, true))
	assert.True(t, iv.Contains(600, true, false))
	assert.True(t, iv.Contains(570, false, true))
	assert.False(t, iv.Contains(510, true, false))
}

func TestIntervalOverlaps(t *testing.T) {
	iv := Interval{Start: 540, End: 630}

	assert.True(t, iv.Overlaps(Interval{Start: 600, End: 630}))
	assert.True(t, iv.Overlaps(Interval{Start: 480, End: 570}))
	assert.False(t, iv.Overlaps(Interval{Start: 630, End: 660}), "touching intervals do not overlap")
	assert.False(t, iv.Overlaps(Interval{Start: 480, End: 540}))
}

func TestIntervalFromClockRejectsMalformed(t *testing.T) {
	_, ok := IntervalFromClock("10:00", "09:00")
	assert.False(t, ok)
	_, ok = IntervalFromClock("10:00", "10:00")
	assert.False(t, ok)
	_, ok = IntervalFromClock("ten", "11:00")
	assert.False(t, ok)

	iv, ok := IntervalFromClock("09:00", "10:30")
	assert.True(t, ok)
	assert.Equal(t, Interval{Start: 540, End: 630}, iv)
}

func TestIntervalSnapWidensToSlots(t *testing.T) {
	assert.Equal(t, Interval{Start: 540, End: 630}, Interval{Start: 555, End: 610}.Snap())
	assert.Equal(t, Interval{Start: 540, End: 600}, Interval{Start: 540, End: 600}.Snap())
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow("08:30", "22:00")
	assert.NoError(t, err)
	assert.Equal(t, DefaultWindow(), w)
	assert.Equal(t, 27, w.SlotCount())

	_, err = NewWindow("22:00", "08:30")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWindow("08:15", "22:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	w, err = NewWindow("13:00", "18:00")
	assert.NoError(t, err)
	assert.Equal(t, []int{14*60 + 30}, w.Seams)
}
