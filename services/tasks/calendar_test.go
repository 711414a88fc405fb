package tasks

import (
	"testing"
	"time"

	"roombook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarRefreshTaskRoundTrip(t *testing.T) {
	payload := models.CalendarRefreshPayload{RoomID: "room-a", Year: 2025, Month: 3}

	task, opts, err := NewCalendarRefreshTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TypeCalendarRefresh, task.Type())
	assert.Len(t, opts, 3)

	got, err := ParseCalendarRefresh(task)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestParseCalendarRefreshRejectsBadPayload(t *testing.T) {
	_, err := ParseCalendarRefresh(asynq.NewTask(TypeCalendarRefresh, []byte("{")))
	assert.Error(t, err)

	_, err = ParseCalendarRefresh(asynq.NewTask(TypeCalendarRefresh, []byte(`{"roomId":"a","year":2025,"month":13}`)))
	assert.Error(t, err)
}

func TestEnqueueWithoutClient(t *testing.T) {
	var e *AsynqEnqueuer
	assert.Error(t, e.EnqueueCalendarRefresh(models.CalendarRefreshPayload{RoomID: "a", Year: 2025, Month: 1}))
}

func TestCalendarRefreshTaskIsDelayedNotDeduplicated(t *testing.T) {
	_, opts, err := NewCalendarRefreshTask(models.CalendarRefreshPayload{RoomID: "room-a", Year: 2025, Month: 3})
	require.NoError(t, err)

	types := map[asynq.OptionType]interface{}{}
	for _, opt := range opts {
		types[opt.Type()] = opt.Value()
	}
	assert.Equal(t, 2*time.Second, types[asynq.ProcessInOpt])
	assert.NotContains(t, types, asynq.UniqueOpt)
}
