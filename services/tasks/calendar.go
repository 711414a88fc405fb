package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"roombook/models"

	"github.com/hibiken/asynq"
)

const TypeCalendarRefresh = "calendar:refresh"

// NewCalendarRefreshTask builds a task that re-warms one room month. Every
// invalidation gets its own task; a short delay lets a burst of bookings land
// before the first rebuild reads the month.
func NewCalendarRefreshTask(payload models.CalendarRefreshPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCalendarRefresh, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
		asynq.ProcessIn(2 * time.Second),
	}
	return task, opts, nil
}

// ParseCalendarRefresh decodes a calendar:refresh payload.
func ParseCalendarRefresh(task *asynq.Task) (models.CalendarRefreshPayload, error) {
	var p models.CalendarRefreshPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid calendar refresh payload: %w", err)
	}
	if p.RoomID == "" || p.Month < 1 || p.Month > 12 {
		return p, fmt.Errorf("invalid calendar refresh payload: room %q month %d", p.RoomID, p.Month)
	}
	return p, nil
}

// AsynqEnqueuer hands refresh tasks to an asynq client.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

// EnqueueCalendarRefresh schedules a refresh of payload's month.
func (e *AsynqEnqueuer) EnqueueCalendarRefresh(payload models.CalendarRefreshPayload) error {
	if e == nil || e.Client == nil {
		return fmt.Errorf("asynq client is nil, calendar refresh cannot be enqueued")
	}
	task, opts, err := NewCalendarRefreshTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue calendar refresh: %w", err)
	}
	return nil
}
