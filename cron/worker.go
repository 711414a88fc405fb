package cron

import (
	"context"
	"fmt"
	"time"

	"roombook/config"
	"roombook/models"
	"roombook/services/tasks"
	"roombook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CalendarRefresher rebuilds one cached month.
type CalendarRefresher interface {
	Refresh(ctx context.Context, roomID string, year, month int) (*models.MonthCalendar, error)
}

// RefreshEnqueuer schedules a calendar refresh task.
type RefreshEnqueuer interface {
	EnqueueCalendarRefresh(payload models.CalendarRefreshPayload) error
}

// QueueRedisOpt is the asynq connection shared by client and worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCalendarWorker runs the calendar refresh worker in background. The
// returned server must be shut down by the caller.
func InitCalendarWorker(ctx context.Context, refresher CalendarRefresher) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCalendarRefresh, handleCalendarRefresh(refresher))

	go monitorRedisConnection(ctx)

	// Start async worker with retry logic
	go func() {
		logger.Info("[CalendarWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("[CalendarWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("[CalendarWorker] max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleCalendarRefresh(refresher CalendarRefresher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseCalendarRefresh(task)
		if err != nil {
			utils.GetLogger().Warn("[CalendarWorker] dropping invalid task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if _, err := refresher.Refresh(ctx, p.RoomID, p.Year, p.Month); err != nil {
			utils.GetLogger().Warn("[CalendarWorker] refresh failed",
				zap.String("roomID", p.RoomID), zap.Int("year", p.Year), zap.Int("month", p.Month), zap.Error(err))
			return err
		}
		return nil
	}
}

// refreshTargets lists the current and next month of every room.
func refreshTargets(roomIDs []string, now time.Time) []models.CalendarRefreshPayload {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	next := first.AddDate(0, 1, 0)

	out := make([]models.CalendarRefreshPayload, 0, 2*len(roomIDs))
	for _, roomID := range roomIDs {
		for _, m := range []time.Time{first, next} {
			out = append(out, models.CalendarRefreshPayload{RoomID: roomID, Year: m.Year(), Month: int(m.Month())})
		}
	}
	return out
}

// StartCalendarSchedule enqueues a re-warm of every room's current and next
// month on spec. The caller stops the returned scheduler.
func StartCalendarSchedule(spec string, roomIDs []string, enq RefreshEnqueuer) (*robfig.Cron, error) {
	c := robfig.New()
	_, err := c.AddFunc(spec, func() {
		enqueueRefreshes(enq, roomIDs, time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid calendar refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func enqueueRefreshes(enq RefreshEnqueuer, roomIDs []string, now time.Time) int {
	queued := 0
	for _, p := range refreshTargets(roomIDs, now) {
		if err := enq.EnqueueCalendarRefresh(p); err != nil {
			utils.GetLogger().Warn("[CalendarSchedule] enqueue failed",
				zap.String("roomID", p.RoomID), zap.Int("month", p.Month), zap.Error(err))
			continue
		}
		queued++
	}
	return queued
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("[CalendarWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
