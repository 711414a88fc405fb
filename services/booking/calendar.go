package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roombook/models"
	"roombook/services/availability"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a CalendarCache that holds nothing for a key.
var ErrCacheMiss = errors.New("calendar cache miss")

const DefaultCalendarTTL = 10 * time.Minute

// generationTTL outlives any month build; an expired generation restarts at
// zero, which only makes in-flight builds skip caching.
const generationTTL = 24 * time.Hour

// RedisCalendarCache stores month calendars as JSON with a TTL.
type RedisCalendarCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCalendarCache(client *redis.Client, ttl time.Duration) *RedisCalendarCache {
	if ttl <= 0 {
		ttl = DefaultCalendarTTL
	}
	return &RedisCalendarCache{Client: client, TTL: ttl}
}

func (c *RedisCalendarCache) Get(ctx context.Context, key string) (*models.MonthCalendar, error) {
	data, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var cal models.MonthCalendar
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

func generationKey(key string) string { return key + ":gen" }

// Generation returns the key's current generation, zero when never bumped.
func (c *RedisCalendarCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.Client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetIfGeneration stores cal only while the key is still at gen. The check
// and the write run under WATCH so a concurrent Invalidate wins.
func (c *RedisCalendarCache) SetIfGeneration(ctx context.Context, key string, gen int64, cal *models.MonthCalendar) (bool, error) {
	data, err := json.Marshal(cal)
	if err != nil {
		return false, err
	}
	genKey := generationKey(key)
	stored := false
	err = c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.TTL)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Invalidate bumps the key's generation and drops the cached calendar.
func (c *RedisCalendarCache) Invalidate(ctx context.Context, key string) error {
	genKey := generationKey(key)
	pipe := c.Client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	pipe.Del(ctx, key)
	_, err := pipe.Exec(ctx)
	return err
}

// CalendarService builds reconciled month calendars and caches them.
type CalendarService struct {
	Data       RoomDataAccess
	Reconciler *availability.Reconciler
	Cache      CalendarCache
	Queue      RefreshEnqueuer
	Now        func() time.Time
	Logger     *zap.Logger
}

func NewCalendarService(data RoomDataAccess, reconciler *availability.Reconciler, cache CalendarCache, queue RefreshEnqueuer, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		Data:       data,
		Reconciler: reconciler,
		Cache:      cache,
		Queue:      queue,
		Now:        time.Now,
		Logger:     logger,
	}
}

func calendarKey(roomID string, year, month int) string {
	return fmt.Sprintf("calendar:%s:%04d-%02d", roomID, year, month)
}

func (s *CalendarService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Month returns the reconciled calendar of roomID for year/month, from the
// cache when possible. Past days are left out.
func (s *CalendarService) Month(ctx context.Context, roomID string, year, month int) (*models.MonthCalendar, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: %04d-%02d", availability.ErrInvalidDate, year, month)
	}
	key := calendarKey(roomID, year, month)
	if s.Cache != nil {
		cal, err := s.Cache.Get(ctx, key)
		if err == nil {
			return cal, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.Logger.Warn("Calendar cache read failed", zap.String("key", key), zap.Error(err))
		}
	}
	return s.build(ctx, roomID, year, month)
}

func (s *CalendarService) build(ctx context.Context, roomID string, year, month int) (*models.MonthCalendar, error) {
	key := calendarKey(roomID, year, month)
	var gen int64
	var genErr error
	if s.Cache != nil {
		if gen, genErr = s.Cache.Generation(ctx, key); genErr != nil {
			s.Logger.Warn("Calendar generation read failed", zap.String("key", key), zap.Error(genErr))
		}
	}

	coarse, err := s.Data.FetchMonthlyAggregate(ctx, roomID, year, month)
	if err != nil {
		return nil, upstream(err)
	}
	dates := availability.MonthDates(year, time.Month(month), s.now())
	cal := &models.MonthCalendar{
		RoomID: roomID,
		Year:   year,
		Month:  month,
		Days:   s.Reconciler.ReconcileMonth(ctx, coarse, roomID, dates),
	}
	if s.Cache == nil || genErr != nil {
		return cal, nil
	}
	stored, err := s.Cache.SetIfGeneration(ctx, key, gen, cal)
	switch {
	case err != nil:
		s.Logger.Warn("Calendar cache write failed", zap.String("key", key), zap.Error(err))
	case !stored:
		s.Logger.Debug("Calendar changed during build, not caching", zap.String("key", key))
	}
	return cal, nil
}

// Refresh rebuilds and re-caches one month regardless of what is cached.
func (s *CalendarService) Refresh(ctx context.Context, roomID string, year, month int) (*models.MonthCalendar, error) {
	return s.build(ctx, roomID, year, month)
}

// InvalidateDay drops the cached month containing date and queues a rebuild.
// Builds already running for that month will not cache their result.
func (s *CalendarService) InvalidateDay(ctx context.Context, roomID, date string) error {
	day, err := availability.ParseDate(date, time.UTC)
	if err != nil {
		return err
	}
	year, month := day.Year(), int(day.Month())
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, calendarKey(roomID, year, month)); err != nil {
			return fmt.Errorf("failed to drop cached calendar: %w", err)
		}
	}
	if s.Queue != nil {
		return s.Queue.EnqueueCalendarRefresh(models.CalendarRefreshPayload{RoomID: roomID, Year: year, Month: month})
	}
	return nil
}
