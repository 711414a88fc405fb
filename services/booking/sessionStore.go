package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roombook/models"

	"github.com/go-redis/redis/v8"
)

const DefaultSessionTTL = 30 * time.Minute

// RedisSessionStore keeps sessions as JSON under "selection:<id>" plus a
// "selection:user:<userID>" pointer to the user's current session.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string { return "selection:" + sessionID }

func userSessionKey(userID string) string { return "selection:user:" + userID }

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.SelectionSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection session: %w", err)
	}
	var session models.SelectionSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse selection session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) ForUser(ctx context.Context, userID string) (*models.SelectionSession, error) {
	sessionID, err := s.Client.Get(ctx, userSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user session pointer: %w", err)
	}
	return s.Get(ctx, sessionID)
}

// Save stores session if the stored copy is still at session.Version, then
// bumps the version. A version of zero creates the session.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.SelectionSession) error {
	key := sessionKey(session.SessionID)
	next := *session
	next.Version++
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal selection session: %w", err)
	}

	err = s.Client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if session.Version != 0 {
				return ErrSessionNotFound
			}
		case err != nil:
			return err
		default:
			var current struct {
				Version int64 `json:"version"`
			}
			if err := json.Unmarshal(stored, &current); err != nil {
				return fmt.Errorf("failed to parse selection session: %w", err)
			}
			if current.Version != session.Version {
				return ErrSessionConflict
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.TTL)
			pipe.Set(ctx, userSessionKey(session.UserID), session.SessionID, s.TTL)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrSessionConflict
	case errors.Is(err, ErrSessionConflict), errors.Is(err, ErrSessionNotFound):
		return err
	case err != nil:
		return fmt.Errorf("failed to store selection session: %w", err)
	}
	session.Version = next.Version
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, session *models.SelectionSession) error {
	if err := s.Client.Del(ctx, sessionKey(session.SessionID), userSessionKey(session.UserID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection session: %w", err)
	}
	return nil
}
