package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "chat:state:"

// RedisStore is a SessionStore backed by Redis, for deployments where chat
// state must survive process restarts. Entries carry a TTL so idle sessions
// expire server-side instead of accumulating.
//
// Update is a read-merge-write cycle guarded by an in-process per-session
// mutex; running multiple replicas against one Redis requires routing a
// session to a single replica (sticky sessions), same as the memory store.
// Lock entries live only as long as a call holds them, so idle sessions
// leave nothing behind once their Redis keys expire.
type RedisStore struct {
	client *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
	locks  *keyedMutex
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("tokochat.internal.chat.sessions")
	}
	return &RedisStore{
		client: client,
		tracer: tracer,
		ttl:    ttl,
		locks:  newKeyedMutex(),
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "chat.session_get_or_create")
	defer span.End()

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	state, err := s.load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	state = NewState(sessionID)
	if err := s.save(ctx, state); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return state, nil
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, upd StateUpdate) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "chat.session_update")
	defer span.End()

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	state, err := s.load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if state == nil {
		state = NewState(sessionID)
	}

	applyUpdate(state, upd)

	if err := s.save(ctx, state); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return state, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "chat.session_clear")
	defer span.End()

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) ListSessionIDs(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "chat.session_list")
	defer span.End()

	var ids []string
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), sessionKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to scan sessions: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("chat: failed to load session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("chat: failed to decode session: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("chat: failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("chat: failed to persist session: %w", err)
	}
	return nil
}
