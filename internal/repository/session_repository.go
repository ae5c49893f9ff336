package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"learnhub_portal/internal/state"
	"learnhub_portal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const SessionChannel = "identity:session-change"

// SessionStore binds a client to the uid it is signed in as.
type SessionStore interface {
	Get(ctx context.Context, clientID string) (uid string, ok bool, err error)
	Put(ctx context.Context, clientID, uid string) error
	Delete(ctx context.Context, clientID string) error
}

// Broadcaster tells other instances that a client's session changed.
type Broadcaster interface {
	Publish(ctx context.Context, clientID string) error
	// Subscribe calls handler for changes published by other instances
	// until the returned func is called.
	Subscribe(ctx context.Context, handler func(clientID string)) (func(), error)
}

type RedisSessionStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Redis: rdb, TTL: ttl}
}

func sessionKey(clientID string) string {
	return fmt.Sprintf("identity:session:%s", clientID)
}

func (s *RedisSessionStore) Get(ctx context.Context, clientID string) (string, bool, error) {
	uid, err := s.Redis.Get(ctx, sessionKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	// sliding expiry
	s.Redis.Expire(ctx, sessionKey(clientID), s.TTL)
	return uid, true, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, clientID, uid string) error {
	return s.Redis.Set(ctx, sessionKey(clientID), uid, s.TTL).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, clientID string) error {
	return s.Redis.Del(ctx, sessionKey(clientID)).Err()
}

type sessionChange struct {
	Instance string `json:"instance"`
	ClientID string `json:"clientId"`
}

type RedisBroadcaster struct {
	Redis    *redis.Client
	Instance string
}

func NewRedisBroadcaster(rdb *redis.Client, instance string) *RedisBroadcaster {
	return &RedisBroadcaster{Redis: rdb, Instance: instance}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, clientID string) error {
	payload, _ := json.Marshal(sessionChange{Instance: b.Instance, ClientID: clientID})
	return b.Redis.Publish(ctx, SessionChannel, payload).Err()
}

func (b *RedisBroadcaster) Subscribe(ctx context.Context, handler func(clientID string)) (func(), error) {
	pubsub := b.Redis.Subscribe(ctx, SessionChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var change sessionChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			if change.Instance == b.Instance {
				continue
			}
			handler(change.ClientID)
		}
	}()
	return func() { pubsub.Close() }, nil
}

// MemorySessionStore keeps bindings in process; entries do not expire.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Get(_ context.Context, clientID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.sessions[clientID]
	return uid, ok, nil
}

func (s *MemorySessionStore) Put(_ context.Context, clientID, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[clientID] = uid
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, clientID)
	return nil
}

// MemoryBus connects in-process broadcasters, one per simulated instance.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[int]memorySub
	next int
}

type memorySub struct {
	instance string
	handler  func(clientID string)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]memorySub)}
}

func (b *MemoryBus) Broadcaster(instance string) Broadcaster {
	return &memoryBroadcaster{bus: b, instance: instance}
}

type memoryBroadcaster struct {
	bus      *MemoryBus
	instance string
}

func (m *memoryBroadcaster) Publish(_ context.Context, clientID string) error {
	m.bus.mu.RLock()
	var handlers []func(string)
	for _, s := range m.bus.subs {
		if s.instance != m.instance {
			handlers = append(handlers, s.handler)
		}
	}
	m.bus.mu.RUnlock()

	for _, h := range handlers {
		h(clientID)
	}
	return nil
}

func (m *memoryBroadcaster) Subscribe(_ context.Context, handler func(clientID string)) (func(), error) {
	m.bus.mu.Lock()
	id := m.bus.next
	m.bus.next++
	m.bus.subs[id] = memorySub{instance: m.instance, handler: handler}
	m.bus.mu.Unlock()

	return func() {
		m.bus.mu.Lock()
		delete(m.bus.subs, id)
		m.bus.mu.Unlock()
	}, nil
}

// RedisStateStore keeps client application states as JSON strings.
type RedisStateStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{Redis: rdb, TTL: ttl}
}

func stateKey(clientID string) string {
	return fmt.Sprintf("app:state:%s", clientID)
}

func (s *RedisStateStore) Load(ctx context.Context, clientID string) (state.AppState, bool, error) {
	raw, err := s.Redis.Get(ctx, stateKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state.AppState{}, false, nil
	}
	if err != nil {
		return state.AppState{}, false, err
	}
	var st state.AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		// unreadable state is treated as absent
		logger.Log.Warn("Discarding unreadable client state", zap.String("clientId", clientID), zap.Error(err))
		return state.AppState{}, false, nil
	}
	return st, true, nil
}

func (s *RedisStateStore) Save(ctx context.Context, st state.AppState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, stateKey(st.ClientID), raw, s.TTL).Err()
}

func (s *RedisStateStore) Delete(ctx context.Context, clientID string) error {
	return s.Redis.Del(ctx, stateKey(clientID)).Err()
}
