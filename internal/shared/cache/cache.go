// Package cache stores short-lived JSON payloads in process memory with an
// optional Redis tier behind it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"career-backend/internal/shared/telemetry"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Key builds a deterministic key from parts under prefix.
func Key(prefix string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(parts, "|"))))
	return fmt.Sprintf("%s:%x", prefix, sum[:12])
}

func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var out T
	if c == nil {
		return out, false
	}
	raw, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

func SetJSON[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, raw, ttl)
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local cache. Expired entries are dropped on read and
// when the entry count reaches MaxEntries.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Memory{entries: make(map[string]entry), maxEntries: maxEntries, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = entry{data: value, expiresAt: m.now().Add(ttl)}
}

func (m *Memory) evictLocked() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	for len(m.entries) >= m.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, e := range m.entries {
			if oldestKey == "" || e.expiresAt.Before(oldest) {
				oldestKey, oldest = k, e.expiresAt
			}
		}
		delete(m.entries, oldestKey)
	}
}

type Redis struct {
	Client *redis.Client
}

// NewRedis connects to url and pings it. Callers treat an error as "no L2".
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=cache.NewRedis: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("op=cache.NewRedis: %w", err)
	}
	return &Redis{Client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			telemetry.Debug("cache.redis_get_failed", map[string]any{"key": key, "error": err})
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		telemetry.Debug("cache.redis_set_failed", map[string]any{"key": key, "error": err})
	}
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// Tiered reads L1 then L2 and back-fills L1 on an L2 hit. L2 may be nil.
type Tiered struct {
	L1  Cache
	L2  Cache
	TTL time.Duration
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := t.L1.Get(ctx, key); ok {
		return data, true
	}
	if t.L2 == nil {
		return nil, false
	}
	data, ok := t.L2.Get(ctx, key)
	if ok {
		t.L1.Set(ctx, key, data, t.TTL)
	}
	return data, ok
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.L1.Set(ctx, key, value, ttl)
	if t.L2 != nil {
		t.L2.Set(ctx, key, value, ttl)
	}
}
