// README: Flag persistence: whole-map JSON blob in Redis, memory variant for tests.
package featureflags

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// flagsKey is the single key holding the serialized flag map. Persistence is
// always read-modify-persist of the whole map, never per-flag writes.
const flagsKey = "BridgetFeatureFlags"

// Store persists the full flag-to-config mapping.
type Store interface {
	Load(ctx context.Context) (map[Flag]Config, error)
	Save(ctx context.Context, flags map[Flag]Config) error
}

// RedisStore keeps the flag map as one JSON value.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context) (map[Flag]Config, error) {
	raw, err := s.rdb.Get(ctx, flagsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[Flag]Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var flags map[Flag]Config
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *RedisStore) Save(ctx context.Context, flags map[Flag]Config) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, flagsKey, raw, 0).Err()
}

// MemStore round-trips the map through JSON like the redis store does, so
// tests exercise the same serialization path.
type MemStore struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(_ context.Context) (map[Flag]Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return map[Flag]Config{}, nil
	}
	var flags map[Flag]Config
	if err := json.Unmarshal(s.raw, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *MemStore) Save(_ context.Context, flags map[Flag]Config) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}
