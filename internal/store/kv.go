package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/config"
)

// KeyValue is the persistence port: a flat string store with the semantics
// of the browser's local storage. Get reports a missing key with ok=false
// and a nil error.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// OpenKeyValue builds the backend selected by the store configuration.
func OpenKeyValue(ctx context.Context, cfg config.StoreConfig) (KeyValue, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db), nil
	case config.DriverRedis:
		return NewRedisKV(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// MemoryKV keeps values in process memory. Nothing survives a restart.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }

func (m *MemoryKV) Close() error { return nil }
