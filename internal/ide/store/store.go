// Package store persists small user preferences such as the last language.
// Stores never fail: backing-store errors are logged and the value is kept in
// memory for the rest of the session.
package store

import (
	"context"
	"sync"
	"time"

	"ojide/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	KeyLanguage = "language"
	KeyBackend  = "backend"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Store is a string key-value preference store.
type Store interface {
	Get(key string) string
	Set(key, value string)
}

// Config selects and configures a Store.
type Config struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
}

// Open builds the configured store. A store that cannot be opened degrades to
// Memory.
func Open(cfg Config) Store {
	switch cfg.Driver {
	case DriverFile:
		st, err := NewFile(cfg.Path)
		if err != nil {
			logger.Warn(context.Background(), "open file store failed, using memory", zap.String("path", cfg.Path), zap.Error(err))
			return NewMemory()
		}
		return st
	case DriverRedis:
		st, err := NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn(context.Background(), "open redis store failed, using memory", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			return NewMemory()
		}
		return st
	case DriverMemory, "":
		return NewMemory()
	default:
		logger.Warn(context.Background(), "unknown store driver, using memory", zap.String("driver", cfg.Driver))
		return NewMemory()
	}
}

// Close releases the backing store if it holds resources.
func Close(st Store) error {
	if c, ok := st.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *Memory) snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *Memory) load(values map[string]string) {
	m.mu.Lock()
	for k, v := range values {
		m.values[k] = v
	}
	m.mu.Unlock()
}

const defaultOpTimeout = 2 * time.Second
