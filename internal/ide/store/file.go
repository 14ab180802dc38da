package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"go.uber.org/zap"
)

const DefaultFilePath = "configs/ide_state.json"

// File keeps preferences in a JSON object on disk, rewritten on every Set.
type File struct {
	path  string
	mu    sync.Mutex
	cache *Memory
}

// NewFile loads path. A missing or empty file is an empty store.
func NewFile(path string) (*File, error) {
	if path == "" {
		path = DefaultFilePath
	}
	f := &File{path: path, cache: NewMemory()}
	values, err := loadFile(path)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StoreError)
	}
	f.cache.load(values)
	return f, nil
}

func (f *File) Get(key string) string {
	return f.cache.Get(key)
}

func (f *File) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache.Set(key, value)
	if err := saveFile(f.path, f.cache.snapshot()); err != nil {
		logger.Warn(context.Background(), "persist preference failed", zap.String("key", key), zap.Error(err))
	}
}

func loadFile(path string) (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("read preference file failed: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse preference file failed: %w", err)
	}
	return values, nil
}

func saveFile(path string, values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preference dir failed: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write preference file failed: %w", err)
	}
	return nil
}
