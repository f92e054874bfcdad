// Package kv provides the durable key-value storage the favorites set and
// UI preferences are mirrored to.
//
// Four backends share the Store contract: bolt (default), sqlite, file and
// memory. Missing keys report ErrNotFound; every other backend failure wraps
// ErrStorage.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrStorage  = errors.New("storage failure")
)

// Store is a minimal durable key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open creates the named backend rooted at dir, creating dir as needed.
// An empty kind selects bolt.
func Open(kind, dir string) (Store, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == BackendMemory {
		return NewMemory(), nil
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	switch kind {
	case "", BackendBolt:
		return OpenBolt(filepath.Join(dir, "dossier.db"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "dossier.sqlite"))
	case BackendFile:
		return OpenFile(filepath.Join(dir, "kv"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
