package storage

import (
	"errors"
	"fmt"
	"sync"
)

// SnapshotKey is the single key under which the session list is persisted.
const SnapshotKey = "council_sessions"

// ErrKeyNotFound is returned by a Backend when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Backend is an opaque key-value store holding whole snapshots.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// BackendKind selects a Backend implementation.
type BackendKind string

const (
	BackendFile   BackendKind = "file"
	BackendSQLite BackendKind = "sqlite"
	BackendPebble BackendKind = "pebble"
)

// OpenBackend creates the configured backend under dataDir.
func OpenBackend(kind BackendKind, dataDir string) (Backend, error) {
	switch kind {
	case "", BackendFile:
		return NewFileBackend(dataDir)
	case BackendSQLite:
		return NewSQLiteBackend(dataDir)
	case BackendPebble:
		return NewPebbleBackend(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}

// MemoryBackend keeps snapshots in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	// FailPut, when set, is returned from every Put.
	FailPut error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value, or ErrKeyNotFound.
func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key unless FailPut is set.
func (m *MemoryBackend) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
