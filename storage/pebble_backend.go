package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// PebbleBackend stores snapshots in an embedded pebble database.
type PebbleBackend struct {
	db *pebble.DB
}

func NewPebbleBackend(dataDir string) (*PebbleBackend, error) {
	path := filepath.Join(dataDir, "pebble")
	log.Debug().Str("path", path).Msg("opening pebble store")

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store: %w", err)
	}
	return &PebbleBackend{db: db}, nil
}

func (p *PebbleBackend) Get(key string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close
	return append([]byte(nil), value...), nil
}

func (p *PebbleBackend) Put(key string, value []byte) error {
	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *PebbleBackend) Close() error {
	return p.db.Close()
}
