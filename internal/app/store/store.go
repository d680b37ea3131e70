/*
Package store implements the local record store shared by every connected tab.

It persists the three logical records of the application (session, user directory, and
message log) as JSON-encoded values in a PebbleDB key-value store, and carries a
subscribe/notify bus keyed by record name. Notifications carry only the record key;
receivers are expected to re-read the full record. Writes use last-writer-wins semantics
with no locking across writers and no conflict detection.
*/
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble/v2"
	"github.com/rs/zerolog"

	"friendhub/internal/pkg/logx"
)

// Record identifies one of the logical records held by the store.
// The values are the storage keys used by the original browser profile.
type Record string

const (
	// RecordSession holds the single active session User, or is absent when logged out.
	RecordSession Record = "friendhub_user"

	// RecordDirectory holds the ordered sequence of registered User records.
	RecordDirectory Record = "friendhub_users_db"

	// RecordLog holds the ordered, capped sequence of chat Message records.
	RecordLog Record = "friendhub_messages"
)

// Store is a local key-value record store with change notifications.
type Store struct {
	db *pebble.DB

	// mu protects the subscriber table.
	mu      sync.RWMutex
	subs    map[int]func(Record)
	nextSub int

	logger zerolog.Logger
}

// Open opens (creating if necessary) the Pebble database at dir and returns the Store.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	storeLogger := logx.Logger().With().Str("component", "Store").Logger()

	return &Store{
		db:     db,
		subs:   make(map[int]func(Record)),
		logger: storeLogger,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads the record into dst. It returns false when the record is absent.
// A record that fails to decode is treated as absent (undefined input policy:
// degrade, never fail the caller).
func (s *Store) Get(rec Record, dst any) (bool, error) {
	value, closer, err := s.db.Get([]byte(rec))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read record %q: %w", rec, err)
	}
	defer closer.Close()

	if err := json.Unmarshal(value, dst); err != nil {
		s.logger.Warn().
			Str("record", string(rec)).
			Err(err).
			Msg("Persisted record is malformed. Treating as absent.")
		return false, nil
	}

	return true, nil
}

// Put JSON-encodes v, persists it synchronously under the record key, and notifies
// all subscribers that the record changed.
func (s *Store) Put(rec Record, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", rec, err)
	}

	if err := s.db.Set([]byte(rec), encoded, pebble.Sync); err != nil {
		return fmt.Errorf("failed to persist record %q: %w", rec, err)
	}

	s.notify(rec)
	return nil
}

// Delete removes the record and notifies all subscribers.
func (s *Store) Delete(rec Record) error {
	if err := s.db.Delete([]byte(rec), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete record %q: %w", rec, err)
	}

	s.notify(rec)
	return nil
}

// Subscribe registers a callback invoked synchronously whenever a record changes.
// The callback receives only the record key and must re-read the record itself.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Record)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify invokes every subscriber with the changed record key.
// Subscribers run synchronously on the mutating goroutine; they must not mutate the
// store from within the callback.
func (s *Store) notify(rec Record) {
	s.mu.RLock()
	callbacks := make([]func(Record), 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn(rec)
	}
}
