package store

import (
	"sync"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// Store is an in-memory mapping from key to a versioned entry. It is the
// single source of truth on every node and is shared by all concurrently
// handled requests, so every mutation runs under the store mutex.
//
// A single lock over the whole map keeps the leader's read-increment-write
// sequence and the follower's check-then-write sequence atomic; two
// concurrent operations on the same key are always linearized.
type Store struct {
	mu   sync.RWMutex
	data map[string]types.Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]types.Entry)}
}

// Get returns the entry for key, copying the value so callers never alias
// stored state.
func (s *Store) Get(key string) (types.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return types.Entry{}, false
	}
	return copyEntry(e), true
}

// Set unconditionally overwrites the entry for key. Used by the leader
// for its own locally committed writes.
func (s *Store) Set(key string, value []byte, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = types.Entry{Value: append([]byte(nil), value...), Version: version}
}

// Commit assigns the next version for key and stores value under it,
// returning the new version. The read-increment-write sequence is a
// single critical section: two concurrent writers to the same key can
// never observe the same current version.
func (s *Store) Commit(key string, value []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.data[key].Version + 1
	s.data[key] = types.Entry{Value: append([]byte(nil), value...), Version: version}
	return version
}

// ApplyIfNewer writes the entry only if no entry exists for key or the
// incoming version is strictly greater than the stored one. It reports
// whether the write was applied. A false return is the normal outcome for
// a stale or duplicate delivery, never a fault.
func (s *Store) ApplyIfNewer(key string, value []byte, version int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.data[key]; ok && version <= current.Version {
		return false
	}
	s.data[key] = types.Entry{Value: append([]byte(nil), value...), Version: version}
	return true
}

// Snapshot returns a coherent point-in-time copy of the whole store.
func (s *Store) Snapshot() map[string]types.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]types.Entry, len(s.data))
	for k, e := range s.data {
		out[k] = copyEntry(e)
	}
	return out
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func copyEntry(e types.Entry) types.Entry {
	return types.Entry{
		Value:   append([]byte(nil), e.Value...),
		Version: e.Version,
	}
}
