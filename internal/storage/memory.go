package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/hpungsan/strategist/internal/errors"
)

// MemoryStore is an in-process Store used by tests and by callers that need
// a vault repository without touching disk. It supports the same quota
// semantics as the SQLite backend plus write-failure injection.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]string
	quota int64

	// failNext, when non-nil, is returned by the next Set call (then cleared).
	failNext error
}

// NewMemoryStore creates an empty MemoryStore. A quota of 0 disables the
// quota check entirely.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]string),
		quota: quota,
	}
}

// FailNextSet makes the next Set call fail with err without mutating state.
func (m *MemoryStore) FailNextSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Get returns the value stored under key, with ok=false when absent.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

// Set writes value under key, honoring injected failures and the quota.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	if m.quota > 0 {
		var usage int64
		for k, v := range m.slots {
			if k == key {
				continue
			}
			usage += int64(len(k)) + int64(len(v))
		}
		attempted := usage + int64(len(key)) + int64(len(value))
		if attempted > m.quota {
			return errors.NewQuotaExceeded(m.quota, attempted)
		}
	}

	m.slots[key] = value
	return nil
}

// Delete removes the slot for key. Missing keys are a no-op.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// Keys returns all keys with the given prefix, sorted.
func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.slots {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored slots.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
