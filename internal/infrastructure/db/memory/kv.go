// Package memory provides an in-process KVStore for development and tests.
// Values do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// KV is a thread-safe map with per-key expiry. Expired keys are dropped
// lazily on access.
type KV struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

var _ ports.KVStore = (*KV)(nil)

func NewKV() *KV {
	return &KV{data: make(map[string]entry), now: time.Now}
}

func (m *KV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.data[key]; ok && cur.expired(m.now()) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return "", ports.ErrKeyNotFound
	}
	return e.value, nil
}

func (m *KV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *KV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Len returns the number of stored keys, expired or not.
func (m *KV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
