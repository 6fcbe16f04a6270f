package rmsclient

import (
	"context"
	"sync"
)

// MemoryStore is an in-process incident-field store used when no RMS
// base URL is configured (standalone deployments) and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	fields map[string]map[string]string // incidentID -> field -> value
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fields: make(map[string]map[string]string)}
}

// GetTimestampField returns the stored value, or "" when unset.
func (m *MemoryStore) GetTimestampField(_ context.Context, incidentID, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fields[incidentID][field], nil
}

// SetTimestampField stores the value.
func (m *MemoryStore) SetTimestampField(_ context.Context, incidentID, field, valueISO string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fields[incidentID] == nil {
		m.fields[incidentID] = make(map[string]string)
	}
	m.fields[incidentID][field] = valueISO
	return nil
}
