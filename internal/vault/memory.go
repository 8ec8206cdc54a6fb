package vault

import "sync"

// MemoryVault is a non-durable Vault used by tests and throwaway sessions.
type MemoryVault struct {
	mu      sync.RWMutex
	entries map[string]string

	// FailSet, when set, makes Set return it. FailSetKey narrows the
	// failure to a single key; empty fails every key.
	FailSet    error
	FailSetKey string
	// FailDelete, when set, makes every Delete return it.
	FailDelete error
}

func NewMemory() *MemoryVault {
	return &MemoryVault{entries: map[string]string{}}
}

func (v *MemoryVault) Get(key string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (v *MemoryVault) Set(key, value string) error {
	if v.FailSet != nil && (v.FailSetKey == "" || key == v.FailSetKey) {
		return v.FailSet
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[key] = value
	return nil
}

func (v *MemoryVault) Delete(key string) error {
	if v.FailDelete != nil {
		return v.FailDelete
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, key)
	return nil
}

func (v *MemoryVault) Close() error {
	return nil
}
