package providerfactory

import (
	"sort"
	"sync"
)

// KeyStore is the process-wide mapping from provider identifier to a
// default API key. It is consulted when an inbound request omits its own
// key, and mutated by the configure action and the /configure endpoint.
//
// The store is shared across all sessions; updates are last-write-wins per
// provider and safe under concurrent access. It is constructed once in the
// command layer and injected, never reached through a package global.
type KeyStore struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewKeyStore creates an empty credential store.
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string]string),
	}
}

// Update merges the given entries into the store, overwriting existing
// keys for the same provider. It returns the sorted list of provider
// identifiers that were set.
func (ks *KeyStore) Update(apiKeys map[string]string) []string {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	configured := make([]string, 0, len(apiKeys))
	for name, key := range apiKeys {
		ks.keys[name] = key
		configured = append(configured, name)
	}
	sort.Strings(configured)

	return configured
}

// Lookup returns the stored key for the named provider.
func (ks *KeyStore) Lookup(name string) (string, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	key, ok := ks.keys[name]
	return key, ok
}

// Names returns the sorted provider identifiers that currently have keys.
func (ks *KeyStore) Names() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	names := make([]string, 0, len(ks.keys))
	for name := range ks.keys {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
