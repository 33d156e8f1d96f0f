// Package memory implements persistence.KV in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tLat87/VisitTours/internal/persistence"
)

// KV keeps snapshots in a map. Data does not survive a restart.
type KV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

func (kv *KV) Get(_ context.Context, key string) (string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, ok := kv.data[key]
	if !ok {
		return "", persistence.ErrKeyNotFound
	}
	return value, nil
}

func (kv *KV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.data[key] = value
	return nil
}

func (kv *KV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.data, key)
	return nil
}

func (kv *KV) Keys(_ context.Context, prefix string) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	var keys []string
	for key := range kv.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
