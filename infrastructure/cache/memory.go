package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-process backend when no size is configured.
const DefaultMaxEntries = 100

// MemoryBackend is a bounded in-process map. Once the entry count exceeds
// the limit the oldest inserted key is dropped; reads do not refresh order.
type MemoryBackend struct {
	mu         sync.Mutex
	maxEntries int
	items      map[string]*list.Element
	order      *list.List
}

type memoryEntry struct {
	key   string
	value []byte
}

// NewMemoryBackend creates an in-process backend holding at most maxEntries.
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryBackend{
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (m *MemoryBackend) Name() string { return "memory" }

// Capacity returns the configured entry limit.
func (m *MemoryBackend) Capacity() int { return m.maxEntries }

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return elem.Value.(*memoryEntry).value, nil
}

// Set stores value. Expiry is left to the Store's logical check, so ttl is unused.
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		// overwrite keeps the original insertion position
		elem.Value.(*memoryEntry).value = value
		return nil
	}
	m.items[key] = m.order.PushBack(&memoryEntry{key: key, value: value})
	for m.order.Len() > m.maxEntries {
		oldest := m.order.Front()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		m.order.Remove(elem)
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryBackend) Len(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len(), nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }
