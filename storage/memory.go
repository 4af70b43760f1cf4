package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryClient keeps objects in a map. Test double.
type MemoryClient struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailPut makes every Put return an error, for exercising the
	// all-or-nothing upload path.
	FailPut bool
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{objects: map[string][]byte{}}
}

func (m *MemoryClient) Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error {
	if m.FailPut {
		return fmt.Errorf("upload of %s refused", key)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemoryClient) Remove(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.objects, key)
	}
	return nil
}

func (m *MemoryClient) PublicURL(key string) string {
	return "mem://" + key
}

func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MemoryClient) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
