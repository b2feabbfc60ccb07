package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryObject struct {
	ContentType string
	Data        []byte
}

// MemoryStore keeps objects in a map. Used in development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*memoryObject
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*memoryObject),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *MemoryStore) Put(_ context.Context, in *PutInput) (string, error) {
	data, err := io.ReadAll(in.Data)
	if err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[in.Key] = &memoryObject{ContentType: in.ContentType, Data: data}
	return s.urlFor(in.Key), nil
}

func (s *MemoryStore) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL+"/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object not found: %s", key)
	}
	delete(s.objects, key)
	return nil
}

// Get returns a stored object by key.
func (s *MemoryStore) Get(key string) (contentType string, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return "", nil, false
	}
	return obj.ContentType, obj.Data, true
}

// Keys lists stored object keys.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) urlFor(key string) string {
	return s.baseURL + "/" + key
}
