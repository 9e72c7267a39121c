package crawler

import (
	"context"
	"sync"
	"time"

	"sjsage522/robotscraper/services/cache"
	"sjsage522/robotscraper/services/llm"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu     sync.Mutex
	cache  map[string][]byte
	sets   int
	setErr error
}

// Ensure MockCacheService implements cache.CacheService
var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, &mockError{message: "cache miss"}
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.cache[key] = value
	m.sets++
	return nil
}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// MockGenerator returns a canned generation and records the prompts it saw
type MockGenerator struct {
	mu         sync.Mutex
	generation *llm.Generation
	err        error
	prompts    []string
	deadline   bool
}

// Ensure MockGenerator implements llm.Generator
var _ llm.Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (*llm.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return m.generation, nil
}
