package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// maxItemSize is memcached's default item size limit
const maxItemSize = 1024 * 1024

// ErrValueTooLarge is returned by Set for values memcached would refuse
var ErrValueTooLarge = errors.New("cache: value exceeds item size limit")

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string, timeout time.Duration) *MemcacheService {
	client := memcache.New(serverAddr)
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &MemcacheService{
		client: client,
	}
}

// Ping checks that the server is reachable
func (m *MemcacheService) Ping() error {
	return m.client.Ping()
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time. Values over the item size
// limit are rejected without a round trip.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	if len(value) > maxItemSize {
		return ErrValueTooLarge
	}
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}
