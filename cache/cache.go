package cache

import "time"

type Cache struct {
	Cache ICache
}

// ICache is a byte cache; Get returns schema.ErrNotExist on a miss.
type ICache interface {
	Set(key string, entry []byte) error

	Get(key string) ([]byte, error)

	Delete(key string) error

	Close() error
}

func NewLocalCache(allKeysExpTime time.Duration) (*Cache, error) {
	cache, err := NewBigCache(allKeysExpTime)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: cache}, nil
}
