package metadata

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/ristretto"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// Cache 元数据响应缓存（进程内，TTL 驱逐）
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// NewCache 创建新的元数据缓存
func NewCache(maxEntries int64, ttl time.Duration) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache{
		client: cache,
		ttl:    ttl,
	}, nil
}

// Set 设置缓存项
func (c *Cache) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.client.SetWithTTL(key, data, 1, c.ttl) {
		// 等待值被实际设置
		c.client.Wait()
	}
	return nil
}

// Get 获取缓存项并反序列化到 dest
func (c *Cache) Get(key string, dest interface{}) error {
	value, found := c.client.Get(key)
	if !found {
		return ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

// Close 关闭缓存
func (c *Cache) Close() {
	c.client.Close()
}
