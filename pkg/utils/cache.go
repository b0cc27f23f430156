package utils

import (
	"sync"
	"time"
)

// Cache 带过期时间的内存缓存
// 使用 sync.Map 保证并发安全；ttl <= 0 时不缓存任何内容
type Cache struct {
	items sync.Map
	ttl   time.Duration
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      string
	expiration time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Enabled nil 或 ttl <= 0 视为关闭
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Set 设置缓存
func (c *Cache) Set(key, value string) {
	if !c.Enabled() {
		return
	}
	c.items.Store(key, cacheItem{
		value:      value,
		expiration: c.now().Add(c.ttl),
	})
}

// Get 获取缓存并验证是否过期
func (c *Cache) Get(key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	val, ok := c.items.Load(key)
	if !ok {
		return "", false
	}

	item := val.(cacheItem)
	if c.now().After(item.expiration) {
		c.items.Delete(key) // 懒删除
		return "", false
	}

	return item.value, true
}
