/**
 * Package cache 缓存实现
 *
 * 提供基于内存的缓存实现，支持 TTL 和定期清理
 */

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

/**
 * cacheItem 缓存项
 */
type cacheItem struct {
	// value 缓存值
	value interface{}

	// expiration 过期时间（零值表示永不过期）
	expiration time.Time
}

/**
 * isExpired 检查缓存项是否过期
 * Returns: bool - true表示已过期
 */
func (item *cacheItem) isExpired() bool {
	if item.expiration.IsZero() {
		return false
	}
	return time.Now().After(item.expiration)
}

/**
 * MemoryCache 内存缓存实现
 *
 * 特性：
 * - 并发安全（使用 sync.Map）
 * - TTL 支持
 * - 定期清理过期项
 */
type MemoryCache struct {
	// items 缓存项映射
	items *sync.Map

	// cleanupInterval 清理间隔
	cleanupInterval time.Duration

	// ctx 上下文
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// stopped 是否已停止
	stopped bool
	mu      sync.Mutex
}

/**
 * NewMemoryCache 创建内存缓存
 *
 * Parameters:
 *   - cleanupInterval: 清理间隔（0 表示不定期清理）
 *
 * Returns: *MemoryCache - 内存缓存实例
 */
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())

	cache := &MemoryCache{
		items:           &sync.Map{},
		cleanupInterval: cleanupInterval,
		ctx:             ctx,
		cancel:          cancel,
	}

	if cleanupInterval > 0 {
		cache.wg.Add(1)
		go cache.cleanupLoop()
		logger.Debug("内存缓存已启动",
			zap.Duration("cleanup_interval", cleanupInterval))
	}

	return cache
}

/**
 * Get 获取缓存值
 *
 * 已过期的缓存项视为未命中并被删除
 */
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	raw, ok := c.items.Load(key)
	if !ok {
		return nil, false
	}

	item := raw.(*cacheItem)
	if item.isExpired() {
		c.items.Delete(key)
		return nil, false
	}

	return item.value, true
}

/**
 * Set 设置缓存值
 */
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	item := &cacheItem{value: value}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	c.items.Store(key, item)
	return nil
}

/**
 * Delete 删除缓存
 */
func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

/**
 * Clear 清空所有缓存
 */
func (c *MemoryCache) Clear() error {
	c.items = &sync.Map{}
	return nil
}

/**
 * Count 获取缓存项数量
 */
func (c *MemoryCache) Count() int {
	count := 0
	c.items.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

/**
 * Stop 停止缓存
 *
 * 取消清理循环并等待退出，可安全地重复调用
 */
func (c *MemoryCache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true

	c.cancel()
	c.wg.Wait()
}

/**
 * cleanupLoop 定期清理过期项
 */
func (c *MemoryCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

/**
 * removeExpired 删除所有已过期的缓存项
 */
func (c *MemoryCache) removeExpired() {
	removed := 0
	c.items.Range(func(key, raw interface{}) bool {
		if raw.(*cacheItem).isExpired() {
			c.items.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		logger.Debug("清理过期缓存项", zap.Int("removed", removed))
	}
}
