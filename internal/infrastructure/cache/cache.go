/**
 * Package cache 提供缓存抽象和实现
 *
 * 用于天气读数和 AI 叙述结果的短期缓存
 */

package cache

import (
	"time"
)

/**
 * Cache 缓存接口
 *
 * 定义缓存的基本操作，支持不同实现（内存、持久化等）
 */
type Cache interface {
	// Get 获取缓存值
	// Parameters:
	//   - key: 缓存键
	// Returns: interface{} - 缓存值, bool - 是否找到
	Get(key string) (interface{}, bool)

	// Set 设置缓存值
	// Parameters:
	//   - key: 缓存键
	//   - value: 缓存值
	//   - ttl: 过期时间（0表示永不过期）
	// Returns: error - 错误信息
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete 删除缓存
	// Parameters:
	//   - key: 缓存键
	// Returns: error - 错误信息
	Delete(key string) error

	// Clear 清空所有缓存
	// Returns: error - 错误信息
	Clear() error

	// Count 获取缓存项数量
	// Returns: int - 缓存项数量
	Count() int

	// Stop 停止缓存（清理资源）
	Stop()
}
