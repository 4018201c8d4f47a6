package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrKeyNotFound 请求的键不存在
var ErrKeyNotFound = errors.New("键不存在")

/**
 * KVStore 键值存储接口
 *
 * 画像、交互日志和壁纸目录都以 JSON 整体快照的形式读写；
 * 单条记录的体量很小，整体替换比逐行更新更简单且天然原子
 */
type KVStore interface {
	// Get 读取键对应的 JSON 值，键不存在时返回 ErrKeyNotFound
	Get(key string) ([]byte, error)

	// Set 写入键值，键已存在时整体替换
	Set(key string, value []byte) error

	// Delete 删除键，键不存在时静默成功
	Delete(key string) error

	// Close 关闭底层资源
	Close() error
}

/**
 * SQLiteKVStore 基于 SQLite 的键值存储实现
 */
type SQLiteKVStore struct {
	db *sql.DB
}

/**
 * NewSQLiteKVStore 创建 SQLite 键值存储
 *
 * Parameters:
 *   - db: 已完成迁移的数据库连接
 *
 * Returns: *SQLiteKVStore - 存储实例, error - 错误信息
 */
func NewSQLiteKVStore(db *sql.DB) (*SQLiteKVStore, error) {
	if db == nil {
		return nil, fmt.Errorf("数据库连接不能为空")
	}
	return &SQLiteKVStore{db: db}, nil
}

/**
 * Get 读取键对应的 JSON 值
 */
func (s *SQLiteKVStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取键 %s 失败: %w", key, err)
	}
	return value, nil
}

/**
 * Set 写入键值（UPSERT）
 */
func (s *SQLiteKVStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("写入键 %s 失败: %w", key, err)
	}
	return nil
}

/**
 * Delete 删除键
 */
func (s *SQLiteKVStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("删除键 %s 失败: %w", key, err)
	}
	return nil
}

/**
 * Close 关闭数据库连接
 */
func (s *SQLiteKVStore) Close() error {
	return s.db.Close()
}

/**
 * MemoryKVStore 内存键值存储
 *
 * 用于测试和无持久化需求的场景
 */
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

/**
 * NewMemoryKVStore 创建内存键值存储
 */
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string][]byte)}
}

func (s *MemoryKVStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	// 返回副本，避免调用方修改内部状态
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (s *MemoryKVStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	s.data[key] = copied
	return nil
}

func (s *MemoryKVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryKVStore) Close() error {
	return nil
}
