package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMemoryCache_SetGet 测试基本读写
func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	assert.NoError(t, c.Set("key", "value", 0))

	got, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", got)

	_, found = c.Get("missing")
	assert.False(t, found)
}

// TestMemoryCache_TTL 测试过期语义
func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	assert.NoError(t, c.Set("short", "value", 10*time.Millisecond))

	_, found := c.Get("short")
	assert.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found = c.Get("short")
	assert.False(t, found, "过期项应视为未命中")
}

// TestMemoryCache_DeleteClearCount 测试删除与清空
func TestMemoryCache_DeleteClearCount(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Stop()

	_ = c.Set("a", 1, 0)
	_ = c.Set("b", 2, 0)
	assert.Equal(t, 2, c.Count())

	assert.NoError(t, c.Delete("a"))
	assert.Equal(t, 1, c.Count())

	assert.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Count())
}

// TestMemoryCache_StopIdempotent 测试重复停止不崩溃
func TestMemoryCache_StopIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	c.Stop()
	c.Stop()
}
