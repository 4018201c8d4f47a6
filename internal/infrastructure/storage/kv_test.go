package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryKVStore_SetGet 基本读写
func TestMemoryKVStore_SetGet(t *testing.T) {
	store := NewMemoryKVStore()

	require.NoError(t, store.Set("key", []byte(`{"a":1}`)))

	value, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), value)
}

// TestMemoryKVStore_NotFound 缺失键返回 ErrKeyNotFound
func TestMemoryKVStore_NotFound(t *testing.T) {
	store := NewMemoryKVStore()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// TestMemoryKVStore_Overwrite 重复写入整体替换
func TestMemoryKVStore_Overwrite(t *testing.T) {
	store := NewMemoryKVStore()

	require.NoError(t, store.Set("key", []byte("v1")))
	require.NoError(t, store.Set("key", []byte("v2")))

	value, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

// TestMemoryKVStore_Delete 删除后键不可见，重复删除静默成功
func TestMemoryKVStore_Delete(t *testing.T) {
	store := NewMemoryKVStore()

	require.NoError(t, store.Set("key", []byte("v")))
	require.NoError(t, store.Delete("key"))

	_, err := store.Get("key")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, store.Delete("key"))
}

// TestMemoryKVStore_GetReturnsCopy 返回值是副本，修改不影响存储
func TestMemoryKVStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryKVStore()
	require.NoError(t, store.Set("key", []byte("abc")))

	value, err := store.Get("key")
	require.NoError(t, err)
	value[0] = 'x'

	again, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

// TestSQLiteKVStore 内存 SQLite 上的完整读写路径
func TestSQLiteKVStore(t *testing.T) {
	db, err := NewSQLiteDB(DefaultSQLiteConfig(":memory:"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))

	store, err := NewSQLiteKVStore(db)
	require.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set("key", []byte(`{"a":1}`)))
	value, err := store.Get("key")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(value))

	require.NoError(t, store.Set("key", []byte(`{"a":2}`)))
	value, err = store.Get("key")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(value))

	require.NoError(t, store.Delete("key"))
	_, err = store.Get("key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// TestRunMigrations_Idempotent 迁移重复执行不报错
func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := NewSQLiteDB(DefaultSQLiteConfig(":memory:"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
}

// TestNewSQLiteKVStore_NilDB 空连接构造失败
func TestNewSQLiteKVStore_NilDB(t *testing.T) {
	_, err := NewSQLiteKVStore(nil)
	assert.Error(t, err)
}
