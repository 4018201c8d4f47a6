package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 默认配置完整且自洽
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "WallMind", cfg.Application.Name)
	assert.Equal(t, 30.0, cfg.Recommender.MinScore)
	assert.Equal(t, 3, cfg.Recommender.TopN)
	assert.Equal(t, "synthetic", cfg.Weather.Provider)
	assert.False(t, cfg.AI.Enabled)
	assert.NotEmpty(t, cfg.Storage.SQLite.Path)
	assert.NotEmpty(t, cfg.Logging.File.Path)
}

// TestLoadFromFile 显式字段覆盖默认值，未设置的字段保持默认
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
application:
  name: WallMind
  debug: true
recommender:
  min_score: 40
  top_n: 5
weather:
  provider: open-meteo
  latitude: 35.69
  longitude: 139.69
  cache_ttl: 15m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Application.Debug)
	assert.Equal(t, 40.0, cfg.Recommender.MinScore)
	assert.Equal(t, 5, cfg.Recommender.TopN)
	assert.Equal(t, "open-meteo", cfg.Weather.Provider)
	assert.Equal(t, 35.69, cfg.Weather.Latitude)
	assert.Equal(t, 15*time.Minute, cfg.Weather.CacheTTLDuration())

	// 未设置的字段保持默认
	assert.Equal(t, 7*24*time.Hour, cfg.Recommender.RecencyWindowDuration())
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AI.Claude.Model)
}

// TestParseDuration 非法或空时长回退默认值
func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Hour, parseDuration("", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("not-a-duration", time.Hour))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Hour))
}

// TestLoadFromFile_Invalid 非法 YAML 报错
func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

// TestLoadFromFile_Missing 缺失文件报错
func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

// TestExpandPath 路径展开：~ 前缀和环境变量
func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(homeDir, ".wallmind"), expandPath("~/.wallmind"))

	t.Setenv("WALLMIND_TEST_DIR", "/data")
	assert.Equal(t, "/data/wallmind.db", expandPath("${WALLMIND_TEST_DIR}/wallmind.db"))

	assert.Equal(t, "/absolute/path", expandPath("/absolute/path"))
}

// TestExpandEnvVars API 密钥从环境变量回退
func TestExpandEnvVars_APIKey(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "sk-test")

	cfg := Default()
	expandEnvVars(cfg)

	assert.Equal(t, "sk-test", cfg.AI.Claude.APIKey)

	// 配置文件中已有密钥时不覆盖
	cfg2 := Default()
	cfg2.AI.Claude.APIKey = "sk-explicit"
	expandEnvVars(cfg2)
	assert.Equal(t, "sk-explicit", cfg2.AI.Claude.APIKey)
}
