/**
 * Package config 提供配置管理功能
 *
 * 负责加载和管理应用的配置信息
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

/**
 * Config 应用配置结构体
 *
 * 包含应用的所有可配置参数
 */
type Config struct {
	// Application 应用基本配置
	Application ApplicationConfig `yaml:"application"`

	// Recommender 推荐引擎配置
	Recommender RecommenderConfig `yaml:"recommender"`

	// Weather 天气配置
	Weather WeatherConfig `yaml:"weather"`

	// AI AI 配置
	AI AIConfig `yaml:"ai"`

	// Storage 存储配置
	Storage StorageConfig `yaml:"storage"`

	// Logging 日志配置
	Logging LoggingConfig `yaml:"logging"`
}

/**
 * ApplicationConfig 应用基本配置
 */
type ApplicationConfig struct {
	/** 应用名称 */
	Name string `yaml:"name"`

	/** 应用版本 */
	Version string `yaml:"version"`

	/** 日志级别 */
	LogLevel string `yaml:"log_level"`

	/** 是否启用调试模式 */
	Debug bool `yaml:"debug"`
}

/**
 * RecommenderConfig 推荐引擎配置
 */
type RecommenderConfig struct {
	/** 综合分保留阈值 */
	MinScore float64 `yaml:"min_score"`

	/** 加权随机选择的头部候选数 */
	TopN int `yaml:"top_n"`

	/** 近期惩罚窗口（如 168h） */
	RecencyWindow string `yaml:"recency_window"`

	/** 偏好分类列表（影响分类因子的排序得分） */
	PreferredCategories []string `yaml:"preferred_categories"`

	/** 自动更换间隔（如 1h） */
	ChangeInterval string `yaml:"change_interval"`
}

/**
 * RecencyWindowDuration 解析近期惩罚窗口，非法值回退 7 天
 */
func (c RecommenderConfig) RecencyWindowDuration() time.Duration {
	return parseDuration(c.RecencyWindow, 7*24*time.Hour)
}

/**
 * ChangeIntervalDuration 解析自动更换间隔，非法值回退 1 小时
 */
func (c RecommenderConfig) ChangeIntervalDuration() time.Duration {
	return parseDuration(c.ChangeInterval, time.Hour)
}

/**
 * WeatherConfig 天气配置
 */
type WeatherConfig struct {
	/** 数据源：open-meteo 或 synthetic */
	Provider string `yaml:"provider"`

	/** 纬度 */
	Latitude float64 `yaml:"latitude"`

	/** 经度 */
	Longitude float64 `yaml:"longitude"`

	/** 读数缓存有效期（如 30m） */
	CacheTTL string `yaml:"cache_ttl"`

	/** 在线请求超时（如 10s） */
	Timeout string `yaml:"timeout"`
}

/**
 * CacheTTLDuration 解析读数缓存有效期，非法值回退 30 分钟
 */
func (c WeatherConfig) CacheTTLDuration() time.Duration {
	return parseDuration(c.CacheTTL, 30*time.Minute)
}

/**
 * TimeoutDuration 解析请求超时，非法值回退 10 秒
 */
func (c WeatherConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

/**
 * AIConfig AI 配置
 */
type AIConfig struct {
	/** 是否启用 AI 洞察叙述 */
	Enabled bool `yaml:"enabled"`

	/** AI 提供商 */
	Provider string `yaml:"provider"`

	/** Claude 配置 */
	Claude ClaudeConfig `yaml:"claude"`

	/** 缓存配置 */
	Cache CacheConfig `yaml:"cache"`
}

/**
 * ClaudeConfig Claude API 配置
 */
type ClaudeConfig struct {
	/** API 密钥 */
	APIKey string `yaml:"api_key"`

	/** 使用的模型 */
	Model string `yaml:"model"`

	/** 最大 token 数 */
	MaxTokens int `yaml:"max_tokens"`

	/** 温度参数 */
	Temperature float64 `yaml:"temperature"`
}

/**
 * CacheConfig 缓存配置
 */
type CacheConfig struct {
	/** 是否启用缓存 */
	Enabled bool `yaml:"enabled"`

	/** 缓存过期时间（如 24h） */
	TTL string `yaml:"ttl"`
}

/**
 * TTLDuration 解析缓存过期时间，非法值回退 24 小时
 */
func (c CacheConfig) TTLDuration() time.Duration {
	return parseDuration(c.TTL, 24*time.Hour)
}

/**
 * StorageConfig 存储配置
 */
type StorageConfig struct {
	/** SQLite 配置 */
	SQLite SQLiteConfig `yaml:"sqlite"`
}

/**
 * SQLiteConfig SQLite 配置
 */
type SQLiteConfig struct {
	/** 数据库文件路径 */
	Path string `yaml:"path"`

	/** 最大打开连接数 */
	MaxOpenConns int `yaml:"max_open_conns"`

	/** 最大空闲连接数 */
	MaxIdleConns int `yaml:"max_idle_conns"`

	/** 连接最大生命周期（如 1h） */
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

/**
 * ConnMaxLifetimeDuration 解析连接最大生命周期，非法值回退 1 小时
 */
func (c SQLiteConfig) ConnMaxLifetimeDuration() time.Duration {
	return parseDuration(c.ConnMaxLifetime, time.Hour)
}

/**
 * LoggingConfig 日志配置
 */
type LoggingConfig struct {
	/** 日志级别 */
	Level string `yaml:"level"`

	/** 日志格式 */
	Format string `yaml:"format"`

	/** 输出目标 */
	Output string `yaml:"output"`

	/** 文件配置 */
	File FileConfig `yaml:"file"`
}

/**
 * FileConfig 文件配置
 */
type FileConfig struct {
	/** 日志文件路径 */
	Path string `yaml:"path"`

	/** 最大文件大小（MB） */
	MaxSize int `yaml:"max_size"`

	/** 最大备份文件数 */
	MaxBackups int `yaml:"max_backups"`

	/** 最大保留天数 */
	MaxAge int `yaml:"max_age"`

	/** 是否压缩 */
	Compress bool `yaml:"compress"`
}

/**
 * Load 加载配置文件
 *
 * 从 ~/.wallmind/config.yaml 加载配置；文件不存在时使用默认配置
 *
 * Returns:
 *   - *Config: 加载的配置
 *   - error: 错误信息
 */
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ".wallmind", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := Default()
		expandEnvVars(config)
		return config, nil
	}

	return LoadFromFile(configPath)
}

/**
 * LoadFromFile 从指定路径加载配置
 *
 * 未显式设置的字段保持默认值
 *
 * Parameters:
 *   - path: 配置文件路径
 *
 * Returns: *Config - 加载的配置, error - 错误信息
 */
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	expandEnvVars(config)

	return config, nil
}

/**
 * Default 默认配置
 *
 * Returns: *Config - 默认配置
 */
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:     "WallMind",
			Version:  "1.0.0",
			LogLevel: "info",
		},
		Recommender: RecommenderConfig{
			MinScore:            30,
			TopN:                3,
			RecencyWindow:       "168h",
			PreferredCategories: []string{"Auto", "Natura", "Urban", "Abstract"},
			ChangeInterval:      "1h",
		},
		Weather: WeatherConfig{
			Provider: "synthetic",
			CacheTTL: "30m",
			Timeout:  "10s",
		},
		AI: AIConfig{
			Enabled:  false,
			Provider: "claude",
			Claude: ClaudeConfig{
				Model:     "claude-3-5-sonnet-20241022",
				MaxTokens: 1024,
			},
			Cache: CacheConfig{
				Enabled: true,
				TTL:     "24h",
			},
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path:            "~/.wallmind/wallmind.db",
				MaxOpenConns:    4,
				MaxIdleConns:    2,
				ConnMaxLifetime: "1h",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "file",
			File: FileConfig{
				Path:       "~/.wallmind/logs/wallmind.log",
				MaxSize:    10,
				MaxBackups: 5,
				MaxAge:     30,
				Compress:   true,
			},
		},
	}
}

/**
 * expandEnvVars 展开环境变量与主目录占位符
 *
 * 路径字段支持 ${VAR} 占位符和 ~ 前缀
 *
 * Parameters:
 *   - config: 配置对象
 */
func expandEnvVars(config *Config) {
	config.Storage.SQLite.Path = expandPath(config.Storage.SQLite.Path)
	config.Logging.File.Path = expandPath(config.Logging.File.Path)

	if config.AI.Claude.APIKey == "" {
		config.AI.Claude.APIKey = os.Getenv("CLAUDE_API_KEY")
	}
}

/**
 * expandPath 展开路径中的环境变量和 ~ 前缀
 */
func expandPath(path string) string {
	expanded := os.ExpandEnv(path)
	if len(expanded) > 0 && expanded[0] == '~' {
		if homeDir, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(homeDir, expanded[1:])
		}
	}
	return expanded
}

/**
 * parseDuration 解析时长字符串，解析失败返回回退值
 */
func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
