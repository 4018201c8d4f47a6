package weather

import (
	"fmt"
	"time"
)

/**
 * Config 天气子系统配置
 */
type Config struct {
	// Provider 数据源：open-meteo 或 synthetic
	Provider string

	// Location 地理位置
	Location Location

	// CacheTTL 读数缓存有效期
	CacheTTL time.Duration

	// Timeout 在线请求超时
	Timeout time.Duration
}

/**
 * DefaultConfig 默认天气配置
 */
func DefaultConfig() Config {
	return Config{
		Provider: "synthetic",
		CacheTTL: 30 * time.Minute,
		Timeout:  10 * time.Second,
	}
}

/**
 * NewProvider 按配置创建天气提供者（已包缓存装饰）
 *
 * Parameters:
 *   - config: 天气配置
 *
 * Returns: Provider - 提供者实例, error - 不支持的数据源错误
 */
func NewProvider(config Config) (Provider, error) {
	var upstream Provider

	switch config.Provider {
	case "open-meteo":
		upstream = NewOpenMeteoProvider(OpenMeteoConfig{Timeout: config.Timeout})
	case "synthetic", "":
		upstream = NewSyntheticProvider()
	default:
		return nil, fmt.Errorf("不支持的天气数据源: %s", config.Provider)
	}

	return NewCachedProvider(upstream, config.CacheTTL)
}
