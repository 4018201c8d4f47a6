/**
 * Package weather 提供天气数据获取功能
 *
 * 支持 Open-Meteo 在线数据源和本地合成数据源，
 * 统一通过带 TTL 缓存的 Provider 接口对外提供读数
 */

package weather

import (
	"context"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

/**
 * Location 地理位置
 */
type Location struct {
	// Latitude 纬度
	Latitude float64 `json:"latitude" yaml:"latitude"`

	// Longitude 经度
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

/**
 * Provider 天气数据提供者接口
 */
type Provider interface {
	// Current 获取当前天气读数
	Current(ctx context.Context, location Location) (*models.WeatherReading, error)

	// Name 提供者名称（日志与诊断用）
	Name() string
}
