package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

// Open-Meteo 免费接口，无需 API Key
const defaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

/**
 * OpenMeteoConfig Open-Meteo 提供者配置
 */
type OpenMeteoConfig struct {
	// BaseURL 接口地址（留空使用官方地址）
	BaseURL string

	// Timeout 请求超时
	Timeout time.Duration
}

/**
 * DefaultOpenMeteoConfig 默认配置
 */
func DefaultOpenMeteoConfig() OpenMeteoConfig {
	return OpenMeteoConfig{
		BaseURL: defaultOpenMeteoBaseURL,
		Timeout: 10 * time.Second,
	}
}

/**
 * OpenMeteoProvider Open-Meteo 天气提供者
 */
type OpenMeteoProvider struct {
	config OpenMeteoConfig
	client *http.Client
}

/**
 * NewOpenMeteoProvider 创建 Open-Meteo 提供者
 *
 * Parameters:
 *   - config: 提供者配置
 *
 * Returns: *OpenMeteoProvider - 提供者实例
 */
func NewOpenMeteoProvider(config OpenMeteoConfig) *OpenMeteoProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenMeteoBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &OpenMeteoProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// openMeteoResponse Open-Meteo 接口响应结构（只取需要的字段）
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

/**
 * Current 获取当前天气读数
 *
 * Parameters:
 *   - ctx: 上下文
 *   - location: 地理位置
 *
 * Returns: *models.WeatherReading - 天气读数, error - 错误信息
 */
func (p *OpenMeteoProvider) Current(ctx context.Context, location Location) (*models.WeatherReading, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", location.Latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", location.Longitude))
	query.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	query.Set("daily", "sunrise,sunset")
	query.Set("forecast_days", "1")
	query.Set("timezone", "auto")

	requestURL := p.config.BaseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构建天气请求失败: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求天气数据失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("天气接口返回异常状态 %d: %s", resp.StatusCode, string(body))
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("解析天气响应失败: %w", err)
	}

	reading := &models.WeatherReading{
		Condition:   conditionFromWMOCode(payload.Current.WeatherCode),
		Temperature: payload.Current.Temperature,
		Humidity:    payload.Current.Humidity,
		Description: describeWMOCode(payload.Current.WeatherCode),
		LastUpdated: time.Now(),
	}

	// Open-Meteo 按 timezone=auto 返回本地时间字符串
	if len(payload.Daily.Sunrise) > 0 {
		if sunrise, err := time.ParseInLocation("2006-01-02T15:04", payload.Daily.Sunrise[0], time.Local); err == nil {
			reading.Sunrise = sunrise
		}
	}
	if len(payload.Daily.Sunset) > 0 {
		if sunset, err := time.ParseInLocation("2006-01-02T15:04", payload.Daily.Sunset[0], time.Local); err == nil {
			reading.Sunset = sunset
		}
	}

	logger.Debug("获取天气数据成功",
		zap.String("condition", reading.Condition),
		zap.Float64("temperature", reading.Temperature),
		zap.Int("wmo_code", payload.Current.WeatherCode))

	return reading, nil
}

/**
 * Name 提供者名称
 */
func (p *OpenMeteoProvider) Name() string {
	return "open-meteo"
}

/**
 * conditionFromWMOCode 把 WMO 天气代码映射为规范条件名
 *
 * 规范条件集合与评分器的特征表一致：
 * clear / clouds / rain / snow / thunderstorm / fog
 */
func conditionFromWMOCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "clouds"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain"
	case code == 85 || code == 86:
		return "snow"
	case code >= 95 && code <= 99:
		return "thunderstorm"
	default:
		return "clouds"
	}
}

/**
 * describeWMOCode WMO 代码的中文描述
 */
func describeWMOCode(code int) string {
	switch {
	case code == 0:
		return "晴朗"
	case code >= 1 && code <= 3:
		return "多云"
	case code == 45 || code == 48:
		return "有雾"
	case code >= 51 && code <= 57:
		return "毛毛雨"
	case code >= 61 && code <= 67:
		return "降雨"
	case code >= 71 && code <= 77:
		return "降雪"
	case code >= 80 && code <= 82:
		return "阵雨"
	case code == 85 || code == 86:
		return "阵雪"
	case code >= 95 && code <= 99:
		return "雷暴"
	default:
		return "未知天气"
	}
}
