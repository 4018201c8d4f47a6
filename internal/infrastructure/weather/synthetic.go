package weather

import (
	"context"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

/**
 * SyntheticProvider 合成天气提供者
 *
 * 完全离线：按本地小时和月份确定性地生成读数，
 * 用于没有网络或测试环境。相同时刻产生相同读数
 */
type SyntheticProvider struct {
	// now 时间源，测试时注入固定时刻
	now func() time.Time
}

/**
 * NewSyntheticProvider 创建合成天气提供者
 */
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{now: time.Now}
}

/**
 * NewSyntheticProviderAt 创建带固定时间源的合成提供者（测试用）
 */
func NewSyntheticProviderAt(now func() time.Time) *SyntheticProvider {
	return &SyntheticProvider{now: now}
}

// 按月份轮换的条件表：每个月一组候选条件，按小时取模选择
var syntheticConditions = [12][]string{
	{"snow", "clouds", "clear"},         // 一月
	{"snow", "clouds", "fog"},           // 二月
	{"clouds", "rain", "clear"},         // 三月
	{"rain", "clouds", "clear"},         // 四月
	{"clear", "clouds", "rain"},         // 五月
	{"clear", "clouds", "thunderstorm"}, // 六月
	{"clear", "thunderstorm", "clouds"}, // 七月
	{"clear", "clouds", "thunderstorm"}, // 八月
	{"clouds", "clear", "rain"},         // 九月
	{"clouds", "rain", "fog"},           // 十月
	{"fog", "clouds", "rain"},           // 十一月
	{"snow", "clouds", "clear"},         // 十二月
}

// 各月的基准温度（摄氏度）
var syntheticBaseTemperature = [12]float64{-2, 0, 6, 12, 18, 23, 27, 26, 21, 14, 7, 1}

/**
 * Current 生成当前时刻的合成天气读数
 *
 * Parameters:
 *   - ctx: 上下文（未使用，保持接口一致）
 *   - location: 地理位置（未使用）
 *
 * Returns: *models.WeatherReading - 确定性的天气读数
 */
func (p *SyntheticProvider) Current(ctx context.Context, location Location) (*models.WeatherReading, error) {
	now := p.now()
	month := int(now.Month()) - 1
	hour := now.Hour()

	conditions := syntheticConditions[month]
	condition := conditions[hour%len(conditions)]

	// 日间升温：正午前后比凌晨高约 6 度
	diurnal := 6.0 * dayCurve(hour)
	temperature := syntheticBaseTemperature[month] + diurnal

	// 湿度随条件变化
	humidity := 55.0
	switch condition {
	case "rain", "thunderstorm":
		humidity = 85
	case "fog":
		humidity = 95
	case "snow":
		humidity = 75
	case "clear":
		humidity = 40
	}

	return &models.WeatherReading{
		Condition:   condition,
		Temperature: temperature,
		Humidity:    humidity,
		Description: "本地合成天气",
		Sunrise:     time.Date(now.Year(), now.Month(), now.Day(), 6, 30, 0, 0, now.Location()),
		Sunset:      time.Date(now.Year(), now.Month(), now.Day(), 18, 30, 0, 0, now.Location()),
		LastUpdated: now,
	}, nil
}

/**
 * Name 提供者名称
 */
func (p *SyntheticProvider) Name() string {
	return "synthetic"
}

// dayCurve 0-23 时的日间温度曲线，正午 1.0，凌晨 0.0
func dayCurve(hour int) float64 {
	distance := hour - 13
	if distance < 0 {
		distance = -distance
	}
	value := 1.0 - float64(distance)/12.0
	if value < 0 {
		value = 0
	}
	return value
}
