/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * 天气映射：将天气读数转换为评分引擎可用的标签和氛围
 */

package recommender

import (
	"strings"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

/**
 * WeatherTraits 天气条件的固定特征
 */
type WeatherTraits struct {
	// Icon 展示图标
	Icon string

	// Tags 该天气条件关联的壁纸标签
	Tags []string

	// Mood 该天气条件关联的氛围
	Mood models.Mood
}

/**
 * weatherTraits 规范天气条件 → 特征表
 */
var weatherTraits = map[string]WeatherTraits{
	"clear": {
		Icon: "☀️",
		Tags: []string{"sunny", "bright", "blue", "clear"},
		Mood: models.MoodEnergetic,
	},
	"clouds": {
		Icon: "☁️",
		Tags: []string{"cloudy", "soft", "grey", "overcast"},
		Mood: models.MoodCalm,
	},
	"rain": {
		Icon: "🌧️",
		Tags: []string{"rain", "drops", "wet", "cozy"},
		Mood: models.MoodCalm,
	},
	"snow": {
		Icon: "❄️",
		Tags: []string{"snow", "white", "frost", "crystal"},
		Mood: models.MoodPeaceful,
	},
	"thunderstorm": {
		Icon: "⛈️",
		Tags: []string{"storm", "lightning", "clouds", "power"},
		Mood: models.MoodDramatic,
	},
	"fog": {
		Icon: "🌫️",
		Tags: []string{"fog", "mist", "haze", "mystery"},
		Mood: models.MoodCalm,
	},
	"wind": {
		Icon: "💨",
		Tags: []string{"wind", "motion", "waves", "dunes"},
		Mood: models.MoodDynamic,
	},
}

/**
 * defaultWeatherTraits 未知天气条件的中性回退特征
 */
var defaultWeatherTraits = WeatherTraits{
	Icon: "🌡️",
	Tags: []string{"nature", "landscape", "scenic"},
	Mood: models.MoodCalm,
}

// 缺少日出/日落数据时的本地回退小时
const (
	fallbackSunriseHour = 6
	fallbackSunsetHour  = 18
)

/**
 * TraitsFor 查询天气条件的固定特征
 *
 * 条件字符串不区分大小写；未知条件回退到中性特征而不报错
 *
 * Parameters:
 *   - condition: 天气条件
 *
 * Returns: WeatherTraits - 对应的特征
 */
func TraitsFor(condition string) WeatherTraits {
	if traits, ok := weatherTraits[strings.ToLower(condition)]; ok {
		return traits
	}
	return defaultWeatherTraits
}

/**
 * WeatherMood 获取天气条件的关联氛围
 *
 * Parameters:
 *   - condition: 天气条件
 *
 * Returns: models.Mood - 关联氛围，未知条件返回 calm
 */
func WeatherMood(condition string) models.Mood {
	return TraitsFor(condition).Mood
}

/**
 * DeriveWeatherTags 从天气读数派生完整的壁纸标签集合
 *
 * 派生规则：
 *   1. 天气条件对应的基础标签
 *   2. 气温修饰：<5°C 追加 cold/winter，>25°C 追加 warm/summer
 *   3. 昼夜修饰：now 早于日出或晚于日落追加 night/dark，否则追加 day/bright
 *   4. 湿度修饰：>70% 追加 humid/tropical，<30% 追加 dry/arid
 *
 * Parameters:
 *   - reading: 天气读数
 *   - now: 当前时间（显式传入，便于测试）
 *
 * Returns: []string - 派生标签集合
 */
func DeriveWeatherTags(reading *models.WeatherReading, now time.Time) []string {
	if reading == nil {
		return nil
	}

	traits := TraitsFor(reading.Condition)
	tags := make([]string, 0, len(traits.Tags)+6)
	tags = append(tags, traits.Tags...)

	// 气温修饰
	if reading.Temperature < 5 {
		tags = append(tags, "cold", "winter")
	} else if reading.Temperature > 25 {
		tags = append(tags, "warm", "summer")
	}

	// 昼夜修饰
	if isNightAt(reading, now) {
		tags = append(tags, "night", "dark")
	} else {
		tags = append(tags, "day", "bright")
	}

	// 湿度修饰
	if reading.Humidity > 70 {
		tags = append(tags, "humid", "tropical")
	} else if reading.Humidity < 30 {
		tags = append(tags, "dry", "arid")
	}

	return tags
}

/**
 * isNightAt 判断 now 是否处于夜间
 *
 * 以读数中的日出/日落为准；读数缺少日出/日落时
 * 回退到本地 06:00/18:00
 *
 * Parameters:
 *   - reading: 天气读数
 *   - now: 当前时间
 *
 * Returns: bool - true 表示夜间
 */
func isNightAt(reading *models.WeatherReading, now time.Time) bool {
	sunrise := reading.Sunrise
	sunset := reading.Sunset

	if sunrise.IsZero() || sunset.IsZero() {
		sunrise = time.Date(now.Year(), now.Month(), now.Day(), fallbackSunriseHour, 0, 0, 0, now.Location())
		sunset = time.Date(now.Year(), now.Month(), now.Day(), fallbackSunsetHour, 0, 0, 0, now.Location())
	}

	return now.Before(sunrise) || now.After(sunset)
}
