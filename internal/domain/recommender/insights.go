/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * 洞察报告：把行为画像汇总成面向展示的偏好统计
 */

package recommender

import (
	"fmt"
	"sort"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

// 活跃度分级的 7 天交互数边界
const (
	activityMediumThreshold = 5
	activityHighThreshold   = 20
)

// 活跃度级别
const (
	ActivityLow    = "low"
	ActivityMedium = "medium"
	ActivityHigh   = "high"
)

// 空画像时的文档化回退值
const (
	fallbackFavoriteCategory = "Natura"
	fallbackPreferredWeather = "clear"
)

/**
 * BuildInsights 汇总当前画像与交互日志
 *
 * 对空画像/空日志也总是返回完整结构，所有字段都有合理回退：
 *   - FavoriteCategory: 偏好分数最高的分类（同分按字典序取小，保证确定性；
 *     空画像回退 Natura）
 *   - FavoriteTimeForChange: 偏好分类列表最长的时段（回退 morning）
 *   - PreferredWeather: 偏好分类列表最长的天气条件（回退 clear）
 *   - ActivityLevel: 按 now 前 7 天内的交互数分级（<5 low，5-19 medium，≥20 high）
 *   - Recommendations: 由上述三个值参数化的模板语句
 *
 * Parameters:
 *   - profile: 行为画像（允许为 nil）
 *   - history: 交互日志
 *   - now: 当前时间（显式传入）
 *
 * Returns: models.Insights - 完整的洞察结构
 */
func BuildInsights(profile *models.BehaviorProfile, history []models.Interaction, now time.Time) models.Insights {
	insights := models.Insights{
		FavoriteCategory:      favoriteCategory(profile),
		FavoriteTimeForChange: longestTimePreference(profile),
		PreferredWeather:      longestWeatherPreference(profile),
		ActivityLevel:         classifyActivity(history, now),
	}

	insights.Recommendations = []string{
		fmt.Sprintf("多看看「%s」分类，它最符合你的口味", insights.FavoriteCategory),
		fmt.Sprintf("你习惯在%s更换壁纸，可以把自动更换安排在这个时段", timeOfDayLabel(insights.FavoriteTimeForChange)),
		fmt.Sprintf("「%s」天气下你的偏好最明显，天气变化时试试对应主题", insights.PreferredWeather),
	}

	return insights
}

/**
 * favoriteCategory 偏好分数最高的分类
 *
 * 键按字典序遍历，同分时取字典序靠前者，保证相同画像产生相同结果
 */
func favoriteCategory(profile *models.BehaviorProfile) string {
	if profile == nil || len(profile.PreferredCategories) == 0 {
		return fallbackFavoriteCategory
	}

	keys := make([]string, 0, len(profile.PreferredCategories))
	for key := range profile.PreferredCategories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, key := range keys[1:] {
		if profile.PreferredCategories[key] > profile.PreferredCategories[best] {
			best = key
		}
	}
	return best
}

/**
 * longestTimePreference 偏好分类列表最长的时段
 */
func longestTimePreference(profile *models.BehaviorProfile) models.TimeOfDay {
	best := models.TimeOfDayMorning
	if profile == nil || len(profile.TimeBasedPreferences) == 0 {
		return best
	}

	// 固定遍历顺序保证确定性
	order := []models.TimeOfDay{
		models.TimeOfDayMorning,
		models.TimeOfDayAfternoon,
		models.TimeOfDayEvening,
		models.TimeOfDayNight,
	}

	bestLen := -1
	for _, timeOfDay := range order {
		if length := len(profile.TimeBasedPreferences[timeOfDay]); length > bestLen {
			best = timeOfDay
			bestLen = length
		}
	}
	return best
}

/**
 * longestWeatherPreference 偏好分类列表最长的天气条件
 */
func longestWeatherPreference(profile *models.BehaviorProfile) string {
	if profile == nil || len(profile.WeatherBasedPreferences) == 0 {
		return fallbackPreferredWeather
	}

	keys := make([]string, 0, len(profile.WeatherBasedPreferences))
	for key := range profile.WeatherBasedPreferences {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, key := range keys[1:] {
		if len(profile.WeatherBasedPreferences[key]) > len(profile.WeatherBasedPreferences[best]) {
			best = key
		}
	}
	return best
}

/**
 * classifyActivity 按尾随 7 天内的交互数分级
 */
func classifyActivity(history []models.Interaction, now time.Time) string {
	cutoff := now.Add(-7 * 24 * time.Hour)
	recent := 0
	for _, interaction := range history {
		if interaction.Timestamp.After(cutoff) {
			recent++
		}
	}

	switch {
	case recent >= activityHighThreshold:
		return ActivityHigh
	case recent >= activityMediumThreshold:
		return ActivityMedium
	default:
		return ActivityLow
	}
}

/**
 * timeOfDayLabel 时段的中文展示名
 */
func timeOfDayLabel(timeOfDay models.TimeOfDay) string {
	switch timeOfDay {
	case models.TimeOfDayMorning:
		return "早晨"
	case models.TimeOfDayAfternoon:
		return "下午"
	case models.TimeOfDayEvening:
		return "傍晚"
	case models.TimeOfDayNight:
		return "夜晚"
	default:
		return string(timeOfDay)
	}
}
