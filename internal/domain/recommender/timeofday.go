/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * 时段特征表：每个时段关联一组偏好标签和一种氛围
 */

package recommender

import (
	"github.com/lin-xt/wallmind/internal/domain/models"
)

/**
 * timeOfDayTags 时段 → 偏好标签列表
 *
 * 评分时按子串、不区分大小写与壁纸标签做匹配
 */
var timeOfDayTags = map[models.TimeOfDay][]string{
	models.TimeOfDayMorning:   {"bright", "fresh", "sunrise", "light", "dawn"},
	models.TimeOfDayAfternoon: {"vivid", "daylight", "clear", "blue", "active"},
	models.TimeOfDayEvening:   {"sunset", "golden", "warm", "dusk", "soft"},
	models.TimeOfDayNight:     {"dark", "night", "stars", "moon", "neon"},
}

/**
 * timeOfDayMoods 时段 → 关联氛围
 */
var timeOfDayMoods = map[models.TimeOfDay]models.Mood{
	models.TimeOfDayMorning:   models.MoodEnergetic,
	models.TimeOfDayAfternoon: models.MoodDynamic,
	models.TimeOfDayEvening:   models.MoodCalm,
	models.TimeOfDayNight:     models.MoodPeaceful,
}

/**
 * TimeOfDayTags 获取时段的偏好标签列表
 *
 * Parameters:
 *   - timeOfDay: 时段
 *
 * Returns: []string - 偏好标签列表，未知时段返回 nil
 */
func TimeOfDayTags(timeOfDay models.TimeOfDay) []string {
	return timeOfDayTags[timeOfDay]
}

/**
 * TimeOfDayMood 获取时段的关联氛围
 *
 * Parameters:
 *   - timeOfDay: 时段
 *
 * Returns: models.Mood - 关联氛围，未知时段返回 calm
 */
func TimeOfDayMood(timeOfDay models.TimeOfDay) models.Mood {
	if mood, ok := timeOfDayMoods[timeOfDay]; ok {
		return mood
	}
	return models.MoodCalm
}
