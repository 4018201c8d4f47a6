/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * 行为画像更新：将新的交互事件增量折叠进画像
 */

package recommender

import (
	"github.com/lin-xt/wallmind/internal/domain/models"
)

// 偏好分数的增量步长
const (
	positiveDelta = 0.1  // 正向动作（like/set/download/share）
	negativeDelta = 0.05 // 负向动作（dislike/skip）
)

/**
 * ApplyInteraction 将一次交互折叠进行为画像
 *
 * 更新规则：
 *   - 分类偏好：未见过的分类从 0 起步；正向动作 +0.1，负向动作 −0.05，
 *     每次更新后钳制到 [0,1]
 *   - 时段偏好：like/set 动作把事件分类幂等地插入该时段的偏好列表（无重复）
 *   - 天气偏好：同样的幂等插入规则，仅当事件携带天气值时生效
 *   - 计数器：TotalWallpapersViewed 对每条记录的交互自增（不限于 view）；
 *     LastActiveTime 置为事件时间
 *
 * 相同事件重复调用会继续累积（计数器/累加器语义，不做去重）。
 * 事件本身追加进交互日志由存储层负责，与本更新相互独立
 *
 * Parameters:
 *   - profile: 行为画像（就地修改）
 *   - event: 交互事件
 */
func ApplyInteraction(profile *models.BehaviorProfile, event models.Interaction) {
	if profile == nil {
		return
	}
	if profile.PreferredCategories == nil {
		profile.PreferredCategories = make(map[string]float64)
	}
	if profile.TimeBasedPreferences == nil {
		profile.TimeBasedPreferences = make(map[models.TimeOfDay][]string)
	}
	if profile.WeatherBasedPreferences == nil {
		profile.WeatherBasedPreferences = make(map[string][]string)
	}

	category := event.Context.Category

	// 分类偏好增量
	if category != "" {
		score := profile.PreferredCategories[category]
		if event.Action.IsPositive() {
			score += positiveDelta
		} else if event.Action.IsNegative() {
			score -= negativeDelta
		}
		profile.PreferredCategories[category] = clamp01(score)
	}

	// 时段/天气偏好的幂等插入，仅在 like/set 时强化
	if event.Action == models.ActionLike || event.Action == models.ActionSet {
		if category != "" && event.Context.TimeOfDay.IsValid() {
			profile.TimeBasedPreferences[event.Context.TimeOfDay] =
				insertUnique(profile.TimeBasedPreferences[event.Context.TimeOfDay], category)
		}
		if category != "" && event.Context.Weather != "" {
			profile.WeatherBasedPreferences[event.Context.Weather] =
				insertUnique(profile.WeatherBasedPreferences[event.Context.Weather], category)
		}
	}

	// 计数器单调递增
	profile.TotalWallpapersViewed++
	profile.LastActiveTime = event.Timestamp
}

/**
 * insertUnique 幂等插入：已存在时原样返回
 */
func insertUnique(list []string, value string) []string {
	if containsString(list, value) {
		return list
	}
	return append(list, value)
}
