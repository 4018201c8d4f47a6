/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * Scorer - 多因子加权评分器，将（目录，上下文，画像）转换为按分数排序的推荐列表
 */

package recommender

import (
	"sort"
	"strings"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

// 综合分的固定权重（合计 1.00，novelty 不参与加权求和）
const (
	weightTimeOfDay   = 0.25
	weightWeather     = 0.20
	weightUserHistory = 0.30
	weightCategory    = 0.15
	weightMood        = 0.10
)

// 推荐理由的因子阈值
const (
	reasonTimeOfDayThreshold = 0.7
	reasonWeatherThreshold   = 0.7
	reasonHistoryThreshold   = 0.7
	reasonCategoryThreshold  = 0.8
	reasonScoreThreshold     = 90.0
	reasonNoveltyThreshold   = 0.8
)

/**
 * ScorerConfig 评分器配置
 */
type ScorerConfig struct {
	// MinScore 综合分保留阈值（低于或等于该值的候选被丢弃）
	MinScore float64

	// RecencyWindow 近期惩罚窗口（窗口内出现过的壁纸扣分）
	RecencyWindow time.Duration

	// MaxPositiveCount 正向交互计数上限（超出部分不再加分）
	MaxPositiveCount int
}

/**
 * DefaultScorerConfig 默认评分器配置
 */
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MinScore:         30,
		RecencyWindow:    7 * 24 * time.Hour,
		MaxPositiveCount: 10,
	}
}

/**
 * Scorer 多因子评分器
 *
 * 纯函数式组件：对输入做快照计算，没有任何副作用，
 * 持久化发生在选择/记录阶段而不在这里
 */
type Scorer struct {
	config ScorerConfig
}

/**
 * NewScorer 创建评分器
 *
 * Parameters:
 *   - config: 评分器配置
 *
 * Returns: *Scorer - 评分器实例
 */
func NewScorer(config ScorerConfig) *Scorer {
	if config.MinScore == 0 {
		config.MinScore = 30
	}
	if config.RecencyWindow == 0 {
		config.RecencyWindow = 7 * 24 * time.Hour
	}
	if config.MaxPositiveCount == 0 {
		config.MaxPositiveCount = 10
	}
	return &Scorer{config: config}
}

/**
 * Score 对目录中的每张壁纸计算六因子得分并排序
 *
 * 处理流程：
 *   1. 跳过上下文排除列表中的壁纸
 *   2. 对每张壁纸计算六个 [0,1] 因子
 *   3. 按固定权重加权求和 ×100 得到综合分
 *   4. 仅保留综合分 > MinScore 的候选
 *   5. 按综合分降序稳定排序（同分保持目录顺序，保证确定性）
 *
 * 空目录返回空列表而不报错；相同输入必然产生相同的有序输出
 *
 * Parameters:
 *   - catalog: 壁纸目录（只读）
 *   - rctx: 推荐上下文
 *   - profile: 行为画像（只读快照）
 *   - history: 交互日志（只读快照，已按上限截断）
 *
 * Returns: []models.Recommendation - 按分数降序的推荐列表
 */
func (s *Scorer) Score(
	catalog []models.Wallpaper,
	rctx models.RecommendationContext,
	profile *models.BehaviorProfile,
	history []models.Interaction,
) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(catalog))

	excluded := make(map[string]bool, len(rctx.ExcludeIDs))
	for _, id := range rctx.ExcludeIDs {
		excluded[id] = true
	}

	for _, wallpaper := range catalog {
		if excluded[wallpaper.ID] {
			continue
		}

		factors := models.ScoreFactors{
			TimeOfDay:   s.timeOfDayScore(wallpaper, rctx, profile),
			Weather:     s.weatherScore(wallpaper, rctx),
			UserHistory: s.userHistoryScore(wallpaper, rctx, profile, history),
			Category:    s.categoryScore(wallpaper, rctx),
			Mood:        s.moodScore(wallpaper, rctx),
			Novelty:     s.noveltyScore(wallpaper, history),
		}

		score := (factors.TimeOfDay*weightTimeOfDay +
			factors.Weather*weightWeather +
			factors.UserHistory*weightUserHistory +
			factors.Category*weightCategory +
			factors.Mood*weightMood) * 100

		if score <= s.config.MinScore {
			continue
		}

		wallpaper.AIScore = score

		recommendations = append(recommendations, models.Recommendation{
			Wallpaper:  wallpaper,
			Confidence: clamp01(score / 100),
			Reasons:    s.buildReasons(factors, score, rctx),
			Score:      score,
			Factors:    factors,
		})
	}

	// 稳定排序：同分候选保持目录顺序
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return recommendations
}

/**
 * timeOfDayScore 时段匹配因子
 *
 * 组成：时段直接匹配 0.4 + 时段偏好分类命中 0.3 + 时段偏好标签重合比例 × 0.3。
 * 上下文时段缺失或非法时退化为中性 0.5
 */
func (s *Scorer) timeOfDayScore(
	wallpaper models.Wallpaper,
	rctx models.RecommendationContext,
	profile *models.BehaviorProfile,
) float64 {
	if !rctx.TimeOfDay.IsValid() {
		return 0.5
	}

	score := 0.0

	if wallpaper.TimeOfDay == rctx.TimeOfDay {
		score += 0.4
	}

	if profile != nil && containsString(profile.TimeBasedPreferences[rctx.TimeOfDay], wallpaper.Category) {
		score += 0.3
	}

	if len(wallpaper.Tags) > 0 {
		score += 0.3 * tagMatchRatio(wallpaper.Tags, timeOfDayTags[rctx.TimeOfDay])
	}

	return clamp01(score)
}

/**
 * weatherScore 天气匹配因子
 *
 * 组成：天气条件直接匹配 0.4 + 派生标签重合比例 × 0.4 + 天气氛围匹配 0.2。
 * 天气读数缺失时退化为中性 0.5
 */
func (s *Scorer) weatherScore(wallpaper models.Wallpaper, rctx models.RecommendationContext) float64 {
	if rctx.Weather == nil {
		return 0.5
	}

	condition := strings.ToLower(rctx.Weather.Condition)
	score := 0.0

	if wallpaper.Weather != "" && strings.ToLower(wallpaper.Weather) == condition {
		score += 0.4
	}

	if len(wallpaper.Tags) > 0 {
		derived := DeriveWeatherTags(rctx.Weather, rctx.Now)
		score += 0.4 * tagMatchRatio(wallpaper.Tags, derived)
	}

	if wallpaper.Mood != "" && wallpaper.Mood == WeatherMood(condition) {
		score += 0.2
	}

	return clamp01(score)
}

/**
 * userHistoryScore 历史行为因子
 *
 * 组成：分类偏好分 × 0.4 − 近期出现惩罚 0.3 + 分类正向交互计数（封顶）× 0.3。
 * 结果钳制到 [0,1]
 */
func (s *Scorer) userHistoryScore(
	wallpaper models.Wallpaper,
	rctx models.RecommendationContext,
	profile *models.BehaviorProfile,
	history []models.Interaction,
) float64 {
	score := 0.4 * profile.CategoryScore(wallpaper.Category)

	cutoff := rctx.Now.Add(-s.config.RecencyWindow)
	positiveCount := 0
	seenRecently := false

	for _, interaction := range history {
		if interaction.WallpaperID == wallpaper.ID && interaction.Timestamp.After(cutoff) {
			seenRecently = true
		}
		if interaction.Context.Category == wallpaper.Category && interaction.Action.IsPositive() {
			positiveCount++
		}
	}

	if seenRecently {
		score -= 0.3
	}

	if positiveCount > s.config.MaxPositiveCount {
		positiveCount = s.config.MaxPositiveCount
	}
	score += 0.3 * float64(positiveCount) / float64(s.config.MaxPositiveCount)

	return clamp01(score)
}

/**
 * categoryScore 分类偏好因子
 *
 * 偏好列表中靠前的分类得分更高：1 − 序号/列表长度；
 * 不在偏好列表中的分类得 0.2
 */
func (s *Scorer) categoryScore(wallpaper models.Wallpaper, rctx models.RecommendationContext) float64 {
	categories := rctx.Preferences.Categories
	for index, category := range categories {
		if category == wallpaper.Category {
			return 1 - float64(index)/float64(len(categories))
		}
	}
	return 0.2
}

/**
 * moodScore 氛围匹配因子
 *
 * 优先级：用户氛围直接匹配 1.0 > 时段关联氛围匹配 0.7 > 不匹配 0.3；
 * 双方都未设置氛围时为中性 0.5
 */
func (s *Scorer) moodScore(wallpaper models.Wallpaper, rctx models.RecommendationContext) float64 {
	if rctx.Mood == "" && wallpaper.Mood == "" {
		return 0.5
	}
	if rctx.Mood != "" && wallpaper.Mood == rctx.Mood {
		return 1.0
	}
	if wallpaper.Mood != "" && wallpaper.Mood == TimeOfDayMood(rctx.TimeOfDay) {
		return 0.7
	}
	return 0.3
}

/**
 * noveltyScore 新颖度因子
 *
 * 1 − 壁纸在交互日志中的出现次数 / max(日志长度, 10)；
 * 日志为空时恒为 1.0。分母取自截断后的保留窗口
 */
func (s *Scorer) noveltyScore(wallpaper models.Wallpaper, history []models.Interaction) float64 {
	if len(history) == 0 {
		return 1.0
	}

	appearances := 0
	for _, interaction := range history {
		if interaction.WallpaperID == wallpaper.ID {
			appearances++
		}
	}

	total := len(history)
	if total < 10 {
		total = 10
	}

	return clamp01(1 - float64(appearances)/float64(total))
}

/**
 * buildReasons 生成人类可读的推荐理由
 *
 * 按固定顺序检查各因子阈值，保证相同输入产生相同的理由序列；
 * 没有任何阈值触发时给出一条通用回退理由
 */
func (s *Scorer) buildReasons(
	factors models.ScoreFactors,
	score float64,
	rctx models.RecommendationContext,
) []string {
	reasons := make([]string, 0, 4)

	if factors.TimeOfDay > reasonTimeOfDayThreshold {
		reasons = append(reasons, "非常适合当前时段")
	}
	if rctx.Weather != nil && factors.Weather > reasonWeatherThreshold {
		reasons = append(reasons, "与当前天气很契合")
	}
	if factors.UserHistory > reasonHistoryThreshold {
		reasons = append(reasons, "符合你的使用习惯")
	}
	if factors.Category > reasonCategoryThreshold {
		reasons = append(reasons, "属于你最偏爱的分类")
	}
	if score > reasonScoreThreshold {
		reasons = append(reasons, "综合匹配度极高")
	}
	if factors.Novelty > reasonNoveltyThreshold {
		reasons = append(reasons, "为你带来新鲜感")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "为你精选的壁纸")
	}

	return reasons
}

/**
 * tagMatchRatio 计算壁纸标签与候选标签列表的重合比例
 *
 * 匹配规则：子串包含（双向）、不区分大小写。
 * 返回匹配标签数 / 壁纸标签总数，落在 [0,1]
 */
func tagMatchRatio(tags []string, candidates []string) float64 {
	if len(tags) == 0 || len(candidates) == 0 {
		return 0
	}

	matched := 0
	for _, tag := range tags {
		lowered := strings.ToLower(tag)
		for _, candidate := range candidates {
			candidateLowered := strings.ToLower(candidate)
			if strings.Contains(lowered, candidateLowered) || strings.Contains(candidateLowered, lowered) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(tags))
}

/**
 * containsString 判断字符串列表是否包含目标值
 */
func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

/**
 * clamp01 将值钳制到 [0,1] 区间
 */
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
