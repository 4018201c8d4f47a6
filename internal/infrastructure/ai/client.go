/**
 * Package ai AI 服务基础设施层
 *
 * 提供洞察叙述的 AI 客户端接口
 */

package ai

import (
	"context"
)

/**
 * ModelType 模型类型
 */
type ModelType string

const (
	// ModelTypeClaude Claude 模型
	ModelTypeClaude ModelType = "claude"
)

/**
 * CategoryPreference 分类偏好项（用于序列化）
 */
type CategoryPreference struct {
	// Category 分类名
	Category string `json:"category"`

	// Score 偏好分数（[0,1]）
	Score float64 `json:"score"`
}

/**
 * InsightsSummary 洞察摘要（提交给模型的结构化输入）
 *
 * 显式字段而非松散的 map，每个消费方对应一个确定的形态
 */
type InsightsSummary struct {
	// FavoriteCategory 最偏爱的分类
	FavoriteCategory string `json:"favorite_category"`

	// FavoriteTimeForChange 最常更换壁纸的时段
	FavoriteTimeForChange string `json:"favorite_time_for_change"`

	// PreferredWeather 偏好最明显的天气条件
	PreferredWeather string `json:"preferred_weather"`

	// ActivityLevel 活跃度级别（low/medium/high）
	ActivityLevel string `json:"activity_level"`

	// TotalWallpapersViewed 累计交互数
	TotalWallpapersViewed int `json:"total_wallpapers_viewed"`

	// TopCategories 偏好分数最高的分类列表（降序）
	TopCategories []CategoryPreference `json:"top_categories"`
}

/**
 * InsightsNarration 模型生成的洞察叙述
 */
type InsightsNarration struct {
	// Summary 一段自然语言的偏好总结
	Summary string `json:"summary"`

	// Suggestions 个性化建议语句列表
	Suggestions []string `json:"suggestions"`
}

/**
 * AIModel AI 模型接口
 *
 * 定义洞察叙述模型的通用能力
 */
type AIModel interface {
	// NarrateInsights 把洞察摘要转写为自然语言叙述
	NarrateInsights(ctx context.Context, summary InsightsSummary) (*InsightsNarration, error)

	// GetType 获取模型类型
	GetType() ModelType

	// Close 关闭连接
	Close() error
}
