/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * AI 洞察叙述器，使用 Claude API 把画像统计转写为自然语言
 */

package recommender

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/internal/infrastructure/ai"
	"github.com/lin-xt/wallmind/internal/infrastructure/cache"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

/**
 * NarratorConfig AI 叙述器配置
 */
type NarratorConfig struct {
	// AIModel AI 模型客户端
	AIModel ai.AIModel

	// CacheEnabled 是否启用缓存
	CacheEnabled bool

	// CacheTTL 缓存过期时间
	CacheTTL time.Duration
}

/**
 * DefaultNarratorConfig 默认配置
 */
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		CacheEnabled: true,
		CacheTTL:     24 * time.Hour,
	}
}

/**
 * Narrator AI 洞察叙述器
 *
 * 调用 AI 把洞察结构转写为个性化的自然语言建议；
 * 任何失败都回退到模板语句，绝不影响洞察本身的可用性
 */
type Narrator struct {
	config  NarratorConfig
	aiModel ai.AIModel
	cache   cache.Cache // AI 叙述结果缓存
}

/**
 * NewNarrator 创建 AI 叙述器
 *
 * Parameters:
 *   - config: 叙述器配置
 *
 * Returns: *Narrator - 叙述器实例
 */
func NewNarrator(config NarratorConfig) (*Narrator, error) {
	if config.AIModel == nil {
		return nil, fmt.Errorf("AI 模型客户端不能为空")
	}

	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}

	var cacheInstance cache.Cache
	if config.CacheEnabled {
		cacheInstance = cache.NewMemoryCache(10 * time.Minute)
		logger.Info("AI 叙述缓存已启用",
			zap.Duration("ttl", config.CacheTTL))
	}

	return &Narrator{
		config:  config,
		aiModel: config.AIModel,
		cache:   cacheInstance,
	}, nil
}

/**
 * Narrate 为洞察生成自然语言建议
 *
 * 成功时用 AI 生成的总结与建议替换模板语句；
 * 调用或解析失败时原样返回传入的洞察（模板回退），不返回错误
 *
 * Parameters:
 *   - ctx: 上下文
 *   - insights: 模板化的洞察结构
 *   - profile: 行为画像（用于构建摘要）
 *
 * Returns: models.Insights - 叙述后的洞察
 */
func (n *Narrator) Narrate(ctx context.Context, insights models.Insights, profile *models.BehaviorProfile) models.Insights {
	cacheKey := n.buildCacheKey(insights)

	if n.cache != nil {
		if cached, found := n.cache.Get(cacheKey); found {
			if narration, ok := cached.(*ai.InsightsNarration); ok {
				logger.Debug("从缓存获取 AI 叙述结果")
				return mergeNarration(insights, narration)
			}
		}
	}

	summary := buildSummary(insights, profile)

	narration, err := n.aiModel.NarrateInsights(ctx, summary)
	if err != nil {
		logger.Warn("AI 叙述失败，回退到模板语句", zap.Error(err))
		return insights
	}

	if n.cache != nil {
		_ = n.cache.Set(cacheKey, narration, n.config.CacheTTL)
	}

	return mergeNarration(insights, narration)
}

/**
 * Stop 释放叙述器资源
 */
func (n *Narrator) Stop() {
	if n.cache != nil {
		n.cache.Stop()
	}
}

/**
 * buildCacheKey 由洞察的三个关键值构建缓存键
 */
func (n *Narrator) buildCacheKey(insights models.Insights) string {
	return fmt.Sprintf("narration:%s:%s:%s:%s",
		insights.FavoriteCategory,
		insights.FavoriteTimeForChange,
		insights.PreferredWeather,
		insights.ActivityLevel)
}

/**
 * buildSummary 把洞察与画像压缩为模型输入摘要
 */
func buildSummary(insights models.Insights, profile *models.BehaviorProfile) ai.InsightsSummary {
	summary := ai.InsightsSummary{
		FavoriteCategory:      insights.FavoriteCategory,
		FavoriteTimeForChange: string(insights.FavoriteTimeForChange),
		PreferredWeather:      insights.PreferredWeather,
		ActivityLevel:         insights.ActivityLevel,
	}

	if profile != nil {
		summary.TotalWallpapersViewed = profile.TotalWallpapersViewed

		top := make([]ai.CategoryPreference, 0, len(profile.PreferredCategories))
		for category, score := range profile.PreferredCategories {
			top = append(top, ai.CategoryPreference{Category: category, Score: score})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].Score != top[j].Score {
				return top[i].Score > top[j].Score
			}
			return top[i].Category < top[j].Category
		})
		if len(top) > 3 {
			top = top[:3]
		}
		summary.TopCategories = top
	}

	return summary
}

/**
 * mergeNarration 把 AI 叙述合并进洞察结构
 */
func mergeNarration(insights models.Insights, narration *ai.InsightsNarration) models.Insights {
	merged := insights
	merged.Recommendations = make([]string, 0, 1+len(narration.Suggestions))
	merged.Recommendations = append(merged.Recommendations, narration.Summary)
	merged.Recommendations = append(merged.Recommendations, narration.Suggestions...)
	return merged
}
