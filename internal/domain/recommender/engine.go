/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * Engine - 协调评分与选择的主控制器
 */

package recommender

import (
	"fmt"
	"math/rand"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

/**
 * EngineConfig 推荐引擎配置
 */
type EngineConfig struct {
	// Scorer 评分器配置
	Scorer ScorerConfig

	// Selector 选择器配置
	Selector SelectorConfig
}

/**
 * DefaultEngineConfig 默认引擎配置
 */
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Scorer:   DefaultScorerConfig(),
		Selector: DefaultSelectorConfig(),
	}
}

/**
 * Engine 推荐引擎
 *
 * 协调完整的推荐流程：目录 + 上下文 + 画像 → 评分 → 加权随机选择。
 * 引擎本身是纯计算组件：对入参做快照计算，没有任何持久化副作用，
 * 放弃一次进行中的推荐不需要清理
 */
type Engine struct {
	config   EngineConfig
	scorer   *Scorer
	selector *Selector
}

/**
 * NewEngine 创建推荐引擎
 *
 * Parameters:
 *   - config: 引擎配置
 *   - source: 选择器使用的随机源（显式注入，测试传固定种子）
 *
 * Returns: *Engine - 引擎实例
 */
func NewEngine(config EngineConfig, source rand.Source) (*Engine, error) {
	selector, err := NewSelector(config.Selector, source)
	if err != nil {
		return nil, fmt.Errorf("创建选择器失败: %w", err)
	}

	return &Engine{
		config:   config,
		scorer:   NewScorer(config.Scorer),
		selector: selector,
	}, nil
}

/**
 * Rank 对目录评分并返回完整的排序列表
 *
 * 纯函数：相同输入产生相同的有序输出
 *
 * Parameters:
 *   - catalog: 壁纸目录
 *   - rctx: 推荐上下文
 *   - profile: 行为画像
 *   - history: 交互日志快照
 *
 * Returns: []models.Recommendation - 按分数降序的推荐列表
 */
func (e *Engine) Rank(
	catalog []models.Wallpaper,
	rctx models.RecommendationContext,
	profile *models.BehaviorProfile,
	history []models.Interaction,
) []models.Recommendation {
	return e.scorer.Score(catalog, rctx, profile, history)
}

/**
 * Recommend 完整的单次推荐：评分 + 加权随机选择
 *
 * 排名为空时返回 ErrNoCandidates，由调用方执行目录级回退
 * （如均匀随机挑一张壁纸）
 *
 * Parameters:
 *   - catalog: 壁纸目录
 *   - rctx: 推荐上下文
 *   - profile: 行为画像
 *   - history: 交互日志快照
 *
 * Returns: *models.Recommendation - 选中的推荐, error - 无候选错误
 */
func (e *Engine) Recommend(
	catalog []models.Wallpaper,
	rctx models.RecommendationContext,
	profile *models.BehaviorProfile,
	history []models.Interaction,
) (*models.Recommendation, error) {
	ranked := e.Rank(catalog, rctx, profile, history)

	logger.Debug("壁纸评分完成",
		zap.Int("catalog_size", len(catalog)),
		zap.Int("candidates", len(ranked)),
		zap.String("time_of_day", string(rctx.TimeOfDay)))

	selected, err := e.selector.Select(ranked)
	if err != nil {
		return nil, err
	}

	logger.Info("推荐壁纸已选出",
		zap.String("wallpaper_id", selected.Wallpaper.ID),
		zap.String("category", selected.Wallpaper.Category),
		zap.Float64("score", selected.Score),
		zap.Float64("confidence", selected.Confidence))

	return &selected, nil
}
