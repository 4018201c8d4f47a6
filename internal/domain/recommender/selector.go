/**
 * Package recommender 壁纸推荐引擎的核心组件
 *
 * Selector - 带权重随机的候选选择器，避免永远命中最高分
 */

package recommender

import (
	"fmt"
	"math/rand"

	"github.com/lin-xt/wallmind/internal/domain/models"
)

// ErrNoCandidates 候选列表为空时返回，调用方应执行自己的回退策略
// （如从目录均匀随机挑选一张）
var ErrNoCandidates = fmt.Errorf("候选列表为空")

/**
 * SelectorConfig 选择器配置
 */
type SelectorConfig struct {
	// TopN 参与加权随机的头部候选数量
	TopN int
}

/**
 * DefaultSelectorConfig 默认选择器配置
 */
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{TopN: 3}
}

/**
 * Selector 加权随机选择器
 *
 * 随机源通过构造函数显式注入，测试可以传入固定种子
 * 获得可复现的选择序列
 */
type Selector struct {
	config SelectorConfig
	rng    *rand.Rand
}

/**
 * NewSelector 创建选择器
 *
 * Parameters:
 *   - config: 选择器配置
 *   - source: 随机源（不允许为 nil，保证随机性可注入）
 *
 * Returns: *Selector - 选择器实例
 */
func NewSelector(config SelectorConfig, source rand.Source) (*Selector, error) {
	if source == nil {
		return nil, fmt.Errorf("随机源不能为空")
	}
	if config.TopN <= 0 {
		config.TopN = 3
	}
	return &Selector{
		config: config,
		rng:    rand.New(source),
	}, nil
}

/**
 * Select 从排序后的推荐列表中选出一个结果
 *
 * 策略：
 *   - 空列表返回 ErrNoCandidates（回退由调用方决定，不视为本组件错误）
 *   - 只有一个候选直接返回
 *   - 否则取头部 TopN（不足则全取），第 rank 名的权重为 (N−rank)²，
 *     在 [0, 权重和) 上均匀采样后沿累积权重行走选中。
 *     高分候选被强烈偏向，但第 2、3 名仍有非零概率，避免单调重复
 *
 * Parameters:
 *   - ranked: 按分数降序排好的推荐列表
 *
 * Returns: models.Recommendation - 选中的推荐, error - 空列表错误
 */
func (s *Selector) Select(ranked []models.Recommendation) (models.Recommendation, error) {
	if len(ranked) == 0 {
		return models.Recommendation{}, ErrNoCandidates
	}
	if len(ranked) == 1 {
		return ranked[0], nil
	}

	top := ranked
	if len(top) > s.config.TopN {
		top = top[:s.config.TopN]
	}

	n := len(top)
	weights := make([]float64, n)
	totalWeight := 0.0
	for rank := 0; rank < n; rank++ {
		weight := float64((n - rank) * (n - rank))
		weights[rank] = weight
		totalWeight += weight
	}

	draw := s.rng.Float64() * totalWeight
	cumulative := 0.0
	for rank := 0; rank < n; rank++ {
		cumulative += weights[rank]
		if draw < cumulative {
			return top[rank], nil
		}
	}

	// 浮点累加的极端边界：落回最后一个头部候选
	return top[n-1], nil
}
