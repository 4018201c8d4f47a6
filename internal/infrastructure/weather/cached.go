package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

/**
 * CachedProvider 带 TTL 缓存的天气提供者装饰器
 *
 * 在 TTL 内直接返回缓存读数；TTL 过期后请求上游，
 * 上游失败时继续提供上一次的有效读数（stale-on-error），
 * 保证天气数据的短暂不可用不会打断推荐流程
 */
type CachedProvider struct {
	upstream Provider
	ttl      time.Duration

	mu       sync.Mutex
	reading  *models.WeatherReading
	fetched  time.Time
}

/**
 * NewCachedProvider 创建缓存天气提供者
 *
 * Parameters:
 *   - upstream: 上游提供者
 *   - ttl: 缓存有效期
 *
 * Returns: *CachedProvider - 提供者实例, error - 错误信息
 */
func NewCachedProvider(upstream Provider, ttl time.Duration) (*CachedProvider, error) {
	if upstream == nil {
		return nil, fmt.Errorf("上游天气提供者不能为空")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &CachedProvider{
		upstream: upstream,
		ttl:      ttl,
	}, nil
}

/**
 * Current 获取当前天气读数（优先走缓存）
 */
func (p *CachedProvider) Current(ctx context.Context, location Location) (*models.WeatherReading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reading != nil && time.Since(p.fetched) < p.ttl {
		return p.reading, nil
	}

	reading, err := p.upstream.Current(ctx, location)
	if err != nil {
		if p.reading != nil {
			logger.Warn("天气更新失败，继续使用过期读数",
				zap.String("provider", p.upstream.Name()),
				zap.Time("fetched_at", p.fetched),
				zap.Error(err))
			return p.reading, nil
		}
		return nil, fmt.Errorf("获取天气失败且无缓存可用: %w", err)
	}

	p.reading = reading
	p.fetched = time.Now()
	return reading, nil
}

/**
 * Name 提供者名称
 */
func (p *CachedProvider) Name() string {
	return p.upstream.Name() + "+cache"
}
