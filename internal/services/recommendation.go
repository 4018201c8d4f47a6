/**
 * RecommendationService - 壁纸推荐的应用级编排
 *
 * 串联完整的推荐用例：组装上下文（时间 + 天气 + 偏好）、
 * 加载画像与交互日志、评分选择、记录交互、生成洞察，
 * 并把关键节点以事件形式广播给前端
 */

package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/internal/domain/recommender"
	"github.com/lin-xt/wallmind/internal/infrastructure/storage"
	"github.com/lin-xt/wallmind/internal/infrastructure/weather"
	"github.com/lin-xt/wallmind/pkg/events"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

/**
 * RecommendationServiceConfig 推荐服务配置
 */
type RecommendationServiceConfig struct {
	// Engine 推荐引擎配置
	Engine recommender.EngineConfig

	// Preferences 用户偏好配置
	Preferences models.PreferenceConfig

	// WeatherLocation 天气查询位置
	WeatherLocation weather.Location

	// WeatherTimeout 单次天气查询的超时
	WeatherTimeout time.Duration
}

/**
 * DefaultRecommendationServiceConfig 默认服务配置
 */
func DefaultRecommendationServiceConfig() RecommendationServiceConfig {
	return RecommendationServiceConfig{
		Engine: recommender.DefaultEngineConfig(),
		Preferences: models.PreferenceConfig{
			Enabled:        true,
			Categories:     append([]string(nil), models.DefaultCategories...),
			ChangeInterval: time.Hour,
		},
		WeatherTimeout: 5 * time.Second,
	}
}

/**
 * RecommendationService 壁纸推荐服务
 */
type RecommendationService struct {
	config RecommendationServiceConfig

	engine          *recommender.Engine
	profileRepo     storage.ProfileRepository
	interactionRepo storage.InteractionRepository
	catalogRepo     storage.CatalogRepository
	weatherProvider weather.Provider
	narrator        *recommender.Narrator // 可选，AI 未启用时为 nil
	bus             *events.EventBus

	// rng 目录级回退的均匀随机源
	rng *rand.Rand

	// now 时间源，测试时注入固定时刻
	now func() time.Time
}

/**
 * NewRecommendationService 创建推荐服务
 *
 * Parameters:
 *   - config: 服务配置
 *   - profileRepo: 画像仓储
 *   - interactionRepo: 交互日志仓储
 *   - catalogRepo: 目录仓储
 *   - weatherProvider: 天气提供者（允许为 nil，推荐时跳过天气因子）
 *   - narrator: AI 洞察叙述器（允许为 nil）
 *   - bus: 事件总线（允许为 nil，不发布事件）
 *   - source: 随机源（显式注入，测试传固定种子）
 *
 * Returns: *RecommendationService - 服务实例, error - 错误信息
 */
func NewRecommendationService(
	config RecommendationServiceConfig,
	profileRepo storage.ProfileRepository,
	interactionRepo storage.InteractionRepository,
	catalogRepo storage.CatalogRepository,
	weatherProvider weather.Provider,
	narrator *recommender.Narrator,
	bus *events.EventBus,
	source rand.Source,
) (*RecommendationService, error) {
	if profileRepo == nil || interactionRepo == nil || catalogRepo == nil {
		return nil, fmt.Errorf("仓储依赖不能为空")
	}
	if source == nil {
		return nil, fmt.Errorf("随机源不能为空")
	}

	engine, err := recommender.NewEngine(config.Engine, source)
	if err != nil {
		return nil, fmt.Errorf("创建推荐引擎失败: %w", err)
	}

	if config.WeatherTimeout == 0 {
		config.WeatherTimeout = 5 * time.Second
	}

	return &RecommendationService{
		config:          config,
		engine:          engine,
		profileRepo:     profileRepo,
		interactionRepo: interactionRepo,
		catalogRepo:     catalogRepo,
		weatherProvider: weatherProvider,
		narrator:        narrator,
		bus:             bus,
		rng:             rand.New(source),
		now:             time.Now,
	}, nil
}

/**
 * GetRecommendation 获取一条壁纸推荐
 *
 * 完整流程：
 *   1. 组装推荐上下文（当前时间、时段、尽力获取的天气、偏好配置）
 *   2. 加载画像（任何持久化失败回退默认画像）与交互日志快照
 *   3. 加载目录（首次运行自动写入内置壁纸）
 *   4. 引擎评分 + 加权随机选择
 *   5. 全部候选被阈值过滤时回退为目录内均匀随机挑选
 *   6. 发布推荐事件
 *
 * Parameters:
 *   - ctx: 上下文
 *   - excludeIDs: 本次推荐要排除的壁纸 ID（如当前壁纸）
 *
 * Returns: *models.Recommendation - 推荐结果, error - 错误信息
 */
func (s *RecommendationService) GetRecommendation(ctx context.Context, excludeIDs ...string) (*models.Recommendation, error) {
	now := s.now()
	rctx := models.RecommendationContext{
		Now:         now,
		TimeOfDay:   models.TimeOfDayAt(now),
		Preferences: s.config.Preferences,
		ExcludeIDs:  excludeIDs,
	}

	// 天气是尽力而为的：失败只降级天气因子，不阻断推荐
	rctx.Weather = s.currentWeather(ctx)

	profile, err := s.profileRepo.Load()
	if err != nil {
		logger.Warn("加载画像失败，使用默认画像", zap.Error(err))
		profile = models.NewDefaultProfile()
	}

	// 完整的保留日志参与评分：新颖度分母与近期惩罚都覆盖全部留存记录，
	// 条数上限由日志仓储在追加时截断
	history, err := s.interactionRepo.LoadAll()
	if err != nil {
		logger.Warn("加载交互日志失败，按空日志推荐", zap.Error(err))
		history = nil
	}

	catalog, err := s.catalogRepo.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("加载壁纸目录失败: %w", err)
	}

	recommendation, err := s.engine.Recommend(catalog, rctx, profile, history)
	if err != nil {
		// 没有候选越过阈值：退化为目录内均匀随机
		recommendation, err = s.uniformFallback(catalog, rctx)
		if err != nil {
			return nil, err
		}
	}

	s.publish(events.EventTypeRecommendation, map[string]interface{}{
		"wallpaper_id": recommendation.Wallpaper.ID,
		"category":     recommendation.Wallpaper.Category,
		"score":        recommendation.Score,
		"confidence":   recommendation.Confidence,
		"reasons":      recommendation.Reasons,
	})

	return recommendation, nil
}

/**
 * RecordInteraction 记录一次用户交互
 *
 * 补全缺失的 ID/时间戳/时段后：
 *   1. 更新行为画像并持久化
 *   2. 追加到交互日志（超出上限自动截断）
 *   3. 发布交互与画像更新事件
 *
 * Parameters:
 *   - ctx: 上下文
 *   - interaction: 交互记录
 *
 * Returns: error - 错误信息
 */
func (s *RecommendationService) RecordInteraction(ctx context.Context, interaction models.Interaction) error {
	if interaction.WallpaperID == "" {
		return fmt.Errorf("壁纸 ID 不能为空")
	}
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = s.now()
	}
	if interaction.Context.TimeOfDay == "" {
		interaction.Context.TimeOfDay = models.TimeOfDayAt(interaction.Timestamp)
	}
	if interaction.Context.Category == "" {
		if wallpaper, err := s.catalogRepo.FindByID(interaction.WallpaperID); err == nil {
			interaction.Context.Category = wallpaper.Category
		}
	}

	profile, err := s.profileRepo.Load()
	if err != nil {
		logger.Warn("加载画像失败，在默认画像上更新", zap.Error(err))
		profile = models.NewDefaultProfile()
	}

	recommender.ApplyInteraction(profile, interaction)

	if err := s.profileRepo.Save(profile); err != nil {
		return fmt.Errorf("保存画像失败: %w", err)
	}

	if err := s.interactionRepo.Append(interaction); err != nil {
		return fmt.Errorf("保存交互记录失败: %w", err)
	}

	logger.Info("记录用户交互",
		zap.String("wallpaper_id", interaction.WallpaperID),
		zap.String("action", string(interaction.Action)),
		zap.String("time_of_day", string(interaction.Context.TimeOfDay)))

	s.publish(events.EventTypeInteraction, map[string]interface{}{
		"wallpaper_id": interaction.WallpaperID,
		"action":       string(interaction.Action),
		"time_of_day":  string(interaction.Context.TimeOfDay),
	})
	s.publish(events.EventTypeProfileUpdated, map[string]interface{}{
		"total_wallpapers_viewed": profile.TotalWallpapersViewed,
		"triggered_by":            string(interaction.Action),
	})

	return nil
}

/**
 * GetInsights 生成偏好洞察
 *
 * 先由画像与日志汇总模板化洞察；
 * AI 叙述器可用时把模板语句转写为个性化建议（失败自动回退）
 *
 * Parameters:
 *   - ctx: 上下文
 *
 * Returns: models.Insights - 洞察结构, error - 错误信息
 */
func (s *RecommendationService) GetInsights(ctx context.Context) (models.Insights, error) {
	profile, err := s.profileRepo.Load()
	if err != nil {
		logger.Warn("加载画像失败，生成空画像洞察", zap.Error(err))
		profile = nil
	}

	history, err := s.interactionRepo.LoadAll()
	if err != nil {
		logger.Warn("加载交互日志失败，活跃度按空日志计算", zap.Error(err))
		history = nil
	}

	insights := recommender.BuildInsights(profile, history, s.now())

	if s.narrator != nil {
		insights = s.narrator.Narrate(ctx, insights, profile)
	}

	return insights, nil
}

/**
 * GetWallpapers 获取完整壁纸目录
 *
 * Returns: []models.Wallpaper - 目录, error - 错误信息
 */
func (s *RecommendationService) GetWallpapers() ([]models.Wallpaper, error) {
	return s.catalogRepo.LoadAll()
}

/**
 * AddCustomWallpaper 添加自定义壁纸
 *
 * 分配 uuid、写入目录并递增画像的自定义壁纸计数
 *
 * Parameters:
 *   - wallpaper: 壁纸（ID 留空时自动分配）
 *
 * Returns: *models.Wallpaper - 已入库的壁纸, error - 错误信息
 */
func (s *RecommendationService) AddCustomWallpaper(wallpaper models.Wallpaper) (*models.Wallpaper, error) {
	if wallpaper.URI == "" {
		return nil, fmt.Errorf("壁纸 URI 不能为空")
	}
	if wallpaper.ID == "" {
		wallpaper.ID = uuid.New().String()
	}
	if wallpaper.Category == "" {
		wallpaper.Category = "Auto"
	}

	if err := s.catalogRepo.Add(wallpaper); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Load()
	if err == nil {
		profile.CustomWallpapersAdded++
		if err := s.profileRepo.Save(profile); err != nil {
			logger.Warn("更新自定义壁纸计数失败", zap.Error(err))
		}
	}

	logger.Info("添加自定义壁纸",
		zap.String("wallpaper_id", wallpaper.ID),
		zap.String("category", wallpaper.Category))

	return &wallpaper, nil
}

/**
 * GetCurrentWeather 获取当前天气读数
 *
 * Parameters:
 *   - ctx: 上下文
 *
 * Returns: *models.WeatherReading - 天气读数, error - 提供者未配置或查询失败
 */
func (s *RecommendationService) GetCurrentWeather(ctx context.Context) (*models.WeatherReading, error) {
	if s.weatherProvider == nil {
		return nil, fmt.Errorf("天气提供者未配置")
	}

	reading, err := s.weatherProvider.Current(ctx, s.config.WeatherLocation)
	if err != nil {
		return nil, fmt.Errorf("获取天气失败: %w", err)
	}

	s.publish(events.EventTypeWeather, map[string]interface{}{
		"condition":   reading.Condition,
		"temperature": reading.Temperature,
	})

	return reading, nil
}

/**
 * GetProfileStats 获取行为画像快照
 *
 * Returns: *models.BehaviorProfile - 画像, error - 错误信息
 */
func (s *RecommendationService) GetProfileStats() (*models.BehaviorProfile, error) {
	return s.profileRepo.Load()
}

/**
 * currentWeather 尽力获取当前天气，失败返回 nil
 */
func (s *RecommendationService) currentWeather(ctx context.Context) *models.WeatherReading {
	if s.weatherProvider == nil {
		return nil
	}

	weatherCtx, cancel := context.WithTimeout(ctx, s.config.WeatherTimeout)
	defer cancel()

	reading, err := s.weatherProvider.Current(weatherCtx, s.config.WeatherLocation)
	if err != nil {
		logger.Warn("获取天气失败，本次推荐跳过天气因子", zap.Error(err))
		return nil
	}
	return reading
}

/**
 * uniformFallback 目录级回退：均匀随机挑一张未被排除的壁纸
 */
func (s *RecommendationService) uniformFallback(
	catalog []models.Wallpaper,
	rctx models.RecommendationContext,
) (*models.Recommendation, error) {
	excluded := make(map[string]bool, len(rctx.ExcludeIDs))
	for _, id := range rctx.ExcludeIDs {
		excluded[id] = true
	}

	candidates := make([]models.Wallpaper, 0, len(catalog))
	for _, wallpaper := range catalog {
		if !excluded[wallpaper.ID] {
			candidates = append(candidates, wallpaper)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("壁纸目录为空，无法推荐")
	}

	selected := candidates[s.rng.Intn(len(candidates))]
	logger.Info("无候选越过评分阈值，回退为随机推荐",
		zap.String("wallpaper_id", selected.ID))

	return &models.Recommendation{
		Wallpaper:  selected,
		Confidence: 0.3,
		Reasons:    []string{"为你随机探索新壁纸"},
		Score:      0,
	}, nil
}

/**
 * publish 发布事件（总线未配置时静默跳过）
 */
func (s *RecommendationService) publish(eventType events.EventType, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(string(eventType), *events.NewEvent(eventType, data)); err != nil {
		logger.Debug("发布事件失败", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
