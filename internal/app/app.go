/**
 * Package app 提供 Wails App 层的实现
 *
 * App 层职责：
 * - 作为前后端通信的桥梁
 * - 接收前端请求并委托给 Service 层处理
 * - 将后端事件通过 Wails 推送到前端
 * - 管理 Wails 运行时上下文
 */

package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/internal/domain/recommender"
	"github.com/lin-xt/wallmind/internal/infrastructure/ai"
	"github.com/lin-xt/wallmind/internal/infrastructure/config"
	"github.com/lin-xt/wallmind/internal/infrastructure/storage"
	"github.com/lin-xt/wallmind/internal/infrastructure/weather"
	"github.com/lin-xt/wallmind/internal/services"
	"github.com/lin-xt/wallmind/pkg/events"
	"github.com/lin-xt/wallmind/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

/**
 * App 是 Wails 应用的主结构体
 *
 * 包含了应用所需的所有服务和配置
 * 通过依赖注入的方式进行管理
 */
type App struct {
	// ctx 是 Wails 运行时上下文
	// 用于调用 Wails 提供的运行时方法，如 EventsEmit, EventsOn 等
	ctx context.Context

	// config 是应用配置
	config *config.Config

	// eventBus 是事件总线
	// 用于应用内部的事件传递
	eventBus *events.EventBus

	// recommendationSvc 推荐服务
	// 负责推荐、交互记录、洞察等应用级用例
	recommendationSvc *services.RecommendationService

	// kvStore 键值存储（关闭时释放）
	kvStore storage.KVStore

	// narrator AI 洞察叙述器（可选）
	narrator *recommender.Narrator
}

/**
 * New 创建一个新的 App 实例
 *
 * Returns:
 *   - *App: 初始化好的 App 实例
 */
func New() *App {
	return &App{
		eventBus: events.NewEventBus(),
	}
}

/**
 * Startup 应用启动时的初始化
 *
 * 在 Wails 应用启动时调用，负责：
 * 1. 加载配置
 * 2. 初始化存储、天气和 AI 组件
 * 3. 构建推荐服务
 * 4. 设置事件转发
 *
 * Parameters:
 *   - ctx: Wails 启动上下文
 *
 * Returns:
 *   - error: 初始化过程中的错误
 */
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	a.config = cfg

	// 存储：SQLite + 键值仓储
	db, err := storage.NewSQLiteDB(storage.SQLiteConfig{
		Path:            cfg.Storage.SQLite.Path,
		MaxOpenConns:    cfg.Storage.SQLite.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.SQLite.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.SQLite.ConnMaxLifetimeDuration(),
	})
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	if err := storage.RunMigrations(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	kvStore, err := storage.NewSQLiteKVStore(db)
	if err != nil {
		return fmt.Errorf("初始化键值存储失败: %w", err)
	}
	a.kvStore = kvStore

	profileRepo, err := storage.NewKVProfileRepository(kvStore)
	if err != nil {
		return err
	}
	interactionRepo, err := storage.NewKVInteractionRepository(kvStore)
	if err != nil {
		return err
	}
	catalogRepo, err := storage.NewKVCatalogRepository(kvStore)
	if err != nil {
		return err
	}

	// 天气提供者（带 TTL 缓存）
	weatherProvider, err := weather.NewProvider(weather.Config{
		Provider: cfg.Weather.Provider,
		Location: weather.Location{
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
		},
		CacheTTL: cfg.Weather.CacheTTLDuration(),
		Timeout:  cfg.Weather.TimeoutDuration(),
	})
	if err != nil {
		return fmt.Errorf("初始化天气提供者失败: %w", err)
	}

	// AI 叙述器是可选的：未启用或初始化失败都不影响核心功能
	a.narrator = a.buildNarrator(cfg)

	serviceConfig := services.RecommendationServiceConfig{
		Engine: recommender.EngineConfig{
			Scorer: recommender.ScorerConfig{
				MinScore:      cfg.Recommender.MinScore,
				RecencyWindow: cfg.Recommender.RecencyWindowDuration(),
			},
			Selector: recommender.SelectorConfig{
				TopN: cfg.Recommender.TopN,
			},
		},
		Preferences: models.PreferenceConfig{
			Enabled:        true,
			Categories:     cfg.Recommender.PreferredCategories,
			ChangeInterval: cfg.Recommender.ChangeIntervalDuration(),
		},
		WeatherLocation: weather.Location{
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
		},
	}

	recommendationSvc, err := services.NewRecommendationService(
		serviceConfig,
		profileRepo, interactionRepo, catalogRepo,
		weatherProvider, a.narrator, a.eventBus,
		rand.NewSource(time.Now().UnixNano()),
	)
	if err != nil {
		return fmt.Errorf("创建推荐服务失败: %w", err)
	}
	a.recommendationSvc = recommendationSvc

	// 启动事件转发（将后端事件推送到前端）
	go a.forwardEvents()

	logger.Info("WallMind 启动完成",
		zap.String("version", cfg.Application.Version),
		zap.String("weather_provider", cfg.Weather.Provider),
		zap.Bool("ai_enabled", cfg.AI.Enabled))

	return nil
}

/**
 * Shutdown 应用关闭时的清理
 *
 * 在 Wails 应用关闭时调用，负责：
 * 1. 停止事件总线
 * 2. 释放 AI 与存储资源
 */
func (a *App) Shutdown() {
	if a.eventBus != nil {
		_ = a.eventBus.Stop(3 * time.Second)
	}
	if a.narrator != nil {
		a.narrator.Stop()
	}
	if a.kvStore != nil {
		_ = a.kvStore.Close()
	}
	_ = logger.Sync()
}

// ========== 导出方法（前端可调用） ==========

/**
 * GetRecommendation 获取一条壁纸推荐
 *
 * Parameters:
 *   - excludeIDs: 要排除的壁纸 ID（如当前壁纸）
 *
 * Returns:
 *   - *models.Recommendation: 推荐结果
 *   - error: 错误信息
 */
func (a *App) GetRecommendation(excludeIDs []string) (*models.Recommendation, error) {
	return a.recommendationSvc.GetRecommendation(a.ctx, excludeIDs...)
}

/**
 * RecordInteraction 记录一次用户交互
 *
 * Parameters:
 *   - interaction: 交互记录（ID/时间戳缺失时自动补全）
 *
 * Returns:
 *   - error: 错误信息
 */
func (a *App) RecordInteraction(interaction models.Interaction) error {
	return a.recommendationSvc.RecordInteraction(a.ctx, interaction)
}

/**
 * GetWallpapers 获取完整壁纸目录
 *
 * Returns:
 *   - []models.Wallpaper: 目录
 *   - error: 错误信息
 */
func (a *App) GetWallpapers() ([]models.Wallpaper, error) {
	return a.recommendationSvc.GetWallpapers()
}

/**
 * AddCustomWallpaper 添加自定义壁纸
 *
 * Parameters:
 *   - wallpaper: 壁纸（ID 留空自动分配）
 *
 * Returns:
 *   - *models.Wallpaper: 已入库的壁纸
 *   - error: 错误信息
 */
func (a *App) AddCustomWallpaper(wallpaper models.Wallpaper) (*models.Wallpaper, error) {
	return a.recommendationSvc.AddCustomWallpaper(wallpaper)
}

/**
 * GetInsights 获取偏好洞察
 *
 * Returns:
 *   - models.Insights: 洞察结构
 *   - error: 错误信息
 */
func (a *App) GetInsights() (models.Insights, error) {
	return a.recommendationSvc.GetInsights(a.ctx)
}

/**
 * GetCurrentWeather 获取当前天气读数
 *
 * Returns:
 *   - *models.WeatherReading: 天气读数
 *   - error: 错误信息
 */
func (a *App) GetCurrentWeather() (*models.WeatherReading, error) {
	return a.recommendationSvc.GetCurrentWeather(a.ctx)
}

/**
 * GetProfileStats 获取行为画像快照
 *
 * Returns:
 *   - *models.BehaviorProfile: 画像
 *   - error: 错误信息
 */
func (a *App) GetProfileStats() (*models.BehaviorProfile, error) {
	return a.recommendationSvc.GetProfileStats()
}

// ========== 私有方法 ==========

/**
 * buildNarrator 按配置构建 AI 叙述器
 *
 * AI 未启用、密钥缺失或客户端初始化失败都返回 nil，
 * 洞察退回模板语句
 */
func (a *App) buildNarrator(cfg *config.Config) *recommender.Narrator {
	if !cfg.AI.Enabled {
		return nil
	}

	aiConfig := &ai.AIConfig{
		Provider:  cfg.AI.Provider,
		APIKey:    cfg.AI.Claude.APIKey,
		Model:     cfg.AI.Claude.Model,
		MaxTokens: cfg.AI.Claude.MaxTokens,
	}
	aiConfig.LoadFromEnv()

	model, err := ai.NewAIModel(aiConfig)
	if err != nil {
		logger.Warn("初始化 AI 客户端失败，洞察使用模板语句", zap.Error(err))
		return nil
	}

	narrator, err := recommender.NewNarrator(recommender.NarratorConfig{
		AIModel:      model,
		CacheEnabled: cfg.AI.Cache.Enabled,
		CacheTTL:     cfg.AI.Cache.TTLDuration(),
	})
	if err != nil {
		logger.Warn("创建 AI 叙述器失败，洞察使用模板语句", zap.Error(err))
		return nil
	}

	return narrator
}

/**
 * forwardEvents 转发后端事件到前端
 *
 * 订阅后端事件总线，并将事件通过 Wails 推送到前端
 * 这样前端可以实时接收后端的状态更新
 */
func (a *App) forwardEvents() {
	subscriberID := a.eventBus.Subscribe("*", func(event events.Event) error {
		runtime.EventsEmit(a.ctx, string(event.Type), event)
		return nil
	})

	// 保持订阅活跃
	<-a.ctx.Done()
	a.eventBus.Unsubscribe(subscriberID)
}
