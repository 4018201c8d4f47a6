package services

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/internal/infrastructure/storage"
	"github.com/lin-xt/wallmind/internal/infrastructure/weather"
	"github.com/lin-xt/wallmind/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)

// failingWeather 总是失败的天气提供者
type failingWeather struct{}

func (f *failingWeather) Current(ctx context.Context, location weather.Location) (*models.WeatherReading, error) {
	return nil, fmt.Errorf("天气不可用")
}

func (f *failingWeather) Name() string { return "failing" }

func newTestService(t *testing.T, provider weather.Provider, bus *events.EventBus) *RecommendationService {
	t.Helper()

	store := storage.NewMemoryKVStore()
	profileRepo, err := storage.NewKVProfileRepository(store)
	require.NoError(t, err)
	interactionRepo, err := storage.NewKVInteractionRepository(store)
	require.NoError(t, err)
	catalogRepo, err := storage.NewKVCatalogRepository(store)
	require.NoError(t, err)

	service, err := NewRecommendationService(
		DefaultRecommendationServiceConfig(),
		profileRepo, interactionRepo, catalogRepo,
		provider, nil, bus,
		rand.NewSource(42),
	)
	require.NoError(t, err)

	service.now = func() time.Time { return testNow }
	return service
}

// TestService_GetRecommendation 完整推荐流程：首次运行自动种子目录
func TestService_GetRecommendation(t *testing.T) {
	service := newTestService(t, nil, nil)

	recommendation, err := service.GetRecommendation(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, recommendation.Wallpaper.ID)
	assert.NotEmpty(t, recommendation.Reasons)
	assert.GreaterOrEqual(t, recommendation.Confidence, 0.0)
	assert.LessOrEqual(t, recommendation.Confidence, 1.0)
}

// TestService_GetRecommendation_WeatherFailure 天气失败不阻断推荐
func TestService_GetRecommendation_WeatherFailure(t *testing.T) {
	service := newTestService(t, &failingWeather{}, nil)

	recommendation, err := service.GetRecommendation(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, recommendation.Wallpaper.ID)
}

// TestService_GetRecommendation_Exclude 排除列表对推荐生效
func TestService_GetRecommendation_Exclude(t *testing.T) {
	service := newTestService(t, nil, nil)

	catalog, err := service.GetWallpapers()
	require.NoError(t, err)

	// 排除除第一张以外的全部壁纸
	excludeIDs := make([]string, 0, len(catalog)-1)
	for _, wallpaper := range catalog[1:] {
		excludeIDs = append(excludeIDs, wallpaper.ID)
	}

	recommendation, err := service.GetRecommendation(context.Background(), excludeIDs...)
	require.NoError(t, err)
	assert.Equal(t, catalog[0].ID, recommendation.Wallpaper.ID)
}

// TestService_GetRecommendation_FullRetainedHistory 评分覆盖完整保留日志
//
// 日志最旧段的记录同样参与新颖度分母与近期惩罚，
// 不因较新记录数量多而被评分路径丢弃
func TestService_GetRecommendation_FullRetainedHistory(t *testing.T) {
	service := newTestService(t, nil, nil)

	catalog, err := service.GetWallpapers()
	require.NoError(t, err)

	const targetID = "builtin-natura-forest"

	// 6 天前设置过目标壁纸，随后压入 149 条更新的浏览记录，
	// 使这条记录落入日志的最旧段
	require.NoError(t, service.interactionRepo.Append(models.Interaction{
		ID:          "old-set",
		WallpaperID: targetID,
		Action:      models.ActionSet,
		Timestamp:   testNow.Add(-6 * 24 * time.Hour),
	}))
	for i := 0; i < 149; i++ {
		require.NoError(t, service.interactionRepo.Append(models.Interaction{
			ID:          fmt.Sprintf("view-%d", i),
			WallpaperID: "builtin-auto-road",
			Action:      models.ActionView,
			Timestamp:   testNow.Add(-time.Duration(i) * time.Minute),
		}))
	}

	// 排除其余壁纸，返回的一定是目标壁纸的评分
	excludeIDs := make([]string, 0, len(catalog)-1)
	for _, wallpaper := range catalog {
		if wallpaper.ID != targetID {
			excludeIDs = append(excludeIDs, wallpaper.ID)
		}
	}

	recommendation, err := service.GetRecommendation(context.Background(), excludeIDs...)
	require.NoError(t, err)
	require.Equal(t, targetID, recommendation.Wallpaper.ID)

	// 新颖度分母是全部 150 条留存记录
	assert.InDelta(t, 1-1.0/150.0, recommendation.Factors.Novelty, 1e-9)

	// 6 天前的设置记录触发近期惩罚：0.4×0.5 − 0.3 钳制到 0
	assert.InDelta(t, 0.0, recommendation.Factors.UserHistory, 1e-9)
}

// TestService_RecordInteraction 交互记录更新画像并落盘日志
func TestService_RecordInteraction(t *testing.T) {
	service := newTestService(t, nil, nil)

	// 先触发目录种子，便于补全分类
	_, err := service.GetWallpapers()
	require.NoError(t, err)

	err = service.RecordInteraction(context.Background(), models.Interaction{
		WallpaperID: "builtin-natura-forest",
		Action:      models.ActionLike,
	})
	require.NoError(t, err)

	profile, err := service.GetProfileStats()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, profile.PreferredCategories["Natura"], 1e-9)
	assert.Equal(t, 1, profile.TotalWallpapersViewed)
	// 时段在缺省时由时间戳推导（8 点 = morning）
	assert.Contains(t, profile.TimeBasedPreferences[models.TimeOfDayMorning], "Natura")

	log, err := service.interactionRepo.LoadAll()
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.NotEmpty(t, log[0].ID)
	assert.Equal(t, testNow, log[0].Timestamp)
	assert.Equal(t, "Natura", log[0].Context.Category)
}

// TestService_RecordInteraction_MissingID 缺失壁纸 ID 报错
func TestService_RecordInteraction_MissingID(t *testing.T) {
	service := newTestService(t, nil, nil)

	err := service.RecordInteraction(context.Background(), models.Interaction{Action: models.ActionLike})
	assert.Error(t, err)
}

// TestService_GetInsights 洞察反映累计的交互
func TestService_GetInsights(t *testing.T) {
	service := newTestService(t, nil, nil)
	_, err := service.GetWallpapers()
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, service.RecordInteraction(context.Background(), models.Interaction{
			WallpaperID: "builtin-urban-sunset",
			Action:      models.ActionLike,
			Timestamp:   testNow.Add(-time.Duration(i) * time.Hour),
		}))
	}

	insights, err := service.GetInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Urban", insights.FavoriteCategory)
	assert.Equal(t, "medium", insights.ActivityLevel)
	assert.Len(t, insights.Recommendations, 3)
}

// TestService_AddCustomWallpaper 自定义壁纸入库并计数
func TestService_AddCustomWallpaper(t *testing.T) {
	service := newTestService(t, nil, nil)

	added, err := service.AddCustomWallpaper(models.Wallpaper{
		URI:      "file:///home/user/pic.jpg",
		Category: "Natura",
		Tags:     []string{"custom"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	catalog, err := service.GetWallpapers()
	require.NoError(t, err)
	assert.Equal(t, added.ID, catalog[len(catalog)-1].ID)

	profile, err := service.GetProfileStats()
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CustomWallpapersAdded)

	_, err = service.AddCustomWallpaper(models.Wallpaper{})
	assert.Error(t, err, "缺失 URI 应报错")
}

// TestService_GetCurrentWeather 无提供者时报错，合成提供者正常返回
func TestService_GetCurrentWeather(t *testing.T) {
	noProvider := newTestService(t, nil, nil)
	_, err := noProvider.GetCurrentWeather(context.Background())
	assert.Error(t, err)

	withProvider := newTestService(t, weather.NewSyntheticProvider(), nil)
	reading, err := withProvider.GetCurrentWeather(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, reading.Condition)
}

// TestService_PublishesEvents 推荐与交互发布对应的事件
func TestService_PublishesEvents(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Stop(time.Second)

	received := make(chan events.Event, 16)
	bus.Subscribe("*", func(event events.Event) error {
		received <- event
		return nil
	})

	service := newTestService(t, nil, bus)

	_, err := service.GetRecommendation(context.Background())
	require.NoError(t, err)

	require.NoError(t, service.RecordInteraction(context.Background(), models.Interaction{
		WallpaperID: "builtin-auto-road",
		Action:      models.ActionSet,
	}))

	seen := make(map[events.EventType]bool)
	deadline := time.After(2 * time.Second)
	for len(seen) < 3 {
		select {
		case event := <-received:
			seen[event.Type] = true
		case <-deadline:
			t.Fatalf("等待事件超时，已收到: %v", seen)
		}
	}

	assert.True(t, seen[events.EventTypeRecommendation])
	assert.True(t, seen[events.EventTypeInteraction])
	assert.True(t, seen[events.EventTypeProfileUpdated])
}

// TestService_NilDependencies 关键依赖缺失时构造失败
func TestService_NilDependencies(t *testing.T) {
	_, err := NewRecommendationService(
		DefaultRecommendationServiceConfig(),
		nil, nil, nil, nil, nil, nil, rand.NewSource(1),
	)
	assert.Error(t, err)
}
