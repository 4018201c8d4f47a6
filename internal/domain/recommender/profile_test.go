package recommender

import (
	"testing"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func makeInteraction(action models.Action, category string) models.Interaction {
	return models.Interaction{
		WallpaperID: "w1",
		Action:      action,
		Timestamp:   fixedNow,
		Context: models.InteractionContext{
			TimeOfDay: models.TimeOfDayMorning,
			Category:  category,
		},
	}
}

// TestApplyInteraction_PositiveDelta 正向动作 +0.1
func TestApplyInteraction_PositiveDelta(t *testing.T) {
	profile := models.NewDefaultProfile()

	ApplyInteraction(profile, makeInteraction(models.ActionLike, "Natura"))

	assert.InDelta(t, 0.6, profile.PreferredCategories["Natura"], 1e-9)
}

// TestApplyInteraction_NegativeDelta 负向动作 −0.05
func TestApplyInteraction_NegativeDelta(t *testing.T) {
	profile := models.NewDefaultProfile()

	ApplyInteraction(profile, makeInteraction(models.ActionSkip, "Natura"))

	assert.InDelta(t, 0.45, profile.PreferredCategories["Natura"], 1e-9)
}

// TestApplyInteraction_UnseenCategory 未见过的分类从 0 起步
func TestApplyInteraction_UnseenCategory(t *testing.T) {
	profile := models.NewDefaultProfile()

	ApplyInteraction(profile, makeInteraction(models.ActionLike, "Minimal"))

	assert.InDelta(t, 0.1, profile.PreferredCategories["Minimal"], 1e-9)
}

// TestApplyInteraction_ClampUpper 连续 15 次喜欢后偏好分钳制在 1.0，
// 且时段偏好列表没有重复插入
func TestApplyInteraction_ClampUpper(t *testing.T) {
	profile := models.NewDefaultProfile()

	for i := 0; i < 15; i++ {
		ApplyInteraction(profile, makeInteraction(models.ActionLike, "Natura"))
	}

	assert.Equal(t, 1.0, profile.PreferredCategories["Natura"])

	morning := profile.TimeBasedPreferences[models.TimeOfDayMorning]
	occurrences := 0
	for _, category := range morning {
		if category == "Natura" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences, "15 次插入尝试后应恰好出现一次")
}

// TestApplyInteraction_ClampLower 连续负向动作后偏好分钳制在 0
func TestApplyInteraction_ClampLower(t *testing.T) {
	profile := models.NewDefaultProfile()

	for i := 0; i < 20; i++ {
		ApplyInteraction(profile, makeInteraction(models.ActionDislike, "Auto"))
	}

	assert.Equal(t, 0.0, profile.PreferredCategories["Auto"])
}

// TestApplyInteraction_ClampInvariant 任意动作序列后所有偏好分都在 [0,1]
func TestApplyInteraction_ClampInvariant(t *testing.T) {
	profile := models.NewDefaultProfile()
	actions := []models.Action{
		models.ActionLike, models.ActionDislike, models.ActionSet,
		models.ActionSkip, models.ActionShare, models.ActionDownload,
		models.ActionView, models.ActionLike, models.ActionLike,
	}

	for i := 0; i < 10; i++ {
		for _, action := range actions {
			ApplyInteraction(profile, makeInteraction(action, "Urban"))
		}
	}

	for category, score := range profile.PreferredCategories {
		assert.GreaterOrEqual(t, score, 0.0, "category=%s", category)
		assert.LessOrEqual(t, score, 1.0, "category=%s", category)
	}
}

// TestApplyInteraction_CounterMonotonic 交互总数对每条记录单调递增
func TestApplyInteraction_CounterMonotonic(t *testing.T) {
	profile := models.NewDefaultProfile()
	previous := profile.TotalWallpapersViewed

	for _, action := range []models.Action{
		models.ActionView, models.ActionLike, models.ActionSkip, models.ActionSet,
	} {
		ApplyInteraction(profile, makeInteraction(action, "Auto"))
		assert.Greater(t, profile.TotalWallpapersViewed, previous)
		previous = profile.TotalWallpapersViewed
	}

	assert.Equal(t, 4, profile.TotalWallpapersViewed)
}

// TestApplyInteraction_LastActiveTime 最近活跃时间跟随事件时间
func TestApplyInteraction_LastActiveTime(t *testing.T) {
	profile := models.NewDefaultProfile()
	event := makeInteraction(models.ActionView, "Auto")
	event.Timestamp = time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

	ApplyInteraction(profile, event)

	assert.Equal(t, event.Timestamp, profile.LastActiveTime)
}

// TestApplyInteraction_TimePreferenceOnlyLikeSet 只有 like/set 强化时段偏好
func TestApplyInteraction_TimePreferenceOnlyLikeSet(t *testing.T) {
	profile := models.NewDefaultProfile()

	ApplyInteraction(profile, makeInteraction(models.ActionShare, "Natura"))
	ApplyInteraction(profile, makeInteraction(models.ActionDownload, "Natura"))
	ApplyInteraction(profile, makeInteraction(models.ActionView, "Natura"))
	assert.Empty(t, profile.TimeBasedPreferences[models.TimeOfDayMorning])

	ApplyInteraction(profile, makeInteraction(models.ActionSet, "Natura"))
	assert.Contains(t, profile.TimeBasedPreferences[models.TimeOfDayMorning], "Natura")
}

// TestApplyInteraction_WeatherPreference 天气偏好仅在事件携带天气时记录
func TestApplyInteraction_WeatherPreference(t *testing.T) {
	profile := models.NewDefaultProfile()

	withoutWeather := makeInteraction(models.ActionLike, "Natura")
	ApplyInteraction(profile, withoutWeather)
	assert.Empty(t, profile.WeatherBasedPreferences)

	withWeather := makeInteraction(models.ActionLike, "Natura")
	withWeather.Context.Weather = "rain"
	ApplyInteraction(profile, withWeather)
	ApplyInteraction(profile, withWeather)

	assert.Equal(t, []string{"Natura"}, profile.WeatherBasedPreferences["rain"])
}

// TestApplyInteraction_ZeroValueProfile 零值画像的 map 懒初始化
func TestApplyInteraction_ZeroValueProfile(t *testing.T) {
	profile := &models.BehaviorProfile{}

	ApplyInteraction(profile, makeInteraction(models.ActionLike, "Auto"))

	assert.InDelta(t, 0.1, profile.PreferredCategories["Auto"], 1e-9)
	assert.Equal(t, 1, profile.TotalWallpapersViewed)
}

// TestApplyInteraction_NilProfile nil 画像不崩溃
func TestApplyInteraction_NilProfile(t *testing.T) {
	assert.NotPanics(t, func() {
		ApplyInteraction(nil, makeInteraction(models.ActionLike, "Auto"))
	})
}
