package recommender

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/internal/infrastructure/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAIModel 测试用 AI 客户端：可注入结果或错误，并记录调用次数
type fakeAIModel struct {
	narration *ai.InsightsNarration
	err       error
	calls     int
}

func (f *fakeAIModel) NarrateInsights(ctx context.Context, summary ai.InsightsSummary) (*ai.InsightsNarration, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.narration, nil
}

func (f *fakeAIModel) GetType() ai.ModelType { return ai.ModelTypeClaude }

func (f *fakeAIModel) Close() error { return nil }

func templateInsights() models.Insights {
	return models.Insights{
		FavoriteCategory:      "Natura",
		FavoriteTimeForChange: models.TimeOfDayMorning,
		PreferredWeather:      "clear",
		ActivityLevel:         ActivityMedium,
		Recommendations:       []string{"模板语句一", "模板语句二"},
	}
}

// TestNarrator_NilModel 缺少 AI 客户端时构造失败
func TestNarrator_NilModel(t *testing.T) {
	_, err := NewNarrator(DefaultNarratorConfig())
	assert.Error(t, err)
}

// TestNarrator_Success AI 成功时用叙述结果替换模板语句
func TestNarrator_Success(t *testing.T) {
	model := &fakeAIModel{
		narration: &ai.InsightsNarration{
			Summary:     "你偏爱自然风光",
			Suggestions: []string{"建议一", "建议二"},
		},
	}
	config := DefaultNarratorConfig()
	config.AIModel = model
	config.CacheEnabled = false

	narrator, err := NewNarrator(config)
	require.NoError(t, err)
	defer narrator.Stop()

	insights := narrator.Narrate(context.Background(), templateInsights(), models.NewDefaultProfile())

	assert.Equal(t, []string{"你偏爱自然风光", "建议一", "建议二"}, insights.Recommendations)
	// 其余字段保持不变
	assert.Equal(t, "Natura", insights.FavoriteCategory)
	assert.Equal(t, ActivityMedium, insights.ActivityLevel)
}

// TestNarrator_FallbackOnError AI 失败时原样返回模板洞察，不返回错误
func TestNarrator_FallbackOnError(t *testing.T) {
	model := &fakeAIModel{err: fmt.Errorf("api 超时")}
	config := DefaultNarratorConfig()
	config.AIModel = model
	config.CacheEnabled = false

	narrator, err := NewNarrator(config)
	require.NoError(t, err)
	defer narrator.Stop()

	template := templateInsights()
	insights := narrator.Narrate(context.Background(), template, models.NewDefaultProfile())

	assert.Equal(t, template, insights)
}

// TestNarrator_CacheHit 相同洞察的第二次叙述命中缓存，不再调用 AI
func TestNarrator_CacheHit(t *testing.T) {
	model := &fakeAIModel{
		narration: &ai.InsightsNarration{Summary: "缓存命中测试"},
	}
	config := DefaultNarratorConfig()
	config.AIModel = model
	config.CacheTTL = time.Hour

	narrator, err := NewNarrator(config)
	require.NoError(t, err)
	defer narrator.Stop()

	profile := models.NewDefaultProfile()
	first := narrator.Narrate(context.Background(), templateInsights(), profile)
	second := narrator.Narrate(context.Background(), templateInsights(), profile)

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

// TestNarrator_ErrorNotCached 失败结果不写缓存，下次仍会重试 AI
func TestNarrator_ErrorNotCached(t *testing.T) {
	model := &fakeAIModel{err: fmt.Errorf("api 超时")}
	config := DefaultNarratorConfig()
	config.AIModel = model

	narrator, err := NewNarrator(config)
	require.NoError(t, err)
	defer narrator.Stop()

	narrator.Narrate(context.Background(), templateInsights(), nil)
	narrator.Narrate(context.Background(), templateInsights(), nil)

	assert.Equal(t, 2, model.calls)
}
