package recommender

import (
	"math/rand"
	"testing"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRanked(ids ...string) []models.Recommendation {
	ranked := make([]models.Recommendation, len(ids))
	for i, id := range ids {
		ranked[i] = models.Recommendation{
			Wallpaper: models.Wallpaper{ID: id},
			Score:     90 - float64(i)*10,
		}
	}
	return ranked
}

// TestSelector_Empty 空列表返回 ErrNoCandidates
func TestSelector_Empty(t *testing.T) {
	selector, err := NewSelector(DefaultSelectorConfig(), rand.NewSource(1))
	require.NoError(t, err)

	_, err = selector.Select(nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

// TestSelector_Single 唯一候选直接返回
func TestSelector_Single(t *testing.T) {
	selector, err := NewSelector(DefaultSelectorConfig(), rand.NewSource(1))
	require.NoError(t, err)

	selected, err := selector.Select(makeRanked("only"))
	require.NoError(t, err)
	assert.Equal(t, "only", selected.Wallpaper.ID)
}

// TestSelector_NilSource 随机源必须显式注入
func TestSelector_NilSource(t *testing.T) {
	_, err := NewSelector(DefaultSelectorConfig(), nil)
	assert.Error(t, err)
}

// TestSelector_WeightedBias 固定种子下多次选择呈现权重偏向：
// 第 1 名 > 第 2 名 > 第 3 名，且三者都有非零概率
func TestSelector_WeightedBias(t *testing.T) {
	selector, err := NewSelector(DefaultSelectorConfig(), rand.NewSource(42))
	require.NoError(t, err)

	ranked := makeRanked("first", "second", "third")
	counts := make(map[string]int)
	const trials = 3000

	for i := 0; i < trials; i++ {
		selected, err := selector.Select(ranked)
		require.NoError(t, err)
		counts[selected.Wallpaper.ID]++
	}

	t.Logf("选择分布: first=%d second=%d third=%d",
		counts["first"], counts["second"], counts["third"])

	assert.Greater(t, counts["first"], counts["second"])
	assert.Greater(t, counts["second"], counts["third"])
	assert.Greater(t, counts["third"], 0)
	assert.Equal(t, trials, counts["first"]+counts["second"]+counts["third"])
}

// TestSelector_TopNOnly 头部之外的候选永远不会被选中
func TestSelector_TopNOnly(t *testing.T) {
	selector, err := NewSelector(DefaultSelectorConfig(), rand.NewSource(7))
	require.NoError(t, err)

	ranked := makeRanked("a", "b", "c", "d", "e")
	for i := 0; i < 1000; i++ {
		selected, err := selector.Select(ranked)
		require.NoError(t, err)
		assert.NotEqual(t, "d", selected.Wallpaper.ID)
		assert.NotEqual(t, "e", selected.Wallpaper.ID)
	}
}

// TestSelector_Reproducible 相同种子产生相同的选择序列
func TestSelector_Reproducible(t *testing.T) {
	ranked := makeRanked("first", "second", "third")

	run := func() []string {
		selector, err := NewSelector(DefaultSelectorConfig(), rand.NewSource(99))
		require.NoError(t, err)

		sequence := make([]string, 0, 50)
		for i := 0; i < 50; i++ {
			selected, err := selector.Select(ranked)
			require.NoError(t, err)
			sequence = append(sequence, selected.Wallpaper.ID)
		}
		return sequence
	}

	assert.Equal(t, run(), run())
}
