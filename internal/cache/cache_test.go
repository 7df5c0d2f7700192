package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_CoversConfig(t *testing.T) {
	cfg := model.DefaultEngineConfig()
	base := Key("text", 0, cfg)

	assert.Equal(t, base, Key("text", 0, cfg))
	assert.NotEqual(t, base, Key("other", 0, cfg))
	assert.NotEqual(t, base, Key("text", 1, cfg))

	deeper := cfg
	deeper.MaxDepth = 5
	assert.NotEqual(t, base, Key("text", 0, deeper))

	counted := cfg
	counted.ScorePolicy = model.ScorePolicyCount
	assert.NotEqual(t, base, Key("text", 0, counted))
}

func TestResultCache_SetGet(t *testing.T) {
	c := NewResultCache(time.Minute, time.Minute)
	result := &model.AnalysisResult{Original: "text", Insight: "insight"}

	_, found := c.Get("k")
	assert.False(t, found)

	c.Set("k", result)
	got, found := c.Get("k")
	require.True(t, found)
	assert.Same(t, result, got)
	assert.Equal(t, 1, c.Len())

	c.Delete("k")
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestResultCache_Clear(t *testing.T) {
	c := NewResultCache(time.Minute, time.Minute)
	c.Set("a", &model.AnalysisResult{})
	c.Set("b", &model.AnalysisResult{})

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_Expiry(t *testing.T) {
	c := NewResultCache(10*time.Millisecond, time.Hour)
	c.Set("k", &model.AnalysisResult{})

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get("k")
	assert.False(t, found)
}
