package score

import (
	"errors"
	"testing"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doubts(confidences ...float64) []model.Doubt {
	out := make([]model.Doubt, len(confidences))
	for i, c := range confidences {
		out[i] = model.Doubt{Category: model.CategoryTruth, Question: "q", Confidence: c}
	}
	return out
}

func TestNewScorer_Policies(t *testing.T) {
	s, err := NewScorer("")
	require.NoError(t, err)
	assert.Equal(t, model.ScorePolicyMean, s.Policy())

	s, err = NewScorer(model.ScorePolicyCount)
	require.NoError(t, err)
	assert.Equal(t, model.ScorePolicyCount, s.Policy())
	assert.Contains(t, s.Formula(), "/ 10")

	_, err = NewScorer("median")
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))
}

func TestScorer_Mean(t *testing.T) {
	s, _ := NewScorer(model.ScorePolicyMean)

	assert.Equal(t, 0.0, s.Score(nil))
	assert.Equal(t, 0.0, s.Score([]model.Doubt{}))
	assert.InDelta(t, 0.7, s.Score(doubts(0.7, 0.6, 0.8)), 1e-9)
	assert.InDelta(t, 0.4, s.Score(doubts(0.4)), 1e-9)
}

func TestScorer_Count(t *testing.T) {
	s, _ := NewScorer(model.ScorePolicyCount)

	assert.Equal(t, 0.0, s.Score(nil))
	assert.InDelta(t, 0.3, s.Score(doubts(0.1, 0.1, 0.1)), 1e-9)
	assert.Equal(t, 1.0, s.Score(doubts(make([]float64, 25)...)))
}

func TestScorer_Range(t *testing.T) {
	lists := [][]model.Doubt{
		nil,
		doubts(0),
		doubts(1, 1, 1),
		doubts(1.5, 2.0), // out of range input is still clamped
		doubts(-1),
		doubts(make([]float64, 100)...),
	}
	for _, policy := range []string{model.ScorePolicyMean, model.ScorePolicyCount} {
		s, err := NewScorer(policy)
		require.NoError(t, err)
		for _, list := range lists {
			got := s.Score(list)
			assert.GreaterOrEqual(t, got, 0.0, "policy %s", policy)
			assert.LessOrEqual(t, got, 1.0, "policy %s", policy)
		}
	}
}

func TestTally(t *testing.T) {
	list := []model.Doubt{
		{Category: model.CategoryTruth, Confidence: 0.7},
		{Category: model.CategoryTemporal, Confidence: 0.6},
		{Category: model.CategoryTruth, Confidence: 0.7},
		{Category: model.CategorySelfAwareness, Confidence: 0.8},
	}

	b := Tally(list)
	assert.Equal(t, 4, b.Total)
	assert.Equal(t, 3, b.HighConfidence)
	assert.InDelta(t, 0.7, b.MeanConfidence, 1e-9)
	assert.Equal(t, []model.CategoryCount{
		{Category: model.CategoryTruth, Count: 2},
		{Category: model.CategoryTemporal, Count: 1},
		{Category: model.CategorySelfAwareness, Count: 1},
	}, b.Categories)
	assert.Equal(t, 2, b.Count(model.CategoryTruth))
	assert.Equal(t, 0, b.Count(model.CategoryBias))
}

func TestStats_Tree(t *testing.T) {
	leaf := &model.AnalysisResult{Depth: 2, Halt: model.HaltDepthLimit}
	branch := &model.AnalysisResult{
		Depth:    1,
		Doubts:   doubts(0.9, 0.85),
		Branches: []*model.AnalysisResult{leaf},
	}
	cycle := &model.AnalysisResult{Depth: 1, Halt: model.HaltCycle}
	root := &model.AnalysisResult{
		Depth:    0,
		Doubts:   append(doubts(0.7, 0.8), branch.Doubts...),
		Branches: []*model.AnalysisResult{branch, cycle},
	}

	stats := Stats(root)
	assert.Equal(t, 4, stats.TotalDoubts)
	assert.Equal(t, 2, stats.DirectDoubts)
	assert.Equal(t, 3, stats.Branches)
	assert.Equal(t, 2, stats.MaxDepth)
	assert.Equal(t, map[string]int{
		string(model.HaltDepthLimit): 1,
		string(model.HaltCycle):      1,
	}, stats.Guards)

	assert.Equal(t, model.Stats{}, Stats(nil))
}
