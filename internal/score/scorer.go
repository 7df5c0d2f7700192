package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/doubt/internal/model"
)

// HighConfidence is the confidence at or above which a doubt counts as strong
const HighConfidence = 0.7

// countNormalizer is the doubt count that saturates the count policy
const countNormalizer = 10.0

// Scorer aggregates doubts into a single score
type Scorer struct {
	policy string
}

// NewScorer creates a scorer for the given policy ("mean" or "count")
func NewScorer(policy string) (*Scorer, error) {
	switch policy {
	case model.ScorePolicyMean, model.ScorePolicyCount:
	case "":
		policy = model.ScorePolicyMean
	default:
		return nil, fmt.Errorf("%w: unknown score policy %q", model.ErrInvalidConfig, policy)
	}
	return &Scorer{policy: policy}, nil
}

// Policy returns the active policy name
func (s *Scorer) Policy() string {
	return s.policy
}

// Formula describes how the active policy computes the score
func (s *Scorer) Formula() string {
	if s.policy == model.ScorePolicyCount {
		return "min(doubt_count / 10, 1.0)"
	}
	return "min(sum(confidence) / doubt_count, 1.0)"
}

// Score calculates the doubt score in [0, 1]. An empty list scores 0.
func (s *Scorer) Score(doubts []model.Doubt) float64 {
	if len(doubts) == 0 {
		return 0
	}

	var score float64
	switch s.policy {
	case model.ScorePolicyCount:
		score = float64(len(doubts)) / countNormalizer
	default:
		score = MeanConfidence(doubts)
	}

	return clamp(score)
}

// MeanConfidence returns the mean confidence, or 0 for no doubts
func MeanConfidence(doubts []model.Doubt) float64 {
	if len(doubts) == 0 {
		return 0
	}
	var sum float64
	for _, d := range doubts {
		sum += d.Confidence
	}
	return sum / float64(len(doubts))
}

// Breakdown tallies doubts by category
type Breakdown struct {
	Total          int
	Categories     []model.CategoryCount // First-seen order
	MeanConfidence float64
	HighConfidence int
}

// Count returns the number of doubts in a category
func (b Breakdown) Count(c model.Category) int {
	for _, cc := range b.Categories {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}

// Tally builds a breakdown of the doubt list
func Tally(doubts []model.Doubt) Breakdown {
	b := Breakdown{
		Total:          len(doubts),
		MeanConfidence: MeanConfidence(doubts),
	}

	index := make(map[model.Category]int)
	for _, d := range doubts {
		if d.Confidence >= HighConfidence {
			b.HighConfidence++
		}
		i, ok := index[d.Category]
		if !ok {
			i = len(b.Categories)
			index[d.Category] = i
			b.Categories = append(b.Categories, model.CategoryCount{Category: d.Category})
		}
		b.Categories[i].Count++
	}

	return b
}

// Stats summarizes a whole result tree for reporting
func Stats(result *model.AnalysisResult) model.Stats {
	if result == nil {
		return model.Stats{}
	}

	b := Tally(result.Doubts)
	stats := model.Stats{
		TotalDoubts:    b.Total,
		DirectDoubts:   len(result.Direct()),
		Categories:     b.Categories,
		MeanConfidence: b.MeanConfidence,
		HighConfidence: b.HighConfidence,
	}

	result.Walk(func(r *model.AnalysisResult) {
		if r != result {
			stats.Branches++
		}
		if r.Depth > stats.MaxDepth {
			stats.MaxDepth = r.Depth
		}
		if r.Halt != model.HaltNone {
			if stats.Guards == nil {
				stats.Guards = make(map[string]int)
			}
			stats.Guards[string(r.Halt)]++
		}
	})

	return stats
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
