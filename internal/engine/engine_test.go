package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/cache"
	"github.com/ppiankov/doubt/internal/insight"
	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/rules"
)

func newEngine(t *testing.T, maxDepth int, opts ...Option) *Engine {
	t.Helper()
	cfg := model.DefaultEngineConfig()
	cfg.MaxDepth = maxDepth
	e, err := New(cfg, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return e
}

func countCategory(doubts []model.Doubt, c model.Category) int {
	n := 0
	for _, d := range doubts {
		if d.Category == c {
			n++
		}
	}
	return n
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := model.DefaultEngineConfig()
	cfg.MaxDepth = 0
	_, err := New(cfg)
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))

	cfg = model.DefaultEngineConfig()
	cfg.ScorePolicy = "median"
	_, err = New(cfg)
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))
}

func TestAnalyze_AbsoluteClaimAtDepthOne(t *testing.T) {
	e := newEngine(t, 1)

	result := e.Analyze("Experts always agree.")

	require.Len(t, result.Doubts, 3)
	assert.Equal(t, model.CategoryTruth, result.Doubts[0].Category)
	assert.Equal(t, 0.7, result.Doubts[0].Confidence)
	assert.Equal(t, 1, countCategory(result.Doubts, model.CategorySelfAwareness))
	assert.Equal(t, 0.8, result.Doubts[2].Confidence)
	assert.Empty(t, result.Branches)

	var sum float64
	for _, d := range result.Doubts {
		sum += d.Confidence
	}
	assert.InDelta(t, sum/float64(len(result.Doubts)), result.DoubtScore, 1e-9)
	assert.True(t, strings.HasPrefix(result.Insight, "I can question this (3 doubts found)."), result.Insight)
	assert.Equal(t, 0, result.Depth)
}

func TestAnalyze_EmptyText(t *testing.T) {
	e := newEngine(t, model.DefaultEngineConfig().MaxDepth)

	result := e.Analyze("")

	assert.NotNil(t, result.Doubts)
	assert.Empty(t, result.Doubts)
	assert.Equal(t, 0.0, result.DoubtScore)
	assert.True(t, strings.HasPrefix(result.Insight, "No doubts found."), result.Insight)
	assert.Equal(t, model.HaltNone, result.Halt)
}

func TestAnalyze_Contradiction(t *testing.T) {
	e := newEngine(t, 1)

	result := e.Analyze("It always works, but sometimes it fails.")

	var contradictions []model.Doubt
	for _, d := range result.Doubts {
		if d.Category == model.CategoryLogicalConsistency {
			contradictions = append(contradictions, d)
		}
	}
	require.Len(t, contradictions, 1)
	assert.Equal(t, 0.8, contradictions[0].Confidence)
	assert.Contains(t, contradictions[0].Question, "'always' and 'sometimes'")
}

func TestAnalyze_RecursesIntoOwnQuestions(t *testing.T) {
	e := newEngine(t, 3)
	text := "Experts always agree."

	result := e.Analyze(text)
	direct := rules.Default().Apply(text, 0)

	require.Len(t, result.Branches, len(direct))
	assert.Equal(t, direct, result.Direct())

	merged := append([]model.Doubt{}, direct...)
	for i, b := range result.Branches {
		assert.Equal(t, 1, b.Depth)
		assert.Equal(t, direct[i].Question, b.Original)
		assert.Equal(t, 2, countCategory(b.Direct(), model.CategorySelfAwareness), "branch %d", i)
		merged = append(merged, b.Doubts...)
	}
	assert.Equal(t, merged, result.Doubts)

	// The first question quotes 'always' and regenerates itself one level down
	first := result.Branches[0]
	require.NotEmpty(t, first.Branches)
	assert.Equal(t, model.HaltCycle, first.Branches[0].Halt)
	assert.Equal(t, insight.AlreadyAnalyzed, first.Branches[0].Insight)
	assert.Empty(t, first.Branches[0].Doubts)
}

func TestAnalyze_FanOutCap(t *testing.T) {
	e := newEngine(t, 2)

	result := e.Analyze("Obviously everyone knows all experts always agree and it is a proven fact.")

	require.Greater(t, len(result.Direct()), 5)
	assert.Len(t, result.Branches, 5)
	for _, b := range result.Branches {
		assert.Empty(t, b.Branches, "depth 1 is the last level when max_depth is 2")
	}
}

func TestAnalyze_ZeroFanOut(t *testing.T) {
	cfg := model.DefaultEngineConfig()
	cfg.FanOut = 0
	e, err := New(cfg)
	require.NoError(t, err)

	result := e.Analyze("Experts always agree.")
	assert.Empty(t, result.Branches)
	assert.Len(t, result.Doubts, 3)
}

func TestAnalyze_DepthBound(t *testing.T) {
	for _, maxDepth := range []int{1, 2, 3} {
		e := newEngine(t, maxDepth)

		result := e.Analyze("Obviously everyone knows all experts always agree and it is a proven fact.")
		result.Walk(func(r *model.AnalysisResult) {
			assert.LessOrEqual(t, r.Depth, maxDepth)
			assert.Less(t, r.Depth, maxDepth, "recursion stops one level above the limit")
		})

		limited := e.AnalyzeAt("Experts always agree.", maxDepth)
		assert.Empty(t, limited.Doubts)
		assert.Equal(t, model.HaltDepthLimit, limited.Halt)
		assert.Equal(t, insight.DepthLimitReached, limited.Insight)
		assert.Equal(t, 0.0, limited.DoubtScore)
		assert.Equal(t, maxDepth, limited.Depth)
	}
}

func TestAnalyze_NegativeDepth(t *testing.T) {
	e := newEngine(t, 1)
	assert.Equal(t, 0, e.AnalyzeAt("Experts always agree.", -4).Depth)
}

func TestAnalyzeWithin_CycleGuard(t *testing.T) {
	e := newEngine(t, 3)
	text := "Experts always agree."

	visited := (*Lineage)(nil).With(e.Fingerprint(text))
	result := e.AnalyzeWithin(text, 1, visited)

	assert.Equal(t, model.HaltCycle, result.Halt)
	assert.Equal(t, insight.AlreadyAnalyzed, result.Insight)
	assert.Empty(t, result.Doubts)
	assert.Equal(t, 1, visited.Len())

	other := e.AnalyzeWithin("Prices never fall.", 1, visited)
	assert.Equal(t, model.HaltNone, other.Halt)
	assert.NotEmpty(t, other.Doubts)
}

func TestAnalyzeWithin_CycleCheckedBeforeDepth(t *testing.T) {
	e := newEngine(t, 1)
	text := "Experts always agree."

	result := e.AnalyzeWithin(text, 5, (*Lineage)(nil).With(e.Fingerprint(text)))
	assert.Equal(t, model.HaltCycle, result.Halt)
}

func TestAnalyzeWithin_FingerprintUsesPrefix(t *testing.T) {
	e := newEngine(t, 3)
	prefix := strings.Repeat("x", model.DefaultEngineConfig().FingerprintPrefix)

	visited := (*Lineage)(nil).With(e.Fingerprint(prefix + " first tail"))
	result := e.AnalyzeWithin(prefix+" second tail", 0, visited)
	assert.Equal(t, model.HaltCycle, result.Halt)
}

func TestAnalyze_Truncation(t *testing.T) {
	e := newEngine(t, 1)
	limit := model.DefaultEngineConfig().MaxInputRunes

	result := e.Analyze(strings.Repeat("a", limit+50))
	assert.Equal(t, limit, utf8.RuneCountInString(result.Original))

	result = e.Analyze(strings.Repeat("é", limit+1))
	assert.Equal(t, limit, utf8.RuneCountInString(result.Original))
	assert.True(t, utf8.ValidString(result.Original))

	short := "Experts always agree."
	assert.Equal(t, short, e.Analyze(short).Original)
}

type panicky struct{}

func (*panicky) String() string { panic("boom") }

func TestAnalyzeValue_Totality(t *testing.T) {
	e := newEngine(t, 2)

	values := []any{
		nil,
		42,
		3.14,
		true,
		[]byte("Experts always agree."),
		[]rune("Prices never fall."),
		errors.New("the system is always down"),
		struct{ Claim string }{"everyone agrees"},
		map[string]int{"all": 1},
		(*panicky)(nil),
		&panicky{},
		time.Duration(0),
	}

	for _, v := range values {
		assert.NotPanics(t, func() {
			result := e.AnalyzeValue(v)
			require.NotNil(t, result)
			assert.NotNil(t, result.Doubts)
			assert.NotEmpty(t, result.Insight)
		}, "value %#v", v)
	}
}

func TestAnalyze_TotalityOverStrings(t *testing.T) {
	e := newEngine(t, 3)

	texts := []string{
		"",
		" ",
		"?",
		"!!!...???",
		"\x00\xff\xfe",
		"日本語のテキストです。すべては常に正しい。",
		strings.Repeat("always never all because and ", 2000),
		"I always doubt everything. We always question.",
	}

	for _, text := range texts {
		assert.NotPanics(t, func() {
			result := e.Analyze(text)
			result.Walk(func(r *model.AnalysisResult) {
				assert.GreaterOrEqual(t, r.DoubtScore, 0.0)
				assert.LessOrEqual(t, r.DoubtScore, 1.0)
				assert.NotEmpty(t, r.Insight)
				for _, d := range r.Doubts {
					assert.GreaterOrEqual(t, d.Confidence, 0.0)
					assert.LessOrEqual(t, d.Confidence, 1.0)
				}
			})
		})
	}
}

func TestAnalyze_SelfReferenceSignal(t *testing.T) {
	e := newEngine(t, 3)
	text := "Experts always agree."

	root := e.AnalyzeAt(text, 0)
	assert.Equal(t, 1, countCategory(root.Direct(), model.CategorySelfAwareness))

	for depth := 1; depth < 3; depth++ {
		r := e.AnalyzeAt(text, depth)
		assert.Equal(t, 2, countCategory(r.Direct(), model.CategorySelfAwareness), "depth %d", depth)
	}

	deep := e.AnalyzeAt(text, 1)
	assert.True(t, strings.HasPrefix(deep.Insight, "I can doubt my own doubts"), deep.Insight)
}

func TestAnalyze_Deterministic(t *testing.T) {
	e := newEngine(t, 3)
	text := "Obviously everyone knows all experts always agree and it is a proven fact."
	assert.Equal(t, e.Analyze(text), e.Analyze(text))
}

func TestAnalyze_SiblingBranchesIndependent(t *testing.T) {
	// Two identical sibling questions are both analyzed: the first sibling's
	// visit must not leak into the second.
	twice := rules.Set{{
		Name:     "echo",
		Category: model.CategoryTruth,
		Apply: func(in rules.Input) []model.Doubt {
			switch in.Depth {
			case 0:
			case 1:
				return []model.Doubt{{Category: model.CategoryTruth, Question: "deeper", Confidence: 0.5}}
			default:
				return nil
			}
			return []model.Doubt{
				{Category: model.CategoryTruth, Question: "same question", Confidence: 0.5},
				{Category: model.CategoryTruth, Question: "same question", Confidence: 0.5},
			}
		},
	}}
	e := newEngine(t, 3, WithRules(twice))

	result := e.Analyze("seed")
	require.Len(t, result.Branches, 2)
	assert.Equal(t, model.HaltNone, result.Branches[0].Halt)
	assert.Equal(t, model.HaltNone, result.Branches[1].Halt)
	assert.Len(t, result.Branches[0].Branches, 1)
	assert.Len(t, result.Branches[1].Branches, 1)
}

func TestAnalyze_CountPolicy(t *testing.T) {
	cfg := model.DefaultEngineConfig()
	cfg.MaxDepth = 1
	cfg.ScorePolicy = model.ScorePolicyCount
	e, err := New(cfg)
	require.NoError(t, err)

	result := e.Analyze("Experts always agree.")
	assert.InDelta(t, 0.3, result.DoubtScore, 1e-9)
}

func TestAnalyze_Cache(t *testing.T) {
	c := cache.NewResultCache(time.Minute, time.Minute)
	e := newEngine(t, 2, WithCache(c))

	first := e.Analyze("Experts always agree.")
	second := e.Analyze("Experts always agree.")
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())

	e.AnalyzeAt("Experts always agree.", 1)
	assert.Equal(t, 2, c.Len())
}

func TestAnalyze_CacheHitsAreIsolated(t *testing.T) {
	e := newEngine(t, 2, WithCache(cache.NewResultCache(time.Minute, time.Minute)))
	text := "Experts always agree."

	first := e.Analyze(text)
	want := len(first.Doubts)
	question := first.Doubts[0].Question

	first.Doubts[0].Question = "changed"
	first.Doubts = append(first.Doubts, model.Doubt{Category: model.CategoryBias, Question: "extra"})
	first.Branches = nil

	second := e.Analyze(text)
	require.Len(t, second.Doubts, want)
	assert.Equal(t, question, second.Doubts[0].Question)
	assert.NotEmpty(t, second.Branches)

	second.Doubts[0].Question = "changed again"
	third := e.Analyze(text)
	assert.Equal(t, question, third.Doubts[0].Question)
}

func TestLineage_Persistent(t *testing.T) {
	var empty *Lineage
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains("a"))

	a := empty.With("a")
	ab := a.With("b")
	ac := a.With("c")

	assert.True(t, ab.Contains("a"))
	assert.True(t, ab.Contains("b"))
	assert.False(t, ab.Contains("c"))
	assert.False(t, a.Contains("b"))
	assert.True(t, ac.Contains("c"))
	assert.Equal(t, 2, ab.Len())
	assert.Equal(t, 1, a.Len())
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, "", Coerce(nil))
	assert.Equal(t, "text", Coerce("text"))
	assert.Equal(t, "42", Coerce(42))
	assert.Equal(t, "bytes", Coerce([]byte("bytes")))
	assert.Equal(t, "boom", Coerce(errors.New("boom")))
	assert.Equal(t, "1s", Coerce(time.Second))
}
