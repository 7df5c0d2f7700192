// Package engine is the recursive orchestrator: f(f(x)) where f runs the
// critique rule set over a text.
//
// An analysis runs the rules, then re-analyzes up to FanOut of its own
// generated questions one level deeper, and merges their doubts upward.
// Two guards keep the recursion finite: a depth limit and a per-lineage
// cycle check on text fingerprints. Both produce ordinary empty results,
// never errors.
package engine

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/cache"
	"github.com/ppiankov/doubt/internal/insight"
	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/rules"
	"github.com/ppiankov/doubt/internal/score"
)

// Engine applies the rule set recursively to text
type Engine struct {
	config      model.EngineConfig
	rules       rules.Set
	scorer      *score.Scorer
	synthesizer *insight.Synthesizer
	cache       *cache.ResultCache // Optional, top-level results only
	logger      *zap.Logger
}

// Option customizes an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRules replaces the default rule set
func WithRules(set rules.Set) Option {
	return func(e *Engine) {
		e.rules = set
	}
}

// WithSynthesizer replaces the default insight synthesizer
func WithSynthesizer(s *insight.Synthesizer) Option {
	return func(e *Engine) {
		if s != nil {
			e.synthesizer = s
		}
	}
}

// WithCache memoizes top-level results. Each call gets its own copy of the
// cached result's Doubts and Branches slices; branch results are shared and
// must not be modified.
func WithCache(c *cache.ResultCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// New creates an engine with the given configuration
func New(cfg model.EngineConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	scorer, err := score.NewScorer(cfg.ScorePolicy)
	if err != nil {
		return nil, fmt.Errorf("engine scorer: %w", err)
	}

	e := &Engine{
		config:      cfg,
		rules:       rules.Default(),
		scorer:      scorer,
		synthesizer: insight.NewSynthesizer(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Config returns the engine configuration
func (e *Engine) Config() model.EngineConfig {
	return e.config
}

// Analyze doubts text starting at depth 0
func (e *Engine) Analyze(text string) *model.AnalysisResult {
	return e.AnalyzeAt(text, 0)
}

// AnalyzeValue coerces v to its string form and analyzes it
func (e *Engine) AnalyzeValue(v any) *model.AnalysisResult {
	return e.Analyze(Coerce(v))
}

// AnalyzeAt doubts text as if it were reached at the given depth. Negative
// depths are treated as 0.
func (e *Engine) AnalyzeAt(text string, depth int) *model.AnalysisResult {
	if depth < 0 {
		depth = 0
	}
	text = truncate(text, e.config.MaxInputRunes)

	if e.cache == nil {
		return e.analyze(text, depth, nil)
	}

	key := cache.Key(text, depth, e.config)
	if r, found := e.cache.Get(key); found {
		e.logger.Debug("result cache hit", zap.Int("depth", depth))
		return detach(r)
	}

	r := e.analyze(text, depth, nil)
	e.cache.Set(key, detach(r))
	return r
}

// AnalyzeWithin doubts text at depth with an existing visited lineage. The
// lineage is not modified.
func (e *Engine) AnalyzeWithin(text string, depth int, visited *Lineage) *model.AnalysisResult {
	if depth < 0 {
		depth = 0
	}
	return e.analyze(truncate(text, e.config.MaxInputRunes), depth, visited)
}

// Fingerprint returns the cycle-detection fingerprint the engine uses for text
func (e *Engine) Fingerprint(text string) string {
	return Fingerprint(truncate(text, e.config.MaxInputRunes), e.config.FingerprintPrefix)
}

func (e *Engine) analyze(text string, depth int, visited *Lineage) *model.AnalysisResult {
	fp := Fingerprint(text, e.config.FingerprintPrefix)

	if visited.Contains(fp) {
		e.logger.Debug("cycle guard", zap.Int("depth", depth), zap.String("fingerprint", fp[:12]))
		return halted(text, depth, model.HaltCycle, insight.AlreadyAnalyzed)
	}

	if depth >= e.config.MaxDepth {
		e.logger.Debug("depth guard", zap.Int("depth", depth), zap.Int("max_depth", e.config.MaxDepth))
		return halted(text, depth, model.HaltDepthLimit, insight.DepthLimitReached)
	}

	doubts := e.rules.Apply(text, depth)

	var branches []*model.AnalysisResult
	if depth < e.config.MaxDepth-1 && len(doubts) > 0 {
		lineage := visited.With(fp)

		n := min(len(doubts), e.config.FanOut)
		questions := make([]string, n)
		for i := range questions {
			questions[i] = doubts[i].Question
		}

		for _, q := range questions {
			branch := e.analyze(truncate(q, e.config.MaxInputRunes), depth+1, lineage)
			branches = append(branches, branch)
			doubts = append(doubts, branch.Doubts...)
		}
	}

	if doubts == nil {
		doubts = []model.Doubt{}
	}

	e.logger.Debug("analyzed",
		zap.Int("depth", depth),
		zap.Int("doubts", len(doubts)),
		zap.Int("branches", len(branches)),
	)

	return &model.AnalysisResult{
		Original:   text,
		Doubts:     doubts,
		DoubtScore: e.scorer.Score(doubts),
		Insight:    e.synthesizer.Synthesize(doubts, depth, text),
		Depth:      depth,
		Branches:   branches,
	}
}

// detach copies the top level of a result so callers cannot alter a cached entry
func detach(r *model.AnalysisResult) *model.AnalysisResult {
	c := *r
	c.Doubts = slices.Clone(r.Doubts)
	c.Branches = slices.Clone(r.Branches)
	return &c
}

func halted(text string, depth int, halt model.Halt, message string) *model.AnalysisResult {
	return &model.AnalysisResult{
		Original:   text,
		Doubts:     []model.Doubt{},
		DoubtScore: 0,
		Insight:    message,
		Depth:      depth,
		Halt:       halt,
	}
}
