package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/cache"
	"github.com/ppiankov/doubt/internal/engine"
	"github.com/ppiankov/doubt/internal/extract"
	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/score"
)

// Pipeline turns raw input into analysis reports
type Pipeline struct {
	engine    *engine.Engine
	extractor *extract.TextExtractor
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
	now       func() time.Time
}

// Input is one piece of text to analyze
type Input struct {
	Text   string
	Source string            // Where the text came from, recorded in the report
	Format model.InputFormat // Empty means detect
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithLogger(logger.Named("engine"))}
	if cfg.Cache.Enabled {
		opts = append(opts, engine.WithCache(cache.NewResultCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)))
	}

	eng, err := engine.New(cfg.Engine, opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	return &Pipeline{
		engine:    eng,
		extractor: extract.NewTextExtractor(),
		renderer:  NewRenderer(cfg.Output),
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Engine returns the underlying engine
func (p *Pipeline) Engine() *engine.Engine {
	return p.engine
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Analyze normalizes the input, runs the engine and wraps the result in a
// report
func (p *Pipeline) Analyze(in Input) (*model.Report, error) {
	text, format, err := p.normalize(in)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", in.Source, err)
	}

	result := p.engine.Analyze(text)

	report := &model.Report{
		ID:         uuid.NewString(),
		Source:     in.Source,
		Format:     format,
		AnalyzedAt: p.now().UTC(),
		Engine:     p.engine.Config(),
		Result:     result,
		Stats:      score.Stats(result),
		Principles: model.DefaultPrinciples(),
	}

	p.logger.Debug("report created",
		zap.String("id", report.ID),
		zap.String("source", report.Source),
		zap.Int("doubts", report.Stats.TotalDoubts),
		zap.Float64("doubt_score", result.DoubtScore),
	)

	return report, nil
}

// AnalyzeSentences analyzes each sentence of the input as its own top-level
// text
func (p *Pipeline) AnalyzeSentences(in Input) ([]*model.Report, error) {
	text, format, err := p.normalize(in)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", in.Source, err)
	}

	sentences := extract.SplitSentences(text)
	reports := make([]*model.Report, 0, len(sentences))
	for i, sentence := range sentences {
		report, err := p.Analyze(Input{
			Text:   sentence,
			Source: fmt.Sprintf("%s#%d", in.Source, i+1),
			Format: model.FormatText,
		})
		if err != nil {
			return nil, err
		}
		report.Format = format
		reports = append(reports, report)
	}

	return reports, nil
}

// normalize converts input to the plain text the engine analyzes
func (p *Pipeline) normalize(in Input) (string, model.InputFormat, error) {
	format := in.Format
	if format == "" {
		format = model.FormatText
		if extract.LooksLikeHTML(in.Text) {
			format = model.FormatHTML
		}
	}

	if format != model.FormatHTML {
		return in.Text, format, nil
	}

	text, err := p.extractor.FromHTML(in.Text)
	if err != nil {
		return "", format, err
	}
	return text, format, nil
}
