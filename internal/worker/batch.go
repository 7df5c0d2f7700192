package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/pipeline"
)

// maxLineBytes bounds a single batch line; the engine truncates long text anyway
const maxLineBytes = 1 << 20

// Analyzer turns one input into a report
type Analyzer interface {
	Analyze(in pipeline.Input) (*model.Report, error)
}

// AnalyzeJob is one top-level analysis
type AnalyzeJob struct {
	Index    int
	Input    pipeline.Input
	Analyzer Analyzer
}

// Execute runs the analysis unless the batch was already cancelled
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AnalyzeResult{Index: j.Index, Source: j.Input.Source, Error: err}
	}

	report, err := j.Analyzer.Analyze(j.Input)
	return &AnalyzeResult{
		Index:  j.Index,
		Source: j.Input.Source,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult is the outcome of one AnalyzeJob
type AnalyzeResult struct {
	Index  int
	Source string
	Report *model.Report
	Error  error
}

// Position returns the input order of the job
func (r *AnalyzeResult) Position() int {
	return r.Index
}

// GetError returns the analysis error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many independent texts concurrently. Each text is
// still analyzed sequentially by one worker.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessInputs analyzes every input and returns one result per input, in
// input order. Inputs not analyzed before ctx ends carry ctx's error.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []pipeline.Input) []*AnalyzeResult {
	if len(inputs) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = &AnalyzeJob{Index: i, Input: in, Analyzer: b.analyzer}
	}

	out := make([]*AnalyzeResult, len(inputs))
	for _, r := range pool.Collect(jobs) {
		ar := r.(*AnalyzeResult)
		out[ar.Index] = ar
	}

	// Jobs dropped by a cancelled pool still get a result
	for i, ar := range out {
		if ar == nil {
			out[i] = &AnalyzeResult{Index: i, Source: inputs[i].Source, Error: cancelled(ctx)}
		}
		if out[i].Error != nil {
			b.logger.Warn("analysis failed", zap.String("source", out[i].Source), zap.Error(out[i].Error))
		}
	}

	return out
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// ProcessFile reads texts from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputsFromFile reads one text per line, skipping blank lines, comments
// and duplicates
func ReadInputsFromFile(filePath string) ([]pipeline.Input, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []pipeline.Input
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, pipeline.Input{
				Text:   line,
				Source: fmt.Sprintf("%s:%d", filePath, lineNo),
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
