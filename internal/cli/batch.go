package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/pipeline"
	"github.com/ppiankov/doubt/internal/worker"
)

const separator = "═══════════════════════════════════════════════════════════"

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many texts from a file in parallel",
	Long: `Batch analyzes many independent texts concurrently:
- Read texts from the input file (one per line, # starts a comment)
- Analyze each text with its own recursive doubt run
- Write one JSON report per text to the output directory

Example:
  doubt batch claims.txt
  doubt batch claims.txt --concurrency 8 --output-dir ./doubt-reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config: 4)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./doubt-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with analyze
	batchCmd.Flags().IntVar(&maxDepth, "depth", 0, "maximum recursion depth (default from config: 3)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, separator)
	fmt.Fprintln(stderr, "  Doubt Batch Processing")
	fmt.Fprintln(stderr, separator)
	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Max depth:    %d\n", cfg.Engine.MaxDepth)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintln(stderr)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(model.OutputConfig{Format: "json"})

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		path := filepath.Join(outputDir, reportFilename(result))
		if err := renderer.RenderFile(result.Report, path); err != nil {
			failureCount++
			logger.Warn("write report failed", zap.String("source", result.Source), zap.Error(err))
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Source, err)
			continue
		}

		successCount++
		fmt.Fprintf(stderr, "✓ %s (%d doubts, score %.2f)\n",
			result.Source, result.Report.Stats.TotalDoubts, result.Report.Result.DoubtScore)
	}

	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, separator)
	fmt.Fprintln(stderr, "  Batch Complete")
	fmt.Fprintln(stderr, separator)
	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "  Total:     %d texts\n", len(results))
	fmt.Fprintf(stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintln(stderr)

	return nil
}

// reportFilename names a report by its input position and report ID
func reportFilename(result *worker.AnalyzeResult) string {
	id := result.Report.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%04d-%s.json", result.Index+1, id)
}
