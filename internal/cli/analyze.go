package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/pipeline"
)

var (
	inputFile string
	forceHTML bool
	maxDepth  int
	fanOut    int
	format    string
	outPath   string
	sentences bool
	noCache   bool
	noColor   bool
	limit     int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Doubt a piece of text, then doubt the doubts",
	Long: `Analyze runs every doubt rule over the text:
- Truth, scope and temporal claims stated as absolutes
- Missing evidence, context and explanation
- Hidden assumptions, loaded language and contradictions
- Awareness of its own limits

The first generated questions are analyzed again one level deeper
(f(f(x))), bounded by --depth and by a guard against repeated text.

Text comes from the arguments, from --file, or from stdin when no
arguments are given or the only argument is "-".

Example:
  doubt analyze "Experts always agree."
  doubt analyze --file essay.txt --format json --out report.json
  curl -s https://example.com | doubt analyze --html --depth 2`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read text from file")
	analyzeCmd.Flags().BoolVar(&forceHTML, "html", false, "treat input as HTML and strip markup (auto-detected otherwise)")
	analyzeCmd.Flags().BoolVar(&sentences, "sentences", false, "analyze each sentence as its own text")

	// Engine flags
	analyzeCmd.Flags().IntVar(&maxDepth, "depth", 0, "maximum recursion depth (default from config: 3)")
	analyzeCmd.Flags().IntVar(&fanOut, "fan-out", 0, "doubts re-analyzed per level (default from config: 5)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")

	// Output flags
	analyzeCmd.Flags().StringVar(&format, "format", "", "output format: text, json, yaml (default from config: text)")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path (- for stdout)")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored text output")
	analyzeCmd.Flags().IntVar(&limit, "limit", 0, "doubts listed per level in text output (default from config: 5)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	text, source, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	in := pipeline.Input{Text: text, Source: source}
	if forceHTML {
		in.Format = model.FormatHTML
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	logger.Debug("analyzing",
		zap.String("source", source),
		zap.Int("max_depth", cfg.Engine.MaxDepth),
		zap.Int("fan_out", cfg.Engine.FanOut),
	)

	if !sentences {
		report, err := p.Analyze(in)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
		if err := p.Renderer().RenderFile(report, outPath); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return nil
	}

	reports, err := p.AnalyzeSentences(in)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}
	for i, report := range reports {
		path := outPath
		if path != "" && path != "-" && len(reports) > 1 {
			path = numberedPath(outPath, i+1)
		}
		if err := p.Renderer().RenderFile(report, path); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	return nil
}

// applyFlags overrides config values with flags the user set explicitly
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Engine.MaxDepth = maxDepth
	}
	if flags.Changed("fan-out") {
		cfg.Engine.FanOut = fanOut
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("limit") {
		cfg.Output.Limit = limit
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noColor {
		cfg.Output.Color = false
	}
}

// readInput returns the text to analyze and a label for where it came from
func readInput(stdin io.Reader, args []string) (string, string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", inputFile, err)
		}
		return string(data), inputFile, nil
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	return strings.Join(args, " "), "args", nil
}

// numberedPath inserts n before the extension: out.json -> out-2.json
func numberedPath(path string, n int) string {
	dot := strings.LastIndex(path, ".")
	if dot <= strings.LastIndex(path, string(os.PathSeparator)) {
		return fmt.Sprintf("%s-%d", path, n)
	}
	return fmt.Sprintf("%s-%d%s", path[:dot], n, path[dot:])
}
