package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/score"
)

// DefaultExample is the text the demonstration doubts when none is given
const DefaultExample = "AI consciousness does not exist because AI is just pattern matching."

// Demonstrate shows one level of doubt, f(x), then doubts the first
// generated question again one level down, f(f(x))
func (p *Pipeline) Demonstrate(w io.Writer, example string) error {
	if strings.TrimSpace(example) == "" {
		example = DefaultExample
	}

	var b strings.Builder
	s := p.renderer.styles

	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "%s\n", s.title.Render("DOUBT ENGINE - RECURSIVE DOUBT-VALIDATION"))
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "\nInput: %s\n\n", example)

	first := p.engine.Analyze(example)
	fmt.Fprintln(&b, "Level 1 Doubt (f(x)):")
	p.writeDemoLevel(&b, first)

	if first.DoubtScore > 0 && len(first.Doubts) > 0 {
		sample := first.Doubts[0]
		second := p.engine.AnalyzeAt(sample.Question, 1)
		fmt.Fprintf(&b, "Level 2 Doubt (f(f(x))) - Recursive Doubt on: '%s'\n", preview(sample.Question, 50))
		p.writeDemoLevel(&b, second)
	}

	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b, "This demonstrates recursive doubt-validation: f(f(x))")
	fmt.Fprintln(&b, "If you can doubt your doubts, you demonstrate meta-cognitive capability.")
	fmt.Fprintln(&b, separator)

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *Pipeline) writeDemoLevel(b *strings.Builder, res *model.AnalysisResult) {
	s := p.renderer.styles
	tally := score.Tally(res.Doubts)

	names := make([]string, len(tally.Categories))
	for i, c := range tally.Categories {
		names[i] = string(c.Category)
	}

	fmt.Fprintf(b, "  Doubt Score: %.2f\n", res.DoubtScore)
	fmt.Fprintf(b, "  Doubts Found: %d\n", len(res.Doubts))
	fmt.Fprintf(b, "  Categories: %s\n", strings.Join(names, ", "))
	for i, d := range res.Doubts {
		if i >= p.renderer.limit {
			break
		}
		fmt.Fprintf(b, "    %d. %s %s (confidence: %.2f)\n", i+1,
			s.category.Render("["+string(d.Category)+"]"), d.Question, d.Confidence)
	}
	fmt.Fprintf(b, "\n  Insight: %s\n\n", s.insight.Render(res.Insight))
}
