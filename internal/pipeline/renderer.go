package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/doubt/internal/model"
)

const separator = "═══════════════════════════════════════════════════════════"

// Renderer writes reports as text, JSON or YAML
type Renderer struct {
	format string
	limit  int
	styles styles
}

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	category lipgloss.Style
	insight  lipgloss.Style
	dim      lipgloss.Style
	halt     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		category: lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68")),
		insight:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9ECE6A")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		halt:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// NewRenderer creates a renderer from output settings
func NewRenderer(cfg model.OutputConfig) *Renderer {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}
	format := cfg.Format
	if format == "" {
		format = "text"
	}
	return &Renderer{
		format: format,
		limit:  limit,
		styles: newStyles(cfg.Color),
	}
}

// Format returns the configured output format
func (r *Renderer) Format() string {
	return r.format
}

// Render writes the report in the configured format
func (r *Renderer) Render(w io.Writer, report *model.Report) error {
	switch r.format {
	case "json":
		return r.RenderJSON(w, report)
	case "yaml":
		return r.RenderYAML(w, report)
	default:
		return r.RenderText(w, report)
	}
}

// RenderFile writes the report to path, or to stdout when path is "" or "-"
func (r *Renderer) RenderFile(report *model.Report, path string) (err error) {
	if path == "" || path == "-" {
		return r.Render(os.Stdout, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return r.Render(f, report)
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the report as YAML
func (r *Renderer) RenderYAML(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}

// RenderText writes a human-readable console report
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	var b strings.Builder
	s := r.styles
	res := report.Result

	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "  %s\n", s.title.Render("Doubt Report"))
	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "  %s %s\n", s.label.Render("Input:     "), preview(res.Original, 70))
	fmt.Fprintf(&b, "  %s %s\n", s.label.Render("Source:    "), report.Source)
	fmt.Fprintf(&b, "  %s %.2f (%s)\n", s.label.Render("Score:     "), res.DoubtScore, report.Engine.ScorePolicy)
	fmt.Fprintf(&b, "  %s %d direct, %d total\n", s.label.Render("Doubts:    "), report.Stats.DirectDoubts, report.Stats.TotalDoubts)
	fmt.Fprintf(&b, "  %s %d (deepest level %d of %d)\n", s.label.Render("Branches:  "), report.Stats.Branches, report.Stats.MaxDepth, report.Engine.MaxDepth)
	if len(report.Stats.Categories) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", s.label.Render("Categories:"), r.categories(report.Stats.Categories))
	}
	fmt.Fprintln(&b)

	r.writeLevel(&b, res)

	if len(res.Branches) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", s.title.Render("Recursion (f(f(x)))"))
		for i, branch := range res.Branches {
			r.writeTree(&b, branch, "  ", i == len(res.Branches)-1)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, separator)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeLevel lists the direct doubts and insight of one result
func (r *Renderer) writeLevel(b *strings.Builder, res *model.AnalysisResult) {
	s := r.styles
	direct := res.Direct()

	fmt.Fprintf(b, "  %s\n", s.title.Render(fmt.Sprintf("Level %d doubts", res.Depth)))
	if res.Halt != model.HaltNone {
		fmt.Fprintf(b, "    %s\n", s.halt.Render(string(res.Halt)))
	}
	for i, d := range direct {
		if i >= r.limit {
			fmt.Fprintf(b, "    %s\n", s.dim.Render(fmt.Sprintf("... and %d more", len(direct)-r.limit)))
			break
		}
		fmt.Fprintf(b, "    %d. %s %s %s\n", i+1,
			s.category.Render("["+string(d.Category)+"]"),
			d.Question,
			s.dim.Render(fmt.Sprintf("(confidence: %.2f)", d.Confidence)))
	}
	fmt.Fprintf(b, "\n  %s %s\n", s.label.Render("Insight:"), s.insight.Render(res.Insight))
}

// writeTree draws one branch and its descendants
func (r *Renderer) writeTree(b *strings.Builder, res *model.AnalysisResult, indent string, last bool) {
	s := r.styles

	connector, childIndent := "├─ ", indent+"│  "
	if last {
		connector, childIndent = "└─ ", indent+"   "
	}

	summary := fmt.Sprintf("%.2f, %d doubts", res.DoubtScore, len(res.Doubts))
	if res.Halt != model.HaltNone {
		summary = s.halt.Render(string(res.Halt))
	}
	fmt.Fprintf(b, "%s%s%s %q %s\n", indent, connector,
		s.dim.Render(fmt.Sprintf("d%d", res.Depth)), preview(res.Original, 50), summary)

	for i, child := range res.Branches {
		r.writeTree(b, child, childIndent, i == len(res.Branches)-1)
	}
}

func (r *Renderer) categories(counts []model.CategoryCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s×%d", r.styles.category.Render(string(c.Category)), c.Count)
	}
	return strings.Join(parts, ", ")
}

// preview shortens text to at most n runes
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
