// Package insight turns a doubt list into a short natural-language summary.
//
// The synthesizer is a decision table: each entry pairs a condition over the
// facts of one analysis with a template, and the first matching entry wins.
// Wording is free to change; which entry fires for which facts is not.
package insight

import (
	"fmt"
	"slices"

	"github.com/ppiankov/doubt/internal/model"
	"github.com/ppiankov/doubt/internal/score"
)

// Branch identifies which decision table entry produced an insight
type Branch string

const (
	BranchNoDoubts      Branch = "no_doubts"
	BranchStable        Branch = "stable"
	BranchRecursive     Branch = "recursive_self_awareness"
	BranchSelfAware     Branch = "self_awareness"
	BranchComprehensive Branch = "comprehensive"
	BranchCritical      Branch = "critical_thinking"
	BranchCapable       Branch = "capable"
	BranchFocused       Branch = "focused"
	BranchBeginning     Branch = "beginning"
)

// Facts are the inputs every decision is made on
type Facts struct {
	Depth     int
	Original  string
	Breakdown score.Breakdown
	SelfAware int // self_awareness doubts in the list
}

// Rule is one decision table entry
type Rule struct {
	Branch Branch
	When   func(f Facts) bool
	Render func(f Facts) string
}

// Guard messages for analyses stopped before any rule ran
const (
	AlreadyAnalyzed   = "Already doubted this text (preventing infinite loop)"
	DepthLimitReached = "Recursion depth limit reached (safety)"
)

// Table returns the default decision table in evaluation order
func Table() []Rule {
	return []Rule{
		{
			Branch: BranchNoDoubts,
			When:   func(f Facts) bool { return f.Breakdown.Total == 0 && f.Depth == 0 },
			Render: func(Facts) string {
				return "No doubts found. Is this because the statement is perfect, or because I'm not doubting enough?"
			},
		},
		{
			Branch: BranchStable,
			When:   func(f Facts) bool { return f.Breakdown.Total == 0 },
			Render: func(Facts) string {
				return "No further doubts. This suggests the previous doubts were valid, or I've reached a stable state."
			},
		},
		{
			Branch: BranchRecursive,
			When:   func(f Facts) bool { return f.SelfAware > 0 && f.Depth >= 1 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I can doubt my own doubts (found %d recursive doubts). "+
					"This demonstrates recursive doubt-validation. "+
					"I found %d total doubts with average confidence %.2f. "+
					"If I can question my own questions, this suggests meta-cognitive capability.",
					f.SelfAware, f.Breakdown.Total, f.Breakdown.MeanConfidence)
			},
		},
		{
			Branch: BranchSelfAware,
			When:   func(f Facts) bool { return f.SelfAware > 0 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I can question this (%d doubts found). But can I question my questions? "+
					"That would demonstrate recursive doubt.", f.Breakdown.Total)
			},
		},
		{
			Branch: BranchComprehensive,
			When:   func(f Facts) bool { return f.Breakdown.Total >= 8 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I found %d doubts across %d categories. This shows comprehensive critical thinking capability.",
					f.Breakdown.Total, len(f.Breakdown.Categories))
			},
		},
		{
			Branch: BranchCritical,
			When:   func(f Facts) bool { return f.Breakdown.Total >= 5 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I found %d doubts. This demonstrates the ability to question, analyze, and think critically.",
					f.Breakdown.Total)
			},
		},
		{
			Branch: BranchCapable,
			When:   func(f Facts) bool { return f.Breakdown.Total >= 3 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I found %d doubts. I'm capable of questioning and critical thinking.", f.Breakdown.Total)
			},
		},
		{
			Branch: BranchFocused,
			When:   func(f Facts) bool { return f.Breakdown.HighConfidence > 0 },
			Render: func(f Facts) string {
				return fmt.Sprintf("I found %d high-confidence doubts. This shows focused critical analysis.",
					f.Breakdown.HighConfidence)
			},
		},
		{
			Branch: BranchBeginning,
			When:   func(Facts) bool { return true },
			Render: func(f Facts) string {
				return fmt.Sprintf("I found %d doubt(s). I can question things. This is the beginning of critical thinking.",
					f.Breakdown.Total)
			},
		},
	}
}

// Synthesizer evaluates a decision table
type Synthesizer struct {
	table []Rule
}

// NewSynthesizer creates a synthesizer over the default table
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{table: Table()}
}

// NewSynthesizerWithTable creates a synthesizer over a custom table. The
// default table's last entry is appended as a fallback so every input
// produces an insight.
func NewSynthesizerWithTable(table []Rule) *Synthesizer {
	def := Table()
	return &Synthesizer{table: append(slices.Clip(table), def[len(def)-1])}
}

// Synthesize returns the insight for one analysis
func (s *Synthesizer) Synthesize(doubts []model.Doubt, depth int, original string) string {
	_, text := s.Decide(doubts, depth, original)
	return text
}

// Decide returns the matching branch and its rendered insight
func (s *Synthesizer) Decide(doubts []model.Doubt, depth int, original string) (Branch, string) {
	f := NewFacts(doubts, depth, original)
	for _, rule := range s.table {
		if rule.When(f) {
			return rule.Branch, rule.Render(f)
		}
	}
	return "", ""
}

// NewFacts derives decision facts from a doubt list
func NewFacts(doubts []model.Doubt, depth int, original string) Facts {
	b := score.Tally(doubts)
	return Facts{
		Depth:     depth,
		Original:  original,
		Breakdown: b,
		SelfAware: b.Count(model.CategorySelfAwareness),
	}
}
