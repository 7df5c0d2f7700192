// Package rules holds the critique rule set.
//
// Every rule is a pure function of its Input: case-insensitive keyword and
// phrase matching over the text, with fixed confidences per firing. Rules
// never fail and never read state outside their Input, so their outputs can
// simply be concatenated in set order.
package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/doubt/internal/model"
)

// Input is the text a rule inspects
type Input struct {
	Text  string // Text as analyzed
	Lower string // Lowercased text, shared by all rules
	Depth int    // Recursion depth of the analysis
}

// NewInput prepares an Input for the rule set
func NewInput(text string, depth int) Input {
	return Input{
		Text:  text,
		Lower: strings.ToLower(text),
		Depth: depth,
	}
}

// Length returns the text length in runes
func (in Input) Length() int {
	return utf8.RuneCountInString(in.Text)
}

// Words splits the lowercased text on whitespace
func (in Input) Words() []string {
	return strings.Fields(in.Lower)
}

// Func inspects an Input and returns zero or more doubts
type Func func(in Input) []model.Doubt

// Rule is one named critique in the set
type Rule struct {
	Name     string
	Category model.Category
	Apply    Func
}

// Set is an ordered rule list
type Set []Rule

// Default returns the built-in rules in their fixed order
func Default() Set {
	return Set{
		{Name: "truth", Category: model.CategoryTruth, Apply: Truth},
		{Name: "completeness", Category: model.CategoryCompleteness, Apply: Completeness},
		{Name: "assumptions", Category: model.CategoryAssumptions, Apply: Assumptions},
		{Name: "bias", Category: model.CategoryBias, Apply: Bias},
		{Name: "logical_consistency", Category: model.CategoryLogicalConsistency, Apply: LogicalConsistency},
		{Name: "evidence", Category: model.CategoryEvidence, Apply: Evidence},
		{Name: "context", Category: model.CategoryContext, Apply: Context},
		{Name: "temporal", Category: model.CategoryTemporal, Apply: Temporal},
		{Name: "scope", Category: model.CategoryScope, Apply: Scope},
		{Name: "self_awareness", Category: model.CategorySelfAwareness, Apply: SelfAwareness},
	}
}

// Apply runs every rule against text at the given depth and concatenates
// their findings in set order
func (s Set) Apply(text string, depth int) []model.Doubt {
	in := NewInput(text, depth)

	var doubts []model.Doubt
	for _, r := range s {
		doubts = append(doubts, r.Apply(in)...)
	}
	return doubts
}

// Without returns a copy of the set minus the named rules
func (s Set) Without(names ...string) Set {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}

	out := make(Set, 0, len(s))
	for _, r := range s {
		if !skip[r.Name] {
			out = append(out, r)
		}
	}
	return out
}

// Names lists rule names in order
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Name
	}
	return names
}

func doubt(category model.Category, question string, confidence float64) model.Doubt {
	return model.Doubt{
		Category:   category,
		Question:   question,
		Confidence: confidence,
	}
}

// containsAny reports whether lower contains any of the phrases
func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// countPresent counts how many distinct phrases occur in lower
func countPresent(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}
