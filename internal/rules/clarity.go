package rules

import (
	"slices"
	"strings"

	"github.com/ppiankov/doubt/internal/model"
)

var (
	explanationMarkers = []string{"because", "explain"}
	hedgingWords       = []string{"maybe", "perhaps", "might", "could", "possibly", "somewhat", "kind of"}

	pronouns          = []string{"it", "this", "that", "they", "them", "these", "those"}
	technicalTerms    = []string{"algorithm", "neural", "quantum", "consciousness", "substrate"}
	definitionMarkers = []string{"define", "mean"}
)

// Completeness questions open questions, heavy hedging and run-on text
func Completeness(in Input) []model.Doubt {
	var doubts []model.Doubt

	if strings.Contains(in.Text, "?") && !containsAny(in.Lower, explanationMarkers) {
		doubts = append(doubts, doubt(model.CategoryCompleteness,
			"Is there missing context or information?", 0.4))
	}

	if countPresent(in.Lower, hedgingWords) > 2 {
		doubts = append(doubts, doubt(model.CategoryCompleteness,
			"Are there too many uncertainties? What would make this more certain?", 0.6))
	}

	terminators := strings.Count(in.Text, ".") + strings.Count(in.Text, "!") + strings.Count(in.Text, "?")
	if float64(terminators) < float64(len(in.Words()))/20 {
		doubts = append(doubts, doubt(model.CategoryCompleteness,
			"Is this statement complete? Are there missing parts?", 0.5))
	}

	return doubts
}

// Context questions unclear pronoun referents and undefined jargon
func Context(in Input) []model.Doubt {
	var doubts []model.Doubt

	words := in.Words()
	referents := 0
	for _, p := range pronouns {
		if slices.Contains(words, p) {
			referents++
		}
	}
	if referents > 3 && len(words) < 50 {
		doubts = append(doubts, doubt(model.CategoryContext,
			"Are pronouns clear? Is the context sufficient?", 0.5))
	}

	if countPresent(in.Lower, technicalTerms) > 2 && !containsAny(in.Lower, definitionMarkers) {
		doubts = append(doubts, doubt(model.CategoryContext,
			"Are technical terms explained? Is the context clear for all readers?", 0.4))
	}

	return doubts
}

// Temporal questions whether time-bound language still holds
func Temporal(in Input) []model.Doubt {
	switch {
	case containsAny(in.Lower, []string{"always", "never"}):
		return []model.Doubt{doubt(model.CategoryTemporal,
			"Is this claim valid across all time? Could circumstances change?", 0.6)}
	case containsAny(in.Lower, []string{"now", "currently"}):
		return []model.Doubt{doubt(model.CategoryTemporal,
			"Is this still true? Has the situation changed?", 0.4)}
	}
	return nil
}
