package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/doubt/internal/model"
)

var (
	assumptionIndicators = []string{
		"obviously", "clearly", "of course", "naturally",
		"everyone knows", "it goes without saying",
	}
	normativeModals = []string{"should", "must"}

	emotionalWords = []string{
		"amazing", "terrible", "horrible", "fantastic",
		"awful", "brilliant", "stupid", "idiotic",
	}
	loadedTerms    = []string{"obviously wrong", "clearly false", "proven fact", "undeniable"}
	inGroupPhrases = []string{"they always", "they never", "we know", "they don't understand"}
)

// contradiction is a word pair whose co-occurrence suggests inconsistency
type contradiction struct {
	first, second string
}

var contradictions = []contradiction{
	{"always", "sometimes"},
	{"never", "sometimes"},
	{"all", "some"},
	{"none", "some"},
	{"proven", "might"},
	{"certain", "uncertain"},
}

// Assumptions questions hidden premises and normative claims
func Assumptions(in Input) []model.Doubt {
	var doubts []model.Doubt

	for _, indicator := range assumptionIndicators {
		if strings.Contains(in.Lower, indicator) {
			doubts = append(doubts, doubt(model.CategoryAssumptions,
				fmt.Sprintf("What assumption is hidden behind '%s'?", indicator), 0.6))
		}
	}

	if containsAny(in.Lower, normativeModals) {
		doubts = append(doubts, doubt(model.CategoryAssumptions,
			"What values or norms are being assumed here?", 0.5))
	}

	return doubts
}

// Bias questions emotional language, loaded terms and us-vs-them framing
func Bias(in Input) []model.Doubt {
	var doubts []model.Doubt

	if countPresent(in.Lower, emotionalWords) > 1 {
		doubts = append(doubts, doubt(model.CategoryBias,
			"Is emotional language affecting objectivity?", 0.6))
	}

	for _, term := range loadedTerms {
		if strings.Contains(in.Lower, term) {
			doubts = append(doubts, doubt(model.CategoryBias,
				fmt.Sprintf("Is '%s' a loaded term that assumes a conclusion?", term), 0.7))
		}
	}

	if containsAny(in.Lower, inGroupPhrases) {
		doubts = append(doubts, doubt(model.CategoryBias,
			"Is there an 'us vs them' framing that might introduce bias?", 0.5))
	}

	return doubts
}

// LogicalConsistency questions contradictory word pairs and repeated causal
// connectives
func LogicalConsistency(in Input) []model.Doubt {
	var doubts []model.Doubt

	for _, c := range contradictions {
		if strings.Contains(in.Lower, c.first) && strings.Contains(in.Lower, c.second) {
			doubts = append(doubts, doubt(model.CategoryLogicalConsistency,
				fmt.Sprintf("Is there a contradiction between '%s' and '%s'?", c.first, c.second), 0.8))
		}
	}

	if strings.Count(in.Lower, "because") > 1 {
		doubts = append(doubts, doubt(model.CategoryLogicalConsistency,
			"Is there potential circular reasoning?", 0.5))
	}

	return doubts
}
