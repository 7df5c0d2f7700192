package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/doubt/internal/model"
)

var (
	absoluteWords = []string{
		"always", "never", "all", "none", "every",
		"impossible", "proven", "definitely", "certainly",
	}

	// Self-referential doubting is not an absolute claim
	absoluteExclusions = []string{"i always", "we always", "always doubt", "always question"}

	justificationMarkers = []string{"because", "evidence"}

	factualMarkers  = []string{"is", "are", "was", "were", "fact", "true", "real"}
	evidenceMarkers = []string{
		"study", "research", "data", "evidence", "proof",
		"shows", "demonstrates", "according to",
	}
	statisticSources = []string{"study", "research"}

	universalQuantifiers = []string{"all", "every", "everyone", "nobody", "nothing", "everything"}
	negatedQuantifiers   = []string{"not all", "not every", "not everyone"}
)

// Truth questions absolute claims and declarative claims made without
// justification
func Truth(in Input) []model.Doubt {
	var doubts []model.Doubt

	if !containsAny(in.Lower, absoluteExclusions) {
		for _, word := range absoluteWords {
			if strings.Contains(in.Lower, word) {
				doubts = append(doubts, doubt(model.CategoryTruth,
					fmt.Sprintf("Is '%s' accurate? Can we verify this?", word), 0.7))
			}
		}
	}

	if strings.Contains(in.Lower, "is") && !containsAny(in.Lower, justificationMarkers) && in.Length() > 50 {
		doubts = append(doubts, doubt(model.CategoryTruth,
			"Is this claim supported by evidence?", 0.5))
	}

	return doubts
}

// Evidence questions factual claims without evidence markers and statistics
// without a source
func Evidence(in Input) []model.Doubt {
	var doubts []model.Doubt

	hasEvidence := containsAny(in.Lower, evidenceMarkers)
	hasClaim := containsAny(in.Lower, factualMarkers)
	if hasClaim && !hasEvidence && in.Length() > 30 {
		doubts = append(doubts, doubt(model.CategoryEvidence,
			"Is there sufficient evidence to support this claim?", 0.6))
	}

	if strings.ContainsFunc(in.Text, unicode.IsDigit) && strings.Contains(in.Text, "%") &&
		!containsAny(in.Lower, statisticSources) {
		doubts = append(doubts, doubt(model.CategoryEvidence,
			"Where does this statistic come from? Is the source reliable?", 0.7))
	}

	return doubts
}

// Scope questions overgeneralization and unfocused, conjunction-heavy text
func Scope(in Input) []model.Doubt {
	var doubts []model.Doubt

	if !containsAny(in.Lower, negatedQuantifiers) {
		for _, q := range universalQuantifiers {
			if strings.Contains(in.Lower, q) {
				doubts = append(doubts, doubt(model.CategoryScope,
					fmt.Sprintf("Does '%s' apply universally? Are there exceptions?", q), 0.7))
			}
		}
	}

	if strings.Count(in.Lower, "and") > 3 {
		doubts = append(doubts, doubt(model.CategoryScope,
			"Is this trying to cover too much? Should it be more focused?", 0.4))
	}

	return doubts
}
