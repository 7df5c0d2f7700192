package rules

import "github.com/ppiankov/doubt/internal/model"

// SelfAwareness questions the engine's own capacity to doubt. At depth 0 it
// doubts the input; below that it doubts its own doubts, which is the signal
// the insight synthesizer reports as recursion. Empty text yields nothing;
// whitespace still counts as input.
func SelfAwareness(in Input) []model.Doubt {
	if in.Text == "" {
		return nil
	}

	if in.Depth <= 0 {
		return []model.Doubt{
			doubt(model.CategorySelfAwareness, "Can I question this? Am I capable of doubt?", 0.8),
		}
	}

	return []model.Doubt{
		doubt(model.CategorySelfAwareness, "Can I question my own questions? Is this recursive doubt?", 0.9),
		doubt(model.CategorySelfAwareness, "If I can doubt my doubts, what does this reveal about my capabilities?", 0.85),
	}
}
