package model

// Doubt is a single critique finding produced by a rule
type Doubt struct {
	Category   Category `json:"category" yaml:"category"`     // Which critique produced it
	Question   string   `json:"question" yaml:"question"`     // Generated question, may quote the matched phrase
	Confidence float64  `json:"confidence" yaml:"confidence"` // Fixed per rule firing, 0.0 to 1.0
}

// Category tags the kind of critique a doubt belongs to
type Category string

const (
	CategoryTruth              Category = "truth"               // Absolute or unsupported claims
	CategoryCompleteness       Category = "completeness"        // Missing context, hedging, fragments
	CategoryAssumptions        Category = "assumptions"         // Hidden premises and norms
	CategoryBias               Category = "bias"                // Emotional or loaded framing
	CategoryLogicalConsistency Category = "logical_consistency" // Contradictions, circularity
	CategoryEvidence           Category = "evidence"            // Claims or statistics without sources
	CategoryContext            Category = "context"             // Unclear referents, undefined jargon
	CategoryTemporal           Category = "temporal"            // Time-bound validity
	CategoryScope              Category = "scope"               // Overgeneralization, unfocused scope
	CategorySelfAwareness      Category = "self_awareness"      // The engine doubting its own doubting
)

// Categories returns every category in rule order
func Categories() []Category {
	return []Category{
		CategoryTruth,
		CategoryCompleteness,
		CategoryAssumptions,
		CategoryBias,
		CategoryLogicalConsistency,
		CategoryEvidence,
		CategoryContext,
		CategoryTemporal,
		CategoryScope,
		CategorySelfAwareness,
	}
}

// AnalysisResult is the output of one orchestrator invocation.
// Results are built once and must be treated as read-only afterwards.
type AnalysisResult struct {
	Original   string            `json:"original" yaml:"original"`                     // Text analyzed at this depth (after truncation)
	Doubts     []Doubt           `json:"doubts" yaml:"doubts"`                         // Direct findings, then every branch's doubts
	DoubtScore float64           `json:"doubt_score" yaml:"doubt_score"`               // Aggregate score, 0.0 to 1.0
	Insight    string            `json:"insight" yaml:"insight"`                       // Synthesized summary
	Depth      int               `json:"depth" yaml:"depth"`                           // Recursion depth of this result
	Branches   []*AnalysisResult `json:"branches,omitempty" yaml:"branches,omitempty"` // Recursive re-analyses of generated questions
	Halt       Halt              `json:"halt,omitempty" yaml:"halt,omitempty"`         // Set when a guard stopped the analysis
}

// Halt names the guard that ended an analysis before any rule ran
type Halt string

const (
	HaltNone       Halt = ""
	HaltCycle      Halt = "already_analyzed"    // Text fingerprint already seen in this lineage
	HaltDepthLimit Halt = "depth_limit_reached" // Depth reached max_depth
)

// Direct returns the doubts produced at this depth, excluding merged branch doubts
func (r *AnalysisResult) Direct() []Doubt {
	merged := 0
	for _, b := range r.Branches {
		merged += len(b.Doubts)
	}
	n := len(r.Doubts) - merged
	if n < 0 {
		n = 0
	}
	return r.Doubts[:n]
}

// Walk visits the result and every branch beneath it, depth first
func (r *AnalysisResult) Walk(fn func(*AnalysisResult)) {
	fn(r)
	for _, b := range r.Branches {
		b.Walk(fn)
	}
}
