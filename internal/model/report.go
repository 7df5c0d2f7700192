package model

import "time"

// Report is the envelope around one top-level analysis
type Report struct {
	ID         string          `json:"id" yaml:"id"`                   // Unique run identifier
	Source     string          `json:"source" yaml:"source"`           // Where the text came from (arg, stdin, file path, batch line)
	Format     InputFormat     `json:"format" yaml:"format"`           // Input format before normalization
	AnalyzedAt time.Time       `json:"analyzed_at" yaml:"analyzed_at"` // When the analysis ran
	Engine     EngineConfig    `json:"engine" yaml:"engine"`           // Engine settings that produced the result
	Result     *AnalysisResult `json:"result" yaml:"result"`           // The analysis tree
	Stats      Stats           `json:"stats" yaml:"stats"`             // Summary counts over the tree
	Principles Principles      `json:"principles" yaml:"principles"`   // Core principles applied
}

// InputFormat describes how the input text was encoded
type InputFormat string

const (
	FormatText InputFormat = "text"
	FormatHTML InputFormat = "html"
)

// Stats summarizes a result tree.
// Guards counts branches stopped by the cycle or depth guard, keyed by guard name.
type Stats struct {
	TotalDoubts    int             `json:"total_doubts" yaml:"total_doubts"`
	DirectDoubts   int             `json:"direct_doubts" yaml:"direct_doubts"`
	Categories     []CategoryCount `json:"categories" yaml:"categories"`
	MeanConfidence float64         `json:"mean_confidence" yaml:"mean_confidence"`
	HighConfidence int             `json:"high_confidence" yaml:"high_confidence"`
	Branches       int             `json:"branches" yaml:"branches"`
	MaxDepth       int             `json:"max_depth_reached" yaml:"max_depth_reached"`
	Guards         map[string]int  `json:"guards,omitempty" yaml:"guards,omitempty"`
}

// CategoryCount is the number of doubts in one category
type CategoryCount struct {
	Category Category `json:"category" yaml:"category"`
	Count    int      `json:"count" yaml:"count"`
}

// Principles documents which core principles were applied
type Principles struct {
	Deterministic bool `json:"deterministic" yaml:"deterministic"` // Same text and config, same result
	Bounded       bool `json:"bounded" yaml:"bounded"`             // Depth and cycle guards always apply
	Offline       bool `json:"offline" yaml:"offline"`             // No network or external services
}

// DefaultPrinciples returns the standard principles
func DefaultPrinciples() Principles {
	return Principles{
		Deterministic: true,
		Bounded:       true,
		Offline:       true,
	}
}
