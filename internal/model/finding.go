package model

// FindingKind represents the category of a reported metric instance.
type FindingKind string

const (
	// KindComplexity is a scope whose complexity score exceeded the threshold.
	KindComplexity FindingKind = "complexity"
	// KindRiskyCall is one occurrence of the configured risky call pattern.
	KindRiskyCall FindingKind = "risky_call"
)

// Finding is one reported metric instance. Findings are never mutated after
// an extractor creates them.
type Finding struct {
	File           Path           `json:"file" yaml:"file"`
	Kind           FindingKind    `json:"kind" yaml:"kind"`
	Scope          string         `json:"scope,omitempty" yaml:"scope,omitempty"`
	Line           int            `json:"line" yaml:"line"`
	EndLine        int            `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	Column         int            `json:"column,omitempty" yaml:"column,omitempty"`
	Classification Classification `json:"classification" yaml:"classification"`
	Value          int            `json:"value" yaml:"value"`
	Snippet        string         `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}
