package model

// AnalysisConfig holds the recognised analysis options. Empty pattern fields
// are filled from the language preset.
type AnalysisConfig struct {
	Language            string
	SignaturePattern    string
	MaskLiterals        bool
	TestMarkers         []string
	Window              int
	ComplexityPatterns  []string
	ComplexityThreshold int
	SkipTestScopes      bool
	RiskyPattern        string
	CommentMarkers      []string
	SnippetWidth        int
	TopN                int
	Parallel            int
}
