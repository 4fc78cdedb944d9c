package domain

import (
	"fmt"
	"regexp"
	"runtime"

	"scopemeter.dev/pkg/scopemeter/internal/domain/extractors"
	"scopemeter.dev/pkg/scopemeter/internal/domain/scope"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// Supported language presets.
const (
	LanguageRust = "rust"
	LanguageGo   = "go"
)

// Defaults shared by every language.
const (
	DefaultThreshold    = 10
	DefaultTopN         = 20
	DefaultSnippetWidth = 100
)

// Preset holds the language-specific analysis patterns.
type Preset struct {
	SignaturePattern   string
	TestMarkers        []string
	ComplexityPatterns []string
	RiskyPattern       string
	Extensions         []string
}

var presets = map[string]Preset{
	LanguageRust: {
		SignaturePattern: `^\s*(?:pub(?:\([^)]*\))?\s+)?(?:(?:const|async|unsafe|extern(?:\s+"[^"]*")?)\s+)*fn\s+([A-Za-z_][A-Za-z0-9_]*)`,
		TestMarkers: []string{
			`#\[test\]`,
			`#\[cfg\(test\)\]`,
			`#\[tokio::test`,
			`\bfn\s+test_\w*`,
		},
		ComplexityPatterns: []string{
			`\bif\b`, `\belse\b`, `\bwhile\b`, `\bfor\b`, `\bloop\b`, `\bmatch\b`,
			`=>`, `\?`, `\.unwrap\(`, `\.expect\(`,
			`\breturn\b`, `\bbreak\b`, `\bcontinue\b`,
			`&&`, `\|\|`,
		},
		RiskyPattern: ".unwrap()",
		Extensions:   []string{".rs"},
	},
	LanguageGo: {
		SignaturePattern: `^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`,
		TestMarkers: []string{
			`^\s*func\s+(?:Test|Benchmark|Fuzz|Example)\w*\(`,
		},
		ComplexityPatterns: []string{
			`\bif\b`, `\belse\b`, `\bfor\b`, `\bswitch\b`, `\bselect\b`,
			`\bcase\b`, `\bgoto\b`, `\breturn\b`, `\bbreak\b`, `\bcontinue\b`,
			`&&`, `\|\|`,
		},
		RiskyPattern: "panic(",
		Extensions:   []string{".go"},
	},
}

// Languages returns the names of the built-in presets.
func Languages() []string {
	return []string{LanguageRust, LanguageGo}
}

// PresetFor returns the preset for language. An empty language selects Rust.
func PresetFor(language string) (Preset, error) {
	if language == "" {
		language = LanguageRust
	}

	preset, ok := presets[language]
	if !ok {
		return Preset{}, fmt.Errorf("unsupported language: %s", language)
	}

	return preset, nil
}

// DefaultAnalysisConfig returns the configuration used when nothing is overridden.
func DefaultAnalysisConfig() m.AnalysisConfig {
	return m.AnalysisConfig{
		Language:            LanguageRust,
		MaskLiterals:        true,
		Window:              scope.DefaultWindow,
		ComplexityThreshold: DefaultThreshold,
		SnippetWidth:        DefaultSnippetWidth,
		TopN:                DefaultTopN,
		Parallel:            runtime.NumCPU(),
	}
}

// WithPreset fills every empty pattern option of cfg from its language preset.
func WithPreset(cfg m.AnalysisConfig) (m.AnalysisConfig, error) {
	preset, err := PresetFor(cfg.Language)
	if err != nil {
		return cfg, err
	}

	if cfg.Language == "" {
		cfg.Language = LanguageRust
	}

	if cfg.SignaturePattern == "" {
		cfg.SignaturePattern = preset.SignaturePattern
	}

	if len(cfg.TestMarkers) == 0 {
		cfg.TestMarkers = preset.TestMarkers
	}

	if len(cfg.ComplexityPatterns) == 0 {
		cfg.ComplexityPatterns = preset.ComplexityPatterns
	}

	if cfg.RiskyPattern == "" {
		cfg.RiskyPattern = preset.RiskyPattern
	}

	if cfg.CommentMarkers == nil {
		cfg.CommentMarkers = extractors.DefaultCommentMarkers
	}

	if cfg.Parallel <= 0 {
		cfg.Parallel = runtime.NumCPU()
	}

	return cfg, nil
}

// compiledConfig is an AnalysisConfig with its patterns compiled.
type compiledConfig struct {
	m.AnalysisConfig
	signature  *regexp.Regexp
	markers    []*regexp.Regexp
	complexity []*regexp.Regexp
}

func compileConfig(cfg m.AnalysisConfig) (compiledConfig, error) {
	cfg, err := WithPreset(cfg)
	if err != nil {
		return compiledConfig{}, err
	}

	signature, err := regexp.Compile(cfg.SignaturePattern)
	if err != nil {
		return compiledConfig{}, fmt.Errorf("compile signature pattern: %w", err)
	}

	markers, err := compilePatterns(cfg.TestMarkers)
	if err != nil {
		return compiledConfig{}, fmt.Errorf("compile test markers: %w", err)
	}

	complexity, err := compilePatterns(cfg.ComplexityPatterns)
	if err != nil {
		return compiledConfig{}, fmt.Errorf("compile complexity patterns: %w", err)
	}

	return compiledConfig{
		AnalysisConfig: cfg,
		signature:      signature,
		markers:        markers,
		complexity:     complexity,
	}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}
