package extractors

import (
	"regexp"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// Score returns 1 plus the number of non-overlapping matches of every pattern
// in text. Matching is purely textual, so occurrences inside strings and
// comments count too.
func Score(text string, patterns []*regexp.Regexp) int {
	score := 1

	for _, pattern := range patterns {
		score += len(pattern.FindAllStringIndex(text, -1))
	}

	return score
}

// ComplexityScorer reports scopes whose score exceeds a threshold.
type ComplexityScorer struct {
	patterns     []*regexp.Regexp
	threshold    int
	skipTests    bool
	snippetWidth int
}

// NewComplexityScorer creates a ComplexityScorer.
func NewComplexityScorer(patterns []*regexp.Regexp, threshold int, skipTests bool, snippetWidth int) *ComplexityScorer {
	return &ComplexityScorer{
		patterns:     patterns,
		threshold:    threshold,
		skipTests:    skipTests,
		snippetWidth: snippetWidth,
	}
}

// Kind implements Extractor.
func (s *ComplexityScorer) Kind() m.FindingKind {
	return m.KindComplexity
}

// Extract scores every scope of fc on its raw text.
func (s *ComplexityScorer) Extract(fc FileContext) []m.Finding {
	var findings []m.Finding

	for _, sc := range fc.Scopes {
		if s.skipTests && sc.Classification == m.ClassTest {
			continue
		}

		score := Score(sc.RawText, s.patterns)
		if score <= s.threshold {
			continue
		}

		findings = append(findings, m.Finding{
			File:           sc.File,
			Kind:           m.KindComplexity,
			Scope:          sc.Name,
			Line:           sc.StartLine,
			EndLine:        sc.EndLine,
			Classification: sc.Classification,
			Value:          score,
			Snippet:        snippet(fc.File.Line(sc.StartLine), s.snippetWidth),
		})
	}

	return findings
}
