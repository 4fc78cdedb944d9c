// Package extractors computes per-scope and per-line metrics from a scanned file.
package extractors

import (
	"strings"
	"unicode/utf8"

	"scopemeter.dev/pkg/scopemeter/internal/domain/scope"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// FileContext is everything an extractor may look at for one file.
type FileContext struct {
	File       m.SourceFile
	Scopes     []m.Scope
	Classifier *scope.Classifier
	Index      *scope.Index
}

// structural returns the line as the Index sees it, or the raw line when fc
// carries no Index.
func (fc FileContext) structural(line int) string {
	if fc.Index == nil {
		return fc.File.Line(line)
	}

	return fc.Index.Structural(line)
}

// Extractor produces findings of a single kind.
type Extractor interface {
	Kind() m.FindingKind
	Extract(fc FileContext) []m.Finding
}

// Run applies every extractor to fc and concatenates their findings in
// extractor order.
func Run(fc FileContext, extractors ...Extractor) []m.Finding {
	findings := make([]m.Finding, 0)

	for _, ex := range extractors {
		findings = append(findings, ex.Extract(fc)...)
	}

	return findings
}

// Truncate shortens s to at most width runes, marking the cut with "…".
// A width <= 0 disables truncation.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}

	if width == 1 {
		return "…"
	}

	runes := []rune(s)

	return string(runes[:width-1]) + "…"
}

func snippet(line string, width int) string {
	return Truncate(strings.TrimSpace(line), width)
}
