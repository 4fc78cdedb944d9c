package extractors

import (
	"strings"
	"unicode/utf8"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// DefaultCommentMarkers are the prefixes of a trimmed line that make it a
// comment line. Continuation lines of block comments are recognised from the
// masked line instead, since a leading '*' is also a dereference.
var DefaultCommentMarkers = []string{"//", "/*"}

const lineComment = "//"

// RiskyCallDetector reports every occurrence of a substring outside test code
// and comments.
type RiskyCallDetector struct {
	pattern        string
	commentMarkers []string
	snippetWidth   int
}

// NewRiskyCallDetector creates a RiskyCallDetector. Nil commentMarkers selects
// DefaultCommentMarkers.
func NewRiskyCallDetector(pattern string, commentMarkers []string, snippetWidth int) *RiskyCallDetector {
	if commentMarkers == nil {
		commentMarkers = DefaultCommentMarkers
	}

	return &RiskyCallDetector{
		pattern:        pattern,
		commentMarkers: commentMarkers,
		snippetWidth:   snippetWidth,
	}
}

// Kind implements Extractor.
func (d *RiskyCallDetector) Kind() m.FindingKind {
	return m.KindRiskyCall
}

// Extract scans every line of fc. Lines classified as test code are skipped.
func (d *RiskyCallDetector) Extract(fc FileContext) []m.Finding {
	if d.pattern == "" {
		return nil
	}

	var findings []m.Finding

	for ln, text := range fc.File.Lines {
		line := ln + 1

		if !strings.Contains(text, d.pattern) {
			continue
		}

		structural := fc.structural(line)
		if d.isCommentLine(text, structural) {
			continue
		}

		if fc.Classifier != nil && fc.Classifier.Classify(line) == m.ClassTest {
			continue
		}

		scopeName := ""
		if sc, ok := m.ScopeForLine(fc.Scopes, line); ok {
			scopeName = sc.Name
		}

		for _, offset := range d.codeOccurrences(text, structural) {
			findings = append(findings, m.Finding{
				File:           fc.File.Path,
				Kind:           m.KindRiskyCall,
				Scope:          scopeName,
				Line:           line,
				Column:         utf8.RuneCountInString(text[:offset]) + 1,
				Classification: m.ClassProduction,
				Value:          1,
				Snippet:        snippet(text, d.snippetWidth),
			})
		}
	}

	return findings
}

// isCommentLine reports whether text holds nothing but comment. A line whose
// masked form is blank lies entirely inside a comment (or a string literal).
func (d *RiskyCallDetector) isCommentLine(text, structural string) bool {
	if strings.TrimSpace(structural) == "" {
		return true
	}

	trimmed := strings.TrimSpace(text)

	for _, marker := range d.commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}

	return false
}

// codeOccurrences returns the byte offsets of the occurrences of the pattern
// in text that are not inside a comment. When the masked line differs from
// text, an occurrence counts only if masking left it intact; otherwise text is
// cut at the first line comment marker.
func (d *RiskyCallDetector) codeOccurrences(text, structural string) []int {
	if structural == text {
		if cut := strings.Index(text, lineComment); cut >= 0 {
			text = text[:cut]
		}

		return occurrences(text, d.pattern)
	}

	masked := []rune(structural)
	width := utf8.RuneCountInString(d.pattern)

	var offsets []int

	for _, offset := range occurrences(text, d.pattern) {
		col := utf8.RuneCountInString(text[:offset])
		if col+width <= len(masked) && string(masked[col:col+width]) == d.pattern {
			offsets = append(offsets, offset)
		}
	}

	return offsets
}

// occurrences returns the byte offsets of the non-overlapping occurrences of
// pattern in s.
func occurrences(s, pattern string) []int {
	var offsets []int

	for start := 0; ; {
		i := strings.Index(s[start:], pattern)
		if i < 0 {
			return offsets
		}

		offsets = append(offsets, start+i)
		start += i + len(pattern)
	}
}
