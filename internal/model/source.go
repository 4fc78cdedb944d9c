// Package model defines the data structures shared by the scanner, the metric
// extractors and the reporters.
package model

import "strings"

// Path represents a file system path.
type Path string

// Classification tags a scope or a line as production or test code.
type Classification string

const (
	// ClassProduction is the default for code without a covering test marker.
	ClassProduction Classification = "production"

	// ClassTest marks code inside a scope introduced by a recognised test marker.
	ClassTest Classification = "test"
)

// SourceFile is an immutable snapshot of one file's lines. Line numbers are 1-based.
type SourceFile struct {
	Path  Path
	Lines []string
}

// NewSourceFile splits content into lines. A trailing newline does not produce
// an extra empty line and "\r\n" endings are normalised.
func NewSourceFile(path Path, content []byte) SourceFile {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	if text == "" {
		return SourceFile{Path: path, Lines: []string{}}
	}

	return SourceFile{Path: path, Lines: strings.Split(text, "\n")}
}

// Len returns the number of lines in the file.
func (f SourceFile) Len() int {
	return len(f.Lines)
}

// Line returns the text of the 1-based line n, or "" when n is out of range.
func (f SourceFile) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}

	return f.Lines[n-1]
}

// Text joins the inclusive 1-based line range [start, end].
func (f SourceFile) Text(start, end int) string {
	if start < 1 {
		start = 1
	}

	if end > len(f.Lines) {
		end = len(f.Lines)
	}

	if start > end {
		return ""
	}

	return strings.Join(f.Lines[start-1:end], "\n")
}

// Scope is a contiguous line range believed to be one function-like declaration.
// StartLine <= EndLine always holds for scopes produced by the scanner.
type Scope struct {
	File           Path           `json:"file" yaml:"file"`
	StartLine      int            `json:"start_line" yaml:"start_line"`
	EndLine        int            `json:"end_line" yaml:"end_line"`
	Name           string         `json:"name" yaml:"name"`
	RawText        string         `json:"-" yaml:"-"`
	Classification Classification `json:"classification" yaml:"classification"`
}

// Contains reports whether the 1-based line falls inside the scope.
func (s Scope) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// ScopeForLine returns the scope covering line. Scopes must not overlap.
func ScopeForLine(scopes []Scope, line int) (Scope, bool) {
	for _, scope := range scopes {
		if scope.Contains(line) {
			return scope, true
		}
	}

	return Scope{}, false
}

// FileResult is everything one analysis pass learned about a single file.
type FileResult struct {
	Path     Path
	Lines    int
	Scopes   []Scope
	Findings []Finding
	Dropped  int   // signatures whose body was missing or never closed
	Err      error // non-nil when the file could not be read
}

// CountScopes returns the number of production and test scopes.
func (r FileResult) CountScopes() (production, test int) {
	for _, scope := range r.Scopes {
		if scope.Classification == ClassTest {
			test++
		} else {
			production++
		}
	}

	return
}
