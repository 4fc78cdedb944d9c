package extractors

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopemeter.dev/pkg/scopemeter/internal/domain/scope"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

var (
	testPatterns = compileAll(
		`\bif\b`, `\belse\b`, `\bwhile\b`, `\bfor\b`, `\bloop\b`, `\bmatch\b`,
		`=>`, `\?`, `\.unwrap\(`, `\.expect\(`, `\breturn\b`, `\bbreak\b`,
		`\bcontinue\b`, `&&`, `\|\|`,
	)
	testSignature = regexp.MustCompile(`^\s*(?:pub\s+)?fn\s+([A-Za-z_]\w*)`)
	testMarkers   = compileAll(`#\[test\]`, `#\[cfg\(test\)\]`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}

	return compiled
}

func newFileContext(t *testing.T, src string) FileContext {
	t.Helper()

	file := m.NewSourceFile("src/lib.rs", []byte(strings.TrimPrefix(src, "\n")))
	idx := scope.NewIndex(file.Lines)
	classifier := scope.NewClassifier(idx, testMarkers, scope.DefaultWindow)
	scopes := classifier.ClassifyScopes(scope.NewScanner(testSignature).Scan(file, idx).Scopes)

	return FileContext{File: file, Scopes: scopes, Classifier: classifier, Index: idx}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		patterns []*regexp.Regexp
		want     int
	}{
		{"if and else", `fn f() { if a { 1 } else { 2 } }`, testPatterns, 3},
		{"no control flow", "fn f() {\n    let x = 1;\n    x\n}", testPatterns, 1},
		{"no patterns", `fn f() { if a { 1 } }`, nil, 1},
		{"empty text", "", testPatterns, 1},
		{"every occurrence counts", `a && b && c || d`, testPatterns, 4},
		{"match arms", "match v {\n 1 => a()?,\n _ => b.unwrap(),\n}", testPatterns, 6},
		{"keywords inside identifiers do not count", `let iffy = format_for(elsewhere);`, testPatterns, 1},
		{"textual count includes comments", `// if this else that`, testPatterns, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text, tt.patterns))
		})
	}
}

func TestComplexityScorer_Extract(t *testing.T) {
	src := `
fn simple() {
    1
}

fn branchy(a: bool, b: bool) -> u8 {
    if a && b { return 1; }
    if a || b { return 2; }
    3
}

#[test]
fn branchy_test() {
    if x { if y { if z { return; } } }
}
`

	t.Run("reports scopes above the threshold", func(t *testing.T) {
		fc := newFileContext(t, src)

		findings := NewComplexityScorer(testPatterns, 3, false, 100).Extract(fc)

		require.Len(t, findings, 2)

		assert.Equal(t, m.KindComplexity, findings[0].Kind)
		assert.Equal(t, "branchy", findings[0].Scope)
		assert.Equal(t, 7, findings[0].Value)
		assert.Equal(t, 5, findings[0].Line)
		assert.Equal(t, 9, findings[0].EndLine)
		assert.Equal(t, m.ClassProduction, findings[0].Classification)
		assert.Equal(t, "fn branchy(a: bool, b: bool) -> u8 {", findings[0].Snippet)

		assert.Equal(t, "branchy_test", findings[1].Scope)
		assert.Equal(t, 5, findings[1].Value)
		assert.Equal(t, m.ClassTest, findings[1].Classification)
	})

	t.Run("score equal to threshold is not reported", func(t *testing.T) {
		fc := newFileContext(t, src)

		findings := NewComplexityScorer(testPatterns, 7, false, 100).Extract(fc)

		assert.Empty(t, findings)
	})

	t.Run("skip tests", func(t *testing.T) {
		fc := newFileContext(t, src)

		findings := NewComplexityScorer(testPatterns, 3, true, 100).Extract(fc)

		require.Len(t, findings, 1)
		assert.Equal(t, "branchy", findings[0].Scope)
	})

	t.Run("unterminated scope yields no findings", func(t *testing.T) {
		fc := newFileContext(t, "fn broken() {\n    if a { if b { if c {\n")

		assert.Empty(t, fc.Scopes)
		assert.Empty(t, NewComplexityScorer(testPatterns, 0, false, 100).Extract(fc))
	})
}

func TestRun(t *testing.T) {
	fc := newFileContext(t, "fn f() {\n    if a { x.unwrap(); }\n}\n")

	findings := Run(fc,
		NewComplexityScorer(testPatterns, 1, false, 100),
		NewRiskyCallDetector(".unwrap()", nil, 100),
	)

	require.Len(t, findings, 2)
	assert.Equal(t, m.KindComplexity, findings[0].Kind)
	assert.Equal(t, m.KindRiskyCall, findings[1].Kind)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdefgh", 5, "abcd…"},
		{"multibyte", "ääääää", 3, "ää…"},
		{"disabled", "abcdefgh", 0, "abcdefgh"},
		{"width one", "abc", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}
