package scope

import (
	"regexp"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// DefaultWindow is the number of lines searched backward for a test marker.
const DefaultWindow = 20

// Classifier tags lines as test or production code by looking backward for a
// test marker whose scope has not closed yet.
type Classifier struct {
	idx     *Index
	markers []*regexp.Regexp
	window  int
}

// NewClassifier creates a Classifier. A window <= 0 searches back to the start
// of the file.
func NewClassifier(idx *Index, markers []*regexp.Regexp, window int) *Classifier {
	return &Classifier{idx: idx, markers: markers, window: window}
}

// Classify returns ClassTest when a marker at M within the window satisfies
// M <= line <= ScopeEnd(M). Markers whose scope has closed before line are
// skipped and the search continues further back. Unmarked code is production.
func (c *Classifier) Classify(line int) m.Classification {
	lowest := 1
	if c.window > 0 {
		lowest = max(1, line-c.window)
	}

	for marker := min(line, c.idx.Len()); marker >= lowest; marker-- {
		if !c.isMarker(marker) {
			continue
		}

		if end, ok := c.idx.ScopeEnd(marker); ok && line <= end {
			return m.ClassTest
		}
	}

	return m.ClassProduction
}

// ClassifyScopes returns copies of scopes tagged by the classification of
// their start line.
func (c *Classifier) ClassifyScopes(scopes []m.Scope) []m.Scope {
	classified := make([]m.Scope, len(scopes))

	for i, scope := range scopes {
		scope.Classification = c.Classify(scope.StartLine)
		classified[i] = scope
	}

	return classified
}

func (c *Classifier) isMarker(line int) bool {
	text := c.idx.Structural(line)

	for _, marker := range c.markers {
		if marker.MatchString(text) {
			return true
		}
	}

	return false
}
