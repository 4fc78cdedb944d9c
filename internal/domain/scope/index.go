// Package scope finds function-like scopes by counting nesting delimiters and
// classifies lines as production or test code.
package scope

// maxHeaderLines bounds how far ScopeEnd looks for a body opening after the
// start line (multi-line signatures, attributes between a marker and its item).
const maxHeaderLines = 32

// lineInfo is the memoised depth state of one line.
type lineInfo struct {
	before     int  // depth at the start of the line
	after      int  // depth at the end of the line
	terminator bool // the line contains a terminator outside ( ) and [ ]
	firstOpen  int  // index of the first opening on this line, -1 if none
}

// opening is one opening delimiter and the line of its matching close.
type opening struct {
	line      int
	depth     int // depth before the delimiter was pushed
	closeLine int // 0 while unmatched
}

// Index memoises nesting depth for every line of a file so that each scope
// lookup costs O(header lines) after one O(n) pass.
type Index struct {
	structural []string
	lines      []lineInfo
	openings   []opening
}

type indexConfig struct {
	mask       bool
	open       rune
	close      rune
	terminator rune
}

// IndexOption configures NewIndex.
type IndexOption func(*indexConfig)

// WithoutMasking counts delimiters in string literals and comments as well,
// giving the plain textual approximation.
func WithoutMasking() IndexOption {
	return func(c *indexConfig) {
		c.mask = false
	}
}

// WithMasking toggles literal and comment masking.
func WithMasking(enabled bool) IndexOption {
	return func(c *indexConfig) {
		c.mask = enabled
	}
}

// WithDelimiters overrides the scope delimiters ('{' and '}' by default).
func WithDelimiters(open, closing rune) IndexOption {
	return func(c *indexConfig) {
		c.open = open
		c.close = closing
	}
}

// NewIndex performs the single prefix pass over lines.
func NewIndex(lines []string, opts ...IndexOption) *Index {
	cfg := indexConfig{mask: true, open: '{', close: '}', terminator: ';'}
	for _, opt := range opts {
		opt(&cfg)
	}

	structural := lines
	if cfg.mask {
		structural = Mask(lines)
	}

	idx := &Index{
		structural: structural,
		lines:      make([]lineInfo, len(structural)),
	}

	var stack []int

	// group counts open parens and brackets so that `[u8; 32]` in a
	// signature does not read as the end of a declaration.
	depth, group := 0, 0

	for i, text := range structural {
		info := lineInfo{before: depth, firstOpen: -1}

		for _, r := range text {
			switch r {
			case cfg.open:
				idx.openings = append(idx.openings, opening{line: i + 1, depth: depth})
				if info.firstOpen < 0 {
					info.firstOpen = len(idx.openings) - 1
				}

				stack = append(stack, len(idx.openings)-1)
				depth++
				group = 0
			case cfg.close:
				// Stray closers are ignored so depth never goes negative.
				if len(stack) == 0 {
					continue
				}

				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				idx.openings[top].closeLine = i + 1
				depth--
				group = 0
			case '(', '[':
				group++
			case ')', ']':
				group = max(0, group-1)
			case cfg.terminator:
				if group == 0 {
					info.terminator = true
				}
			}
		}

		info.after = depth
		idx.lines[i] = info
	}

	return idx
}

// Len returns the number of indexed lines.
func (x *Index) Len() int {
	return len(x.lines)
}

// Structural returns the 1-based line as seen by the depth counter (masked
// when masking is enabled).
func (x *Index) Structural(line int) string {
	if line < 1 || line > len(x.structural) {
		return ""
	}

	return x.structural[line-1]
}

// DepthBefore returns the nesting depth at the start of the 1-based line.
func (x *Index) DepthBefore(line int) int {
	if line < 1 || line > len(x.lines) {
		return 0
	}

	return x.lines[line-1].before
}

// DepthAfter returns the nesting depth at the end of the 1-based line.
func (x *Index) DepthAfter(line int) int {
	if line < 1 || line > len(x.lines) {
		return 0
	}

	return x.lines[line-1].after
}

// ScopeEnd returns the line at which the scope opened at or after start brings
// depth back to the level it had immediately before start.
//
// It returns false when no body opens (a terminator or an enclosing close comes
// first, or none within maxHeaderLines) and when the body never closes before
// end of file.
func (x *Index) ScopeEnd(start int) (int, bool) {
	if start < 1 || start > len(x.lines) {
		return 0, false
	}

	pre := x.lines[start-1].before
	last := min(len(x.lines), start+maxHeaderLines)

	for ln := start; ln <= last; ln++ {
		info := x.lines[ln-1]
		if info.before < pre {
			return 0, false
		}

		if info.firstOpen >= 0 {
			for k := info.firstOpen; k < len(x.openings) && x.openings[k].line == ln; k++ {
				if x.openings[k].depth != pre {
					continue
				}

				if x.openings[k].closeLine == 0 {
					return 0, false
				}

				return x.openings[k].closeLine, true
			}
		}

		if info.terminator || info.after < pre {
			return 0, false
		}
	}

	return 0, false
}
