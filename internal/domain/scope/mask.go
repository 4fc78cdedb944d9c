package scope

// maskState carries lexical state across lines.
type maskState struct {
	inString   bool
	blockDepth int
}

// Mask returns a copy of lines where string and char literal contents and
// comments are replaced by spaces, so delimiters inside them do not count as
// structure. Quote characters of strings are kept; column positions (in runes)
// are preserved.
//
// Raw strings (r"…", r#"…"#) are not recognised.
func Mask(lines []string) []string {
	masked := make([]string, len(lines))

	var state maskState

	for i, line := range lines {
		masked[i] = state.maskLine(line)
	}

	return masked
}

//nolint:cyclop // single-pass state machine
func (st *maskState) maskLine(line string) string {
	runes := []rune(line)
	out := make([]rune, len(runes))
	copy(out, runes)

	blank := func(from, to int) {
		for k := from; k < to && k < len(out); k++ {
			out[k] = ' '
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)

		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case st.blockDepth > 0:
			switch {
			case r == '*' && next == '/':
				st.blockDepth--
				blank(i, i+2)
				i++
			case r == '/' && next == '*':
				st.blockDepth++
				blank(i, i+2)
				i++
			default:
				out[i] = ' '
			}

		case st.inString:
			switch r {
			case '\\':
				blank(i, i+2)
				i++
			case '"':
				st.inString = false
			default:
				out[i] = ' '
			}

		case r == '/' && next == '/':
			blank(i, len(out))
			return string(out)

		case r == '/' && next == '*':
			st.blockDepth++
			blank(i, i+2)
			i++

		case r == '"':
			st.inString = true

		case r == '\'':
			if end := charLiteralEnd(runes, i); end > 0 {
				blank(i+1, end)
				i = end
			}
		}
	}

	return string(out)
}

// charLiteralEnd returns the index of the closing quote of a char literal
// starting at runes[start], or -1 when the quote opens a lifetime or label.
func charLiteralEnd(runes []rune, start int) int {
	i := start + 1
	if i >= len(runes) {
		return -1
	}

	if runes[i] == '\\' {
		// '\n', '\'', '\u{1F600}', '\x7f'
		for j := i + 2; j < len(runes) && j <= i+10; j++ {
			if runes[j] == '\'' {
				return j
			}
		}

		return -1
	}

	if i+1 < len(runes) && runes[i+1] == '\'' {
		return i + 1
	}

	return -1
}
