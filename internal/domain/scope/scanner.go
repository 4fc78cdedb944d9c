package scope

import (
	"log/slog"
	"regexp"
	"strings"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// ScanResult holds the scopes of one file plus the signatures that were dropped.
type ScanResult struct {
	Scopes  []m.Scope
	Dropped int
}

// Scanner yields scope boundaries for lines matching a declaration signature.
type Scanner struct {
	signature *regexp.Regexp
}

// NewScanner creates a Scanner. The first capture group of signature, when
// present, is used as the scope name.
func NewScanner(signature *regexp.Regexp) *Scanner {
	return &Scanner{signature: signature}
}

// Scan resolves every signature line of file to a scope. A signature inside an
// already resolved scope is folded into it, so the returned scopes never
// overlap. Signatures without a body or with an unterminated body are counted
// in Dropped.
func (s *Scanner) Scan(file m.SourceFile, idx *Index) ScanResult {
	var result ScanResult

	covered := 0

	for ln := 1; ln <= idx.Len(); ln++ {
		if ln <= covered {
			continue
		}

		match := s.signature.FindStringSubmatch(idx.Structural(ln))
		if match == nil {
			continue
		}

		end, ok := idx.ScopeEnd(ln)
		if !ok {
			result.Dropped++

			slog.Debug("dropped scope without a closed body", "file", file.Path, "line", ln)

			continue
		}

		result.Scopes = append(result.Scopes, m.Scope{
			File:      file.Path,
			StartLine: ln,
			EndLine:   end,
			Name:      scopeName(match, file.Line(ln)),
			RawText:   file.Text(ln, end),
		})
		covered = end
	}

	return result
}

func scopeName(match []string, line string) string {
	if len(match) > 1 && match[1] != "" {
		return match[1]
	}

	return strings.TrimSpace(line)
}
