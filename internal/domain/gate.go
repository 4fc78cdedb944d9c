package domain

import (
	"errors"
	"fmt"
	"strings"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// ErrGateFailed is returned when a report exceeds a configured limit.
var ErrGateFailed = errors.New("quality gate failed")

// Gate holds upper limits for a report. A negative limit disables the check.
type Gate struct {
	MaxComplexityFindings int
	MaxRiskyCalls         int
}

// DisabledGate never fails.
var DisabledGate = Gate{MaxComplexityFindings: -1, MaxRiskyCalls: -1}

// Violation is one exceeded limit.
type Violation struct {
	Rule   string
	Limit  int
	Actual int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %d exceeds limit %d", v.Rule, v.Actual, v.Limit)
}

// Evaluate returns the violations of report, in rule order.
func (g Gate) Evaluate(report m.Report) []Violation {
	var violations []Violation

	if g.MaxComplexityFindings >= 0 && report.ComplexityCount > g.MaxComplexityFindings {
		violations = append(violations, Violation{
			Rule:   "complexity findings",
			Limit:  g.MaxComplexityFindings,
			Actual: report.ComplexityCount,
		})
	}

	if g.MaxRiskyCalls >= 0 && report.RiskyCount > g.MaxRiskyCalls {
		violations = append(violations, Violation{
			Rule:   "risky calls",
			Limit:  g.MaxRiskyCalls,
			Actual: report.RiskyCount,
		})
	}

	return violations
}

// Check wraps ErrGateFailed with every violation, or returns nil.
func (g Gate) Check(report m.Report) error {
	violations := g.Evaluate(report)
	if len(violations) == 0 {
		return nil
	}

	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}

	return fmt.Errorf("%w: %s", ErrGateFailed, strings.Join(parts, "; "))
}
