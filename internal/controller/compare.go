package controller

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// comparisonView is the line-oriented form of a snapshot that comparisons diff.
// Line order only depends on the report, so equal reports give equal views.
func comparisonView(report m.Report) string {
	var b strings.Builder

	for _, path := range sortedPaths(report.FileTotals) {
		total := report.FileTotals[path]
		fmt.Fprintf(&b, "file %s complexity=%d scopes=%d risky=%d\n",
			path, total.ComplexityTotal, total.ComplexityCount, total.RiskyCount)
	}

	for _, f := range report.Findings {
		if f.Kind != m.KindComplexity {
			continue
		}

		fmt.Fprintf(&b, "scope %s:%s score=%d\n", f.File, f.Scope, f.Value)
	}

	return b.String()
}

// DiffSnapshots returns a unified diff of the comparison views of two
// snapshots. Identical reports give an empty diff.
func DiffSnapshots(older, newer m.Snapshot) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(comparisonView(older.Report)),
		B:        difflib.SplitLines(comparisonView(newer.Report)),
		FromFile: older.ID,
		ToFile:   newer.ID,
		Context:  1,
	})
	if err != nil {
		return "", fmt.Errorf("diff snapshots: %w", err)
	}

	return diff, nil
}

// comparisonSummary describes how the headline counts changed.
type comparisonSummary struct {
	From            string `json:"from" yaml:"from"`
	To              string `json:"to" yaml:"to"`
	ComplexityDelta int    `json:"complexity_delta" yaml:"complexity_delta"`
	RiskyDelta      int    `json:"risky_delta" yaml:"risky_delta"`
	Diff            string `json:"diff" yaml:"diff"`
}

// RenderComparison renders the difference between two snapshots.
func RenderComparison(older, newer m.Snapshot, opts DisplayOptions) (string, error) {
	diff, err := DiffSnapshots(older, newer)
	if err != nil {
		return "", err
	}

	summary := comparisonSummary{
		From:            older.ID,
		To:              newer.ID,
		ComplexityDelta: newer.Report.ComplexityCount - older.Report.ComplexityCount,
		RiskyDelta:      newer.Report.RiskyCount - older.Report.RiskyCount,
		Diff:            diff,
	}

	switch opts.Format {
	case FormatJSON:
		return renderJSON(summary)
	case FormatYAML:
		return renderYAML(summary)
	case FormatText, "":
	default:
		return "", fmt.Errorf("unsupported format %q", opts.Format)
	}

	p := newPalette(opts.Color)

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s -> %s\n", p.heading("Compare:"), older.ID, newer.ID)
	fmt.Fprintf(&b, "  complexity findings: %d -> %d (%+d)\n",
		older.Report.ComplexityCount, newer.Report.ComplexityCount, summary.ComplexityDelta)
	fmt.Fprintf(&b, "  risky calls:         %d -> %d (%+d)\n",
		older.Report.RiskyCount, newer.Report.RiskyCount, summary.RiskyDelta)

	if diff == "" {
		b.WriteString("\nNo differences\n")
		return b.String(), nil
	}

	b.WriteString("\n")
	b.WriteString(diff)

	return b.String(), nil
}
