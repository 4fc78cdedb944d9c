package domain

import (
	"sort"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// ReportOptions controls the size of the ranked views of a Report.
type ReportOptions struct {
	TopN      int
	Threshold int
}

// BuildReport aggregates per-file results into a Report. It only reorders and
// summarises findings. Every sort is stable and ties keep first-seen order
// (result order, then finding order), so equal inputs give equal reports.
func BuildReport(results []m.FileResult, opts ReportOptions) m.Report {
	report := m.Report{
		Threshold:  opts.Threshold,
		TopN:       opts.TopN,
		FileTotals: make(map[m.Path]m.FileTotal),
		Findings:   make([]m.Finding, 0),
	}

	var (
		complexity []m.Finding
		fileOrder  []m.Path
		byFile     = make(map[m.Path]*m.RiskyGroup)
		riskyOrder []m.Path
	)

	for _, result := range results {
		if result.Err != nil {
			report.Skipped = append(report.Skipped, m.SkippedFile{File: result.Path, Reason: result.Err.Error()})
			report.Stats.FilesSkipped++

			continue
		}

		production, test := result.CountScopes()
		report.Stats.FilesAnalyzed++
		report.Stats.Scopes += len(result.Scopes)
		report.Stats.ProductionScopes += production
		report.Stats.TestScopes += test
		report.Stats.DroppedScopes += result.Dropped

		for _, finding := range result.Findings {
			report.Findings = append(report.Findings, finding)

			total, seen := report.FileTotals[finding.File]
			if !seen {
				fileOrder = append(fileOrder, finding.File)
			}

			switch finding.Kind {
			case m.KindComplexity:
				complexity = append(complexity, finding)
				total.ComplexityTotal += finding.Value
				total.ComplexityCount++
			case m.KindRiskyCall:
				group, ok := byFile[finding.File]
				if !ok {
					group = &m.RiskyGroup{File: finding.File}
					byFile[finding.File] = group
					riskyOrder = append(riskyOrder, finding.File)
				}

				group.Count++
				group.Findings = append(group.Findings, finding)
				total.RiskyCount += finding.Value
				report.RiskyCount++
			}

			report.FileTotals[finding.File] = total
		}
	}

	report.ComplexityCount = len(complexity)
	report.TopComplexity = topComplexity(complexity, opts.TopN)
	report.TopFiles = topFiles(fileOrder, report.FileTotals, opts.TopN)
	report.RiskyByFile = riskyGroups(riskyOrder, byFile)

	sort.SliceStable(report.Findings, func(i, j int) bool {
		return report.Findings[i].Value > report.Findings[j].Value
	})

	return report
}

func topComplexity(findings []m.Finding, topN int) []m.ComplexityEntry {
	sorted := make([]m.Finding, len(findings))
	copy(sorted, findings)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	entries := make([]m.ComplexityEntry, 0, len(sorted))
	for _, f := range limit(sorted, topN) {
		entries = append(entries, m.ComplexityEntry{
			Scope:          f.Scope,
			Score:          f.Value,
			File:           f.File,
			StartLine:      f.Line,
			EndLine:        f.EndLine,
			Classification: f.Classification,
		})
	}

	return entries
}

func topFiles(order []m.Path, totals map[m.Path]m.FileTotal, topN int) []m.FileEntry {
	entries := make([]m.FileEntry, 0, len(order))

	for _, path := range order {
		total := totals[path]
		if total.ComplexityCount == 0 {
			continue
		}

		entries = append(entries, m.FileEntry{
			File:       path,
			TotalScore: total.ComplexityTotal,
			ScopeCount: total.ComplexityCount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}

		return entries[i].ScopeCount > entries[j].ScopeCount
	})

	return limit(entries, topN)
}

func riskyGroups(order []m.Path, byFile map[m.Path]*m.RiskyGroup) []m.RiskyGroup {
	groups := make([]m.RiskyGroup, 0, len(order))
	for _, path := range order {
		groups = append(groups, *byFile[path])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	return groups
}

// limit truncates items to n entries. n <= 0 keeps everything.
func limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}

	return items[:n]
}
