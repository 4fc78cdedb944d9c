package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// palette holds the colour functions used by the text renderer.
type palette struct {
	heading func(a ...interface{}) string
	high    func(a ...interface{}) string
	test    func(a ...interface{}) string
	faint   func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	colors := []*color.Color{
		color.New(color.FgCyan, color.Bold),
		color.New(color.FgRed, color.Bold),
		color.New(color.FgYellow),
		color.New(color.Faint),
	}

	for _, c := range colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return palette{
		heading: colors[0].SprintFunc(),
		high:    colors[1].SprintFunc(),
		test:    colors[2].SprintFunc(),
		faint:   colors[3].SprintFunc(),
	}
}

// RenderReport renders report in the requested format.
func RenderReport(report m.Report, opts DisplayOptions) (string, error) {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(report)
	case FormatYAML:
		return renderYAML(report)
	case FormatText, "":
		return renderReportText(report, opts), nil
	}

	return "", fmt.Errorf("unsupported format %q", opts.Format)
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	return string(data) + "\n", nil
}

func renderYAML(v any) (string, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	return buf.String(), nil
}

func renderReportText(report m.Report, opts DisplayOptions) string {
	p := newPalette(opts.Color)

	var b strings.Builder

	stats := report.Stats
	fmt.Fprintf(&b, "%s %d files analysed, %d skipped | %d scopes (%d production, %d test, %d dropped)\n\n",
		p.heading("Summary:"),
		stats.FilesAnalyzed, stats.FilesSkipped,
		stats.Scopes, stats.ProductionScopes, stats.TestScopes, stats.DroppedScopes)

	fmt.Fprintf(&b, "%s %d scope(s) above threshold %d\n",
		p.heading("Complexity:"), report.ComplexityCount, report.Threshold)

	if len(report.TopComplexity) > 0 {
		b.WriteString(complexityTable(report.TopComplexity, p))
	}

	if len(report.TopFiles) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.heading("Top files:"))
		b.WriteString(filesTable(report.TopFiles))
	}

	fmt.Fprintf(&b, "\n%s %d\n", p.heading("Risky calls:"), report.RiskyCount)

	if len(report.RiskyByFile) > 0 {
		b.WriteString(riskyTable(report.RiskyByFile))
		b.WriteString(riskySnippets(report.RiskyByFile, opts.MaxSnippets, p))
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.heading("Skipped:"))

		for _, s := range report.Skipped {
			fmt.Fprintf(&b, "  %s: %s\n", s.File, p.faint(s.Reason))
		}
	}

	return b.String()
}

func newTable(buf *bytes.Buffer, header []string, alignment []int) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(alignment)

	return table
}

func complexityTable(entries []m.ComplexityEntry, p palette) string {
	var buf bytes.Buffer

	table := newTable(&buf,
		[]string{"Scope", "Score", "File", "Lines", "Class"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT},
	)

	for _, e := range entries {
		class := string(e.Classification)
		if e.Classification == m.ClassTest {
			class = p.test(class)
		}

		table.Append([]string{
			e.Scope,
			p.high(strconv.Itoa(e.Score)),
			string(e.File),
			fmt.Sprintf("%d-%d", e.StartLine, e.EndLine),
			class,
		})
	}

	table.Render()

	return buf.String()
}

func filesTable(entries []m.FileEntry) string {
	var buf bytes.Buffer

	table := newTable(&buf,
		[]string{"File", "Total Score", "Scopes"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT},
	)

	for _, e := range entries {
		table.Append([]string{string(e.File), strconv.Itoa(e.TotalScore), strconv.Itoa(e.ScopeCount)})
	}

	table.Render()

	return buf.String()
}

func riskyTable(groups []m.RiskyGroup) string {
	var buf bytes.Buffer

	table := newTable(&buf,
		[]string{"File", "Count"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT},
	)

	total := 0

	for _, g := range groups {
		table.Append([]string{string(g.File), strconv.Itoa(g.Count)})
		total += g.Count
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(groups)), strconv.Itoa(total)})
	table.Render()

	return buf.String()
}

func riskySnippets(groups []m.RiskyGroup, maxSnippets int, p palette) string {
	var b strings.Builder

	for _, g := range groups {
		fmt.Fprintf(&b, "\n  %s\n", g.File)

		shown := g.Findings
		if maxSnippets > 0 && len(shown) > maxSnippets {
			shown = shown[:maxSnippets]
		}

		for _, f := range shown {
			fmt.Fprintf(&b, "    %s  %s\n", p.faint(fmt.Sprintf("%d:%d", f.Line, f.Column)), f.Snippet)
		}

		if hidden := len(g.Findings) - len(shown); hidden > 0 {
			fmt.Fprintf(&b, "    %s\n", p.faint(fmt.Sprintf("… %d more", hidden)))
		}
	}

	return b.String()
}

// sourceRow is one line of the source listing.
type sourceRow struct {
	File       m.Path `json:"file" yaml:"file"`
	Lines      int    `json:"lines" yaml:"lines"`
	Production int    `json:"production_scopes" yaml:"production_scopes"`
	Test       int    `json:"test_scopes" yaml:"test_scopes"`
	Dropped    int    `json:"dropped_scopes" yaml:"dropped_scopes"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func sourceRows(results []m.FileResult) []sourceRow {
	rows := make([]sourceRow, 0, len(results))

	for _, r := range results {
		row := sourceRow{File: r.Path, Lines: r.Lines, Dropped: r.Dropped}
		row.Production, row.Test = r.CountScopes()

		if r.Err != nil {
			row.Error = r.Err.Error()
		}

		rows = append(rows, row)
	}

	return rows
}

// RenderSources renders the per-file scope listing.
func RenderSources(results []m.FileResult, opts DisplayOptions) (string, error) {
	rows := sourceRows(results)

	switch opts.Format {
	case FormatJSON:
		return renderJSON(rows)
	case FormatYAML:
		return renderYAML(rows)
	case FormatText, "":
	default:
		return "", fmt.Errorf("unsupported format %q", opts.Format)
	}

	var buf bytes.Buffer

	table := newTable(&buf,
		[]string{"Path", "Lines", "Production", "Test", "Dropped"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT},
	)

	var production, test, dropped int

	for _, row := range rows {
		if row.Error != "" {
			table.Append([]string{string(row.File), "-", "-", "-", "-"})
			continue
		}

		table.Append([]string{
			string(row.File),
			strconv.Itoa(row.Lines),
			strconv.Itoa(row.Production),
			strconv.Itoa(row.Test),
			strconv.Itoa(row.Dropped),
		})

		production += row.Production
		test += row.Test
		dropped += row.Dropped
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(rows)),
		"",
		strconv.Itoa(production),
		strconv.Itoa(test),
		strconv.Itoa(dropped),
	})
	table.Render()

	return buf.String(), nil
}

// snapshotRow is one line of the snapshot listing.
type snapshotRow struct {
	ID         string `json:"id" yaml:"id"`
	CreatedAt  string `json:"created_at" yaml:"created_at"`
	Files      int    `json:"files" yaml:"files"`
	Complexity int    `json:"complexity_findings" yaml:"complexity_findings"`
	Risky      int    `json:"risky_calls" yaml:"risky_calls"`
}

// RenderSnapshots renders the list of saved snapshots.
func RenderSnapshots(snapshots []m.Snapshot, opts DisplayOptions) (string, error) {
	rows := make([]snapshotRow, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, snapshotRow{
			ID:         s.ID,
			CreatedAt:  s.CreatedAt.Format("2006-01-02 15:04:05"),
			Files:      s.Report.Stats.FilesAnalyzed,
			Complexity: s.Report.ComplexityCount,
			Risky:      s.Report.RiskyCount,
		})
	}

	switch opts.Format {
	case FormatJSON:
		return renderJSON(rows)
	case FormatYAML:
		return renderYAML(rows)
	case FormatText, "":
	default:
		return "", fmt.Errorf("unsupported format %q", opts.Format)
	}

	if len(rows) == 0 {
		return "No saved reports\n", nil
	}

	var buf bytes.Buffer

	table := newTable(&buf,
		[]string{"ID", "Created", "Files", "Complexity", "Risky"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT},
	)

	for _, row := range rows {
		table.Append([]string{row.ID, row.CreatedAt, strconv.Itoa(row.Files), strconv.Itoa(row.Complexity), strconv.Itoa(row.Risky)})
	}

	table.Render()

	return buf.String(), nil
}

// sortedPaths returns the keys of totals in lexical order.
func sortedPaths(totals map[m.Path]m.FileTotal) []m.Path {
	paths := make([]m.Path, 0, len(totals))
	for path := range totals {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})

	return paths
}
