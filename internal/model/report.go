package model

import "time"

// ComplexityEntry is one row of the top-N complexity ranking.
type ComplexityEntry struct {
	Scope          string         `json:"scope" yaml:"scope"`
	Score          int            `json:"score" yaml:"score"`
	File           Path           `json:"file" yaml:"file"`
	StartLine      int            `json:"start_line" yaml:"start_line"`
	EndLine        int            `json:"end_line" yaml:"end_line"`
	Classification Classification `json:"classification" yaml:"classification"`
}

// FileEntry is one row of the top-N file ranking.
type FileEntry struct {
	File       Path `json:"file" yaml:"file"`
	TotalScore int  `json:"total_score" yaml:"total_score"`
	ScopeCount int  `json:"scope_count" yaml:"scope_count"`
}

// RiskyGroup lists the risky call findings of a single file.
type RiskyGroup struct {
	File     Path      `json:"file" yaml:"file"`
	Count    int       `json:"count" yaml:"count"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// FileTotal sums finding values per kind for one file.
type FileTotal struct {
	ComplexityTotal int `json:"complexity_total" yaml:"complexity_total"`
	ComplexityCount int `json:"complexity_count" yaml:"complexity_count"`
	RiskyCount      int `json:"risky_count" yaml:"risky_count"`
}

// SkippedFile records a file that could not be read.
type SkippedFile struct {
	File   Path   `json:"file" yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
}

// Stats summarises one run.
type Stats struct {
	FilesAnalyzed    int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped     int `json:"files_skipped" yaml:"files_skipped"`
	Scopes           int `json:"scopes" yaml:"scopes"`
	ProductionScopes int `json:"production_scopes" yaml:"production_scopes"`
	TestScopes       int `json:"test_scopes" yaml:"test_scopes"`
	DroppedScopes    int `json:"dropped_scopes" yaml:"dropped_scopes"`
}

// Report is the ranked, read-only aggregation of all findings of one run.
// It carries no timestamps or identifiers so identical inputs give identical reports.
type Report struct {
	Threshold       int                `json:"threshold" yaml:"threshold"`
	TopN            int                `json:"top_n" yaml:"top_n"`
	Stats           Stats              `json:"stats" yaml:"stats"`
	ComplexityCount int                `json:"complexity_count" yaml:"complexity_count"`
	TopComplexity   []ComplexityEntry  `json:"top_complexity" yaml:"top_complexity"`
	TopFiles        []FileEntry        `json:"top_files" yaml:"top_files"`
	RiskyCount      int                `json:"risky_count" yaml:"risky_count"`
	RiskyByFile     []RiskyGroup       `json:"risky_by_file" yaml:"risky_by_file"`
	FileTotals      map[Path]FileTotal `json:"file_totals" yaml:"file_totals"`
	Skipped         []SkippedFile      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Findings        []Finding          `json:"findings" yaml:"findings"`
}

// Snapshot is a saved report together with the metadata of the run that produced it.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Paths     []Path    `json:"paths" yaml:"paths"`
	Report    Report    `json:"report" yaml:"report"`
}
