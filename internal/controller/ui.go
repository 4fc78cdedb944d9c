// Package controller provides output adapters for displaying analysis results.
package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// Format selects how reports are rendered.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name. Empty selects text.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("unsupported format %q (want text, json or yaml)", value)
}

// DisplayOptions controls rendering.
type DisplayOptions struct {
	Format      Format
	MaxSnippets int // risky call lines shown per file in text output, <= 0 shows all
	Color       bool
}

// UI defines the interface for displaying analysis results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayReport(ctx context.Context, report m.Report, opts DisplayOptions) error
	DisplaySources(ctx context.Context, results []m.FileResult, opts DisplayOptions) error
	DisplaySnapshots(ctx context.Context, snapshots []m.Snapshot, opts DisplayOptions) error
	DisplaySnapshotSaved(ctx context.Context, snapshot m.Snapshot, dir m.Path)
	DisplayComparison(ctx context.Context, older, newer m.Snapshot, opts DisplayOptions) error
	DisplayGateFailure(ctx context.Context, violations []string)
}

// NewUI returns the interactive TUI on a terminal and the SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
