package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// SimpleUI implements UI by printing to the cobra command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayReport prints the rendered report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderReport(report, opts)
	if err != nil {
		return err
	}

	s.print(out)

	return nil
}

// DisplaySources prints the per-file scope listing.
func (s *SimpleUI) DisplaySources(ctx context.Context, results []m.FileResult, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderSources(results, opts)
	if err != nil {
		return err
	}

	s.print(out)

	return nil
}

// DisplaySnapshots prints the saved snapshots.
func (s *SimpleUI) DisplaySnapshots(ctx context.Context, snapshots []m.Snapshot, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderSnapshots(snapshots, opts)
	if err != nil {
		return err
	}

	s.print(out)

	return nil
}

// DisplaySnapshotSaved reports where a snapshot was written. It goes to the
// error stream so machine readable stdout stays clean.
func (s *SimpleUI) DisplaySnapshotSaved(ctx context.Context, snapshot m.Snapshot, dir m.Path) {
	if ctx.Err() != nil {
		return
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "Saved report %s to %s\n", snapshot.ID, dir)
}

// DisplayComparison prints the difference between two snapshots.
func (s *SimpleUI) DisplayComparison(ctx context.Context, older, newer m.Snapshot, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderComparison(older, newer, opts)
	if err != nil {
		return err
	}

	s.print(out)

	return nil
}

// DisplayGateFailure lists the exceeded limits on the error stream.
func (s *SimpleUI) DisplayGateFailure(ctx context.Context, violations []string) {
	if ctx.Err() != nil {
		return
	}

	w := s.cmd.ErrOrStderr()

	_, _ = fmt.Fprintln(w, "Quality gate failed:")
	for _, v := range violations {
		_, _ = fmt.Fprintf(w, "  - %s\n", v)
	}
}

func (s *SimpleUI) print(text string) {
	_, _ = fmt.Fprint(s.cmd.OutOrStdout(), text)
}
