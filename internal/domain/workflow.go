// Package domain contains the analysis engine and the workflows behind the CLI commands.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"scopemeter.dev/pkg/scopemeter/internal/adapter"
	"scopemeter.dev/pkg/scopemeter/internal/controller"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// AnalyzeArgs contains the arguments for an analysis run.
type AnalyzeArgs struct {
	Paths      []m.Path
	Exclude    []string
	Extensions []string
	Config     m.AnalysisConfig
	Gate       Gate
	Reports    m.Path
	NoSave     bool
	Display    controller.DisplayOptions
}

// ListArgs contains the arguments for listing candidate files.
type ListArgs struct {
	Paths      []m.Path
	Exclude    []string
	Extensions []string
	Config     m.AnalysisConfig
	Display    controller.DisplayOptions
}

// ViewArgs contains the arguments for showing saved reports.
type ViewArgs struct {
	Reports m.Path
	ID      string // empty selects the latest snapshot
	All     bool   // list every snapshot instead of showing one
	Display controller.DisplayOptions
}

// CompareArgs contains the arguments for comparing two saved reports.
type CompareArgs struct {
	Reports m.Path
	OldID   string
	NewID   string // empty selects the latest snapshot
	Display controller.DisplayOptions
}

// Workflow defines the operations behind the CLI commands.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
	Compare(ctx context.Context, args CompareArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
	}
}

func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) error {
	sources, engine, err := w.prepare(args.Paths, args.Exclude, args.Extensions, args.Config)
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	report, err := engine.Analyze(ctx, sources)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	slog.Info("analysis finished",
		"files", report.Stats.FilesAnalyzed,
		"skipped", report.Stats.FilesSkipped,
		"complexity_findings", report.ComplexityCount,
		"risky_calls", report.RiskyCount)

	if !args.NoSave {
		snapshot, err := w.SaveSnapshot(args.Reports, args.Paths, report)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}

		w.DisplaySnapshotSaved(ctx, snapshot, args.Reports)
	}

	if err := w.DisplayReport(ctx, report, args.Display); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	violations := args.Gate.Evaluate(report)
	if len(violations) == 0 {
		return nil
	}

	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.String()
	}

	w.DisplayGateFailure(ctx, messages)

	return args.Gate.Check(report)
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	sources, engine, err := w.prepare(args.Paths, args.Exclude, args.Extensions, args.Config)
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	results, err := engine.AnalyzeFiles(ctx, sources)
	if err != nil {
		return fmt.Errorf("scan sources: %w", err)
	}

	if err := w.DisplaySources(ctx, results, args.Display); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if args.All {
		snapshots, err := w.ListSnapshots(args.Reports)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}

		return w.DisplaySnapshots(ctx, snapshots, args.Display)
	}

	snapshot, err := w.LoadSnapshot(args.Reports, args.ID)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.DisplayReport(ctx, snapshot.Report, args.Display); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) Compare(ctx context.Context, args CompareArgs) error {
	older, err := w.LoadSnapshot(args.Reports, args.OldID)
	if err != nil {
		return fmt.Errorf("load report %s: %w", args.OldID, err)
	}

	newer, err := w.LoadSnapshot(args.Reports, args.NewID)
	if err != nil {
		return fmt.Errorf("load report %s: %w", args.NewID, err)
	}

	if err := w.DisplayComparison(ctx, older, newer, args.Display); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) prepare(paths []m.Path, exclude, extensions []string, cfg m.AnalysisConfig) ([]m.Path, Engine, error) {
	engine, err := NewEngine(w.SourceFSAdapter, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("configure analysis: %w", err)
	}

	if len(extensions) == 0 {
		preset, err := PresetFor(cfg.Language)
		if err != nil {
			return nil, nil, err
		}

		extensions = preset.Extensions
	}

	sources, err := CollectSources(w.SourceFSAdapter, paths, SourceOptions{
		Extensions: extensions,
		Exclude:    exclude,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get sources: %w", err)
	}

	slog.Debug("collected sources", "count", len(sources))

	return sources, engine, nil
}
