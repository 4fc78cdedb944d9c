package domain

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"scopemeter.dev/pkg/scopemeter/internal/adapter"
	"scopemeter.dev/pkg/scopemeter/internal/domain/extractors"
	"scopemeter.dev/pkg/scopemeter/internal/domain/scope"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// defaultCacheSize bounds the number of memoised per-content results.
const defaultCacheSize = 4096

// ErrFileUnreadable marks a file that could not be read. The file is skipped
// and the run continues.
var ErrFileUnreadable = errors.New("file unreadable")

// Engine runs the scanner, the classifier and the extractors over files.
type Engine interface {
	// Analyze reads and analyses every path, then aggregates the results.
	Analyze(ctx context.Context, paths []m.Path) (m.Report, error)
	// AnalyzeFiles returns one result per path, in path order.
	AnalyzeFiles(ctx context.Context, paths []m.Path) ([]m.FileResult, error)
	// AnalyzeSource analyses an in-memory file.
	AnalyzeSource(file m.SourceFile) m.FileResult
}

type engine struct {
	adapter.SourceFSAdapter

	cfg        compiledConfig
	extractors []extractors.Extractor
	cache      *lru.Cache[[sha256.Size]byte, m.FileResult]
}

// NewEngine creates an Engine. Empty pattern options of cfg are filled from
// its language preset; invalid patterns are reported here.
func NewEngine(fsAdapter adapter.SourceFSAdapter, cfg m.AnalysisConfig) (Engine, error) {
	compiled, err := compileConfig(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[[sha256.Size]byte, m.FileResult](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	return &engine{
		SourceFSAdapter: fsAdapter,
		cfg:             compiled,
		extractors: []extractors.Extractor{
			extractors.NewComplexityScorer(compiled.complexity, compiled.ComplexityThreshold, compiled.SkipTestScopes, compiled.SnippetWidth),
			extractors.NewRiskyCallDetector(compiled.RiskyPattern, compiled.CommentMarkers, compiled.SnippetWidth),
		},
		cache: cache,
	}, nil
}

func (e *engine) Analyze(ctx context.Context, paths []m.Path) (m.Report, error) {
	results, err := e.AnalyzeFiles(ctx, paths)
	if err != nil {
		return m.Report{}, err
	}

	return BuildReport(results, ReportOptions{
		TopN:      e.cfg.TopN,
		Threshold: e.cfg.ComplexityThreshold,
	}), nil
}

func (e *engine) AnalyzeFiles(ctx context.Context, paths []m.Path) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	if e.cfg.Parallel > 0 {
		group.SetLimit(e.cfg.Parallel)
	}

	for i, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			// Each worker writes only its own slot.
			results[i] = e.analyzePath(path)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("analyze files: %w", err)
	}

	return results, nil
}

func (e *engine) analyzePath(path m.Path) m.FileResult {
	content, err := e.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable file", "file", path, "error", err)

		return m.FileResult{Path: path, Err: fmt.Errorf("%w: %w", ErrFileUnreadable, err)}
	}

	key := sha256.Sum256(content)
	if cached, ok := e.cache.Get(key); ok {
		slog.Debug("reusing analysis of identical content", "file", path, "origin", cached.Path)
		return restamp(cached, path)
	}

	result := e.AnalyzeSource(m.NewSourceFile(path, content))
	e.cache.Add(key, result)

	return result
}

func (e *engine) AnalyzeSource(file m.SourceFile) m.FileResult {
	idx := scope.NewIndex(file.Lines, scope.WithMasking(e.cfg.MaskLiterals))
	scanned := scope.NewScanner(e.cfg.signature).Scan(file, idx)
	classifier := scope.NewClassifier(idx, e.cfg.markers, e.cfg.Window)
	scopes := classifier.ClassifyScopes(scanned.Scopes)

	findings := extractors.Run(extractors.FileContext{
		File:       file,
		Scopes:     scopes,
		Classifier: classifier,
		Index:      idx,
	}, e.extractors...)

	slog.Debug("analysed file", "file", file.Path, "scopes", len(scopes), "dropped", scanned.Dropped, "findings", len(findings))

	return m.FileResult{
		Path:     file.Path,
		Lines:    file.Len(),
		Scopes:   scopes,
		Findings: findings,
		Dropped:  scanned.Dropped,
	}
}

// restamp copies a cached result onto another path without touching the
// cached slices.
func restamp(result m.FileResult, path m.Path) m.FileResult {
	result.Path = path

	scopes := make([]m.Scope, len(result.Scopes))
	for i, sc := range result.Scopes {
		sc.File = path
		scopes[i] = sc
	}

	findings := make([]m.Finding, len(result.Findings))
	for i, f := range result.Findings {
		f.File = path
		findings[i] = f
	}

	result.Scopes = scopes
	result.Findings = findings

	return result
}
