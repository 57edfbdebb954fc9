package uimap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jward/uimap/internal/cache"
	"github.com/jward/uimap/internal/classify"
	"github.com/jward/uimap/internal/extract"
	"github.com/jward/uimap/internal/metadata"
	"github.com/jward/uimap/internal/parser"
	"github.com/jward/uimap/internal/patterns"
	"github.com/jward/uimap/internal/walker"
)

// Engine orchestrates the analysis pipeline: cache lookup per file,
// extraction and classification on miss, pattern and workflow detection
// over the aggregate, and change-set computation against the prior cache
// state. Files are processed one at a time; results are deterministic
// given unchanged file contents and cache state.
type Engine struct {
	root      string
	cacheDir  string
	outDir    string
	framework string
	includes  []string
	excludes  []string
	log       *zap.Logger

	classifierCfg *classify.Config
	patternDefs   []patterns.Definition

	extractor  extract.Extractor
	classifier *classify.Classifier
	detector   *patterns.Detector
	cache      *cache.Cache
	artifacts  *cache.ArtifactWriter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger injects a structured logger. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCacheDir overrides the per-file cache directory
// (default <root>/.uimap/cache).
func WithCacheDir(dir string) Option {
	return func(e *Engine) { e.cacheDir = dir }
}

// WithOutputDir overrides where run artifacts are written
// (default <root>/.uimap).
func WithOutputDir(dir string) Option {
	return func(e *Engine) { e.outDir = dir }
}

// WithFramework selects a registered extractor variant (default "react").
func WithFramework(name string) Option {
	return func(e *Engine) { e.framework = name }
}

// WithClassifierConfig replaces the built-in classification rules.
func WithClassifierConfig(cfg classify.Config) Option {
	return func(e *Engine) { e.classifierCfg = &cfg }
}

// WithPatternDefs replaces the built-in pattern definitions.
func WithPatternDefs(defs []patterns.Definition) Option {
	return func(e *Engine) { e.patternDefs = defs }
}

// WithIncludes overrides the walker's include globs.
func WithIncludes(globs ...string) Option {
	return func(e *Engine) { e.includes = globs }
}

// WithExcludes overrides the walker's exclude globs.
func WithExcludes(globs ...string) Option {
	return func(e *Engine) { e.excludes = globs }
}

// New creates an Engine rooted at projectRoot. A cache or output
// directory that cannot be created is fatal: the change-set contract is
// meaningless without a working cache.
func New(projectRoot string, opts ...Option) (*Engine, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("uimap: resolve project root: %w", err)
	}

	e := &Engine{
		root:      root,
		outDir:    filepath.Join(root, ".uimap"),
		cacheDir:  filepath.Join(root, ".uimap", "cache"),
		framework: "react",
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.extractor, err = extract.ForFramework(e.framework)
	if err != nil {
		return nil, err
	}
	cfg := classify.Default()
	if e.classifierCfg != nil {
		cfg = *e.classifierCfg
	}
	e.classifier = classify.New(cfg)
	e.detector = patterns.NewDetector(e.patternDefs)

	e.cache, err = cache.Open(e.cacheDir, root, e.log)
	if err != nil {
		return nil, err
	}
	e.artifacts, err = cache.NewArtifactWriter(e.outDir)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CacheDir returns the per-file cache directory.
func (e *Engine) CacheDir() string { return e.cacheDir }

// OutputDir returns the artifact directory.
func (e *Engine) OutputDir() string { return e.outDir }

// ClearCache removes all per-file cache entries, forcing a full
// re-extraction on the next run.
func (e *Engine) ClearCache() error { return e.cache.Clear() }

// AnalyzeDirectory discovers candidate files under the project root and
// analyzes them.
func (e *Engine) AnalyzeDirectory(ctx context.Context) (*metadata.Analysis, error) {
	files, err := walker.New(e.root, e.includes, e.excludes).Walk()
	if err != nil {
		return nil, fmt.Errorf("uimap: walk %s: %w", e.root, err)
	}
	return e.AnalyzeBatch(ctx, files)
}

// AnalyzeBatch analyzes the given files (absolute paths) and persists the
// run artifacts. Per-file failures are logged and skipped so one bad file
// never fails the project; only cache-subsystem failures abort the run.
func (e *Engine) AnalyzeBatch(ctx context.Context, files []string) (*metadata.Analysis, error) {
	start := time.Now()

	trackedBefore, err := e.cache.TrackedPaths()
	if err != nil {
		return nil, err
	}
	builder := cache.NewChangeBuilder(trackedBefore)

	components := []metadata.ComponentMetadata{}
	var stats metadata.Stats

	for _, path := range files {
		rel, err := e.relPath(path)
		if err != nil {
			e.log.Warn("skipping file outside project root", zap.String("path", path), zap.Error(err))
			stats.Errors++
			continue
		}
		if _, ok := parser.DialectForFile(path); !ok {
			continue // unsupported extension
		}
		builder.Seen(rel)
		stats.FilesScanned++

		meta, status, err := e.analyzeFile(ctx, path, rel)
		if err != nil {
			e.log.Warn("skipping file", zap.String("path", rel), zap.Error(err))
			stats.Errors++
			continue
		}
		switch status {
		case cache.Hit:
			stats.CacheHits++
		case cache.Stale:
			stats.CacheStale++
			builder.RecordChanged(rel)
		case cache.Miss:
			stats.CacheMisses++
			builder.RecordNew(rel)
		}
		components = append(components, *meta)
	}

	for _, rel := range builder.Deleted() {
		if err := e.cache.Remove(rel); err != nil {
			e.log.Warn("removing stale cache entry", zap.String("path", rel), zap.Error(err))
			continue
		}
		stats.Deleted++
	}

	detected := e.detector.Detect(components)
	workflows := e.detector.AssembleWorkflows(components)

	componentsDirty, err := e.artifacts.Write(cache.ComponentsArtifact, components)
	if err != nil {
		return nil, err
	}
	patternsDirty, err := e.artifacts.Write(cache.PatternsArtifact, detected)
	if err != nil {
		return nil, err
	}
	workflowsDirty, err := e.artifacts.Write(cache.WorkflowsArtifact, workflows)
	if err != nil {
		return nil, err
	}
	changeset := builder.ChangeSet(componentsDirty, patternsDirty, workflowsDirty)
	if _, err := e.artifacts.Write(cache.ChangeSetArtifact, changeset); err != nil {
		return nil, err
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	e.log.Info("analysis complete",
		zap.Int("files", stats.FilesScanned),
		zap.Int("hits", stats.CacheHits),
		zap.Int("misses", stats.CacheMisses),
		zap.Int("stale", stats.CacheStale),
		zap.Int("deleted", stats.Deleted),
		zap.Int("errors", stats.Errors),
		zap.Int64("ms", stats.DurationMs),
	)

	return &metadata.Analysis{
		Components: components,
		Patterns:   detected,
		Workflows:  workflows,
		ChangeSet:  changeset,
		Stats:      stats,
	}, nil
}

// analyzeFile runs the per-file pipeline: read, hash, cache lookup, and
// on miss or stale a fresh parse, extraction, classification, and cache
// write. An unreadable or unparsable file leaves any prior cache entry
// untouched.
func (e *Engine) analyzeFile(ctx context.Context, path, rel string) (*metadata.ComponentMetadata, cache.Status, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, cache.Miss, fmt.Errorf("read file: %w", err)
	}
	hash := cache.HashContent(content)

	meta, status := e.cache.Lookup(rel, hash)
	if status == cache.Hit {
		return meta, cache.Hit, nil
	}
	return e.extractFresh(ctx, content, hash, path, rel, status)
}

func (e *Engine) extractFresh(ctx context.Context, content []byte, hash, path, rel string, status cache.Status) (*metadata.ComponentMetadata, cache.Status, error) {
	dialect, _ := parser.DialectForFile(path)
	tree, err := parser.Parse(ctx, content, dialect, rel)
	if err != nil {
		return nil, status, err
	}
	defer tree.Close()

	result, err := e.extractor.Extract(content, tree, rel)
	if err != nil {
		return nil, status, fmt.Errorf("extract: %w", err)
	}

	meta := result.Metadata
	meta.SemanticCategory, meta.Description = e.classifier.Classify(meta.Name, meta.Props, result.Context)

	if err := e.cache.Put(rel, hash, meta); err != nil {
		return nil, status, err
	}
	return &meta, status, nil
}

func (e *Engine) relPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(e.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
