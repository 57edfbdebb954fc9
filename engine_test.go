package uimap

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/uimap/internal/cache"
	"github.com/jward/uimap/internal/metadata"
)

const loginFormSrc = `import React from 'react';

// Authentication entry point for returning users.
export default function LoginForm({ onLogin, redirectUrl }) {
  return (
    <form>
      <input type="password" />
      <button>Sign In</button>
    </form>
  );
}
`

const navigationSrc = `export default function Navigation({ to }) {
  return (
    <nav>
      <a href="/home">Home</a>
    </nav>
  );
}
`

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	e, err := New(root)
	require.NoError(t, err)
	return e, root
}

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestNew_Defaults(t *testing.T) {
	e, root := newTestEngine(t)
	assert.Equal(t, filepath.Join(root, ".uimap"), e.OutputDir())
	assert.Equal(t, filepath.Join(root, ".uimap", "cache"), e.CacheDir())
	assert.DirExists(t, e.CacheDir())
}

func TestNew_UnknownFramework(t *testing.T) {
	_, err := New(t.TempDir(), WithFramework("vue"))
	require.Error(t, err)
}

func TestNew_UncreatableCacheDirIsFatal(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, err := New(root, WithCacheDir(filepath.Join(blocker, "cache")))
	require.Error(t, err)
}

// Scenario A: a default-exported LoginForm with onLogin and redirectUrl
// props, rendering a form and a "Sign In" button.
func TestAnalyze_LoginForm(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/components/LoginForm.jsx", loginFormSrc)

	analysis, err := e.AnalyzeBatch(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, analysis.Components, 1)

	comp := analysis.Components[0]
	assert.Equal(t, "LoginForm", comp.Name)
	assert.Equal(t, "src/components/LoginForm.jsx", comp.FilePath)

	propNames := []string{}
	for _, p := range comp.Props {
		propNames = append(propNames, p.Name)
	}
	assert.Contains(t, propNames, "onLogin")
	assert.Contains(t, propNames, "redirectUrl")

	var hasSubmit bool
	for _, a := range comp.UserActions {
		if a.Type == ActionSubmit {
			hasSubmit = true
		}
	}
	assert.True(t, hasSubmit, "expected a submit action from onLogin")

	assert.Equal(t, CategoryForm, comp.SemanticCategory)
	assert.Contains(t, comp.Description, "Sign in")

	assert.Equal(t, []string{"src/components/LoginForm.jsx"}, analysis.ChangeSet.NewComponents)
	assert.Equal(t, 1, analysis.Stats.CacheMisses)
}

// Scenario B: two runs with zero edits yield an empty changeset, all
// dirty flags false, and byte-identical artifacts.
func TestAnalyze_Idempotence(t *testing.T) {
	e, root := newTestEngine(t)
	login := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	nav := writeSource(t, root, "src/Navigation.jsx", navigationSrc)
	files := []string{login, nav}
	ctx := context.Background()

	first, err := e.AnalyzeBatch(ctx, files)
	require.NoError(t, err)

	artifactBytes := func() map[string][]byte {
		out := map[string][]byte{}
		for _, name := range []string{"components.json", "patterns.json", "workflows.json"} {
			data, err := os.ReadFile(filepath.Join(e.OutputDir(), name))
			require.NoError(t, err)
			out[name] = data
		}
		return out
	}
	before := artifactBytes()

	second, err := e.AnalyzeBatch(ctx, files)
	require.NoError(t, err)

	assert.Empty(t, second.ChangeSet.NewComponents)
	assert.Empty(t, second.ChangeSet.ChangedComponents)
	assert.Empty(t, second.ChangeSet.DeletedComponents)
	assert.False(t, second.ChangeSet.ComponentsJSONDirty)
	assert.False(t, second.ChangeSet.PatternsJSONDirty)
	assert.False(t, second.ChangeSet.WorkflowsJSONDirty)
	assert.Equal(t, 2, second.Stats.CacheHits)
	assert.Zero(t, second.Stats.CacheMisses)

	assert.Equal(t, first.Components, second.Components)
	assert.Equal(t, first.Patterns, second.Patterns)
	assert.Equal(t, first.Workflows, second.Workflows)
	assert.Equal(t, before, artifactBytes())
}

// Cache correctness: a content edit shows up as changed and the entry's
// stored hash tracks the new content.
func TestAnalyze_ContentChangeIsStale(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	ctx := context.Background()

	_, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)

	edited := loginFormSrc + "\n// reviewed\n"
	writeSource(t, root, "src/LoginForm.jsx", edited)

	second, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/LoginForm.jsx"}, second.ChangeSet.ChangedComponents)
	assert.Equal(t, 1, second.Stats.CacheStale)

	entryFile := filepath.Join(e.CacheDir(), cache.PathKey("src/LoginForm.jsx")+".json")
	data, err := os.ReadFile(entryFile)
	require.NoError(t, err)
	var entry cache.Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, cache.HashContent([]byte(edited)), entry.SourceFileHash)
}

// Scenario C: deleting a previously analyzed file reports it as deleted
// and removes its on-disk cache entry.
func TestAnalyze_Deletion(t *testing.T) {
	e, root := newTestEngine(t)
	login := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	nav := writeSource(t, root, "src/components/Navigation.jsx", navigationSrc)
	ctx := context.Background()

	_, err := e.AnalyzeBatch(ctx, []string{login, nav})
	require.NoError(t, err)

	require.NoError(t, os.Remove(nav))
	second, err := e.AnalyzeBatch(ctx, []string{login})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/components/Navigation.jsx"}, second.ChangeSet.DeletedComponents)
	assert.Equal(t, 1, second.Stats.Deleted)
	entryFile := filepath.Join(e.CacheDir(), cache.PathKey("src/components/Navigation.jsx")+".json")
	assert.NoFileExists(t, entryFile)
}

// One unparsable file is logged and skipped; the rest of the batch
// proceeds and the error is counted.
func TestAnalyze_BadFileDoesNotAbortBatch(t *testing.T) {
	e, root := newTestEngine(t)
	good := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	bad := writeSource(t, root, "src/Broken.jsx", "export default function ( {{{")

	analysis, err := e.AnalyzeBatch(context.Background(), []string{good, bad})
	require.NoError(t, err)
	require.Len(t, analysis.Components, 1)
	assert.Equal(t, "LoginForm", analysis.Components[0].Name)
	assert.Equal(t, 1, analysis.Stats.Errors)
}

// A parse failure leaves the file's prior cache entry untouched, and the
// entry is not treated as deleted.
func TestAnalyze_ParseFailureKeepsPriorEntry(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	ctx := context.Background()

	_, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)

	writeSource(t, root, "src/LoginForm.jsx", "export default function ( {{{")
	second, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)

	assert.Empty(t, second.ChangeSet.DeletedComponents)
	entryFile := filepath.Join(e.CacheDir(), cache.PathKey("src/LoginForm.jsx")+".json")
	assert.FileExists(t, entryFile)
}

func TestAnalyzeDirectory_DiscoversFiles(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	writeSource(t, root, "src/LoginForm.test.jsx", loginFormSrc)
	writeSource(t, root, "node_modules/pkg/index.js", "module.exports = 1;")

	analysis, err := e.AnalyzeDirectory(context.Background())
	require.NoError(t, err)
	require.Len(t, analysis.Components, 1)
	assert.Equal(t, "src/LoginForm.jsx", analysis.Components[0].FilePath)
}

func TestAnalyze_PatternsAndWorkflowsFromAggregate(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)

	analysis, err := e.AnalyzeBatch(context.Background(), []string{path})
	require.NoError(t, err)

	patternNames := []string{}
	for _, p := range analysis.Patterns {
		patternNames = append(patternNames, p.Name)
		assert.GreaterOrEqual(t, p.Confidence, 0.0)
		assert.LessOrEqual(t, p.Confidence, 1.0)
	}
	assert.Contains(t, patternNames, "authentication")

	workflowNames := []string{}
	for _, w := range analysis.Workflows {
		workflowNames = append(workflowNames, w.Name)
	}
	assert.Contains(t, workflowNames, "authentication")
}

func TestClearCache_ForcesReextraction(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)
	ctx := context.Background()

	_, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)
	require.NoError(t, e.ClearCache())

	second, err := e.AnalyzeBatch(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.CacheMisses)
	// Identical content: artifacts are rewritten only if fingerprints moved.
	assert.False(t, second.ChangeSet.ComponentsJSONDirty)
}

func TestAnalyze_ChangesetArtifactWritten(t *testing.T) {
	e, root := newTestEngine(t)
	path := writeSource(t, root, "src/LoginForm.jsx", loginFormSrc)

	_, err := e.AnalyzeBatch(context.Background(), []string{path})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.OutputDir(), "changeset.json"))
	require.NoError(t, err)
	var cs metadata.ChangeSet
	require.NoError(t, json.Unmarshal(data, &cs))
	assert.Equal(t, []string{"src/LoginForm.jsx"}, cs.NewComponents)
	assert.True(t, cs.ComponentsJSONDirty)
}
