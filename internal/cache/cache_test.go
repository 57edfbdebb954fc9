package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/uimap/internal/metadata"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	root := t.TempDir()
	c, err := Open(filepath.Join(root, ".uimap", "cache"), root, nil)
	require.NoError(t, err)
	return c
}

func testMeta(relPath string) metadata.ComponentMetadata {
	return metadata.ComponentMetadata{
		Name:        "LoginForm",
		FilePath:    relPath,
		Props:       []metadata.PropDefinition{{Name: "onLogin", Type: "any"}},
		Children:    []metadata.ComponentMetadata{},
		UserActions: []metadata.UserAction{},
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b", "cache")
	_, err := Open(dir, root, nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestOpen_UncreatableDirectoryIsFatal(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "occupied")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, err := Open(filepath.Join(blocker, "cache"), root, nil)
	require.Error(t, err)
}

func TestLookup_MissThenHit(t *testing.T) {
	c := newTestCache(t)
	hash := HashContent([]byte("source v1"))

	_, status := c.Lookup("src/LoginForm.tsx", hash)
	assert.Equal(t, Miss, status)

	require.NoError(t, c.Put("src/LoginForm.tsx", hash, testMeta("src/LoginForm.tsx")))

	meta, status := c.Lookup("src/LoginForm.tsx", hash)
	require.Equal(t, Hit, status)
	assert.Equal(t, "LoginForm", meta.Name)
	assert.Equal(t, "src/LoginForm.tsx", meta.FilePath)
}

func TestLookup_HashMismatchIsStale(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put("src/LoginForm.tsx", HashContent([]byte("v1")), testMeta("src/LoginForm.tsx")))

	meta, status := c.Lookup("src/LoginForm.tsx", HashContent([]byte("v2")))
	assert.Equal(t, Stale, status)
	assert.Nil(t, meta)
}

func TestLookup_CorruptEntryPurgedAsMiss(t *testing.T) {
	c := newTestCache(t)
	entryFile := filepath.Join(c.Dir(), PathKey("src/Broken.tsx")+".json")
	require.NoError(t, os.WriteFile(entryFile, []byte("{not json"), 0o644))

	_, status := c.Lookup("src/Broken.tsx", "whatever")
	assert.Equal(t, Miss, status)
	assert.NoFileExists(t, entryFile)
}

func TestLookup_MissingFieldsPurgedAsMiss(t *testing.T) {
	c := newTestCache(t)
	entryFile := filepath.Join(c.Dir(), PathKey("src/Empty.tsx")+".json")
	// Valid JSON but no sourceFileHash or metadata.
	require.NoError(t, os.WriteFile(entryFile, []byte(`{"componentMetadata":{}}`), 0o644))

	_, status := c.Lookup("src/Empty.tsx", "abc")
	assert.Equal(t, Miss, status)
	assert.NoFileExists(t, entryFile)
}

func TestLookup_NormalizesLegacyAbsolutePath(t *testing.T) {
	root := t.TempDir()
	c, err := Open(filepath.Join(root, "cache"), root, nil)
	require.NoError(t, err)

	hash := HashContent([]byte("v1"))
	meta := testMeta(filepath.Join(root, "src", "LoginForm.tsx"))
	require.NoError(t, c.Put("src/LoginForm.tsx", hash, meta))

	got, status := c.Lookup("src/LoginForm.tsx", hash)
	require.Equal(t, Hit, status)
	assert.Equal(t, "src/LoginForm.tsx", got.FilePath)
}

func TestPathKey_StableAndFixedSize(t *testing.T) {
	k1 := PathKey("src/components/Navigation.tsx")
	k2 := PathKey("src/components/Navigation.tsx")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
	assert.NotEqual(t, k1, PathKey("src/components/Other.tsx"))
}

func TestTrackedPaths(t *testing.T) {
	c := newTestCache(t)
	hash := HashContent([]byte("v1"))
	require.NoError(t, c.Put("src/A.tsx", hash, testMeta("src/A.tsx")))
	require.NoError(t, c.Put("src/B.tsx", hash, testMeta("src/B.tsx")))

	paths, err := c.TrackedPaths()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/A.tsx", "src/B.tsx"}, paths)
}

func TestRemove(t *testing.T) {
	c := newTestCache(t)
	hash := HashContent([]byte("v1"))
	require.NoError(t, c.Put("src/A.tsx", hash, testMeta("src/A.tsx")))
	require.NoError(t, c.Remove("src/A.tsx"))

	_, status := c.Lookup("src/A.tsx", hash)
	assert.Equal(t, Miss, status)

	// Removing a path that was never cached is not an error.
	require.NoError(t, c.Remove("src/Never.tsx"))
}

func TestClear(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put("src/A.tsx", HashContent([]byte("v1")), testMeta("src/A.tsx")))
	require.NoError(t, c.Clear())

	paths, err := c.TrackedPaths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestChangeBuilder_DeletedIsBeforeMinusSeen(t *testing.T) {
	b := NewChangeBuilder([]string{"src/A.tsx", "src/B.tsx", "src/C.tsx"})
	b.Seen("src/A.tsx")
	b.Seen("src/D.tsx")
	assert.Equal(t, []string{"src/B.tsx", "src/C.tsx"}, b.Deleted())
}

func TestChangeBuilder_ErroredFileIsNotDeleted(t *testing.T) {
	b := NewChangeBuilder([]string{"src/A.tsx"})
	// The file was scanned but failed extraction: still seen.
	b.Seen("src/A.tsx")
	assert.Empty(t, b.Deleted())
}

func TestChangeBuilder_ChangeSet(t *testing.T) {
	b := NewChangeBuilder([]string{"src/Old.tsx"})
	b.Seen("src/New.tsx")
	b.RecordNew("src/New.tsx")

	cs := b.ChangeSet(true, false, false)
	assert.Equal(t, []string{"src/New.tsx"}, cs.NewComponents)
	assert.Empty(t, cs.ChangedComponents)
	assert.Equal(t, []string{"src/Old.tsx"}, cs.DeletedComponents)
	assert.True(t, cs.ComponentsJSONDirty)
	assert.False(t, cs.PatternsJSONDirty)
}

func TestArtifactWriter_SkipsUnchanged(t *testing.T) {
	w, err := NewArtifactWriter(t.TempDir())
	require.NoError(t, err)

	doc := map[string]string{"hello": "world"}
	changed, err := w.Write(ComponentsArtifact, doc)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = w.Write(ComponentsArtifact, doc)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = w.Write(ComponentsArtifact, map[string]string{"hello": "other"})
	require.NoError(t, err)
	assert.True(t, changed)
}
