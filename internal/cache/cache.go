// Package cache persists per-file extraction results keyed by a content
// fingerprint, and computes the change set between runs. This is the
// load-bearing contract that lets downstream generators skip regeneration:
// a hit requires an exact content-hash match, and corrupt entries are
// purged on sight so they can never resurface.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/jward/uimap/internal/metadata"
)

// Entry is the persisted JSON object for one tracked file.
type Entry struct {
	SourceFileHash    string                     `json:"sourceFileHash"`
	ComponentMetadata metadata.ComponentMetadata `json:"componentMetadata"`
}

// Status is the result of a cache lookup.
type Status int

const (
	// Miss: no usable entry exists; extract fresh.
	Miss Status = iota
	// Stale: an entry exists but its hash differs; re-extract.
	Stale
	// Hit: the stored hash matches the current content exactly.
	Hit
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

// Cache is a directory of per-file JSON entries. All methods take
// project-relative forward-slash paths; the entry filename is the xxhash64
// fingerprint of that path, so it is stable across runs unless the path
// itself changes.
type Cache struct {
	dir  string
	root string
	log  *zap.Logger
}

// Open ensures the cache directory exists. A directory that cannot be
// created is fatal for the whole run: the change-set contract is
// meaningless without a working cache.
func Open(dir, projectRoot string, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
	}
	return &Cache{dir: dir, root: projectRoot, log: log}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// HashContent returns the hex sha256 content fingerprint used in entries.
func HashContent(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// PathKey returns the fixed-size fingerprint of a project-relative path.
func PathKey(relPath string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(relPath))
}

func (c *Cache) entryPath(relPath string) string {
	return filepath.Join(c.dir, PathKey(relPath)+".json")
}

// Lookup reads the entry for relPath and compares its stored hash against
// contentHash. An entry that fails to parse or is missing required fields
// is deleted immediately and reported as a miss. On a hit, a legacy
// absolute filePath is normalized to project-relative before the metadata
// is returned.
func (c *Cache) Lookup(relPath, contentHash string) (*metadata.ComponentMetadata, Status) {
	path := c.entryPath(relPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Miss
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || !entryValid(&entry) {
		c.log.Warn("purging corrupt cache entry", zap.String("path", relPath), zap.Error(err))
		_ = os.Remove(path)
		return nil, Miss
	}
	if entry.SourceFileHash != contentHash {
		return nil, Stale
	}

	meta := entry.ComponentMetadata
	meta.FilePath = c.normalizePath(meta.FilePath, relPath)
	if meta.Children == nil {
		meta.Children = []metadata.ComponentMetadata{}
	}
	return &meta, Hit
}

func entryValid(e *Entry) bool {
	return e.SourceFileHash != "" && e.ComponentMetadata.Name != "" && e.ComponentMetadata.FilePath != ""
}

// normalizePath converts legacy absolute paths to project-relative form.
func (c *Cache) normalizePath(p, fallback string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(c.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fallback
	}
	return filepath.ToSlash(rel)
}

// Put writes the entry for relPath, overwriting any prior state.
func (c *Cache) Put(relPath, contentHash string, meta metadata.ComponentMetadata) error {
	entry := Entry{SourceFileHash: contentHash, ComponentMetadata: meta}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal entry %s: %w", relPath, err)
	}
	if err := os.WriteFile(c.entryPath(relPath), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("cache: write entry %s: %w", relPath, err)
	}
	return nil
}

// Remove deletes the entry for relPath. Missing entries are not an error.
func (c *Cache) Remove(relPath string) error {
	err := os.Remove(c.entryPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: remove entry %s: %w", relPath, err)
	}
	return nil
}

// TrackedPaths returns the project-relative paths of every valid entry in
// the cache, purging corrupt entries as it goes.
func (c *Cache) TrackedPaths() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("cache: read directory: %w", err)
	}
	var paths []string
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		full := filepath.Join(c.dir, de.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || !entryValid(&entry) {
			c.log.Warn("purging corrupt cache entry", zap.String("file", de.Name()), zap.Error(err))
			_ = os.Remove(full)
			continue
		}
		paths = append(paths, c.normalizePath(entry.ComponentMetadata.FilePath, entry.ComponentMetadata.FilePath))
	}
	return paths, nil
}

// Clear removes every entry, leaving the directory in place.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("cache: read directory: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, de.Name())); err != nil {
			return fmt.Errorf("cache: clear: %w", err)
		}
	}
	return nil
}
