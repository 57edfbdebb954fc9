package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Artifact file names read by downstream documentation generators.
const (
	ComponentsArtifact = "components.json"
	PatternsArtifact   = "patterns.json"
	WorkflowsArtifact  = "workflows.json"
	ChangeSetArtifact  = "changeset.json"
)

// ArtifactWriter persists the run artifacts. Each artifact is rewritten
// only when its content fingerprint differs from what is already on disk,
// and the returned flag feeds the change set's per-artifact dirty bits.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter ensures the output directory exists.
func NewArtifactWriter(dir string) (*ArtifactWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: create directory %s: %w", dir, err)
	}
	return &ArtifactWriter{dir: dir}, nil
}

// Dir returns the output directory.
func (w *ArtifactWriter) Dir() string { return w.dir }

// Write marshals v and writes it under name if its fingerprint differs
// from the stored artifact. Returns whether the file was rewritten.
func (w *ArtifactWriter) Write(name string, v any) (bool, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false, fmt.Errorf("artifacts: marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, name)
	if existing, err := os.ReadFile(path); err == nil {
		if xxhash.Sum64(existing) == xxhash.Sum64(data) {
			return false, nil
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("artifacts: write %s: %w", name, err)
	}
	return true, nil
}
