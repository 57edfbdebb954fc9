package cache

import (
	"sort"

	"github.com/jward/uimap/internal/metadata"
)

// ChangeBuilder accumulates per-file outcomes over one analyze run and
// produces the ChangeSet. Deleted paths are the cache keys present before
// the run minus the paths seen in this run's scan.
type ChangeBuilder struct {
	before  map[string]bool
	seen    map[string]bool
	added   []string
	changed []string
}

// NewChangeBuilder snapshots the paths tracked before the run starts.
func NewChangeBuilder(trackedBefore []string) *ChangeBuilder {
	before := make(map[string]bool, len(trackedBefore))
	for _, p := range trackedBefore {
		before[p] = true
	}
	return &ChangeBuilder{before: before, seen: map[string]bool{}}
}

// Seen marks a path as present in this run's scan, whether or not its
// extraction succeeded. A file that errored is still seen, so its prior
// cache entry is not treated as deleted.
func (b *ChangeBuilder) Seen(relPath string) {
	b.seen[relPath] = true
}

// RecordNew marks a path that had no prior cache entry.
func (b *ChangeBuilder) RecordNew(relPath string) {
	b.added = append(b.added, relPath)
}

// RecordChanged marks a path whose entry existed with a different hash.
func (b *ChangeBuilder) RecordChanged(relPath string) {
	b.changed = append(b.changed, relPath)
}

// Deleted returns the sorted set difference {tracked before} − {seen}.
func (b *ChangeBuilder) Deleted() []string {
	deleted := []string{}
	for p := range b.before {
		if !b.seen[p] {
			deleted = append(deleted, p)
		}
	}
	sort.Strings(deleted)
	return deleted
}

// ChangeSet assembles the final record; the artifact dirty flags are
// supplied by the caller after the artifact writes.
func (b *ChangeBuilder) ChangeSet(componentsDirty, patternsDirty, workflowsDirty bool) metadata.ChangeSet {
	newComponents := append([]string{}, b.added...)
	changedComponents := append([]string{}, b.changed...)
	return metadata.ChangeSet{
		NewComponents:       newComponents,
		ChangedComponents:   changedComponents,
		DeletedComponents:   b.Deleted(),
		ComponentsJSONDirty: componentsDirty,
		PatternsJSONDirty:   patternsDirty,
		WorkflowsJSONDirty:  workflowsDirty,
	}
}
