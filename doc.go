// Package uimap extracts structured, semantic descriptions of UI
// components from a source tree, built on tree-sitter. It classifies each
// component, detects cross-component interaction patterns and multi-step
// user workflows, and tracks what changed between runs so downstream
// documentation generators can skip unaffected output.
//
// # Pipeline
//
// For each candidate file, the engine looks up a content-hash cache entry.
// On a hit the stored metadata is reused verbatim; on a miss or a stale
// entry the file is parsed with the grammar for its dialect, walked into a
// ComponentMetadata record, classified, and written back to the cache.
// Pattern and workflow detection then run over the full aggregate; they
// are never cached. Finally the change-set builder diffs the run against
// the prior cache state.
//
// # Usage
//
// Create an Engine rooted at a project and analyze it:
//
//	e, err := uimap.New("path/to/project")
//	if err != nil { ... }
//
//	ctx := context.Background()
//	analysis, err := e.AnalyzeDirectory(ctx)
//	for _, c := range analysis.Components {
//		fmt.Printf("%s (%s): %s\n", c.Name, c.SemanticCategory, c.Description)
//	}
//
// AnalyzeBatch is the lower-level entry point taking an explicit file
// list. Both persist four JSON artifacts under the output directory:
// components.json, patterns.json, workflows.json, and changeset.json. The
// changeset records new, changed, and deleted project-relative paths plus
// one dirty flag per artifact: that is the contract documentation
// generators read.
//
// # Incremental analysis
//
// A cache hit requires the stored sha256 content hash to equal the current
// content's hash exactly; any mismatch re-extracts. Cache entries live one
// per tracked file under a filename derived from the xxhash64 fingerprint
// of the file's project-relative path. Entries whose source file left the
// scan are removed and reported as deleted. Corrupt entries are purged and
// treated as cold misses.
//
// # Failure model
//
// Per-file errors (unreadable file, parse failure) are logged and the file
// is skipped without touching its prior cache entry; one bad file never
// fails the batch. A cache directory that cannot be created aborts the
// run, because the change-set contract is meaningless without it.
package uimap
