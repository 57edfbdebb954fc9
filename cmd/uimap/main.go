package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jward/uimap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "uimap",
	Short:         "Semantic UI component analysis for documentation generators",
	Long:          "uimap parses UI source files with tree-sitter, classifies components, detects interaction patterns and workflows, and tracks changes between runs.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run; prints help by default.
}

var (
	flagOut     string
	flagForce   bool
	flagInclude string
	flagExclude string
	flagVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project's UI components",
	Long:  "Walks the project tree, extracts component metadata (reusing cached results for unchanged files), and writes the components, patterns, workflows, and changeset artifacts.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagOut, "out", "", "artifact directory (default: .uimap under the project root)")
	analyzeCmd.Flags().BoolVar(&flagForce, "force", false, "clear the cache and re-extract everything")
	analyzeCmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	analyzeCmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	analyzeCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "log per-file detail")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", root, err)
	}

	log, err := buildLogger(flagVerbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	opts := []uimap.Option{uimap.WithLogger(log)}
	if flagOut != "" {
		opts = append(opts,
			uimap.WithOutputDir(flagOut),
			uimap.WithCacheDir(filepath.Join(flagOut, "cache")),
		)
	}
	if flagInclude != "" {
		opts = append(opts, uimap.WithIncludes(splitGlobs(flagInclude)...))
	}
	if flagExclude != "" {
		opts = append(opts, uimap.WithExcludes(splitGlobs(flagExclude)...))
	}

	engine, err := uimap.New(absRoot, opts...)
	if err != nil {
		return err
	}

	if flagForce {
		if err := engine.ClearCache(); err != nil {
			return fmt.Errorf("clearing cache for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared cache: %s\n", engine.CacheDir())
	}

	analysis, err := engine.AnalyzeDirectory(context.Background())
	if err != nil {
		return err
	}

	stats := analysis.Stats
	fmt.Fprintf(os.Stderr, "Analyzed %s in %s\n", absRoot, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  components: %d (hits %d, misses %d, stale %d)\n",
		len(analysis.Components), stats.CacheHits, stats.CacheMisses, stats.CacheStale)
	fmt.Fprintf(os.Stderr, "  patterns: %d, workflows: %d, deleted: %d\n",
		len(analysis.Patterns), len(analysis.Workflows), stats.Deleted)
	if stats.Errors > 0 {
		fmt.Fprintf(os.Stderr, "  skipped %d file(s) with errors, see log\n", stats.Errors)
	}
	fmt.Fprintf(os.Stderr, "Artifacts: %s\n", engine.OutputDir())

	return nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func splitGlobs(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
