// Package parser is the syntax tree provider: it turns source text into a
// tree-sitter tree, selecting the grammar from the file's dialect. A parse
// failure is final for that file; no partial-tree recovery is attempted.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies which grammar parses a file.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

// extToDialect maps file extensions to dialects. JSX lives in the
// javascript grammar; .tsx needs the dedicated tsx grammar because type
// assertions and JSX are ambiguous in plain TypeScript.
var extToDialect = map[string]Dialect{
	".js":  DialectJavaScript,
	".jsx": DialectJavaScript,
	".mjs": DialectJavaScript,
	".cjs": DialectJavaScript,
	".ts":  DialectTypeScript,
	".mts": DialectTypeScript,
	".tsx": DialectTSX,
}

var (
	dialectGrammars map[Dialect]*sitter.Language
	grammarsOnce    sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		dialectGrammars = map[Dialect]*sitter.Language{
			DialectJavaScript: javascript.GetLanguage(),
			DialectTypeScript: typescript.GetLanguage(),
			DialectTSX:        tsx.GetLanguage(),
		}
	})
}

// DialectForFile returns the dialect for a file path based on its
// extension. Returns ("", false) for unsupported extensions.
func DialectForFile(path string) (Dialect, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	d, ok := extToDialect[ext]
	return d, ok
}

// ParseError reports a file whose source could not be parsed into a usable
// tree. The file is skipped; the batch continues.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s: syntax errors in tree", e.Path)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse parses src with the grammar for dialect. Each call uses its own
// parser instance, so Parse is safe for concurrent use. A tree whose root
// contains ERROR nodes counts as a parse failure.
func Parse(ctx context.Context, src []byte, dialect Dialect, path string) (*sitter.Tree, error) {
	initGrammars()
	lang, ok := dialectGrammars[dialect]
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported dialect %q", dialect)}
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, &ParseError{Path: path}
	}
	return tree, nil
}
