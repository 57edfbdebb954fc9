// Package extract walks one file's syntax tree into a ComponentMetadata
// record. Extractor implementations are registered at compile time and
// resolved by framework tag at startup; there is no runtime plugin
// discovery.
package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/uimap/internal/classify"
	"github.com/jward/uimap/internal/metadata"
)

// Result pairs the extracted metadata with the textual context the
// classifier consumes.
type Result struct {
	Metadata metadata.ComponentMetadata
	Context  classify.Context
}

// Extractor turns a parsed file into component metadata. Extraction is
// deterministic: the same tree and source always produce the same Result.
type Extractor interface {
	// Framework is the registry tag, e.g. "react".
	Framework() string
	// Extract walks the tree. relPath is project-relative with forward
	// slashes and is recorded verbatim in the metadata.
	Extract(src []byte, tree *sitter.Tree, relPath string) (*Result, error)
}

var registry = map[string]Extractor{}

func register(e Extractor) {
	registry[e.Framework()] = e
}

// ForFramework resolves a registered extractor by tag.
func ForFramework(name string) (Extractor, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("extract: no extractor registered for framework %q", name)
	}
	return e, nil
}

// Frameworks lists the registered extractor tags, sorted.
func Frameworks() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nameFromFilename converts a kebab- or snake-case file name into a
// capitalized component name: "user-profile.tsx" becomes "UserProfile".
func nameFromFilename(relPath string) string {
	base := filepath.Base(relPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// wordify converts compact-case to lowercase space-separated words:
// "SubmitForm" becomes "submit form".
func wordify(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
