// Package classify assigns each component a semantic category and a human
// description. Classification is a pure function of its inputs: identical
// (name, props, context) always yield the same result, which the cache
// layer depends on for reproducibility.
package classify

import (
	"strings"

	"github.com/jward/uimap/internal/metadata"
)

// Context carries the textual surroundings the extractor gathered for a
// component: rendered literal text, attached comments, import specifiers,
// and the distinct lowercase markup tags used.
type Context struct {
	RenderedText []string
	Comments     []string
	Imports      []string
	MarkupTags   []string
}

// Rule maps name, prop, or import keywords to one category. A rule matches
// when the lowercased component name contains any name keyword, any
// lowercased prop name contains any prop keyword, or any import specifier
// contains any import keyword.
type Rule struct {
	Category       metadata.Category
	NameKeywords   []string
	PropKeywords   []string
	ImportKeywords []string
}

// DescriptionMapping maps a component-name substring to a canned
// description. Mappings are tried in declaration order.
type DescriptionMapping struct {
	Substring   string
	Description string
}

// Config is the classifier's rule set. Defaults are immutable package
// state; callers override by injecting their own Config.
type Config struct {
	// Rules are tried in order; the first match wins. A component that
	// matches no rule gets Fallback.
	Rules    []Rule
	Fallback metadata.Category

	// Overrides take precedence over everything, keyed by exact name.
	Overrides map[string]string
	// ExactDescriptions map exact component names to descriptions.
	ExactDescriptions map[string]string
	// SubstringDescriptions are tried in order after the exact map.
	SubstringDescriptions []DescriptionMapping
}

var defaultRules = []Rule{
	{
		Category:     metadata.CategoryForm,
		NameKeywords: []string{"form", "input", "field", "login", "signup", "register", "checkout"},
		PropKeywords: []string{"onsubmit", "onchange", "value", "placeholder"},
	},
	{
		Category:       metadata.CategoryNavigation,
		NameKeywords:   []string{"nav", "menu", "link", "breadcrumb", "sidebar", "tabs", "header", "router"},
		PropKeywords:   []string{"href"},
		ImportKeywords: []string{"router", "react-router"},
	},
	{
		Category:     metadata.CategoryInteraction,
		NameKeywords: []string{"button", "toggle", "dropdown", "modal", "dialog", "slider", "switch", "accordion"},
		PropKeywords: []string{"onclick", "onpress", "ontoggle"},
	},
	{
		Category:     metadata.CategoryDisplay,
		NameKeywords: []string{"card", "list", "table", "image", "avatar", "badge", "chart", "icon", "banner"},
		PropKeywords: []string{"src", "items", "data", "rows"},
	},
}

var defaultExactDescriptions = map[string]string{
	"App":    "Application shell that hosts routing and global providers",
	"Navbar": "Top navigation bar with links to the main sections",
	"Footer": "Page footer with secondary links and legal text",
	"Header": "Page header with branding and primary navigation",
	"Layout": "Shared page layout wrapping routed content",
}

var defaultSubstringDescriptions = []DescriptionMapping{
	{"Login", "Sign in form where the user enters their credentials"},
	{"Signup", "Registration form where a new user creates an account"},
	{"Register", "Registration form where a new user creates an account"},
	{"Search", "Search interface for finding content by query"},
	{"Checkout", "Checkout flow where the user completes a purchase"},
	{"Cart", "Shopping cart showing items selected for purchase"},
	{"Profile", "User profile view showing account details"},
	{"Dashboard", "Dashboard summarizing key information at a glance"},
	{"Settings", "Settings panel for adjusting user preferences"},
	{"Nav", "Navigation element for moving between sections"},
	{"Menu", "Menu listing available choices"},
	{"Button", "Button the user presses to trigger an action"},
	{"Modal", "Modal dialog overlaying the page for a focused task"},
	{"Table", "Tabular view of structured records"},
	{"List", "List view of repeated items"},
	{"Card", "Card presenting a compact summary of one item"},
	{"Input", "Input control for entering a value"},
	{"Form", "Form collecting user input for submission"},
}

// Default returns a copy of the built-in classifier configuration. Mutating
// the returned value never affects the package defaults.
func Default() Config {
	rules := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		rules[i] = Rule{
			Category:       r.Category,
			NameKeywords:   append([]string(nil), r.NameKeywords...),
			PropKeywords:   append([]string(nil), r.PropKeywords...),
			ImportKeywords: append([]string(nil), r.ImportKeywords...),
		}
	}
	exact := make(map[string]string, len(defaultExactDescriptions))
	for k, v := range defaultExactDescriptions {
		exact[k] = v
	}
	subs := make([]DescriptionMapping, len(defaultSubstringDescriptions))
	copy(subs, defaultSubstringDescriptions)
	return Config{
		Rules:                 rules,
		Fallback:              metadata.CategoryLayout,
		ExactDescriptions:     exact,
		SubstringDescriptions: subs,
	}
}

// Classifier applies a Config. The zero value is not usable; construct with
// New.
type Classifier struct {
	cfg Config
}

// New creates a Classifier. A zero Fallback defaults to layout so the
// category set stays total even with a partial injected config.
func New(cfg Config) *Classifier {
	if cfg.Fallback == "" {
		cfg.Fallback = metadata.CategoryLayout
	}
	return &Classifier{cfg: cfg}
}

// Classify returns the category and description for one component.
func (c *Classifier) Classify(name string, props []metadata.PropDefinition, ctx Context) (metadata.Category, string) {
	return c.Categorize(name, props, ctx), c.Describe(name)
}

// Categorize runs the ordered rule list; the first matching rule wins and
// the fallback guarantees a non-empty category for every input.
func (c *Classifier) Categorize(name string, props []metadata.PropDefinition, ctx Context) metadata.Category {
	lowerName := strings.ToLower(name)
	for _, rule := range c.cfg.Rules {
		if rule.matches(lowerName, props, ctx) {
			return rule.Category
		}
	}
	return c.cfg.Fallback
}

func (r *Rule) matches(lowerName string, props []metadata.PropDefinition, ctx Context) bool {
	for _, kw := range r.NameKeywords {
		if strings.Contains(lowerName, kw) {
			return true
		}
	}
	for _, p := range props {
		lowerProp := strings.ToLower(p.Name)
		for _, kw := range r.PropKeywords {
			if strings.Contains(lowerProp, kw) {
				return true
			}
		}
	}
	for _, imp := range ctx.Imports {
		lowerImp := strings.ToLower(imp)
		for _, kw := range r.ImportKeywords {
			if strings.Contains(lowerImp, kw) {
				return true
			}
		}
	}
	return false
}

// Describe resolves a component description with the precedence: caller
// override, exact-name mapping, substring mapping in declared order, then
// generic humanization of the name.
func (c *Classifier) Describe(name string) string {
	if d, ok := c.cfg.Overrides[name]; ok {
		return d
	}
	if d, ok := c.cfg.ExactDescriptions[name]; ok {
		return d
	}
	for _, m := range c.cfg.SubstringDescriptions {
		if strings.Contains(name, m.Substring) {
			return m.Description
		}
	}
	return Humanize(name) + " component"
}

// Humanize inserts a space before each uppercase letter that follows a
// lowercase letter and capitalizes the first letter: "userCard" becomes
// "User Card".
func Humanize(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && isUpper(r) && isLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	s := b.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
