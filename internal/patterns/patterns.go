// Package patterns aggregates the full set of extracted components to
// detect cross-component UI motifs and assemble multi-step user
// workflows. Detection is a single synchronous pass; nothing here is
// cached between runs.
package patterns

import (
	"sort"
	"strings"

	"github.com/jward/uimap/internal/metadata"
)

// Definition is one predefined pattern: component-name keywords, action
// phrases, and the motif's description and user goal.
type Definition struct {
	Name          string
	Keywords      []string
	ActionPhrases []string
	Description   string
	UserGoal      string
}

var defaultDefinitions = []Definition{
	{
		Name:          "authentication",
		Keywords:      []string{"login", "signup", "register", "auth", "password"},
		ActionPhrases: []string{"login", "sign in", "signin", "authenticate", "register"},
		Description:   "Components that let users prove who they are",
		UserGoal:      "Sign in to an existing account or create a new one",
	},
	{
		Name:          "search",
		Keywords:      []string{"search", "filter", "results", "query"},
		ActionPhrases: []string{"search", "filter", "query"},
		Description:   "Components for finding content by keyword or filter",
		UserGoal:      "Locate specific content quickly",
	},
	{
		Name:          "form-submission",
		Keywords:      []string{"form", "input", "field", "textarea"},
		ActionPhrases: []string{"submit", "save", "send", "change", "input"},
		Description:   "Components that collect and submit user input",
		UserGoal:      "Enter information and send it to the application",
	},
	{
		Name:          "navigation",
		Keywords:      []string{"nav", "menu", "sidebar", "breadcrumb", "link"},
		ActionPhrases: []string{"navigate", "navigation"},
		Description:   "Components for moving between sections of the app",
		UserGoal:      "Reach a different part of the application",
	},
	{
		Name:          "data-display",
		Keywords:      []string{"list", "table", "card", "grid", "chart"},
		ActionPhrases: []string{"select", "view", "open", "expand"},
		Description:   "Components that render collections of records",
		UserGoal:      "Browse and inspect structured data",
	},
	{
		Name:          "checkout",
		Keywords:      []string{"cart", "checkout", "payment", "order", "shipping"},
		ActionPhrases: []string{"checkout", "pay", "purchase", "confirm", "order"},
		Description:   "Components that carry a purchase to completion",
		UserGoal:      "Buy the items selected for purchase",
	},
}

// Defaults returns a copy of the built-in pattern definitions.
func Defaults() []Definition {
	defs := make([]Definition, len(defaultDefinitions))
	for i, d := range defaultDefinitions {
		defs[i] = Definition{
			Name:          d.Name,
			Keywords:      append([]string(nil), d.Keywords...),
			ActionPhrases: append([]string(nil), d.ActionPhrases...),
			Description:   d.Description,
			UserGoal:      d.UserGoal,
		}
	}
	return defs
}

// Weighting of the two matching ratios in the confidence blend.
const (
	componentWeight = 0.7
	actionWeight    = 0.3
)

// Detector holds the immutable pattern and workflow definitions for one
// process.
type Detector struct {
	defs      []Definition
	workflows []workflowDefinition
}

// NewDetector builds a Detector. Nil defs selects the built-in set.
func NewDetector(defs []Definition) *Detector {
	if defs == nil {
		defs = Defaults()
	}
	return &Detector{defs: defs, workflows: defaultWorkflows}
}

// Detect scores every pattern definition against the project's components.
// Patterns with no matching component are dropped. The result is sorted by
// descending confidence; ties keep declaration order.
func (d *Detector) Detect(components []metadata.ComponentMetadata) []metadata.DetectedPattern {
	detected := []metadata.DetectedPattern{}
	for _, def := range d.defs {
		var matchedComponents []string
		var matchedActions []string
		for _, comp := range components {
			if !containsAny(strings.ToLower(comp.Name), def.Keywords) {
				continue
			}
			matchedComponents = append(matchedComponents, comp.Name)
			for _, action := range comp.UserActions {
				text := strings.ToLower(action.Description + " " + action.Outcome)
				if containsAny(text, def.ActionPhrases) {
					matchedActions = append(matchedActions, action.Trigger)
				}
			}
		}
		if len(matchedComponents) == 0 {
			continue
		}
		detected = append(detected, metadata.DetectedPattern{
			Name:              def.Name,
			Description:       def.Description,
			UserGoal:          def.UserGoal,
			MatchedComponents: matchedComponents,
			MatchedActions:    matchedActions,
			Confidence:        confidence(len(matchedComponents), len(def.Keywords), len(matchedActions), len(def.ActionPhrases)),
		})
	}
	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Confidence > detected[j].Confidence
	})
	return detected
}

// confidence blends the component and action matching ratios 0.7/0.3.
// Each ratio is capped at 1 so the result stays in [0,1] even when more
// components match than the definition has keywords.
func confidence(matchedComponents, keywords, matchedActions, phrases int) float64 {
	return componentWeight*ratio(matchedComponents, keywords) + actionWeight*ratio(matchedActions, phrases)
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	r := float64(matched) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
