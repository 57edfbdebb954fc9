package extract

import (
	"strings"

	"github.com/jward/uimap/internal/metadata"
)

// actionRule maps handler-prop suffix keywords to one action type. Rules
// are tried in order; a suffix matching no rule yields no action.
type actionRule struct {
	Type     metadata.ActionType
	Keywords []string
}

var actionRules = []actionRule{
	{metadata.ActionClick, []string{"click", "press", "tap"}},
	{metadata.ActionSubmit, []string{"submit", "login", "signin", "save", "send", "confirm"}},
	{metadata.ActionInput, []string{"change", "input", "type", "search", "select", "edit"}},
}

// navigation name keywords mirror the classifier's navigation rule.
var navNameKeywords = []string{"nav", "link", "menu", "breadcrumb"}

// inferActions derives user actions from the merged prop list and the
// component name. Every prop with an "on" prefix longer than two
// characters is a handler candidate; its suffix picks the action type. One
// navigation action is synthesized when the name or a "to"/"href" prop
// suggests routing.
func inferActions(name string, props []metadata.PropDefinition) []metadata.UserAction {
	actions := []metadata.UserAction{}
	for _, p := range props {
		if len(p.Name) <= 2 || !strings.HasPrefix(p.Name, "on") {
			continue
		}
		suffix := p.Name[2:]
		lower := strings.ToLower(suffix)
		typ, ok := actionTypeFor(lower)
		if !ok {
			continue
		}
		words := wordify(suffix)
		actions = append(actions, metadata.UserAction{
			Type:        typ,
			Trigger:     p.Name,
			Description: "User triggers " + words,
			Outcome:     words + " is handled",
		})
	}

	if trigger, ok := navigationHint(name, props); ok {
		actions = append(actions, metadata.UserAction{
			Type:        metadata.ActionNavigation,
			Trigger:     trigger,
			Description: "User navigates to a different view",
			Outcome:     "navigation to the target route",
		})
	}
	return actions
}

func actionTypeFor(lowerSuffix string) (metadata.ActionType, bool) {
	for _, rule := range actionRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowerSuffix, kw) {
				return rule.Type, true
			}
		}
	}
	return "", false
}

func navigationHint(name string, props []metadata.PropDefinition) (string, bool) {
	for _, p := range props {
		lower := strings.ToLower(p.Name)
		if lower == "to" || lower == "href" {
			return p.Name, true
		}
	}
	lowerName := strings.ToLower(name)
	for _, kw := range navNameKeywords {
		if strings.Contains(lowerName, kw) {
			return "navigate", true
		}
	}
	return "", false
}
