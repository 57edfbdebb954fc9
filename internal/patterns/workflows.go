package patterns

import (
	"strings"

	"github.com/jward/uimap/internal/metadata"
)

// workflowDefinition emits a workflow only when both its component test
// and its action test pass over the whole project. Step filters then run
// against the global action set, not the workflow's own matched
// components; that wide scope is intentional.
type workflowDefinition struct {
	Name              string
	Description       string
	ComponentKeywords []string
	ActionKeywords    []string
	Steps             []stepDefinition
}

type stepDefinition struct {
	Name        string
	Description string
	Filter      []string
}

var defaultWorkflows = []workflowDefinition{
	{
		Name:              "authentication",
		Description:       "Sign in with existing credentials",
		ComponentKeywords: []string{"login", "signin", "auth"},
		ActionKeywords:    []string{"login", "sign in", "authenticate"},
		Steps: []stepDefinition{
			{"Open sign-in page", "Navigate to the authentication screen", []string{"navigate"}},
			{"Enter credentials", "Fill in the account identifier and password", []string{"change", "input", "type"}},
			{"Submit credentials", "Send the credentials for verification", []string{"login", "submit", "sign"}},
		},
	},
	{
		Name:              "search",
		Description:       "Find content with a keyword query",
		ComponentKeywords: []string{"search", "filter", "results"},
		ActionKeywords:    []string{"search", "filter", "query"},
		Steps: []stepDefinition{
			{"Enter query", "Type the search terms", []string{"change", "input", "search", "type"}},
			{"Run search", "Execute the query", []string{"search", "submit"}},
			{"Review results", "Select a result to open it", []string{"click", "select", "open"}},
		},
	},
	{
		Name:              "form-submission",
		Description:       "Complete and submit a form",
		ComponentKeywords: []string{"form", "input", "field"},
		ActionKeywords:    []string{"submit", "save", "send"},
		Steps: []stepDefinition{
			{"Fill fields", "Enter values into the form fields", []string{"change", "input", "type"}},
			{"Submit form", "Send the completed form", []string{"submit", "save", "send"}},
		},
	},
	{
		Name:              "crud",
		Description:       "Create, inspect, modify, and remove records",
		ComponentKeywords: []string{"list", "table", "form", "detail", "edit"},
		ActionKeywords:    []string{"create", "add", "edit", "delete", "save"},
		Steps: []stepDefinition{
			{"Browse records", "View the existing records", []string{"view", "select", "open"}},
			{"Create or edit", "Add a new record or change an existing one", []string{"create", "add", "edit", "change", "input"}},
			{"Save changes", "Persist the record", []string{"save", "submit"}},
			{"Delete record", "Remove a record", []string{"delete", "remove"}},
		},
	},
	{
		Name:              "checkout",
		Description:       "Purchase the items in the cart",
		ComponentKeywords: []string{"cart", "checkout", "payment"},
		ActionKeywords:    []string{"checkout", "pay", "purchase", "order"},
		Steps: []stepDefinition{
			{"Review cart", "Confirm the items to purchase", []string{"view", "select", "remove"}},
			{"Enter payment", "Provide payment and shipping details", []string{"change", "input", "type"}},
			{"Place order", "Confirm and submit the purchase", []string{"pay", "purchase", "order", "confirm", "submit"}},
		},
	},
}

// AssembleWorkflows emits each workflow whose component and action tests
// both pass. Step action lists are filtered from every action in the
// project.
func (d *Detector) AssembleWorkflows(components []metadata.ComponentMetadata) []metadata.Workflow {
	globalActions := []metadata.UserAction{}
	for _, comp := range components {
		globalActions = append(globalActions, comp.UserActions...)
	}

	workflows := []metadata.Workflow{}
	for _, def := range d.workflows {
		matched := matchComponents(components, def.ComponentKeywords)
		if len(matched) == 0 || !anyActionMatches(globalActions, def.ActionKeywords) {
			continue
		}
		steps := make([]metadata.WorkflowStep, 0, len(def.Steps))
		for _, stepDef := range def.Steps {
			steps = append(steps, metadata.WorkflowStep{
				Name:        stepDef.Name,
				Description: stepDef.Description,
				Actions:     filterActions(globalActions, stepDef.Filter),
			})
		}
		workflows = append(workflows, metadata.Workflow{
			Name:        def.Name,
			Description: def.Description,
			Steps:       steps,
			Components:  matched,
		})
	}
	return workflows
}

func matchComponents(components []metadata.ComponentMetadata, keywords []string) []string {
	var names []string
	for _, comp := range components {
		if containsAny(strings.ToLower(comp.Name), keywords) {
			names = append(names, comp.Name)
		}
	}
	return names
}

func anyActionMatches(actions []metadata.UserAction, keywords []string) bool {
	for _, a := range actions {
		if containsAny(strings.ToLower(a.Description+" "+a.Outcome), keywords) {
			return true
		}
	}
	return false
}

func filterActions(actions []metadata.UserAction, keywords []string) []metadata.UserAction {
	matched := []metadata.UserAction{}
	for _, a := range actions {
		if containsAny(strings.ToLower(a.Description+" "+a.Outcome), keywords) {
			matched = append(matched, a)
		}
	}
	return matched
}
