// Package metadata defines the records the analysis pipeline produces:
// per-component metadata, detected patterns and workflows, and the change
// set that scopes downstream regeneration. All JSON tags are camelCase
// because the persisted artifacts are read by JavaScript documentation
// generators.
package metadata

// Category is the closed set of semantic component categories. Every
// component is assigned exactly one; CategoryLayout is the fallback.
type Category string

const (
	CategoryForm        Category = "form"
	CategoryNavigation  Category = "navigation"
	CategoryInteraction Category = "interaction"
	CategoryDisplay     Category = "display"
	CategoryLayout      Category = "layout"
)

// ActionType classifies an inferred user action.
type ActionType string

const (
	ActionClick      ActionType = "click"
	ActionInput      ActionType = "input"
	ActionNavigation ActionType = "navigation"
	ActionSubmit     ActionType = "submit"
)

// PropDefinition describes one component prop.
type PropDefinition struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     string `json:"default,omitempty"`
}

// UserAction is one user interaction a component affords, inferred from
// handler props or navigation hints.
type UserAction struct {
	Type        ActionType `json:"type"`
	Trigger     string     `json:"trigger"`
	Description string     `json:"description"`
	Outcome     string     `json:"outcome"`
}

// ComponentMetadata is the per-file extraction result. FilePath is always
// relative to the project root, forward-slash separated.
type ComponentMetadata struct {
	Name             string              `json:"name"`
	FilePath         string              `json:"filePath"`
	Props            []PropDefinition    `json:"props"`
	Children         []ComponentMetadata `json:"children"`
	UserActions      []UserAction        `json:"userActions"`
	SemanticCategory Category            `json:"semanticCategory"`
	Description      string              `json:"description"`
}

// DetectedPattern is a cross-component UI motif found by keyword
// co-occurrence, with a deterministic confidence in [0,1].
type DetectedPattern struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	UserGoal          string   `json:"userGoal"`
	MatchedComponents []string `json:"matchedComponents"`
	MatchedActions    []string `json:"matchedActions"`
	Confidence        float64  `json:"confidence"`
}

// WorkflowStep is one ordered step inside a workflow.
type WorkflowStep struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Actions     []UserAction `json:"actions"`
}

// Workflow is an ordered multi-step user task assembled from the project's
// components and actions.
type Workflow struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Steps       []WorkflowStep `json:"steps"`
	Components  []string       `json:"components"`
}

// ChangeSet records what changed between this run and the previous cache
// state. Paths are project-relative. The three *JsonChanged flags tell
// downstream generators which persisted artifacts were rewritten.
type ChangeSet struct {
	NewComponents       []string `json:"newComponents"`
	ChangedComponents   []string `json:"changedComponents"`
	DeletedComponents   []string `json:"deletedComponents"`
	ComponentsJSONDirty bool     `json:"componentsJsonChanged"`
	PatternsJSONDirty   bool     `json:"patternsJsonChanged"`
	WorkflowsJSONDirty  bool     `json:"workflowsJsonChanged"`
}

// Stats summarizes one analyze run. A run that skipped files reports them
// in Errors; success is never silent about skips.
type Stats struct {
	FilesScanned int   `json:"filesScanned"`
	CacheHits    int   `json:"cacheHits"`
	CacheMisses  int   `json:"cacheMisses"`
	CacheStale   int   `json:"cacheStale"`
	Deleted      int   `json:"deleted"`
	Errors       int   `json:"errors"`
	DurationMs   int64 `json:"durationMs"`
}

// Analysis is the full result of one analyze invocation.
type Analysis struct {
	Components []ComponentMetadata `json:"components"`
	Patterns   []DetectedPattern   `json:"patterns"`
	Workflows  []Workflow          `json:"workflows"`
	ChangeSet  ChangeSet           `json:"changeset"`
	Stats      Stats               `json:"stats"`
}
