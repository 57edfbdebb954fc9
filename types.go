package uimap

import "github.com/jward/uimap/internal/metadata"

// Public type aliases for the internal metadata types the Engine API
// returns. These are Go type aliases (=), identical to the internal
// types at compile time, so external consumers need no conversion.

type Analysis = metadata.Analysis
type ComponentMetadata = metadata.ComponentMetadata
type PropDefinition = metadata.PropDefinition
type UserAction = metadata.UserAction
type DetectedPattern = metadata.DetectedPattern
type Workflow = metadata.Workflow
type WorkflowStep = metadata.WorkflowStep
type ChangeSet = metadata.ChangeSet
type Stats = metadata.Stats
type Category = metadata.Category
type ActionType = metadata.ActionType

// The closed category set. CategoryLayout is the fallback.
const (
	CategoryForm        = metadata.CategoryForm
	CategoryNavigation  = metadata.CategoryNavigation
	CategoryInteraction = metadata.CategoryInteraction
	CategoryDisplay     = metadata.CategoryDisplay
	CategoryLayout      = metadata.CategoryLayout
)

// Inferred user action types.
const (
	ActionClick      = metadata.ActionClick
	ActionInput      = metadata.ActionInput
	ActionNavigation = metadata.ActionNavigation
	ActionSubmit     = metadata.ActionSubmit
)
