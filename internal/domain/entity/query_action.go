package entity

// ActionType names a user interaction that changes the query state.
type ActionType string

const (
	ActionSearch              ActionType = "search"
	ActionSelectSuggestion    ActionType = "select_suggestion"
	ActionSetConsultationType ActionType = "set_consultation_type"
	ActionToggleSpecialty     ActionType = "toggle_specialty"
	ActionSetSort             ActionType = "set_sort"
	ActionClearAll            ActionType = "clear_all"
)

// Action is one user interaction with its argument. Value is ignored by
// ActionClearAll; an empty Value resets single-select fields to "all".
type Action struct {
	Type  ActionType
	Value string
}

// Known reports whether the action type is one the reducer understands.
func (a Action) Known() bool {
	switch a.Type {
	case ActionSearch, ActionSelectSuggestion, ActionSetConsultationType,
		ActionToggleSpecialty, ActionSetSort, ActionClearAll:
		return true
	}
	return false
}
