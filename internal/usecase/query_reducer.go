package usecase

import (
	"errors"

	"go-doctor-directory/internal/domain/entity"
)

var ErrInvalidAction = errors.New("invalid action")

// ReduceQueryState returns the state that results from applying action to
// state. Each action touches exactly one field, except ActionClearAll which
// resets all of them. state itself is never modified.
func ReduceQueryState(state entity.QueryState, action entity.Action) (entity.QueryState, error) {
	next := entity.QueryState{
		SearchTerm:       state.SearchTerm,
		ConsultationType: state.ConsultationType,
		Specialties:      append([]string(nil), state.Specialties...),
		SortBy:           state.SortBy,
	}

	switch action.Type {
	case entity.ActionSearch, entity.ActionSelectSuggestion:
		next.SearchTerm = action.Value
	case entity.ActionSetConsultationType:
		next.ConsultationType = entity.ParseConsultationMode(action.Value)
	case entity.ActionToggleSpecialty:
		next.Specialties = toggle(next.Specialties, action.Value)
	case entity.ActionSetSort:
		next.SortBy = entity.ParseSortOption(action.Value)
	case entity.ActionClearAll:
		next = entity.QueryState{}
	default:
		return state, ErrInvalidAction
	}

	return next, nil
}

// toggle removes specialty when present and appends it otherwise.
func toggle(selected []string, specialty string) []string {
	if specialty == "" {
		return selected
	}
	out := make([]string, 0, len(selected)+1)
	removed := false
	for _, s := range selected {
		if s == specialty {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		out = append(out, specialty)
	}
	return out
}
