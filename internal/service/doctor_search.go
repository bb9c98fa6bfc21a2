package service

import (
	"strings"

	"go-doctor-directory/internal/domain/entity"
)

// MaxSuggestions bounds the suggestion preview.
const MaxSuggestions = 3

// SuggestDoctors returns the first MaxSuggestions doctors, in input order,
// whose name contains term. A blank term yields no suggestions.
func SuggestDoctors(doctors []entity.Doctor, term string) []entity.Doctor {
	suggestions := make([]entity.Doctor, 0, MaxSuggestions)
	if strings.TrimSpace(term) == "" {
		return suggestions
	}

	needle := foldCase(term)
	for _, d := range doctors {
		if !strings.Contains(foldCase(d.Name), needle) {
			continue
		}
		suggestions = append(suggestions, d)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}
	return suggestions
}

// DeriveDisplayList applies the query state to doctors. The stages always
// run in this order: name search, consultation type, specialties, sort.
// Sorting must come last because it orders the filtered subset.
func DeriveDisplayList(doctors []entity.Doctor, state entity.QueryState) []entity.Doctor {
	result := SearchByName(doctors, state.SearchTerm)
	result = FilterByConsultationType(result, state.ConsultationType)
	result = FilterBySpecialties(result, state.Specialties)

	switch state.SortBy {
	case entity.SortByFees:
		result = SortByFee(result)
	case entity.SortExperience:
		result = SortByExperience(result)
	}
	return result
}
