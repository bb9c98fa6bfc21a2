package entity

import "strings"

// SortOption selects the ordering of the display list.
type SortOption string

const (
	SortNone       SortOption = ""
	SortByFees     SortOption = "fees"
	SortExperience SortOption = "experience"
)

// ParseSortOption returns the known option matching raw, or SortNone.
func ParseSortOption(raw string) SortOption {
	switch {
	case strings.EqualFold(raw, string(SortByFees)):
		return SortByFees
	case strings.EqualFold(raw, string(SortExperience)):
		return SortExperience
	default:
		return SortNone
	}
}

// QueryState is the set of user-controlled search, filter and sort choices.
// The zero value is the default state: no search, all modes, no specialty
// restriction and input order.
type QueryState struct {
	SearchTerm       string
	ConsultationType ConsultationMode
	Specialties      []string
	SortBy           SortOption
}

// IsDefault reports whether every field holds its default value.
func (q QueryState) IsDefault() bool {
	return q.SearchTerm == "" && q.ConsultationType == "" && len(q.Specialties) == 0 && q.SortBy == SortNone
}

// HasSpecialty reports whether specialty is selected.
func (q QueryState) HasSpecialty(specialty string) bool {
	for _, s := range q.Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

// Equal compares two states. Specialties compare as sets.
func (q QueryState) Equal(other QueryState) bool {
	if q.SearchTerm != other.SearchTerm || q.ConsultationType != other.ConsultationType || q.SortBy != other.SortBy {
		return false
	}

	a := make(map[string]struct{}, len(q.Specialties))
	for _, s := range q.Specialties {
		a[s] = struct{}{}
	}
	b := make(map[string]struct{}, len(other.Specialties))
	for _, s := range other.Specialties {
		b[s] = struct{}{}
	}
	if len(a) != len(b) {
		return false
	}
	for s := range a {
		if _, ok := b[s]; !ok {
			return false
		}
	}
	return true
}
