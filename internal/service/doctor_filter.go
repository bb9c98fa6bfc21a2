package service

import (
	"cmp"
	"slices"
	"strings"

	"go-doctor-directory/internal/domain/entity"

	"golang.org/x/text/cases"
)

// The functions in this file never modify their input and always return a
// new, non-nil slice, even when no filtering applies.

// FilterByConsultationType keeps doctors offering mode. The empty mode
// means "all" and keeps every doctor.
func FilterByConsultationType(doctors []entity.Doctor, mode entity.ConsultationMode) []entity.Doctor {
	if mode == "" {
		return cloneDoctors(doctors)
	}
	return filterDoctors(doctors, func(d entity.Doctor) bool {
		return d.HasMode(mode)
	})
}

// FilterBySpecialties keeps doctors with at least one selected specialty.
// An empty selection applies no restriction.
func FilterBySpecialties(doctors []entity.Doctor, selected []string) []entity.Doctor {
	if len(selected) == 0 {
		return cloneDoctors(doctors)
	}
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	return filterDoctors(doctors, func(d entity.Doctor) bool {
		return d.HasAnySpecialty(set)
	})
}

// SortByFee orders doctors by ascending fee. Equal fees keep their order.
func SortByFee(doctors []entity.Doctor) []entity.Doctor {
	sorted := cloneDoctors(doctors)
	slices.SortStableFunc(sorted, func(a, b entity.Doctor) int {
		return cmp.Compare(a.FeeAmount, b.FeeAmount)
	})
	return sorted
}

// SortByExperience orders doctors by descending experience. Equal
// experience keeps its order.
func SortByExperience(doctors []entity.Doctor) []entity.Doctor {
	sorted := cloneDoctors(doctors)
	slices.SortStableFunc(sorted, func(a, b entity.Doctor) int {
		return cmp.Compare(b.ExperienceYears, a.ExperienceYears)
	})
	return sorted
}

// SearchByName keeps doctors whose name contains term, ignoring case. A
// blank term keeps every doctor.
func SearchByName(doctors []entity.Doctor, term string) []entity.Doctor {
	if strings.TrimSpace(term) == "" {
		return cloneDoctors(doctors)
	}
	needle := foldCase(term)
	return filterDoctors(doctors, func(d entity.Doctor) bool {
		return strings.Contains(foldCase(d.Name), needle)
	})
}

// SpecialtyUniverse lists every distinct specialty across doctors in
// lexicographic order.
func SpecialtyUniverse(doctors []entity.Doctor) []string {
	seen := make(map[string]struct{})
	universe := make([]string, 0)
	for _, d := range doctors {
		for _, s := range d.Specialties {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			universe = append(universe, s)
		}
	}
	slices.Sort(universe)
	return universe
}

func filterDoctors(doctors []entity.Doctor, keep func(entity.Doctor) bool) []entity.Doctor {
	out := make([]entity.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func cloneDoctors(doctors []entity.Doctor) []entity.Doctor {
	out := make([]entity.Doctor, len(doctors))
	copy(out, doctors)
	return out
}

// foldCase maps s to its Unicode case-folded form. A Caser keeps state, so
// each call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
