package service

import (
	"math"
	"testing"

	"go-doctor-directory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = entity.Doctor{
		ID: "a", Name: "Alice", FeeAmount: 500, ExperienceYears: 5,
		Specialties:       []string{"Cardio"},
		ConsultationModes: []entity.ConsultationMode{entity.ConsultationVideo},
	}
	bob = entity.Doctor{
		ID: "b", Name: "Bob", FeeAmount: 300, ExperienceYears: 10,
		Specialties:       []string{"Derm", "Neuro"},
		ConsultationModes: []entity.ConsultationMode{entity.ConsultationInClinic},
	}
	carol = entity.Doctor{
		ID: "c", Name: "Carol Alison", FeeAmount: 300, ExperienceYears: 5,
		Specialties: []string{"Derm"},
		ConsultationModes: []entity.ConsultationMode{
			entity.ConsultationVideo, entity.ConsultationInClinic,
		},
	}
	dan = entity.Doctor{
		ID: "d", Name: "Dan", FeeAmount: 500, ExperienceYears: 10,
	}
)

func ids(doctors []entity.Doctor) []string {
	out := make([]string, len(doctors))
	for i, d := range doctors {
		out[i] = d.ID
	}
	return out
}

func TestFilterByConsultationType(t *testing.T) {
	all := []entity.Doctor{alice, bob, carol, dan}

	assert.Equal(t, []string{"a", "c"}, ids(FilterByConsultationType(all, entity.ConsultationVideo)))
	assert.Equal(t, []string{"b", "c"}, ids(FilterByConsultationType(all, entity.ConsultationInClinic)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(FilterByConsultationType(all, "")))
	assert.Equal(t, []string{"a", "c"}, ids(FilterByConsultationType(all, "VIDEO CONSULT")))
}

func TestFilterByConsultationType_Idempotent(t *testing.T) {
	all := []entity.Doctor{alice, bob, carol, dan}
	for _, mode := range []entity.ConsultationMode{"", entity.ConsultationVideo, entity.ConsultationInClinic} {
		once := FilterByConsultationType(all, mode)
		twice := FilterByConsultationType(once, mode)
		assert.Equal(t, once, twice, "mode %q", mode)
	}
}

func TestFilterBySpecialties_ORSemantics(t *testing.T) {
	ab := entity.Doctor{ID: "ab", Specialties: []string{"A", "B"}}
	got := FilterBySpecialties([]entity.Doctor{ab}, []string{"B", "C"})
	assert.Equal(t, []string{"ab"}, ids(got))

	derm := entity.Doctor{ID: "derm", Specialties: []string{"Derm"}}
	neuro := entity.Doctor{ID: "neuro", Specialties: []string{"Neuro"}}
	got = FilterBySpecialties([]entity.Doctor{derm, neuro}, []string{"Cardio", "Derm"})
	assert.Equal(t, []string{"derm"}, ids(got))

	got = FilterBySpecialties([]entity.Doctor{derm, neuro}, nil)
	assert.Equal(t, []string{"derm", "neuro"}, ids(got))
}

func TestSortByFee_StableAscending(t *testing.T) {
	in := []entity.Doctor{alice, bob, carol, dan}
	got := SortByFee(in)

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].FeeAmount, got[i].FeeAmount)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in), "input must not be reordered")
}

func TestSortByExperience_StableDescending(t *testing.T) {
	in := []entity.Doctor{alice, bob, carol, dan}
	got := SortByExperience(in)

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].ExperienceYears, got[i].ExperienceYears)
	}
}

func TestSorts_ExtremeValues(t *testing.T) {
	high := entity.Doctor{ID: "high", FeeAmount: math.MaxInt, ExperienceYears: math.MaxInt}
	low := entity.Doctor{ID: "low", FeeAmount: -1, ExperienceYears: -1}

	assert.Equal(t, []string{"low", "high"}, ids(SortByFee([]entity.Doctor{high, low})))
	assert.Equal(t, []string{"high", "low"}, ids(SortByExperience([]entity.Doctor{low, high})))
}

func TestSearchByName(t *testing.T) {
	all := []entity.Doctor{alice, bob, carol, dan}

	assert.Equal(t, []string{"a", "c"}, ids(SearchByName(all, "ali")))
	assert.Equal(t, []string{"b"}, ids(SearchByName(all, "BOB")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(SearchByName(all, "   ")))
	assert.Empty(t, SearchByName(all, "zed"))
	assert.NotNil(t, SearchByName(all, "zed"))
}

func TestFunctions_NeverReturnNil(t *testing.T) {
	assert.NotNil(t, FilterByConsultationType(nil, ""))
	assert.NotNil(t, FilterBySpecialties(nil, nil))
	assert.NotNil(t, SortByFee(nil))
	assert.NotNil(t, SortByExperience(nil))
	assert.NotNil(t, SearchByName(nil, ""))
	assert.NotNil(t, SuggestDoctors(nil, "a"))
	assert.NotNil(t, SpecialtyUniverse(nil))
}

func TestSpecialtyUniverse(t *testing.T) {
	got := SpecialtyUniverse([]entity.Doctor{alice, bob, carol, dan})
	require.Equal(t, []string{"Cardio", "Derm", "Neuro"}, got)
}
