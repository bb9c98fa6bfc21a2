package converter

import (
	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/domain/entity"
)

// QueryStateToResponse converts a QueryState to QueryStateResponse DTO
func QueryStateToResponse(state entity.QueryState) dto.QueryStateResponse {
	specialties := make([]string, len(state.Specialties))
	copy(specialties, state.Specialties)

	return dto.QueryStateResponse{
		Search:           state.SearchTerm,
		ConsultationType: string(state.ConsultationType),
		Specialties:      specialties,
		SortBy:           string(state.SortBy),
	}
}
