package handler

import (
	"encoding/json"
	"net/http"

	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/querystate"
	"go-doctor-directory/internal/usecase"
	"go-doctor-directory/pkg/response"
	"go-doctor-directory/pkg/validator"
)

type DoctorHandler struct {
	listingUsecase usecase.DoctorListingUsecase
	validator      *validator.CustomValidator
}

func NewDoctorHandler(listingUsecase usecase.DoctorListingUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		listingUsecase: listingUsecase,
		validator:      validator,
	}
}

func (h *DoctorHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		ListingStatus: string(h.listingUsecase.Status()),
	})
}

// GetDoctors derives the list for the query state in the request address.
// Parameters the directory does not own are kept in the returned address.
func (h *DoctorHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	state := querystate.Decode(values)

	listing := h.listingUsecase.GetListing(r.Context(), state)
	listing.Address = querystate.Update(values, state).Encode()

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", listing)
}

func (h *DoctorHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := h.listingUsecase.GetSuggestions(r.Context(), r.URL.Query().Get(querystate.KeySearch))
	response.Success(w, http.StatusOK, "Suggestions retrieved successfully", suggestions)
}

func (h *DoctorHandler) GetSpecialties(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Specialties retrieved successfully", h.listingUsecase.GetSpecialties(r.Context()))
}

// ApplyAction applies one action to the query state in the request address
// and answers with the resulting address and list.
func (h *DoctorHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	action, ok := decodeAction(w, r, h.validator)
	if !ok {
		return
	}

	values := r.URL.Query()
	next, err := usecase.ReduceQueryState(querystate.Decode(values), action)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid action", nil)
		return
	}

	listing := h.listingUsecase.GetListing(r.Context(), next)
	listing.Address = querystate.Update(values, next).Encode()

	response.Success(w, http.StatusOK, "Action applied successfully", listing)
}

// decodeAction writes the error response itself and reports false when the
// body is unusable.
func decodeAction(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator) (entity.Action, bool) {
	var req dto.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return entity.Action{}, false
	}

	if err := v.Validate(&req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return entity.Action{}, false
	}

	return entity.Action{Type: entity.ActionType(req.Type), Value: req.Value}, true
}
