package handler

import (
	"context"
	"errors"
	"net/http"

	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/usecase"
	"go-doctor-directory/pkg/response"
	"go-doctor-directory/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SessionHandler struct {
	navigationUsecase usecase.NavigationUsecase
	validator         *validator.CustomValidator
}

func NewSessionHandler(navigationUsecase usecase.NavigationUsecase, validator *validator.CustomValidator) *SessionHandler {
	return &SessionHandler{
		navigationUsecase: navigationUsecase,
		validator:         validator,
	}
}

// StartSession seeds a new session from the request address.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.navigationUsecase.Start(r.Context(), r.URL.RawQuery)
	if err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusCreated, "Session started successfully", session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "Session retrieved successfully", h.navigationUsecase.Current)
}

func (h *SessionHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	action, ok := decodeAction(w, r, h.validator)
	if !ok {
		return
	}

	h.withSession(w, r, "Action applied successfully", func(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
		return h.navigationUsecase.Dispatch(ctx, id, action)
	})
}

func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "Moved back successfully", h.navigationUsecase.Back)
}

func (h *SessionHandler) Forward(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "Moved forward successfully", h.navigationUsecase.Forward)
}

func (h *SessionHandler) withSession(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	call func(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error),
) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	session, err := call(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionNotFound):
			response.NotFound(w, "Session not found")
		case errors.Is(err, usecase.ErrInvalidAction):
			response.Error(w, http.StatusBadRequest, "Invalid action", nil)
		case errors.Is(err, usecase.ErrNothingToGoBack):
			response.Conflict(w, "No earlier address in this session")
		case errors.Is(err, usecase.ErrNothingToGoForward):
			response.Conflict(w, "No later address in this session")
		default:
			response.InternalServerError(w, "Failed to update session")
		}
		return
	}

	response.Success(w, http.StatusOK, message, session)
}
