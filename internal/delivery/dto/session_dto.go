package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type SessionResponse struct {
	ID         uuid.UUID          `json:"id"`
	Position   int                `json:"position"`
	Length     int                `json:"length"`
	CanBack    bool               `json:"can_back"`
	CanForward bool               `json:"can_forward"`
	Listing    DoctorListResponse `json:"listing"`
}
