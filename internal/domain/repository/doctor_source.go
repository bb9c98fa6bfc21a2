package repository

import (
	"context"

	"go-doctor-directory/internal/domain/entity"
)

// DoctorSource delivers the raw practitioner records of the directory.
type DoctorSource interface {
	FetchAll(ctx context.Context) ([]entity.RawDoctor, error)
}
