package repository

import (
	"go-doctor-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorListingRepository interface {
	FindAll(db *gorm.DB) ([]entity.DoctorListing, error)
	Upsert(db *gorm.DB, listings []entity.DoctorListing) error
	DeleteMissing(db *gorm.DB, keepIDs []string) (int64, error)
}
