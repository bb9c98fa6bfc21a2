package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorListingRepository struct{}

func NewDoctorListingRepository() domainRepo.DoctorListingRepository {
	return &doctorListingRepository{}
}

func (r *doctorListingRepository) FindAll(db *gorm.DB) ([]entity.DoctorListing, error) {
	var listings []entity.DoctorListing
	err := db.Order("position ASC, id ASC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *doctorListingRepository) Upsert(db *gorm.DB, listings []entity.DoctorListing) error {
	if len(listings) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "position", "updated_at"}),
	}).Create(&listings).Error
}

// DeleteMissing removes every listing whose id is not in keepIDs. An empty
// keepIDs empties the table.
func (r *doctorListingRepository) DeleteMissing(db *gorm.DB, keepIDs []string) (int64, error) {
	query := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&entity.DoctorListing{})
	return result.RowsAffected, result.Error
}

// postgresDoctorSource reads the listings mirrored by the sync command.
type postgresDoctorSource struct {
	db   *gorm.DB
	repo domainRepo.DoctorListingRepository
}

func NewPostgresDoctorSource(db *gorm.DB, repo domainRepo.DoctorListingRepository) domainRepo.DoctorSource {
	return &postgresDoctorSource{db: db, repo: repo}
}

func (s *postgresDoctorSource) FetchAll(ctx context.Context) ([]entity.RawDoctor, error) {
	listings, err := s.repo.FindAll(s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("load doctor listings: %w", err)
	}

	raws := make([]entity.RawDoctor, 0, len(listings))
	for _, listing := range listings {
		var raw entity.RawDoctor
		if err := json.Unmarshal(listing.Payload, &raw); err != nil || raw == nil {
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
