package usecase

import (
	"context"
	"sync"
	"time"

	"go-doctor-directory/internal/converter"
	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/domain/repository"
	"go-doctor-directory/internal/querystate"
	"go-doctor-directory/internal/service"

	"github.com/sirupsen/logrus"
)

// ListingStatus drives presentation only.
type ListingStatus string

const (
	StatusLoading          ListingStatus = "loading"
	StatusReadyWithResults ListingStatus = "ready_with_results"
	StatusReadyEmpty       ListingStatus = "ready_empty"
)

type DoctorListingUsecase interface {
	// Load fetches and normalizes the directory. Only the first call
	// fetches; a failed fetch leaves the directory empty.
	Load(ctx context.Context)
	Status() ListingStatus
	GetListing(ctx context.Context, state entity.QueryState) *dto.DoctorListResponse
	GetSuggestions(ctx context.Context, term string) *dto.SuggestionListResponse
	GetSpecialties(ctx context.Context) *dto.SpecialtyListResponse
}

type doctorListingUsecase struct {
	log    *logrus.Logger
	source repository.DoctorSource

	once        sync.Once
	mu          sync.RWMutex
	loaded      bool
	doctors     []entity.Doctor
	specialties []string
}

func NewDoctorListingUsecase(log *logrus.Logger, source repository.DoctorSource) DoctorListingUsecase {
	return &doctorListingUsecase{
		log:         log,
		source:      source,
		doctors:     []entity.Doctor{},
		specialties: []string{},
	}
}

func (u *doctorListingUsecase) Load(ctx context.Context) {
	u.once.Do(func() {
		start := time.Now()
		doctors := []entity.Doctor{}

		raws, err := u.source.FetchAll(ctx)
		if err != nil {
			u.log.Warnf("Failed to fetch doctors: %+v", err)
		} else {
			doctors = converter.RawToDoctors(raws)
		}
		specialties := service.SpecialtyUniverse(doctors)

		u.mu.Lock()
		u.doctors = doctors
		u.specialties = specialties
		u.loaded = true
		u.mu.Unlock()

		u.log.WithFields(logrus.Fields{
			"doctors":     len(doctors),
			"specialties": len(specialties),
			"duration":    time.Since(start).String(),
		}).Info("Doctor directory loaded")
	})
}

func (u *doctorListingUsecase) Status() ListingStatus {
	doctors, loaded := u.snapshot()
	return statusOf(loaded, len(doctors))
}

func (u *doctorListingUsecase) GetListing(ctx context.Context, state entity.QueryState) *dto.DoctorListResponse {
	doctors, loaded := u.snapshot()
	display := service.DeriveDisplayList(doctors, state)

	return &dto.DoctorListResponse{
		Status:  string(statusOf(loaded, len(display))),
		Address: querystate.Address(state),
		Query:   converter.QueryStateToResponse(state),
		Doctors: converter.DoctorsToResponses(display),
		Total:   len(display),
	}
}

func (u *doctorListingUsecase) GetSuggestions(ctx context.Context, term string) *dto.SuggestionListResponse {
	doctors, _ := u.snapshot()
	return &dto.SuggestionListResponse{
		Suggestions: converter.DoctorsToResponses(service.SuggestDoctors(doctors, term)),
	}
}

func (u *doctorListingUsecase) GetSpecialties(ctx context.Context) *dto.SpecialtyListResponse {
	u.mu.RLock()
	specialties := u.specialties
	u.mu.RUnlock()

	out := make([]string, len(specialties))
	copy(out, specialties)
	return &dto.SpecialtyListResponse{
		Specialties: out,
		Total:       len(out),
	}
}

// snapshot returns the loaded doctors. The slice is replaced, never
// modified, so callers may read it without holding the lock.
func (u *doctorListingUsecase) snapshot() ([]entity.Doctor, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.doctors, u.loaded
}

func statusOf(loaded bool, results int) ListingStatus {
	switch {
	case !loaded:
		return StatusLoading
	case results > 0:
		return StatusReadyWithResults
	default:
		return StatusReadyEmpty
	}
}
