package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-doctor-directory/internal/converter"
	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Records are written in batches of this size, each in the same transaction.
const syncBatchSize = 500

// ErrEmptySource is returned when a fetch yields no usable records. The
// mirror is left as it was instead of being emptied.
var ErrEmptySource = errors.New("source returned no usable records")

// SyncResult summarises one mirror run.
type SyncResult struct {
	Fetched  int
	Upserted int
	Skipped  int
	Deleted  int64
	Duration time.Duration
}

// DirectorySyncService mirrors the remote directory into the
// doctor_listings table so the server can run with SOURCE_DRIVER=postgres.
type DirectorySyncService struct {
	db          *gorm.DB
	source      repository.DoctorSource
	listingRepo repository.DoctorListingRepository
	log         *logrus.Logger
}

func NewDirectorySyncService(
	db *gorm.DB,
	source repository.DoctorSource,
	listingRepo repository.DoctorListingRepository,
	log *logrus.Logger,
) *DirectorySyncService {
	return &DirectorySyncService{
		db:          db,
		source:      source,
		listingRepo: listingRepo,
		log:         log,
	}
}

// Sync replaces the mirrored listings with the current remote records.
// A failed or empty fetch leaves the table untouched.
func (s *DirectorySyncService) Sync(ctx context.Context) (*SyncResult, error) {
	s.log.Info("Starting directory sync from source...")
	startTime := time.Now()

	raws, err := s.source.FetchAll(ctx)
	if err != nil {
		s.log.Warnf("Failed to fetch source for sync: %+v", err)
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	listings, skipped := BuildListings(raws)
	if skipped > 0 {
		s.log.Warnf("Skipped %d records without a usable id", skipped)
	}
	if len(listings) == 0 {
		s.log.Warnf("Refusing to sync: source returned %d records, none usable", len(raws))
		return nil, ErrEmptySource
	}

	result := &SyncResult{Fetched: len(raws), Skipped: skipped}
	keepIDs := make([]string, 0, len(listings))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(listings); start += syncBatchSize {
			batch := listings[start:min(start+syncBatchSize, len(listings))]
			if err := s.listingRepo.Upsert(tx, batch); err != nil {
				return fmt.Errorf("upsert batch at offset %d: %w", start, err)
			}
			for _, listing := range batch {
				keepIDs = append(keepIDs, listing.ID)
			}
			result.Upserted += len(batch)
			s.log.Debugf("Synced batch: offset=%d, count=%d", start, len(batch))

			// Respect context cancellation
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		deleted, err := s.listingRepo.DeleteMissing(tx, keepIDs)
		if err != nil {
			return fmt.Errorf("delete stale listings: %w", err)
		}
		result.Deleted = deleted
		return nil
	})
	if err != nil {
		s.log.Errorf("Directory sync failed: %+v", err)
		return nil, err
	}

	result.Duration = time.Since(startTime)
	s.log.WithFields(logrus.Fields{
		"fetched":  result.Fetched,
		"upserted": result.Upserted,
		"skipped":  result.Skipped,
		"deleted":  result.Deleted,
	}).Infof("Directory sync completed in %v", result.Duration)

	return result, nil
}

// BuildListings turns raw records into rows, keeping source order in
// Position. Records without an id are skipped; the first record wins when
// ids repeat.
func BuildListings(raws []entity.RawDoctor) ([]entity.DoctorListing, int) {
	listings := make([]entity.DoctorListing, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	skipped := 0

	for _, raw := range raws {
		id := converter.RawToDoctor(raw).ID
		if _, dup := seen[id]; id == "" || dup {
			skipped++
			continue
		}

		payload, err := json.Marshal(raw)
		if err != nil {
			skipped++
			continue
		}

		seen[id] = struct{}{}
		listings = append(listings, entity.DoctorListing{
			ID:       id,
			Payload:  payload,
			Position: len(listings),
		})
	}

	return listings, skipped
}
