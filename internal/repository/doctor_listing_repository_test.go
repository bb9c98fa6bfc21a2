package repository

import (
	"context"
	"testing"

	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubListingRepo struct {
	listings []entity.DoctorListing
}

func (s *stubListingRepo) FindAll(_ *gorm.DB) ([]entity.DoctorListing, error) {
	return s.listings, nil
}

func (s *stubListingRepo) Upsert(_ *gorm.DB, _ []entity.DoctorListing) error {
	return nil
}

func (s *stubListingRepo) DeleteMissing(_ *gorm.DB, _ []string) (int64, error) {
	return 0, nil
}

func TestDoctorListingRepository_SQL(t *testing.T) {
	db, _ := dbtest.Open(t)
	captured := dbtest.CaptureSQL(t, db)
	dry := db.Session(&gorm.Session{DryRun: true})
	repo := NewDoctorListingRepository()

	require.NoError(t, repo.Upsert(dry, []entity.DoctorListing{
		{ID: "1", Payload: []byte(`{}`), Position: 0},
		{ID: "2", Payload: []byte(`{}`), Position: 1},
	}))
	_, err := repo.FindAll(dry)
	require.NoError(t, err)
	_, err = repo.DeleteMissing(dry, []string{"1", "2"})
	require.NoError(t, err)
	_, err = repo.DeleteMissing(dry, nil)
	require.NoError(t, err)

	sqls := captured()
	require.Len(t, sqls, 4)

	assert.Contains(t, sqls[0], `INSERT INTO "doctor_listings"`)
	assert.Contains(t, sqls[0], `ON CONFLICT ("id") DO UPDATE SET`)
	assert.Contains(t, sqls[0], `"payload"="excluded"."payload"`)
	assert.Contains(t, sqls[0], `"position"="excluded"."position"`)

	assert.Contains(t, sqls[1], `FROM "doctor_listings"`)
	assert.Contains(t, sqls[1], `ORDER BY position ASC, id ASC`)

	assert.Contains(t, sqls[2], `DELETE FROM "doctor_listings"`)
	assert.Contains(t, sqls[2], `id NOT IN`)

	assert.Contains(t, sqls[3], `DELETE FROM "doctor_listings"`)
	assert.NotContains(t, sqls[3], `WHERE`)
}

func TestDoctorListingRepository_UpsertEmptyIsNoop(t *testing.T) {
	db, pool := dbtest.Open(t)
	captured := dbtest.CaptureSQL(t, db)

	require.NoError(t, NewDoctorListingRepository().Upsert(db, nil))
	assert.Empty(t, captured())
	assert.Empty(t, pool.Execs())
}

func TestPostgresDoctorSource_DecodesPayloads(t *testing.T) {
	db, _ := dbtest.Open(t)
	repo := &stubListingRepo{listings: []entity.DoctorListing{
		{ID: "1", Payload: []byte(`{"id":"1","name":"Alice"}`), Position: 0},
		{ID: "2", Payload: []byte(`not json`), Position: 1},
		{ID: "3", Payload: []byte(`null`), Position: 2},
		{ID: "4", Payload: []byte(`{"id":"4","name":"Bob"}`), Position: 3},
	}}

	raws, err := NewPostgresDoctorSource(db, repo).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "Alice", raws[0]["name"])
	assert.Equal(t, "Bob", raws[1]["name"])
}
