package repository

import (
	"context"
	"testing"
	"time"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSessionRoundTrip(t *testing.T, repo domainRepo.SessionRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	session := entity.NewSession("search=anu", now)
	session.Push("search=anu&sortBy=fees", now)
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, session.Entries, found.Entries)
	assert.Equal(t, 1, found.Cursor)
	assert.True(t, session.CreatedAt.Equal(found.CreatedAt))

	missing, err := repo.FindByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemorySessionRepository(t *testing.T) {
	assertSessionRoundTrip(t, NewMemorySessionRepository(time.Minute))
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemorySessionRepository(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	session := entity.NewSession("", now)
	require.NoError(t, repo.Save(ctx, session))

	now = now.Add(59 * time.Second)
	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)

	now = now.Add(time.Second)
	found, err = repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Empty(t, repo.sessions)
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()

	session := entity.NewSession("a=1", time.Now())
	require.NoError(t, repo.Save(ctx, session))
	session.Entries[0] = "changed"

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1"}, found.Entries)
}

func TestRedisSessionRepository(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisSessionRepository(client, time.Minute)
	assertSessionRoundTrip(t, repo)

	session := entity.NewSession("", time.Now())
	require.NoError(t, repo.Save(context.Background(), session))
	mr.FastForward(2 * time.Minute)

	found, err := repo.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
