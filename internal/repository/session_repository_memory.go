package repository

import (
	"context"
	"sync"
	"time"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"

	"github.com/google/uuid"
)

type memorySessionEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// memorySessionRepository is used when no Redis is configured. Expired
// entries are dropped when they are read.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]memorySessionEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) domainRepo.SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[uuid.UUID]memorySessionEntry),
		ttl:      ttl,
		now:      now,
	}
}

func (r *memorySessionRepository) Save(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = memorySessionEntry{
		session:   copySession(*session),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *memorySessionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !r.now().Before(entry.expiresAt) {
		r.mu.Lock()
		if current, ok := r.sessions[id]; ok && !r.now().Before(current.expiresAt) {
			delete(r.sessions, id)
		}
		r.mu.Unlock()
		return nil, nil
	}

	session := copySession(entry.session)
	return &session, nil
}

func copySession(s entity.Session) entity.Session {
	s.Entries = append([]string(nil), s.Entries...)
	return s
}
