package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/domain/repository"
	"go-doctor-directory/internal/querystate"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrNothingToGoBack    = errors.New("no earlier address in session")
	ErrNothingToGoForward = errors.New("no later address in session")
)

const (
	// Interval for cleaning up stale session mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// NavigationUsecase keeps the address history of browsing sessions. Every
// method returns the listing derived from the address under the cursor
// after the call, so callers never see a stale state.
type NavigationUsecase interface {
	Start(ctx context.Context, rawQuery string) (*dto.SessionResponse, error)
	Current(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Dispatch(ctx context.Context, id uuid.UUID, action entity.Action) (*dto.SessionResponse, error)
	Back(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Forward(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Stop()
}

type navigationUsecase struct {
	log         *logrus.Logger
	sessionRepo repository.SessionRepository
	listing     DoctorListingUsecase
	now         func() time.Time

	// Per-session mutex so concurrent updates are applied one after another
	sessionMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewNavigationUsecase starts a background goroutine that drops unused
// session mutexes. Call Stop() during graceful shutdown.
func NewNavigationUsecase(
	log *logrus.Logger,
	sessionRepo repository.SessionRepository,
	listing DoctorListingUsecase,
) NavigationUsecase {
	u := &navigationUsecase{
		log:         log,
		sessionRepo: sessionRepo,
		listing:     listing,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}

	u.wg.Add(1)
	go u.cleanupMutexMapLoop()

	return u
}

// Stop is safe to call multiple times.
func (u *navigationUsecase) Stop() {
	if u.stopped.CompareAndSwap(false, true) {
		close(u.stopChan)
		u.wg.Wait()
		u.log.Info("Navigation usecase stopped")
	}
}

func (u *navigationUsecase) Start(ctx context.Context, rawQuery string) (*dto.SessionResponse, error) {
	values := parseValues(rawQuery)
	address := querystate.Update(values, querystate.Decode(values)).Encode()

	session := entity.NewSession(address, u.now())
	if err := u.sessionRepo.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save session: %+v", err)
		return nil, err
	}

	return u.toResponse(ctx, session), nil
}

func (u *navigationUsecase) Current(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toResponse(ctx, session), nil
}

func (u *navigationUsecase) Dispatch(ctx context.Context, id uuid.UUID, action entity.Action) (*dto.SessionResponse, error) {
	if !action.Known() {
		return nil, ErrInvalidAction
	}

	unlock := u.lockSession(id)
	defer unlock()

	session, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	values := parseValues(session.Current())
	next, err := ReduceQueryState(querystate.Decode(values), action)
	if err != nil {
		return nil, err
	}

	if session.Push(querystate.Update(values, next).Encode(), u.now()) {
		if err := u.sessionRepo.Save(ctx, session); err != nil {
			u.log.Warnf("Failed to save session: %+v", err)
			return nil, err
		}
	}

	return u.toResponse(ctx, session), nil
}

func (u *navigationUsecase) Back(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	return u.move(ctx, id, (*entity.Session).Back, ErrNothingToGoBack)
}

func (u *navigationUsecase) Forward(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	return u.move(ctx, id, (*entity.Session).Forward, ErrNothingToGoForward)
}

func (u *navigationUsecase) move(
	ctx context.Context,
	id uuid.UUID,
	step func(*entity.Session, time.Time) bool,
	errImpossible error,
) (*dto.SessionResponse, error) {
	unlock := u.lockSession(id)
	defer unlock()

	session, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !step(session, u.now()) {
		return nil, errImpossible
	}

	if err := u.sessionRepo.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save session: %+v", err)
		return nil, err
	}

	return u.toResponse(ctx, session), nil
}

func (u *navigationUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	session, err := u.sessionRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find session: %+v", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (u *navigationUsecase) toResponse(ctx context.Context, session *entity.Session) *dto.SessionResponse {
	address := session.Current()
	listing := u.listing.GetListing(ctx, querystate.Parse(address))
	listing.Address = address

	return &dto.SessionResponse{
		ID:         session.ID,
		Position:   session.Cursor,
		Length:     len(session.Entries),
		CanBack:    session.CanGoBack(),
		CanForward: session.CanGoForward(),
		Listing:    *listing,
	}
}

// lockSession acquires the mutex for id and returns its release function.
// A mutex removed by the cleanup loop while we waited on it is abandoned and
// the lookup retried.
func (u *navigationUsecase) lockSession(id uuid.UUID) func() {
	for {
		actual, _ := u.sessionMu.LoadOrStore(id, &mutexWithTimestamp{})
		m := actual.(*mutexWithTimestamp)
		m.mu.Lock()

		if current, ok := u.sessionMu.Load(id); ok && current == actual {
			m.lastUsed.Store(u.now().Unix())
			return m.mu.Unlock
		}
		m.mu.Unlock()
	}
}

func (u *navigationUsecase) cleanupMutexMapLoop() {
	defer u.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-u.stopChan:
			return
		case <-ticker.C:
			u.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes skips mutexes that are currently held.
func (u *navigationUsecase) cleanupStaleMutexes() {
	threshold := u.now().Add(-mutexStaleThreshold).Unix()
	removed := 0

	u.sessionMu.Range(func(key, value any) bool {
		m := value.(*mutexWithTimestamp)
		if m.lastUsed.Load() >= threshold {
			return true
		}
		if !m.mu.TryLock() {
			return true
		}
		u.sessionMu.Delete(key)
		m.mu.Unlock()
		removed++
		return true
	})

	if removed > 0 {
		u.log.Debugf("Cleaned up %d stale session mutexes", removed)
	}
}

func parseValues(rawQuery string) url.Values {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if values == nil {
		values = url.Values{}
	}
	return values
}
