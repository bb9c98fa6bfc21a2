package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"go-doctor-directory/internal/domain/entity"
	"go-doctor-directory/internal/querystate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSessionRepo stores copies so that callers cannot share state through
// the repository, the way a remote store behaves.
type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
	saveErr  error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[uuid.UUID]entity.Session)}
}

func (m *mockSessionRepo) Save(_ context.Context, s *entity.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Entries = append([]string(nil), s.Entries...)
	m.sessions[s.ID] = cp
	return nil
}

func (m *mockSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	s.Entries = append([]string(nil), s.Entries...)
	return &s, nil
}

func newTestNavigation(t *testing.T) (NavigationUsecase, *mockSessionRepo) {
	t.Helper()
	listing := NewDoctorListingUsecase(testLogger(), &mockDoctorSource{raws: sampleRaws()})
	listing.Load(context.Background())

	repo := newMockSessionRepo()
	nav := NewNavigationUsecase(testLogger(), repo, listing)
	t.Cleanup(nav.Stop)
	return nav, repo
}

func TestNavigation_StartSeedsFromAddress(t *testing.T) {
	nav, _ := newTestNavigation(t)

	resp, err := nav.Start(context.Background(), "?search=bo&sortBy=bogus&ref=mail")
	require.NoError(t, err)

	assert.Equal(t, "ref=mail&search=bo", resp.Listing.Address)
	assert.Equal(t, "bo", resp.Listing.Query.Search)
	assert.Empty(t, resp.Listing.Query.SortBy)
	require.Len(t, resp.Listing.Doctors, 1)
	assert.Equal(t, "Bob", resp.Listing.Doctors[0].Name)
	assert.False(t, resp.CanBack)
}

func TestNavigation_DispatchBackForward(t *testing.T) {
	nav, _ := newTestNavigation(t)
	ctx := context.Background()

	start, err := nav.Start(ctx, "")
	require.NoError(t, err)
	id := start.ID

	resp, err := nav.Dispatch(ctx, id, entity.Action{Type: entity.ActionSetSort, Value: "fees"})
	require.NoError(t, err)
	assert.Equal(t, "sortBy=fees", resp.Listing.Address)
	assert.Equal(t, "Bob", resp.Listing.Doctors[0].Name)

	resp, err = nav.Dispatch(ctx, id, entity.Action{Type: entity.ActionSetConsultationType, Value: "video consult"})
	require.NoError(t, err)
	assert.Equal(t, "consultationType=video+consult&sortBy=fees", resp.Listing.Address)
	assert.Equal(t, 3, resp.Length)

	resp, err = nav.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sortBy=fees", resp.Listing.Address)
	assert.Len(t, resp.Listing.Doctors, 2)
	assert.True(t, resp.CanForward)

	resp, err = nav.Forward(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "consultationType=video+consult&sortBy=fees", resp.Listing.Address)

	_, err = nav.Forward(ctx, id)
	assert.ErrorIs(t, err, ErrNothingToGoForward)

	resp, err = nav.Current(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Position)
}

func TestNavigation_SameAddressDoesNotPush(t *testing.T) {
	nav, _ := newTestNavigation(t)
	ctx := context.Background()

	start, err := nav.Start(ctx, "sortBy=fees")
	require.NoError(t, err)

	resp, err := nav.Dispatch(ctx, start.ID, entity.Action{Type: entity.ActionSetSort, Value: "fees"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Length)

	_, err = nav.Back(ctx, start.ID)
	assert.ErrorIs(t, err, ErrNothingToGoBack)
}

func TestNavigation_ClearAll(t *testing.T) {
	nav, _ := newTestNavigation(t)
	ctx := context.Background()

	start, err := nav.Start(ctx, "search=a&consultationType=in+clinic&specialties=Derm&sortBy=experience")
	require.NoError(t, err)

	resp, err := nav.Dispatch(ctx, start.ID, entity.Action{Type: entity.ActionClearAll})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Listing.Address)
	assert.Equal(t, "", resp.Listing.Query.Search)
	assert.Len(t, resp.Listing.Doctors, 2)
}

func TestNavigation_Errors(t *testing.T) {
	nav, repo := newTestNavigation(t)
	ctx := context.Background()

	_, err := nav.Current(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = nav.Dispatch(ctx, uuid.New(), entity.Action{Type: "book"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	repo.saveErr = errors.New("redis down")
	_, err = nav.Start(ctx, "")
	assert.Error(t, err)
}

func TestNavigation_ConcurrentUpdatesAreNotDropped(t *testing.T) {
	nav, _ := newTestNavigation(t)
	ctx := context.Background()

	start, err := nav.Start(ctx, "")
	require.NoError(t, err)

	actions := []entity.Action{
		{Type: entity.ActionSearch, Value: "a"},
		{Type: entity.ActionSetConsultationType, Value: "in clinic"},
		{Type: entity.ActionSetSort, Value: "experience"},
	}
	const specialties = 20
	for i := 0; i < specialties; i++ {
		actions = append(actions, entity.Action{Type: entity.ActionToggleSpecialty, Value: fmt.Sprintf("S%02d", i)})
	}

	var wg sync.WaitGroup
	for _, action := range actions {
		wg.Add(1)
		go func(a entity.Action) {
			defer wg.Done()
			_, err := nav.Dispatch(ctx, start.ID, a)
			assert.NoError(t, err)
		}(action)
	}
	wg.Wait()

	resp, err := nav.Current(ctx, start.ID)
	require.NoError(t, err)
	assert.Equal(t, len(actions)+1, resp.Length, "every update gets its own history entry")

	values, err := url.ParseQuery(resp.Listing.Address)
	require.NoError(t, err)
	state := querystate.Decode(values)
	assert.Equal(t, "a", state.SearchTerm)
	assert.Equal(t, entity.ConsultationInClinic, state.ConsultationType)
	assert.Equal(t, entity.SortExperience, state.SortBy)
	assert.Len(t, state.Specialties, specialties)
}
