package users

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/internal/common"
)

// fakeRepo is an in-memory Repository with the same uniqueness semantics as
// the users table: one row per external id, arbitration on insert.
type fakeRepo struct {
	mu      sync.Mutex
	byExtID map[string]*User
	nextID  int
	creates int
	gets    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byExtID: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, user *User) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if _, ok := f.byExtID[user.ExternalID]; ok {
		return nil, ErrDuplicateExternalID
	}
	f.nextID++
	u := &User{
		ID:         fmt.Sprintf("u-%d", f.nextID),
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Name:       user.Name,
	}
	f.byExtID[user.ExternalID] = u
	return u, nil
}

func (f *fakeRepo) GetByExternalID(_ context.Context, externalID string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	u, ok := f.byExtID[externalID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func TestResolve_CreatesOnFirstSight(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u, err := svc.Resolve(context.Background(), "ext-1", "a@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", u.ExternalID)
	assert.Equal(t, 1, repo.creates)
}

func TestResolve_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u1, err := svc.Resolve(context.Background(), "ext-1", "", "")
	require.NoError(t, err)
	u2, err := svc.Resolve(context.Background(), "ext-1", "", "")
	require.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, 1, repo.creates)
}

func TestResolve_EmptyExternalID(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Resolve(context.Background(), "", "", "")
	assert.Error(t, err)
}

func TestResolve_InsertRaceRecovered(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	// simulate losing the race: the row appears between the miss and the insert
	winner, err := repo.Create(context.Background(), &User{ExternalID: "ext-1"})
	require.NoError(t, err)

	// Create against the fake now conflicts, Resolve must fall back to re-fetch
	u, err := svc.Resolve(context.Background(), "ext-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, u.ID)
}

func TestResolve_ConcurrentFirstUse(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := svc.Resolve(context.Background(), "ext-race", "", "")
			assert.NoError(t, err)
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)

	distinct := make(map[string]struct{})
	for id := range ids {
		distinct[id] = struct{}{}
	}
	assert.Len(t, distinct, 1, "all resolutions must converge on one internal id")
}
