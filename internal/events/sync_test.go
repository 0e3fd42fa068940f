package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/session"
)

// fakeLister serves a canned event list
type fakeLister struct {
	mu     sync.Mutex
	events []api.Event
	err    error
	calls  int
	block  chan struct{} // when set, Load blocks until closed
}

func (f *fakeLister) GetEvents(ctx context.Context, userID string) ([]api.Event, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeResolver resolves from a map; missing ids fail
type fakeResolver struct {
	mu    sync.Mutex
	names map[string]string
	calls int
}

func (f *fakeResolver) ResolveUsername(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	name, ok := f.names[userID]
	if !ok {
		return "", errors.NewResolutionFailedError(userID, fmt.Errorf("no such user"))
	}
	return name, nil
}

// fakeSessions returns a fixed session
type fakeSessions struct {
	sess *session.Session
	err  error
}

func (f *fakeSessions) Load() (*session.Session, error) {
	return f.sess, f.err
}

func viewerSession() *fakeSessions {
	return &fakeSessions{sess: &session.Session{Token: "tok", UserID: "u2", Username: "bob"}}
}

func futureDate() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func TestLoadDropsPrivateEventsViewerNotInvitedTo(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e1", Public: true, Date: futureDate(), JoinedPlayers: []string{"u1"}},
		{ID: "e2", Public: false, Date: futureDate(), InvitedPlayers: []string{"u9"}},
	}}
	resolver := &fakeResolver{names: map[string]string{"u1": "alice"}}
	sync := NewSynchronizer(lister, resolver, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, enriched, 1)
	assert.Equal(t, "e1", enriched[0].ID)
	assert.False(t, enriched[0].IsJoined)
}

func TestLoadKeepsPrivateEventViewerInvitedTo(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e3", Public: false, Date: futureDate(), InvitedPlayers: []string{"u2"}},
	}}
	sync := NewSynchronizer(lister, &fakeResolver{}, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, enriched, 1)
	assert.True(t, enriched[0].IsInvited)
}

func TestLoadDerivesViewerFlags(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e1", Public: true, Date: futureDate(), CreatedBy: "u2", JoinedPlayers: []string{"u2", "u1"}},
	}}
	resolver := &fakeResolver{names: map[string]string{"u1": "alice", "u2": "bob"}}
	sync := NewSynchronizer(lister, resolver, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, enriched, 1)
	assert.True(t, enriched[0].IsJoined)
	assert.True(t, enriched[0].IsOwner)
	assert.Equal(t, []string{"bob", "alice"}, enriched[0].JoinedPlayerUsernames)
}

func TestLoadResolutionFailureDegradesToEmptyName(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e1", Public: true, Date: futureDate(), JoinedPlayers: []string{"u1", "u-gone"}},
	}}
	resolver := &fakeResolver{names: map[string]string{"u1": "alice"}}
	sync := NewSynchronizer(lister, resolver, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.NoError(t, err, "a single failed resolution must not fail the load")

	require.Len(t, enriched, 1)
	assert.Equal(t, []string{"alice", ""}, enriched[0].JoinedPlayerUsernames)
}

func TestLoadFetchFailureReturnsEmptySliceAndError(t *testing.T) {
	lister := &fakeLister{err: errors.NewNetworkFailureError(fmt.Errorf("refused"))}
	sync := NewSynchronizer(lister, &fakeResolver{}, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.Error(t, err)
	assert.NotNil(t, enriched)
	assert.Empty(t, enriched)
}

func TestLoadPreservesBackendOrder(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e3", Public: true, Date: futureDate()},
		{ID: "e1", Public: true, Date: futureDate()},
		{ID: "e2", Public: true, Date: futureDate()},
	}}
	sync := NewSynchronizer(lister, &fakeResolver{}, viewerSession())

	enriched, err := sync.Load(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(enriched))
	for i, e := range enriched {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"e3", "e1", "e2"}, ids)
}

func TestUpcomingOnlyFiltersPastEvents(t *testing.T) {
	now := time.Now()
	lister := &fakeLister{events: []api.Event{
		{ID: "past", Public: true, Date: now.Add(-time.Hour)},
		{ID: "future", Public: true, Date: now.Add(time.Hour)},
	}}

	filtered := NewSynchronizer(lister, &fakeResolver{}, viewerSession(),
		WithUpcomingOnly(true), WithClock(func() time.Time { return now }))
	enriched, err := filtered.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "future", enriched[0].ID)

	unfiltered := NewSynchronizer(lister, &fakeResolver{}, viewerSession())
	enriched, err = unfiltered.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, enriched, 2)
}

func TestLoadDistinctPlayersResolvedOnce(t *testing.T) {
	lister := &fakeLister{events: []api.Event{
		{ID: "e1", Public: true, Date: futureDate(), JoinedPlayers: []string{"u1", "u3"}},
		{ID: "e2", Public: true, Date: futureDate(), JoinedPlayers: []string{"u1", "u3"}},
	}}
	resolver := &fakeResolver{names: map[string]string{"u1": "alice", "u3": "carol"}}
	sync := NewSynchronizer(lister, resolver, viewerSession())

	_, err := sync.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.calls, "each distinct player id resolves once per pass")
}

func TestOverlappingLoadSuppressed(t *testing.T) {
	block := make(chan struct{})
	lister := &fakeLister{
		events: []api.Event{{ID: "e1", Public: true, Date: futureDate()}},
		block:  block,
	}
	sync := NewSynchronizer(lister, &fakeResolver{}, viewerSession())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := sync.Load(context.Background())
		assert.NoError(t, err)
	}()

	// Wait for the first pass to reach the fetch.
	require.Eventually(t, func() bool { return lister.callCount() == 1 },
		time.Second, 5*time.Millisecond)

	_, err := sync.Load(context.Background())
	require.ErrorIs(t, err, ErrLoadInFlight)

	close(block)
	<-done

	// After the first pass completes, loads are accepted again.
	_, err = sync.Load(context.Background())
	assert.NoError(t, err)
}

func TestLoadRequiresSession(t *testing.T) {
	lister := &fakeLister{}

	t.Run("no token", func(t *testing.T) {
		sync := NewSynchronizer(lister, &fakeResolver{}, &fakeSessions{sess: nil})
		_, err := sync.Load(context.Background())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeAuthRequired))
	})

	t.Run("token without userId", func(t *testing.T) {
		sync := NewSynchronizer(lister, &fakeResolver{},
			&fakeSessions{sess: &session.Session{Token: "tok"}})
		_, err := sync.Load(context.Background())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeSessionIncomplete))
	})
}
