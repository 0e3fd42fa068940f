package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/errors"
)

// fakeUserGetter serves canned users and counts network calls
type fakeUserGetter struct {
	mu    sync.Mutex
	users map[string]string
	calls int
	err   error
}

func (f *fakeUserGetter) GetUser(ctx context.Context, userID string) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	name, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	return &api.User{ID: userID, Username: name}, nil
}

func (f *fakeUserGetter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolveFetchesAndCaches(t *testing.T) {
	fetcher := &fakeUserGetter{users: map[string]string{"u1": "alice"}}
	cache := NewCache(t.TempDir(), fetcher)

	name, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestFreshEntryServedWithoutNetworkCall(t *testing.T) {
	now := time.Now()
	fetcher := &fakeUserGetter{users: map[string]string{"u1": "alice"}}
	cache := NewCache(t.TempDir(), fetcher, WithClock(func() time.Time { return now }))

	_, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)

	// Just inside the TTL.
	now = now.Add(DefaultTTL - time.Second)

	name, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, 1, fetcher.callCount(), "fresh entry must not trigger a network call")
}

func TestStaleEntryRefetched(t *testing.T) {
	now := time.Now()
	fetcher := &fakeUserGetter{users: map[string]string{"u1": "alice"}}
	cache := NewCache(t.TempDir(), fetcher, WithClock(func() time.Time { return now }))

	_, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)

	// One second past the TTL: must refetch, not re-read.
	now = now.Add(DefaultTTL + time.Second)
	fetcher.users["u1"] = "alice-renamed"

	name, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", name)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestFetchFailurePropagatesResolutionFailed(t *testing.T) {
	fetcher := &fakeUserGetter{err: fmt.Errorf("connection refused")}
	cache := NewCache(t.TempDir(), fetcher)

	_, err := cache.ResolveUsername(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeResolutionFailed))
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	clock := func() time.Time { return now }

	fetcher := &fakeUserGetter{users: map[string]string{"u1": "alice"}}
	cache := NewCache(dir, fetcher, WithClock(clock))
	_, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)

	// A second cache over the same directory sees the persisted entry.
	reopened := NewCache(dir, fetcher, WithClock(clock))
	name, err := reopened.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestCorruptManifestStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "profiles.json", "{not json"))

	fetcher := &fakeUserGetter{users: map[string]string{"u1": "alice"}}
	cache := NewCache(dir, fetcher)
	assert.Equal(t, 0, cache.Len())

	name, err := cache.ResolveUsername(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestConcurrentResolutionsDistinctUsers(t *testing.T) {
	fetcher := &fakeUserGetter{users: map[string]string{
		"u1": "alice", "u2": "bob", "u3": "carol",
	}}
	cache := NewCache(t.TempDir(), fetcher)

	var wg sync.WaitGroup
	for _, id := range []string{"u1", "u2", "u3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := cache.ResolveUsername(context.Background(), id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, cache.Len())
}

func TestConcurrentResolutionsLeaveParseableManifest(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeUserGetter{users: map[string]string{
		"u1": "alice", "u2": "bob", "u3": "carol",
	}}
	cache := NewCache(dir, fetcher)

	var wg sync.WaitGroup
	for _, id := range []string{"u1", "u2", "u3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := cache.ResolveUsername(context.Background(), id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// Interleaved saves must never leave a torn manifest: a fresh cache
	// over the same directory loads every entry back.
	reopened := NewCache(dir, fetcher)
	assert.Equal(t, 3, reopened.Len())
}

func writeFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0600)
}
