package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	want := Session{Token: "tok-123", UserID: "u1", Username: "alice"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestLoadWithoutSessionReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearRemovesSession(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(Session{Token: "tok", UserID: "u1", Username: "alice"}))
	require.NoError(t, store.Clear())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	// Clearing again is not an error.
	assert.NoError(t, store.Clear())
}

func TestSessionEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(Session{Token: "tok-secret", UserID: "u1", Username: "alice"}))

	raw, err := os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-secret")
	assert.NotContains(t, string(raw), "alice")
}

func TestLoadWithWrongKeyFails(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Session{Token: "tok", UserID: "u1", Username: "alice"}))

	// Replace the device secret: the existing session must no longer decrypt.
	require.NoError(t, os.Remove(filepath.Join(dir, "device_secret")))
	other, err := NewStore(dir)
	require.NoError(t, err)

	_, err = other.Load()
	assert.Error(t, err)
}

func TestPartialSessionTolerated(t *testing.T) {
	store := newTestStore(t)

	// Token present, userId absent: an invalid state the rest of the
	// system must tolerate as "logged out of event features".
	require.NoError(t, store.Save(Session{Token: "tok"}))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.LoggedIn())
	assert.False(t, got.CanUseEvents())
}

func TestCanUseEvents(t *testing.T) {
	tests := []struct {
		name string
		sess *Session
		want bool
	}{
		{"nil session", nil, false},
		{"empty", &Session{}, false},
		{"token only", &Session{Token: "tok"}, false},
		{"complete", &Session{Token: "tok", UserID: "u1", Username: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.CanUseEvents())
		})
	}
}
