package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/log"
)

// DefaultTTL is how long a resolved username is served without a refetch
const DefaultTTL = time.Hour

const manifestName = "profiles.json"

// UserGetter fetches a user profile from the backend
type UserGetter interface {
	GetUser(ctx context.Context, userID string) (*api.User, error)
}

// Entry is a cached userId to username mapping
type Entry struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// manifest is the on-disk shape of the cache
type manifest struct {
	Version   string            `json:"version"`
	Profiles  map[string]*Entry `json:"profiles"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Cache resolves user ids to display names with a fixed TTL, backed by
// a manifest file in the state directory. Concurrent resolutions of the
// same id may each hit the network; the write is last-wins and
// idempotent, so that is an accepted inefficiency rather than a bug.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry

	dir     string
	ttl     time.Duration
	fetcher UserGetter
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithTTL overrides the default entry time-to-live
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a profile cache rooted at the given state directory.
// An unreadable or corrupt manifest starts the cache fresh rather than
// failing; the cache is an optimization, not a source of truth.
func NewCache(dir string, fetcher UserGetter, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Entry),
		dir:     dir,
		ttl:     DefaultTTL,
		fetcher: fetcher,
		now:     time.Now,
		logger:  log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.loadManifest()

	return c
}

// ResolveUsername returns the display name for a user id, from cache
// when the entry is fresh, otherwise via the backend. A failed fetch
// propagates ResolutionFailed; callers render a placeholder instead of
// aborting the whole list.
func (c *Cache) ResolveUsername(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	fresh := ok && c.now().Sub(entry.FetchedAt) < c.ttl
	c.mu.Unlock()

	if fresh {
		return entry.Username, nil
	}

	user, err := c.fetcher.GetUser(ctx, userID)
	if err != nil {
		return "", errors.NewResolutionFailedError(userID, err)
	}

	c.mu.Lock()
	c.entries[userID] = &Entry{
		UserID:    userID,
		Username:  user.Username,
		FetchedAt: c.now(),
	}
	c.mu.Unlock()

	if err := c.saveManifest(); err != nil {
		c.logger.WithError(err).Warn("failed to persist profile cache")
	}

	return user.Username, nil
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// loadManifest loads cached entries from disk
func (c *Cache) loadManifest() {
	data, err := os.ReadFile(filepath.Join(c.dir, manifestName))
	if err != nil {
		return
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil || m.Profiles == nil {
		return
	}

	c.mu.Lock()
	c.entries = m.Profiles
	c.mu.Unlock()
}

// saveManifest writes the cache to disk. The write happens under the
// lock through a temp file and rename, so concurrent resolutions never
// interleave partial writes on the manifest.
func (c *Cache) saveManifest() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := manifest{
		Version:   "1.0",
		Profiles:  c.entries,
		UpdatedAt: c.now(),
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile manifest: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(c.dir, manifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write profile manifest: %w", err)
	}

	return os.Rename(tmp, path)
}
