package events

import (
	"context"
	"sync"
	"time"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/log"
	"github.com/kickabout/kickabout-cli/internal/session"
)

// defaultResolveWorkers bounds how many profile resolutions run at once
const defaultResolveWorkers = 4

// ErrLoadInFlight is returned when a load is invoked while a prior one
// is still running. Overlapping passes are suppressed rather than raced;
// the caller re-triggers when the active pass completes.
var ErrLoadInFlight = errors.New(errors.ErrCodeLoadInFlight, "event load already in progress")

// Synchronizer orchestrates fetching the visible event set, enriching
// each event with resolved player names, and applying visibility
// filtering.
type Synchronizer struct {
	api      EventLister
	profiles NameResolver
	sessions SessionProvider

	upcomingOnly bool
	workers      int
	now          func() time.Time
	logger       *log.Logger

	mu       sync.Mutex
	inFlight bool
}

// SyncOption configures a Synchronizer
type SyncOption func(*Synchronizer)

// WithUpcomingOnly drops events dated in the past. The home screen
// enables this to reproduce the upcoming-events view; `events list
// --all` disables it.
func WithUpcomingOnly(enabled bool) SyncOption {
	return func(s *Synchronizer) {
		s.upcomingOnly = enabled
	}
}

// WithResolveWorkers bounds concurrent profile resolutions
func WithResolveWorkers(n int) SyncOption {
	return func(s *Synchronizer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) SyncOption {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) SyncOption {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// NewSynchronizer creates an event list synchronizer
func NewSynchronizer(lister EventLister, profiles NameResolver, sessions SessionProvider, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		api:      lister,
		profiles: profiles,
		sessions: sessions,
		workers:  defaultResolveWorkers,
		now:      time.Now,
		logger:   log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load fetches, filters, and enriches the event list for the current
// session. On fetch failure it returns an empty slice together with the
// error so the caller can render an empty list and surface the message.
// Backend ordering is preserved; events are never re-sorted.
func (s *Synchronizer) Load(ctx context.Context) ([]EnrichedEvent, error) {
	sess, err := s.currentSession()
	if err != nil {
		return []EnrichedEvent{}, err
	}

	if !s.beginPass() {
		return []EnrichedEvent{}, ErrLoadInFlight
	}
	defer s.endPass()

	raw, err := s.api.GetEvents(ctx, sess.UserID)
	if err != nil {
		s.logger.WithError(err).Warn("event fetch failed")
		return []EnrichedEvent{}, err
	}

	visible := s.filter(raw, sess.UserID)
	names := s.resolveNames(ctx, visible)

	enriched := make([]EnrichedEvent, 0, len(visible))
	for _, event := range visible {
		enriched = append(enriched, enrich(event, sess.UserID, names))
	}

	s.logger.Debug("event list synchronized",
		"fetched", len(raw), "visible", len(visible), "players_resolved", len(names))

	return enriched, nil
}

// currentSession loads the session and checks it is usable for events
func (s *Synchronizer) currentSession() (*session.Session, error) {
	sess, err := s.sessions.Load()
	if err != nil {
		return nil, err
	}
	if !sess.LoggedIn() {
		return nil, errors.NewAuthRequiredError()
	}
	if !sess.CanUseEvents() {
		return nil, errors.NewSessionIncompleteError("userId")
	}
	return sess, nil
}

// beginPass claims the in-flight guard; false when a pass is running
func (s *Synchronizer) beginPass() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Synchronizer) endPass() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// filter applies the visibility rule and the optional upcoming-only rule
func (s *Synchronizer) filter(raw []api.Event, userID string) []api.Event {
	visible := make([]api.Event, 0, len(raw))
	for _, event := range raw {
		if !visibleTo(event, userID) {
			continue
		}
		if s.upcomingOnly && event.Date.Before(s.now()) {
			continue
		}
		visible = append(visible, event)
	}
	return visible
}

// resolveNames resolves every distinct joined-player id across the
// visible events through a bounded worker pool. The pass waits for all
// resolutions before assembly; a failed resolution degrades that name
// to "" instead of failing the load.
func (s *Synchronizer) resolveNames(ctx context.Context, visible []api.Event) map[string]string {
	distinct := make([]string, 0)
	seen := make(map[string]bool)
	for _, event := range visible {
		for _, id := range event.JoinedPlayers {
			if !seen[id] {
				distinct = append(distinct, id)
				seen[id] = true
			}
		}
	}

	names := make(map[string]string, len(distinct))
	if len(distinct) == 0 {
		return names
	}

	idChan := make(chan string, len(distinct))
	var namesMu sync.Mutex
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(distinct) {
		workers = len(distinct)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				name, err := s.profiles.ResolveUsername(ctx, id)
				if err != nil {
					s.logger.WithError(err).Warn("profile resolution failed", "user_id", id)
					name = ""
				}
				namesMu.Lock()
				names[id] = name
				namesMu.Unlock()
			}
		}()
	}

	for _, id := range distinct {
		idChan <- id
	}
	close(idChan)

	wg.Wait()

	return names
}

// enrich derives the viewer-relative view of one event
func enrich(event api.Event, userID string, names map[string]string) EnrichedEvent {
	usernames := make([]string, len(event.JoinedPlayers))
	for i, id := range event.JoinedPlayers {
		usernames[i] = names[id]
	}

	return EnrichedEvent{
		Event:                 event,
		JoinedPlayerUsernames: usernames,
		IsJoined:              contains(event.JoinedPlayers, userID),
		IsOwner:               event.CreatedBy == userID,
		IsInvited:             !event.Public && contains(event.InvitedPlayers, userID),
	}
}
