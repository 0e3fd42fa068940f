package events

import (
	"context"

	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/log"
	"github.com/kickabout/kickabout-cli/internal/session"
)

// Strategy selects how a join reconciles local state with the server
type Strategy int

const (
	// ConfirmThenRefresh performs the join call first and refetches the
	// authoritative list on success.
	ConfirmThenRefresh Strategy = iota

	// OptimisticThenReconcile returns a patched copy of the list as soon
	// as the server confirms and leaves the caller's view untouched when
	// it rejects. The input list is never mutated, so callers may keep
	// rendering it while the request is in flight.
	OptimisticThenReconcile
)

// Coordinator performs the join action and reconciles local state
// according to the configured strategy. One strategy is applied per
// surface, consistently.
type Coordinator struct {
	api      EventJoiner
	sync     *Synchronizer
	sessions SessionProvider
	strategy Strategy
	logger   *log.Logger
}

// NewCoordinator creates a join coordinator
func NewCoordinator(joiner EventJoiner, sync *Synchronizer, sessions SessionProvider, strategy Strategy) *Coordinator {
	return &Coordinator{
		api:      joiner,
		sync:     sync,
		sessions: sessions,
		strategy: strategy,
		logger:   log.DefaultLogger(),
	}
}

// Join joins the given event and returns the reconciled event list.
// The input list is the caller's current view; depending on strategy
// the result is either a patched copy or a fresh load. The input is
// never mutated.
func (c *Coordinator) Join(ctx context.Context, events []EnrichedEvent, eventID string) ([]EnrichedEvent, error) {
	switch c.strategy {
	case OptimisticThenReconcile:
		return c.joinOptimistic(ctx, events, eventID)
	default:
		return c.joinConfirmed(ctx, events, eventID)
	}
}

// joinConfirmed calls the join endpoint and, on success, refetches the
// authoritative state.
func (c *Coordinator) joinConfirmed(ctx context.Context, events []EnrichedEvent, eventID string) ([]EnrichedEvent, error) {
	if err := c.api.JoinEvent(ctx, eventID); err != nil {
		return events, err
	}

	fresh, err := c.sync.Load(ctx)
	if err != nil {
		// The join itself succeeded; surface the refresh failure with
		// the stale list so the caller can still render something.
		c.logger.WithError(err).Warn("post-join refresh failed", "event_id", eventID)
		return events, err
	}

	return fresh, nil
}

// joinOptimistic computes the patched list before the request is sent
// and hands it out only once the outcome is known: the patched copy on
// success, the caller's original view on failure. The input list is
// shared with a rendering goroutine in the TUI, so it is read, never
// written.
func (c *Coordinator) joinOptimistic(ctx context.Context, events []EnrichedEvent, eventID string) ([]EnrichedEvent, error) {
	sess, err := c.sessions.Load()
	if err != nil {
		return events, err
	}
	if !sess.CanUseEvents() {
		return events, errSessionUnusable(sess)
	}

	patched, applied := patchJoin(events, eventID, sess.UserID, sess.Username)
	if !applied {
		// Already joined or event absent: nothing to patch, but the
		// server call still runs; it is the source of truth.
		c.logger.Debug("optimistic join skipped local patch", "event_id", eventID)
	}

	if err := c.api.JoinEvent(ctx, eventID); err != nil {
		return events, err
	}

	return patched, nil
}

// errSessionUnusable maps a partial or absent session to the taxonomy
func errSessionUnusable(sess *session.Session) error {
	if !sess.LoggedIn() {
		return errors.NewAuthRequiredError()
	}
	return errors.NewSessionIncompleteError("userId")
}

// patchJoin returns a copy of the list with the viewer inserted into
// the target event's joined players, membership-checked so a double
// join never duplicates the id. The input list and its slices are left
// untouched; when no patch applies the input is returned as is.
func patchJoin(events []EnrichedEvent, eventID, userID, username string) ([]EnrichedEvent, bool) {
	for i := range events {
		if events[i].ID != eventID {
			continue
		}
		if contains(events[i].JoinedPlayers, userID) {
			return events, false
		}

		patched := append([]EnrichedEvent{}, events...)
		target := patched[i]
		target.JoinedPlayers = append(append([]string{}, target.JoinedPlayers...), userID)
		target.JoinedPlayerUsernames = append(append([]string{}, target.JoinedPlayerUsernames...), username)
		target.IsJoined = true
		patched[i] = target

		return patched, true
	}

	return events, false
}
