package events

import (
	"context"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/session"
)

// EnrichedEvent is an Event plus resolved player names and
// viewer-relative flags. It is derived on every synchronization pass
// and never persisted.
type EnrichedEvent struct {
	api.Event

	// JoinedPlayerUsernames is parallel to JoinedPlayers. A name that
	// could not be resolved degrades to "".
	JoinedPlayerUsernames []string

	IsJoined  bool
	IsOwner   bool
	IsInvited bool
}

// EventLister fetches the raw event list for a user
type EventLister interface {
	GetEvents(ctx context.Context, userID string) ([]api.Event, error)
}

// EventJoiner performs the join call against the backend
type EventJoiner interface {
	JoinEvent(ctx context.Context, eventID string) error
}

// NameResolver resolves a user id to a display name
type NameResolver interface {
	ResolveUsername(ctx context.Context, userID string) (string, error)
}

// SessionProvider supplies the current session. Both the Synchronizer
// and the Coordinator read the session through this single abstraction
// instead of each caller touching the store directly.
type SessionProvider interface {
	Load() (*session.Session, error)
}

// visibleTo reports whether the viewer may see the event: public
// events always, private events only when the viewer is invited.
// Private events the viewer is not invited to are dropped entirely.
func visibleTo(event api.Event, userID string) bool {
	if event.Public {
		return true
	}
	return contains(event.InvitedPlayers, userID)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
