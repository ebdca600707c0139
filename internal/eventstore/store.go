// Package eventstore provides the append-only event collection with
// real-time change notification that both service modes share.
//
// Subscriptions follow a whole-snapshot push model: every time the
// matching result set changes, the subscriber receives the entire
// current result set, never a diff. Consumers replace their local
// mirror wholesale on each delivery.
package eventstore

import (
	"context"
	"time"

	"tableside/internal/models"
)

// StoredEvent is one appended document together with its store-assigned
// identifier and write time.
type StoredEvent struct {
	ID        string
	Event     models.Event
	CreatedAt time.Time
}

// SnapshotFunc receives the full current result set for a
// subscription's event type, ordered by write time.
type SnapshotFunc func(snapshot []StoredEvent)

// Unsubscribe tears down a subscription. It is idempotent; no
// deliveries happen after it returns.
type Unsubscribe func()

// Store is the external event collection. Append suspends the caller
// until the write is acknowledged and is never retried automatically.
type Store interface {
	Append(ctx context.Context, ev models.Event) (id string, err error)
	Subscribe(ctx context.Context, eventType models.EventType, fn SnapshotFunc) (Unsubscribe, error)
}
