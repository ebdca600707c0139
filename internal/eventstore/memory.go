package eventstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableside/internal/models"
)

// MemoryStore is an in-process Store with the same observable contract
// as the Postgres-backed one: append-only, whole-snapshot delivery on
// every change. Used by tests and local runs without infrastructure.
type MemoryStore struct {
	mu        sync.Mutex
	events    []StoredEvent
	subs      map[int]*memorySubscription
	nextSubID int
	appendErr error
}

type memorySubscription struct {
	eventType models.EventType
	fn        SnapshotFunc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[int]*memorySubscription),
	}
}

// FailAppends forces every subsequent Append to return err. Pass nil
// to restore normal behavior.
func (s *MemoryStore) FailAppends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// Len reports the number of appended events.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Events returns a snapshot of every appended event in write order.
func (s *MemoryStore) Events() []StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *MemoryStore) Append(ctx context.Context, ev models.Event) (string, error) {
	s.mu.Lock()
	if s.appendErr != nil {
		err := s.appendErr
		s.mu.Unlock()
		return "", err
	}

	stored := StoredEvent{
		ID:        uuid.NewString(),
		Event:     ev,
		CreatedAt: time.Now().UTC(),
	}
	s.events = append(s.events, stored)

	// Collect matching subscriptions and their snapshots under the
	// lock, deliver outside it.
	type delivery struct {
		fn       SnapshotFunc
		snapshot []StoredEvent
	}
	var deliveries []delivery
	for _, sub := range s.subs {
		if sub.eventType == ev.EventType() {
			deliveries = append(deliveries, delivery{fn: sub.fn, snapshot: s.snapshotLocked(sub.eventType)})
		}
	}
	s.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.snapshot)
	}

	return stored.ID, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, eventType models.EventType, fn SnapshotFunc) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = &memorySubscription{eventType: eventType, fn: fn}
	initial := s.snapshotLocked(eventType)
	s.mu.Unlock()

	fn(initial)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

func (s *MemoryStore) snapshotLocked(eventType models.EventType) []StoredEvent {
	var out []StoredEvent
	for _, stored := range s.events {
		if stored.Event.EventType() == eventType {
			out = append(out, stored)
		}
	}
	return out
}
