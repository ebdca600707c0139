package eventstore

import (
	"context"
	"errors"
	"testing"

	"tableside/internal/models"
)

func orderEvent(table int) models.OrderEvent {
	return models.OrderEvent{
		Type:        models.EventOrder,
		Table:       table,
		Items:       []models.CartLine{{ID: "dal-tadka", Name: "Dal Tadka", Quantity: 1}},
		PaymentMode: models.PaymentCash,
		OrderType:   models.OrderDineIn,
		Status:      models.StatusPending,
	}
}

func TestMemoryStore_AppendAssignsUniqueIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, err := store.Append(ctx, orderEvent(1))
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	id2, err := store.Append(ctx, orderEvent(2))
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if id1 == "" || id2 == "" || id1 == id2 {
		t.Errorf("expected distinct non-empty ids, got %q and %q", id1, id2)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestMemoryStore_SubscribeDeliversWholeSnapshots(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var mirror []StoredEvent
	unsubscribe, err := store.Subscribe(ctx, models.EventOrder, func(snapshot []StoredEvent) {
		mirror = snapshot
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	defer unsubscribe()

	if len(mirror) != 0 {
		t.Fatalf("initial snapshot has %d events, want 0", len(mirror))
	}

	idA, _ := store.Append(ctx, orderEvent(1))
	idB, _ := store.Append(ctx, orderEvent(2))
	if len(mirror) != 2 {
		t.Fatalf("mirror has %d events after two appends, want 2", len(mirror))
	}

	idC, _ := store.Append(ctx, orderEvent(3))
	if len(mirror) != 3 {
		t.Fatalf("mirror has %d events, want 3", len(mirror))
	}

	// Full replace: prior entries retained in order, no duplicates.
	wantIDs := []string{idA, idB, idC}
	for i, want := range wantIDs {
		if mirror[i].ID != want {
			t.Errorf("mirror[%d].ID = %q, want %q", i, mirror[i].ID, want)
		}
	}
}

func TestMemoryStore_SubscribeFiltersByType(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var mirror []StoredEvent
	unsubscribe, err := store.Subscribe(ctx, models.EventOrder, func(snapshot []StoredEvent) {
		mirror = snapshot
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	defer unsubscribe()

	store.Append(ctx, models.BillingRequestEvent{Type: models.EventBillingRequest, Table: 4})
	store.Append(ctx, orderEvent(4))
	store.Append(ctx, models.ServiceRequestEvent{Type: models.EventServiceRequest, Table: 4, Request: models.ServiceWater})

	if len(mirror) != 1 {
		t.Fatalf("mirror has %d events, want 1 (orders only)", len(mirror))
	}
	if mirror[0].Event.EventType() != models.EventOrder {
		t.Errorf("mirror[0] type = %v, want order", mirror[0].Event.EventType())
	}
}

func TestMemoryStore_InitialSnapshotIncludesHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Append(ctx, orderEvent(1))
	store.Append(ctx, orderEvent(2))

	var mirror []StoredEvent
	unsubscribe, err := store.Subscribe(ctx, models.EventOrder, func(snapshot []StoredEvent) {
		mirror = snapshot
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	defer unsubscribe()

	if len(mirror) != 2 {
		t.Errorf("initial snapshot has %d events, want 2", len(mirror))
	}
}

func TestMemoryStore_UnsubscribeStopsDeliveries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var mirror []StoredEvent
	unsubscribe, err := store.Subscribe(ctx, models.EventOrder, func(snapshot []StoredEvent) {
		mirror = snapshot
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	store.Append(ctx, orderEvent(1))
	if len(mirror) != 1 {
		t.Fatalf("mirror has %d events, want 1", len(mirror))
	}

	unsubscribe()
	unsubscribe() // idempotent

	store.Append(ctx, orderEvent(2))
	if len(mirror) != 1 {
		t.Errorf("mirror changed after unsubscribe: %d events", len(mirror))
	}
}

func TestMemoryStore_FailAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	forced := errors.New("store unavailable")
	store.FailAppends(forced)

	if _, err := store.Append(ctx, orderEvent(1)); !errors.Is(err, forced) {
		t.Fatalf("Append error = %v, want forced error", err)
	}
	if store.Len() != 0 {
		t.Errorf("failed append must not persist anything, Len() = %d", store.Len())
	}

	store.FailAppends(nil)
	if _, err := store.Append(ctx, orderEvent(1)); err != nil {
		t.Errorf("Append after reset returned error: %v", err)
	}
}
