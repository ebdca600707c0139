package dashboard

import (
	"context"
	"testing"

	"tableside/internal/eventstore"
	"tableside/internal/logger"
	"tableside/internal/metrics"
	"tableside/internal/models"
)

func newTestFeed(t *testing.T, store eventstore.Store) *Feed {
	t.Helper()
	feed := NewFeed(store, metrics.NewRegistry(), logger.New("dashboard-test"))
	if err := feed.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return feed
}

func order(table, total int, items ...models.CartLine) models.OrderEvent {
	if items == nil {
		items = []models.CartLine{{ID: "dal-tadka", Name: "Dal Tadka", Quantity: 1}}
	}
	return models.OrderEvent{
		Type:        models.EventOrder,
		Table:       table,
		Items:       items,
		PaymentMode: models.PaymentCash,
		OrderType:   models.OrderDineIn,
		Status:      models.StatusPending,
		TotalAmount: total,
	}
}

func TestFeed_MirrorsSnapshotsWholesale(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	idA, _ := store.Append(ctx, order(1, 240))
	idB, _ := store.Append(ctx, order(2, 380))

	feed := newTestFeed(t, store)
	defer feed.Stop()

	if feed.OrderCount() != 2 {
		t.Fatalf("OrderCount() = %d after initial snapshot, want 2", feed.OrderCount())
	}

	idC, _ := store.Append(ctx, order(3, 120))

	orders := feed.Orders()
	if len(orders) != 3 {
		t.Fatalf("len(Orders()) = %d, want 3", len(orders))
	}
	wantIDs := []string{idA, idB, idC}
	for i, want := range wantIDs {
		if orders[i].ID != want {
			t.Errorf("orders[%d].ID = %q, want %q", i, orders[i].ID, want)
		}
	}
	if orders[0].Table != 1 || orders[0].TotalAmount != 240 {
		t.Errorf("orders[0] lost fields: %+v", orders[0])
	}
}

func TestFeed_IgnoresOtherEventTypes(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	feed := newTestFeed(t, store)
	defer feed.Stop()

	store.Append(ctx, models.ServiceRequestEvent{Type: models.EventServiceRequest, Table: 1, Request: models.ServiceStaff})
	store.Append(ctx, order(1, 240))
	store.Append(ctx, models.BillingRequestEvent{Type: models.EventBillingRequest, Table: 1})

	if feed.OrderCount() != 1 {
		t.Errorf("OrderCount() = %d, want 1", feed.OrderCount())
	}
}

func TestFeed_Revenue(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	feed := newTestFeed(t, store)
	defer feed.Stop()

	// Frozen total present: used as-is.
	store.Append(ctx, order(1, 560))
	// No frozen total: priced live from the catalog (2 x 240).
	store.Append(ctx, order(2, 0, models.CartLine{ID: "dal-tadka", Name: "Dal Tadka", Quantity: 2}))
	// Unknown item without frozen total contributes zero.
	store.Append(ctx, order(3, 0, models.CartLine{ID: "mystery", Name: "Mystery", Quantity: 4}))

	if got := feed.Revenue(); got != 1040 {
		t.Errorf("Revenue() = %d, want 1040", got)
	}
}

func TestFeed_ActiveTables(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	feed := newTestFeed(t, store)
	defer feed.Stop()

	store.Append(ctx, order(5, 100))
	store.Append(ctx, order(5, 200))
	store.Append(ctx, order(9, 300))

	if got := feed.ActiveTables(); got != 2 {
		t.Errorf("ActiveTables() = %d, want 2", got)
	}
}

func TestFeed_Recent(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	feed := newTestFeed(t, store)
	defer feed.Stop()

	store.Append(ctx, order(1, 100))
	store.Append(ctx, order(2, 200))
	store.Append(ctx, order(3, 300))
	store.Append(ctx, order(4, 400))

	recent := feed.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("len(Recent(3)) = %d, want 3", len(recent))
	}
	wantTables := []int{4, 3, 2}
	for i, want := range wantTables {
		if recent[i].Table != want {
			t.Errorf("recent[%d].Table = %d, want %d", i, recent[i].Table, want)
		}
	}

	if got := feed.Recent(10); len(got) != 4 {
		t.Errorf("len(Recent(10)) = %d, want 4", len(got))
	}
	if got := feed.Recent(0); got != nil {
		t.Errorf("Recent(0) = %v, want nil", got)
	}
}

func TestFeed_StopFreezesMirror(t *testing.T) {
	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	feed := newTestFeed(t, store)
	store.Append(ctx, order(1, 100))

	feed.Stop()
	feed.Stop() // idempotent

	store.Append(ctx, order(2, 200))
	if feed.OrderCount() != 1 {
		t.Errorf("OrderCount() = %d after Stop, want 1", feed.OrderCount())
	}
}
