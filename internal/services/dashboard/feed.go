package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableside/internal/eventstore"
	"tableside/internal/logger"
	"tableside/internal/menu"
	"tableside/internal/metrics"
	"tableside/internal/models"
)

// Order is one mirrored order document with its store identity.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	models.OrderEvent
}

// Feed is the live read projection over order events. Every snapshot
// delivered by the store replaces the local mirror wholesale; the feed
// never merges or patches. Aggregates are recomputed over the full
// mirror on each read.
type Feed struct {
	store   eventstore.Store
	priceOf func(id string) int
	metrics *metrics.Registry
	logger  *logger.Logger

	mu      sync.RWMutex
	orders  []Order
	stopped bool

	unsubscribe eventstore.Unsubscribe
	stopOnce    sync.Once
}

func NewFeed(store eventstore.Store, m *metrics.Registry, log *logger.Logger) *Feed {
	return &Feed{
		store:   store,
		priceOf: menu.PriceOf,
		metrics: m,
		logger:  log,
	}
}

// Start registers the subscription. The first snapshot arrives before
// Start returns (the store delivers the current result set on
// subscribe).
func (f *Feed) Start(ctx context.Context) error {
	unsubscribe, err := f.store.Subscribe(ctx, models.EventOrder, f.apply)
	if err != nil {
		return fmt.Errorf("failed to start order feed: %w", err)
	}
	f.unsubscribe = unsubscribe
	return nil
}

// Stop releases the subscription. Safe to call more than once; the
// mirror never changes after the first call.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() {
		if f.unsubscribe != nil {
			f.unsubscribe()
		}
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
	})
}

// apply replaces the mirror with the delivered result set.
func (f *Feed) apply(snapshot []eventstore.StoredEvent) {
	orders := make([]Order, 0, len(snapshot))
	for _, stored := range snapshot {
		order, ok := stored.Event.(models.OrderEvent)
		if !ok {
			f.logger.Error("feed_unexpected_event", "", "Order subscription delivered a non-order event", nil, map[string]interface{}{
				"event_id":   stored.ID,
				"event_type": string(stored.Event.EventType()),
			})
			continue
		}
		orders = append(orders, Order{
			ID:         stored.ID,
			CreatedAt:  stored.CreatedAt,
			OrderEvent: order,
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.orders = orders
	f.metrics.SnapshotsDelivered.Inc()
	f.metrics.FeedOrders.Set(float64(len(orders)))
}

// Orders returns a copy of the mirrored order list in delivered order.
func (f *Feed) Orders() []Order {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// OrderCount reports how many orders the mirror currently holds.
func (f *Feed) OrderCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.orders)
}

// Revenue sums the value of every mirrored order. Orders carrying a
// frozen total use it; older documents without one are priced from the
// current catalog, line by line.
func (f *Feed) Revenue() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	total := 0
	for _, order := range f.orders {
		total += f.orderValue(order)
	}
	return total
}

func (f *Feed) orderValue(order Order) int {
	if order.TotalAmount > 0 {
		return order.TotalAmount
	}
	value := 0
	for _, line := range order.Items {
		value += f.priceOf(line.ID) * line.Quantity
	}
	return value
}

// ActiveTables counts the distinct tables with at least one order.
func (f *Feed) ActiveTables() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tables := make(map[int]struct{})
	for _, order := range f.orders {
		tables[order.Table] = struct{}{}
	}
	return len(tables)
}

// Recent returns up to n of the latest mirrored orders, newest first.
// Recency comes from the tail of the delivered sequence, not from any
// stored ordering guarantee.
func (f *Feed) Recent(n int) []Order {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || len(f.orders) == 0 {
		return nil
	}
	if n > len(f.orders) {
		n = len(f.orders)
	}

	out := make([]Order, 0, n)
	for i := len(f.orders) - 1; i >= len(f.orders)-n; i-- {
		out = append(out, f.orders[i])
	}
	return out
}
