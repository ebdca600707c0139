package customer

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/cart"
	"tableside/internal/eventstore"
	"tableside/internal/logger"
	"tableside/internal/loyalty"
	"tableside/internal/menu"
	"tableside/internal/metrics"
	"tableside/internal/models"
)

// Confirmation is returned to the customer after a successful order.
type Confirmation struct {
	OrderID             string `json:"order_id"`
	Reference           string `json:"reference"`
	TotalAmount         int    `json:"total_amount"`
	LoyaltyPointsEarned int    `json:"loyalty_points_earned"`
}

// CartView is the customer-facing cart representation.
type CartView struct {
	Table   int         `json:"table"`
	Items   []cart.Line `json:"items"`
	Total   int         `json:"total"`
	PackAll bool        `json:"pack_all"`
}

// Service owns one in-memory cart per table and turns submissions into
// append-only events. Carts are volatile: lost on restart, cleared only
// by an acknowledged submission.
type Service struct {
	store   eventstore.Store
	loyalty *loyalty.Store
	metrics *metrics.Registry
	logger  *logger.Logger

	mu    sync.Mutex
	carts map[int]*cart.Cart
}

func NewService(store eventstore.Store, loy *loyalty.Store, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		loyalty: loy,
		metrics: m,
		logger:  log,
		carts:   make(map[int]*cart.Cart),
	}
}

// cartFor returns the cart for a table, creating it on first use.
// Callers must hold s.mu.
func (s *Service) cartFor(table int) *cart.Cart {
	c, ok := s.carts[table]
	if !ok {
		c = cart.New()
		s.carts[table] = c
	}
	return c
}

// AddItem adds one unit of a menu item to the table's cart. The display
// name is resolved from the catalog at add time; unknown ids are kept
// as-is and later price to zero.
func (s *Service) AddItem(table int, itemID string) CartView {
	name := itemID
	if item, ok := menu.Find(itemID); ok {
		name = item.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(table)
	c.AddItem(itemID, name)
	return s.viewLocked(table, c)
}

// SetQuantity updates a line's quantity; zero or less removes the line.
func (s *Service) SetQuantity(table int, itemID string, quantity int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(table)
	c.SetQuantity(itemID, quantity)
	return s.viewLocked(table, c)
}

// RemoveItem deletes a line from the table's cart.
func (s *Service) RemoveItem(table int, itemID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(table)
	c.RemoveItem(itemID)
	return s.viewLocked(table, c)
}

// TogglePack flips the pack flag on one line.
func (s *Service) TogglePack(table int, itemID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(table)
	c.TogglePack(itemID)
	return s.viewLocked(table, c)
}

// SetPackAll sets the pack-whole-order preference for the table.
func (s *Service) SetPackAll(table int, flag bool) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartFor(table)
	c.SetPackAll(flag)
	return s.viewLocked(table, c)
}

// Cart returns the current cart view for a table.
func (s *Service) Cart(table int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(table, s.cartFor(table))
}

func (s *Service) viewLocked(table int, c *cart.Cart) CartView {
	return CartView{
		Table:   table,
		Items:   c.Lines(),
		Total:   c.Total(menu.PriceOf),
		PackAll: c.PackAll(),
	}
}

// SubmitOrder validates the table's cart and appends exactly one order
// event. On acknowledged success the cart is cleared and the pack-all
// preference reset; on any failure both are left untouched so the
// customer can resubmit manually. Resubmission after a failure creates
// an independent event; there is no deduplication.
func (s *Service) SubmitOrder(ctx context.Context, table int, mode models.PaymentMode) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(table)
	if c.Empty() {
		return nil, models.ValidationError{Field: "items", Message: "cart is empty"}
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	total := c.Total(menu.PriceOf)
	points := total / 10

	ev := models.OrderEvent{
		Type:                models.EventOrder,
		Table:               table,
		Items:               linesToCartLines(c.Lines()),
		PaymentMode:         mode,
		OrderType:           models.OrderDineIn,
		Status:              models.StatusPending,
		TotalAmount:         total,
		LoyaltyPointsEarned: points,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		s.metrics.OrderAppendErrors.Inc()
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	c.Clear()
	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderValue.Observe(float64(total))

	if err := s.loyalty.Earn(ctx, table, points); err != nil {
		s.logger.Error("loyalty_credit_failed", "", "Order placed but loyalty credit failed", err, map[string]interface{}{
			"table":  table,
			"points": points,
		})
	}

	s.logger.Info("order_placed", "", "Order appended to event store", map[string]interface{}{
		"order_id":     id,
		"table":        table,
		"total_amount": total,
	})

	return &Confirmation{
		OrderID:             id,
		Reference:           reference(id),
		TotalAmount:         total,
		LoyaltyPointsEarned: points,
	}, nil
}

// RequestService appends one fire-and-forget service call event.
func (s *Service) RequestService(ctx context.Context, table int, kind models.ServiceKind) (string, error) {
	ev := models.ServiceRequestEvent{
		Type:    models.EventServiceRequest,
		Table:   table,
		Request: kind,
	}
	if err := ev.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("failed to request service: %w", err)
	}
	s.metrics.ServiceRequests.Inc()
	return id, nil
}

// RequestBilling appends one fire-and-forget billing request event.
func (s *Service) RequestBilling(ctx context.Context, table int) (string, error) {
	ev := models.BillingRequestEvent{
		Type:  models.EventBillingRequest,
		Table: table,
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("failed to request billing: %w", err)
	}
	s.metrics.BillingRequests.Inc()
	return id, nil
}

// MakeReservation validates and appends one reservation event.
func (s *Service) MakeReservation(ctx context.Context, ev models.ReservationEvent) (string, error) {
	ev.Type = models.EventReservation
	if ev.Status == "" {
		ev.Status = models.ReservationPending
	}
	if err := ev.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("failed to make reservation: %w", err)
	}
	return id, nil
}

// LeaveFeedback validates and appends one feedback event.
func (s *Service) LeaveFeedback(ctx context.Context, ev models.FeedbackEvent) (string, error) {
	ev.Type = models.EventFeedback
	if err := ev.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("failed to leave feedback: %w", err)
	}
	return id, nil
}

// LoyaltyBalance returns the table's accumulated points.
func (s *Service) LoyaltyBalance(ctx context.Context, table int) (int, error) {
	return s.loyalty.Balance(ctx, table)
}

func linesToCartLines(lines []cart.Line) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	for i, line := range lines {
		out[i] = models.CartLine{
			ID:       line.ID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Pack:     line.Pack,
		}
	}
	return out
}

// reference is the short order id shown to the customer.
func reference(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
