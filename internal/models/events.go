package models

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the kinds of documents in the events collection.
type EventType string

const (
	EventOrder          EventType = "order"
	EventServiceRequest EventType = "service-request"
	EventBillingRequest EventType = "billing-request"
	EventReservation    EventType = "reservation"
	EventFeedback       EventType = "feedback"
)

// PaymentMode is how the customer intends to pay.
type PaymentMode string

const (
	PaymentUPI  PaymentMode = "upi"
	PaymentCash PaymentMode = "cash"
)

// OrderType distinguishes how an order is fulfilled.
type OrderType string

const (
	OrderDineIn     OrderType = "dine-in"
	OrderTakeout    OrderType = "takeout"
	OrderOrderAhead OrderType = "order-ahead"
)

// OrderStatus tracks an order through the kitchen.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusPaid      OrderStatus = "paid"
)

// ServiceKind enumerates the reasons a table can call for service.
type ServiceKind string

const (
	ServiceStaff    ServiceKind = "staff"
	ServiceWater    ServiceKind = "water"
	ServiceHotWater ServiceKind = "hot-water"
	ServiceCleaning ServiceKind = "cleaning"
)

// ReservationStatus tracks a reservation's lifecycle.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// CartLine is one selected menu item inside an order. Name is a
// denormalized copy taken when the item was first added to the cart.
type CartLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Pack     bool   `json:"pack"`
}

// Event is the closed union over the five event kinds. Timestamps are
// assigned by the store at append time and carried alongside the event,
// never inside it.
type Event interface {
	EventType() EventType
}

// OrderEvent is one submitted order, immutable once appended.
type OrderEvent struct {
	Type                EventType   `json:"type"`
	Table               int         `json:"table"`
	Items               []CartLine  `json:"items"`
	PaymentMode         PaymentMode `json:"paymentMode"`
	OrderType           OrderType   `json:"orderType"`
	ScheduledTime       string      `json:"scheduledTime,omitempty"`
	Status              OrderStatus `json:"status"`
	TotalAmount         int         `json:"totalAmount,omitempty"`
	LoyaltyPointsEarned int         `json:"loyaltyPointsEarned"`
}

func (OrderEvent) EventType() EventType { return EventOrder }

// ServiceRequestEvent is a fire-and-forget call for table service.
type ServiceRequestEvent struct {
	Type    EventType   `json:"type"`
	Table   int         `json:"table"`
	Request ServiceKind `json:"request"`
}

func (ServiceRequestEvent) EventType() EventType { return EventServiceRequest }

// BillingRequestEvent asks staff to bring the bill to a table.
type BillingRequestEvent struct {
	Type  EventType `json:"type"`
	Table int       `json:"table"`
}

func (BillingRequestEvent) EventType() EventType { return EventBillingRequest }

// ReservationEvent books a table ahead of time.
type ReservationEvent struct {
	Type          EventType         `json:"type"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	PartySize     int               `json:"partySize"`
	Table         *int              `json:"table,omitempty"`
	Status        ReservationStatus `json:"status"`
}

func (ReservationEvent) EventType() EventType { return EventReservation }

// FeedbackEvent records a customer's rating for their visit.
type FeedbackEvent struct {
	Type    EventType `json:"type"`
	Table   int       `json:"table"`
	OrderID string    `json:"orderId,omitempty"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
}

func (FeedbackEvent) EventType() EventType { return EventFeedback }

// EncodeEvent serializes an event to its JSON document form.
func EncodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeEvent parses a JSON document into the concrete event type named
// by its "type" discriminant. Unknown discriminants are rejected.
func DecodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to read event discriminant: %w", err)
	}

	switch envelope.Type {
	case EventOrder:
		var ev OrderEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode order event: %w", err)
		}
		return ev, nil
	case EventServiceRequest:
		var ev ServiceRequestEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode service request event: %w", err)
		}
		return ev, nil
	case EventBillingRequest:
		var ev BillingRequestEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode billing request event: %w", err)
		}
		return ev, nil
	case EventReservation:
		var ev ReservationEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode reservation event: %w", err)
		}
		return ev, nil
	case EventFeedback:
		var ev FeedbackEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode feedback event: %w", err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown event type: %q", envelope.Type)
	}
}
