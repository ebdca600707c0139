package models

import (
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantType EventType
		wantErr  bool
	}{
		{
			name:     "order event",
			data:     `{"type":"order","table":5,"items":[{"id":"paneer-tikka","name":"Paneer Tikka","quantity":2,"pack":false}],"paymentMode":"cash","orderType":"dine-in","status":"pending","totalAmount":560,"loyaltyPointsEarned":56}`,
			wantType: EventOrder,
		},
		{
			name:     "service request event",
			data:     `{"type":"service-request","table":3,"request":"water"}`,
			wantType: EventServiceRequest,
		},
		{
			name:     "billing request event",
			data:     `{"type":"billing-request","table":7}`,
			wantType: EventBillingRequest,
		},
		{
			name:     "reservation event",
			data:     `{"type":"reservation","customerName":"Asha","customerPhone":"9876543210","date":"2026-09-05","time":"19:30","partySize":4,"status":"pending"}`,
			wantType: EventReservation,
		},
		{
			name:     "feedback event",
			data:     `{"type":"feedback","table":5,"rating":4,"comment":"great"}`,
			wantType: EventFeedback,
		},
		{
			name:    "unknown type",
			data:    `{"type":"loyalty","table":5}`,
			wantErr: true,
		},
		{
			name:    "missing type",
			data:    `{"table":5}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			data:    `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ev.EventType() != tt.wantType {
				t.Errorf("EventType() = %v, want %v", ev.EventType(), tt.wantType)
			}
		})
	}
}

func TestDecodeEvent_OrderFields(t *testing.T) {
	data := `{"type":"order","table":5,"items":[{"id":"paneer-tikka","name":"Paneer Tikka","quantity":2,"pack":true}],"paymentMode":"cash","orderType":"dine-in","status":"pending"}`

	ev, err := DecodeEvent([]byte(data))
	if err != nil {
		t.Fatalf("DecodeEvent returned error: %v", err)
	}

	order, ok := ev.(OrderEvent)
	if !ok {
		t.Fatalf("expected OrderEvent, got %T", ev)
	}
	if order.Table != 5 {
		t.Errorf("Table = %d, want 5", order.Table)
	}
	if len(order.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(order.Items))
	}
	if order.Items[0].Quantity != 2 || !order.Items[0].Pack {
		t.Errorf("Items[0] = %+v, want quantity 2 and pack true", order.Items[0])
	}
	if order.PaymentMode != PaymentCash {
		t.Errorf("PaymentMode = %v, want cash", order.PaymentMode)
	}
}

func TestOrderEventValidate(t *testing.T) {
	valid := OrderEvent{
		Type:        EventOrder,
		Table:       5,
		Items:       []CartLine{{ID: "dal-tadka", Name: "Dal Tadka", Quantity: 1}},
		PaymentMode: PaymentUPI,
		OrderType:   OrderDineIn,
		Status:      StatusPending,
	}

	tests := []struct {
		name    string
		mutate  func(*OrderEvent)
		wantErr bool
	}{
		{name: "valid", mutate: func(*OrderEvent) {}},
		{name: "empty items", mutate: func(ev *OrderEvent) { ev.Items = nil }, wantErr: true},
		{name: "zero quantity", mutate: func(ev *OrderEvent) { ev.Items[0].Quantity = 0 }, wantErr: true},
		{name: "bad payment mode", mutate: func(ev *OrderEvent) { ev.PaymentMode = "card" }, wantErr: true},
		{name: "bad order type", mutate: func(ev *OrderEvent) { ev.OrderType = "drive-through" }, wantErr: true},
		{name: "bad status", mutate: func(ev *OrderEvent) { ev.Status = "eaten" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			ev.Items = append([]CartLine(nil), valid.Items...)
			tt.mutate(&ev)
			err := ev.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceRequestValidate(t *testing.T) {
	for _, kind := range []ServiceKind{ServiceStaff, ServiceWater, ServiceHotWater, ServiceCleaning} {
		ev := ServiceRequestEvent{Type: EventServiceRequest, Table: 2, Request: kind}
		if err := ev.Validate(); err != nil {
			t.Errorf("Validate(%q) returned error: %v", kind, err)
		}
	}

	ev := ServiceRequestEvent{Type: EventServiceRequest, Table: 2, Request: "napkins"}
	if err := ev.Validate(); err == nil {
		t.Error("expected error for unknown request kind")
	}
}

func TestReservationValidate(t *testing.T) {
	valid := ReservationEvent{
		Type:          EventReservation,
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		Date:          "2026-09-05",
		Time:          "19:30",
		PartySize:     4,
		Status:        ReservationPending,
	}

	tests := []struct {
		name    string
		mutate  func(*ReservationEvent)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ReservationEvent) {}},
		{name: "missing name", mutate: func(ev *ReservationEvent) { ev.CustomerName = "" }, wantErr: true},
		{name: "missing phone", mutate: func(ev *ReservationEvent) { ev.CustomerPhone = "" }, wantErr: true},
		{name: "party too small", mutate: func(ev *ReservationEvent) { ev.PartySize = 0 }, wantErr: true},
		{name: "party too large", mutate: func(ev *ReservationEvent) { ev.PartySize = 21 }, wantErr: true},
		{name: "missing date", mutate: func(ev *ReservationEvent) { ev.Date = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			err := ev.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeedbackValidate(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		ev := FeedbackEvent{Type: EventFeedback, Table: 5, Rating: rating}
		if err := ev.Validate(); err != nil {
			t.Errorf("Validate(rating=%d) returned error: %v", rating, err)
		}
	}
	for _, rating := range []int{0, 6, -1} {
		ev := FeedbackEvent{Type: EventFeedback, Table: 5, Rating: rating}
		if err := ev.Validate(); err == nil {
			t.Errorf("expected error for rating %d", rating)
		}
	}
}
