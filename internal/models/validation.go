package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks an order event before it is appended.
func (ev OrderEvent) Validate() error {
	if len(ev.Items) == 0 {
		return ValidationError{
			Field:   "items",
			Message: "cart is empty",
		}
	}

	for i, line := range ev.Items {
		if line.ID == "" {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: "item id is required",
			}
		}
		if line.Quantity < 1 {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "item quantity must be at least 1",
			}
		}
	}

	if err := ev.PaymentMode.Validate(); err != nil {
		return err
	}

	switch ev.OrderType {
	case OrderDineIn, OrderTakeout, OrderOrderAhead:
	default:
		return ValidationError{
			Field:   "order_type",
			Message: "order type must be one of: dine-in, takeout, order-ahead",
		}
	}

	switch ev.Status {
	case StatusPending, StatusPreparing, StatusReady, StatusServed, StatusPaid:
	default:
		return ValidationError{
			Field:   "status",
			Message: "invalid order status",
		}
	}

	return nil
}

// Validate checks the payment mode enum.
func (m PaymentMode) Validate() error {
	switch m {
	case PaymentUPI, PaymentCash:
		return nil
	default:
		return ValidationError{
			Field:   "payment_mode",
			Message: "payment mode must be one of: upi, cash",
		}
	}
}

// Validate checks a service request event.
func (ev ServiceRequestEvent) Validate() error {
	switch ev.Request {
	case ServiceStaff, ServiceWater, ServiceHotWater, ServiceCleaning:
		return nil
	default:
		return ValidationError{
			Field:   "request",
			Message: "request must be one of: staff, water, hot-water, cleaning",
		}
	}
}

// Validate checks a reservation event.
func (ev ReservationEvent) Validate() error {
	if ev.CustomerName == "" {
		return ValidationError{
			Field:   "customer_name",
			Message: "customer name is required",
		}
	}
	if len(ev.CustomerName) > 100 {
		return ValidationError{
			Field:   "customer_name",
			Message: "customer name must be less than 100 characters",
		}
	}
	if ev.CustomerPhone == "" {
		return ValidationError{
			Field:   "customer_phone",
			Message: "customer phone is required",
		}
	}
	if ev.Date == "" {
		return ValidationError{
			Field:   "date",
			Message: "date is required",
		}
	}
	if ev.Time == "" {
		return ValidationError{
			Field:   "time",
			Message: "time is required",
		}
	}
	if ev.PartySize < 1 || ev.PartySize > 20 {
		return ValidationError{
			Field:   "party_size",
			Message: "party size must be between 1 and 20",
		}
	}

	switch ev.Status {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return nil
	default:
		return ValidationError{
			Field:   "status",
			Message: "invalid reservation status",
		}
	}
}

// Validate checks a feedback event.
func (ev FeedbackEvent) Validate() error {
	if ev.Rating < 1 || ev.Rating > 5 {
		return ValidationError{
			Field:   "rating",
			Message: "rating must be between 1 and 5",
		}
	}
	return nil
}
