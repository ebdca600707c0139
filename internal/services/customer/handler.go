package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tableside/internal/logger"
	"tableside/internal/menu"
	"tableside/internal/models"
)

// DefaultTable is used when the table query parameter is absent or
// unparsable.
const DefaultTable = 5

// Handler handles HTTP requests for the customer service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new customer handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes sets up the customer HTTP routes
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.withLogging)

	r.Get("/health", h.HealthCheck)
	r.Get("/menu", h.GetMenu)
	r.Get("/menu/categories", h.GetCategories)

	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{id}", h.SetQuantity)
	r.Delete("/cart/items/{id}", h.RemoveItem)
	r.Post("/cart/items/{id}/pack", h.TogglePack)
	r.Put("/cart/pack", h.SetPackAll)

	r.Post("/orders", h.PlaceOrder)
	r.Post("/service-requests", h.RequestService)
	r.Post("/billing-requests", h.RequestBilling)
	r.Post("/reservations", h.MakeReservation)
	r.Post("/feedback", h.LeaveFeedback)
	r.Get("/loyalty", h.LoyaltyBalance)

	return r
}

// tableFrom reads the table identity from the query string.
func tableFrom(r *http.Request) int {
	table, err := strconv.Atoi(r.URL.Query().Get("table"))
	if err != nil || table < 1 {
		return DefaultTable
	}
	return table
}

// GetMenu handles GET /menu requests, optionally filtered by category.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" {
		h.writeJSON(w, http.StatusOK, menu.ByCategory(category))
		return
	}
	h.writeJSON(w, http.StatusOK, menu.Items())
}

// GetCategories handles GET /menu/categories requests
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, menu.Categories())
}

// GetCart handles GET /cart requests
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Cart(tableFrom(r)))
}

// AddItem handles POST /cart/items requests
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.ID == "" {
		h.writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.AddItem(tableFrom(r), req.ID))
}

// SetQuantity handles PUT /cart/items/{id} requests
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.SetQuantity(tableFrom(r), chi.URLParam(r, "id"), req.Quantity))
}

// RemoveItem handles DELETE /cart/items/{id} requests
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.RemoveItem(tableFrom(r), chi.URLParam(r, "id")))
}

// TogglePack handles POST /cart/items/{id}/pack requests
func (h *Handler) TogglePack(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.TogglePack(tableFrom(r), chi.URLParam(r, "id")))
}

// SetPackAll handles PUT /cart/pack requests
func (h *Handler) SetPackAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pack bool `json:"pack"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.SetPackAll(tableFrom(r), req.Pack))
}

// PlaceOrder handles POST /orders requests
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req struct {
		PaymentMode models.PaymentMode `json:"payment_mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	table := tableFrom(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	conf, err := h.service.SubmitOrder(ctx, table, req.PaymentMode)
	if err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, r, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("order_submission_failed", requestID, "Failed to place order", err, map[string]interface{}{
			"table": table,
		})
		h.writeError(w, r, http.StatusBadGateway, "Failed to submit order, please try again")
		return
	}

	h.writeJSON(w, http.StatusCreated, conf)
}

// RequestService handles POST /service-requests requests
func (h *Handler) RequestService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Request models.ServiceKind `json:"request"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	id, err := h.service.RequestService(r.Context(), tableFrom(r), req.Request)
	if err != nil {
		h.respondAppendError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// RequestBilling handles POST /billing-requests requests
func (h *Handler) RequestBilling(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.RequestBilling(r.Context(), tableFrom(r))
	if err != nil {
		h.respondAppendError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// MakeReservation handles POST /reservations requests
func (h *Handler) MakeReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Date          string `json:"date"`
		Time          string `json:"time"`
		PartySize     int    `json:"party_size"`
		Table         *int   `json:"table,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ev := models.ReservationEvent{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
		Time:          req.Time,
		PartySize:     req.PartySize,
		Table:         req.Table,
	}

	id, err := h.service.MakeReservation(r.Context(), ev)
	if err != nil {
		h.respondAppendError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// LeaveFeedback handles POST /feedback requests
func (h *Handler) LeaveFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id,omitempty"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ev := models.FeedbackEvent{
		Table:   tableFrom(r),
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	id, err := h.service.LeaveFeedback(r.Context(), ev)
	if err != nil {
		h.respondAppendError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// LoyaltyBalance handles GET /loyalty requests
func (h *Handler) LoyaltyBalance(w http.ResponseWriter, r *http.Request) {
	table := tableFrom(r)
	points, err := h.service.LoyaltyBalance(r.Context(), table)
	if err != nil {
		h.writeError(w, r, http.StatusBadGateway, "Loyalty balance unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"table": table, "points": points})
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "customer-service",
	})
}

func (h *Handler) respondAppendError(w http.ResponseWriter, r *http.Request, err error) {
	var verr models.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, r, http.StatusBadRequest, verr.Error())
		return
	}
	h.logger.Error("event_append_failed", middleware.GetReqID(r.Context()), "Failed to append event", err, nil)
	h.writeError(w, r, http.StatusBadGateway, "Request failed, please try again")
}

func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// writeJSON writes a successful response in JSON format
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "", "Failed to encode response", err, nil)
	}
}

// writeError writes an error response in JSON format
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		rw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			requestID,
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.Status()),
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.Status(),
				"duration_ms": duration.Milliseconds(),
			})
	})
}
