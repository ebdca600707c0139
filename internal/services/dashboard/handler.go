package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tableside/internal/logger"
	"tableside/internal/metrics"
)

// Handler handles HTTP requests for the dashboard service
type Handler struct {
	feed    *Feed
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(feed *Feed, m *metrics.Registry, log *logger.Logger) *Handler {
	return &Handler{
		feed:    feed,
		metrics: m,
		logger:  log,
	}
}

// Routes sets up the dashboard HTTP routes
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.withLogging)

	r.Get("/health", h.HealthCheck)
	r.Get("/dashboard/stats", h.Stats)
	r.Get("/dashboard/orders/recent", h.RecentOrders)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	return r
}

// Stats handles GET /dashboard/stats requests
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders":        h.feed.OrderCount(),
		"revenue":       h.feed.Revenue(),
		"active_tables": h.feed.ActiveTables(),
	})
}

// RecentOrders handles GET /dashboard/orders/recent requests
func (h *Handler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	orders := h.feed.Recent(limit)
	if orders == nil {
		orders = []Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "dashboard-service",
	})
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
