package customer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableside/internal/eventstore"
	"tableside/internal/logger"
	"tableside/internal/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *eventstore.MemoryStore) {
	t.Helper()
	store := eventstore.NewMemoryStore()
	svc := NewService(store, nil, metrics.NewRegistry(), logger.New("customer-test"))
	server := httptest.NewServer(NewHandler(svc, logger.New("customer-test")).Routes())
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func TestTableFrom(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "explicit table", query: "?table=9", want: 9},
		{name: "missing table defaults", query: "", want: DefaultTable},
		{name: "unparsable table defaults", query: "?table=abc", want: DefaultTable},
		{name: "non-positive table defaults", query: "?table=0", want: DefaultTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/cart"+tt.query, nil)
			if got := tableFrom(r); got != tt.want {
				t.Errorf("tableFrom(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestPlaceOrderEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	resp := postJSON(t, server.URL+"/cart/items?table=9", `{"id":"paneer-tikka"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item status = %d, want 200", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/orders?table=9", `{"payment_mode":"cash"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order status = %d, want 201", resp.StatusCode)
	}

	var conf Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		t.Fatalf("failed to decode confirmation: %v", err)
	}
	if conf.TotalAmount != 280 {
		t.Errorf("confirmation total = %d, want 280", conf.TotalAmount)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d events, want 1", store.Len())
	}
}

func TestPlaceOrderEndpoint_EmptyCart(t *testing.T) {
	server, store := newTestServer(t)

	resp := postJSON(t, server.URL+"/orders?table=2", `{"payment_mode":"upi"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d events, want 0", store.Len())
	}
}

func TestMenuEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/menu?category=drinks")
	if err != nil {
		t.Fatalf("GET /menu failed: %v", err)
	}
	defer resp.Body.Close()

	var items []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode menu: %v", err)
	}
	if len(items) != 1 || items[0].ID != "mango-lassi" {
		t.Errorf("drinks = %+v, want only mango-lassi", items)
	}
}
