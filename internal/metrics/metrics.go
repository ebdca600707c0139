package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service metrics behind one prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced       prometheus.Counter
	OrderAppendErrors  prometheus.Counter
	ServiceRequests    prometheus.Counter
	BillingRequests    prometheus.Counter
	SnapshotsDelivered prometheus.Counter
	FeedOrders         prometheus.Gauge
	OrderValue         prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tableside_orders_placed_total",
		Help: "Total number of successfully appended orders",
	})
	appendErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tableside_order_append_errors_total",
		Help: "Total number of failed order appends",
	})
	serviceRequests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tableside_service_requests_total",
		Help: "Total number of service call events",
	})
	billingRequests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tableside_billing_requests_total",
		Help: "Total number of billing request events",
	})
	snapshotsDelivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tableside_feed_snapshots_delivered_total",
		Help: "Total number of snapshots applied to the live order feed",
	})
	feedOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tableside_feed_orders",
		Help: "Number of orders currently mirrored by the live feed",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tableside_order_value_rupees",
		Help:    "Distribution of submitted order totals",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000},
	})

	r.MustRegister(ordersPlaced, appendErrors, serviceRequests, billingRequests,
		snapshotsDelivered, feedOrders, orderValue)

	return &Registry{
		reg:                r,
		OrdersPlaced:       ordersPlaced,
		OrderAppendErrors:  appendErrors,
		ServiceRequests:    serviceRequests,
		BillingRequests:    billingRequests,
		SnapshotsDelivered: snapshotsDelivered,
		FeedOrders:         feedOrders,
		OrderValue:         orderValue,
	}
}

// Handler serves the registry in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
