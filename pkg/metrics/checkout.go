package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// orderTotalBuckets are FCFA amounts.
var orderTotalBuckets = []float64{1000, 2500, 5000, 10000, 15000, 25000, 50000, 100000}

// CheckoutMetrics records checkout attempts and the orders they produce.
type CheckoutMetrics struct {
	checkouts   *prometheus.CounterVec
	duration    prometheus.Histogram
	orderTotal  prometheus.Histogram
	restaurants prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_fcfa",
		Help:    "Order totals including delivery fees.",
		Buckets: orderTotalBuckets,
	})
	restaurants := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_restaurants",
		Help:    "Distinct restaurants per order.",
		Buckets: []float64{1, 2, 3, 4, 5},
	})
	reg.MustRegister(checkouts, duration, orderTotal, restaurants)
	return &CheckoutMetrics{
		checkouts:   checkouts,
		duration:    duration,
		orderTotal:  orderTotal,
		restaurants: restaurants,
	}
}

// ObserveCheckout records the outcome and latency of one checkout attempt.
func (c *CheckoutMetrics) ObserveCheckout(err error, elapsed time.Duration) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(outcome(err)).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// ObserveOrder records the total and restaurant count of a placed order.
func (c *CheckoutMetrics) ObserveOrder(total int64, restaurantCount int) {
	if c == nil || c.orderTotal == nil {
		return
	}
	c.orderTotal.Observe(float64(total))
	c.restaurants.Observe(float64(restaurantCount))
}
