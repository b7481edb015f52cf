package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts order placement outcomes by result.
	OrdersPlacedTotal *prometheus.CounterVec
	// OrderFailureStageTotal counts failed placements by the stage they failed at.
	OrderFailureStageTotal *prometheus.CounterVec
	// CouponRedemptionsTotal counts coupon redemption attempts by result.
	CouponRedemptionsTotal *prometheus.CounterVec
	// OrderTotalAmount records the final payable amount per placed order in minor units.
	OrderTotalAmount prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of order placement outcomes.",
		}, []string{"result"})
		OrderFailureStageTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_failure_stage_total",
			Help:      "Count of failed order placements by failing stage.",
		}, []string{"stage"})
		CouponRedemptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Count of coupon redemption attempts by result.",
		}, []string{"result"})
		OrderTotalAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_amount",
			Help:      "Final payable order totals in minor currency units.",
			Buckets:   []float64{1000, 2500, 5000, 10000, 25000, 50000, 100000, 250000},
		})
		reg.MustRegister(OrdersPlacedTotal, OrderFailureStageTotal, CouponRedemptionsTotal, OrderTotalAmount)
	})
}
