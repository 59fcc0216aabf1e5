package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds every escrow-related collector.
type EscrowMetrics struct {
	// Checkout
	CheckoutsTotal       prometheus.CounterVec
	CheckoutAmountCents  prometheus.CounterVec
	CheckoutItemsPerCart prometheus.Histogram

	// Transitions
	TransitionsTotal     prometheus.CounterVec
	TransitionRejections prometheus.CounterVec
	ConcurrentConflicts  prometheus.CounterVec
	ReleasedAmountCents  prometheus.CounterVec
	TransitionDuration   prometheus.HistogramVec

	// Snapshots refreshed by the background scan
	OrdersByEscrowStatus prometheus.GaugeVec
	OverdueEscrows       prometheus.Gauge

	// Side effects
	SideEffectErrors prometheus.CounterVec
}

// NewEscrowMetrics registers all collectors on reg. Pass prometheus.DefaultRegisterer in production.
func NewEscrowMetrics(reg prometheus.Registerer) *EscrowMetrics {
	factory := promauto.With(reg)
	return &EscrowMetrics{
		CheckoutsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_checkouts_total",
				Help: "Checkouts by outcome",
			},
			[]string{"result"},
		),

		CheckoutAmountCents: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_checkout_amount_cents_total",
				Help: "Sum of order totals placed into escrow at checkout",
			},
			[]string{"payment_method"},
		),

		CheckoutItemsPerCart: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "escrow_checkout_items",
				Help:    "Number of line items per checked out cart",
				Buckets: prometheus.LinearBuckets(1, 2, 8),
			},
		),

		TransitionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transitions_total",
				Help: "Applied escrow actions",
			},
			[]string{"action", "from", "to"},
		),

		TransitionRejections: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transition_rejections_total",
				Help: "Rejected escrow actions by reason",
			},
			[]string{"action", "reason"},
		),

		ConcurrentConflicts: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_concurrent_conflicts_total",
				Help: "Writes lost to a concurrent modification",
			},
			[]string{"action"},
		),

		ReleasedAmountCents: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_released_amount_cents_total",
				Help: "Funds leaving escrow by final state",
			},
			[]string{"status"},
		),

		TransitionDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_transition_duration_seconds",
				Help:    "Time from load to persisted transition",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),

		OrdersByEscrowStatus: *factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "escrow_orders",
				Help: "Current number of orders per escrow status",
			},
			[]string{"status"},
		),

		OverdueEscrows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "escrow_overdue_orders",
				Help: "Orders still holding funds after their auto-finalize deadline",
			},
		),

		SideEffectErrors: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_side_effect_errors_total",
				Help: "Failures of non-critical side effects (events, audit, cache)",
			},
			[]string{"kind"},
		),
	}
}

func (m *EscrowMetrics) RecordCheckout(paymentMethod string, amountCents int64, items int) {
	m.CheckoutsTotal.WithLabelValues("created").Inc()
	m.CheckoutAmountCents.WithLabelValues(paymentMethod).Add(float64(amountCents))
	m.CheckoutItemsPerCart.Observe(float64(items))
}

func (m *EscrowMetrics) RecordCheckoutFailed(reason string) {
	m.CheckoutsTotal.WithLabelValues(reason).Inc()
}

// RecordTransition counts an applied action and, for releases, the amount that left escrow.
func (m *EscrowMetrics) RecordTransition(action, from, to string, amountCents int64, durationSeconds float64) {
	m.TransitionsTotal.WithLabelValues(action, from, to).Inc()
	m.TransitionDuration.WithLabelValues(action).Observe(durationSeconds)
	if from != to && (to == "released_to_seller" || to == "released_to_buyer") {
		m.ReleasedAmountCents.WithLabelValues(to).Add(float64(amountCents))
	}
}

func (m *EscrowMetrics) RecordRejection(action, reason string) {
	m.TransitionRejections.WithLabelValues(action, reason).Inc()
}

func (m *EscrowMetrics) RecordConflict(action string) {
	m.ConcurrentConflicts.WithLabelValues(action).Inc()
}

func (m *EscrowMetrics) RecordSideEffectError(kind string) {
	m.SideEffectErrors.WithLabelValues(kind).Inc()
}

// SetEscrowStatusCounts replaces the per-status gauge snapshot.
func (m *EscrowMetrics) SetEscrowStatusCounts(counts map[string]int64) {
	m.OrdersByEscrowStatus.Reset()
	for status, n := range counts {
		m.OrdersByEscrowStatus.WithLabelValues(status).Set(float64(n))
	}
}

func (m *EscrowMetrics) SetOverdue(n int) {
	m.OverdueEscrows.Set(float64(n))
}
