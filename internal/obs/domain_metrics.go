package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SalesProcessedTotal counts sale processing outcomes.
	SalesProcessedTotal *prometheus.CounterVec
	// SaleShortagesTotal counts ingredients found short during sale validation.
	SaleShortagesTotal prometheus.Counter
	// SaleTxDuration records sale transaction latency in milliseconds.
	SaleTxDuration prometheus.Histogram
	// WasteLoggedTotal counts recorded waste entries by reason.
	WasteLoggedTotal *prometheus.CounterVec
	// WebhookDeliveriesTotal tracks webhook dispatch outcomes.
	WebhookDeliveriesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SalesProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_processed_total",
			Help:      "Count of sale processing outcomes.",
		}, []string{"result"})
		SaleShortagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_shortages_total",
			Help:      "Number of ingredient shortages reported by sale validation.",
		})
		SaleTxDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_tx_duration_ms",
			Help:      "Latency of the sale transaction in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		})
		WasteLoggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waste_logged_total",
			Help:      "Count of recorded waste log entries by reason.",
		}, []string{"reason"})
		WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Count of webhook delivery outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, SalesProcessedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SalesProcessedTotal = v
			}
		})
		mustRegisterCollector(reg, SaleShortagesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				SaleShortagesTotal = v
			}
		})
		mustRegisterCollector(reg, SaleTxDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				SaleTxDuration = v
			}
		})
		mustRegisterCollector(reg, WasteLoggedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WasteLoggedTotal = v
			}
		})
		mustRegisterCollector(reg, WebhookDeliveriesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WebhookDeliveriesTotal = v
			}
		})
	})
}

// IncSalesProcessed bumps the sale outcome counter. Safe to call before
// metrics registration, which is the case in unit tests.
func IncSalesProcessed(result string) {
	if SalesProcessedTotal != nil {
		SalesProcessedTotal.WithLabelValues(result).Inc()
	}
}

// IncSaleShortages adds the number of shortages found by one validation pass.
func IncSaleShortages(n int) {
	if SaleShortagesTotal != nil {
		SaleShortagesTotal.Add(float64(n))
	}
}

// ObserveSaleTx records one sale transaction duration.
func ObserveSaleTx(d time.Duration) {
	if SaleTxDuration != nil {
		SaleTxDuration.Observe(DurationMillis(d))
	}
}

// IncWasteLogged bumps the waste counter for a reason label.
func IncWasteLogged(reason string) {
	if WasteLoggedTotal != nil {
		WasteLoggedTotal.WithLabelValues(reason).Inc()
	}
}

// IncWebhookDelivery bumps the webhook outcome counter.
func IncWebhookDelivery(result string) {
	if WebhookDeliveriesTotal != nil {
		WebhookDeliveriesTotal.WithLabelValues(result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
