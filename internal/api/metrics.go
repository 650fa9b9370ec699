// metrics.go: prometheus metrics for the API and analyzer
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vestboda/pantry-go/internal/errors"
)

// Metrics holds the prometheus collectors exposed on /metrics.
type Metrics struct {
	AnalyzeRuns    prometheus.Counter
	ItemsUpserted  prometheus.Counter
	LowStockItems  prometheus.Gauge
	OrdersIngested prometheus.Counter
}

// NewMetrics creates and registers the metrics with the default registry.
// Registration is idempotent via AlreadyRegisteredError handling so tests can
// create multiple servers.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalyzeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pantry_analyze_runs_total",
			Help: "Number of recurrence analysis runs triggered over the API.",
		}),
		ItemsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pantry_recurring_items_upserted_total",
			Help: "Number of recurring item rows created or refreshed by analysis runs.",
		}),
		LowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pantry_low_stock_items",
			Help: "Number of recurring items currently flagged as low stock.",
		}),
		OrdersIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pantry_orders_ingested_total",
			Help: "Number of orders saved through the API.",
		}),
	}

	m.AnalyzeRuns = registerCounter(m.AnalyzeRuns)
	m.ItemsUpserted = registerCounter(m.ItemsUpserted)
	m.LowStockItems = registerGauge(m.LowStockItems)
	m.OrdersIngested = registerCounter(m.OrdersIngested)
	return m
}

func registerCounter(c prometheus.Counter) prometheus.Counter {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
	}
	return c
}

func registerGauge(g prometheus.Gauge) prometheus.Gauge {
	if err := prometheus.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Gauge)
		}
	}
	return g
}
