package prometheus

import (
	"strconv"
	"time"

	"github.com/MaggieNush/milk-bar/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Ledger operation metrics
	LedgerOperationsCounter prometheus.CounterVec

	// Stock level metrics
	ProductStockGauge prometheus.GaugeVec

	// Stock conflict metrics
	InsufficientStockCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	LedgerOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_ledger_operations_total",
			Help: "Total number of ledger operations by entity and outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)

	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current stock level for products",
		},
		[]string{"product_id", "product_name"},
	)

	InsufficientStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of sales rejected for insufficient stock",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordLedgerOperation increments the counter for ledger operations
func RecordLedgerOperation(entity, operation, outcome string) {
	LedgerOperationsCounter.WithLabelValues(entity, operation, outcome).Inc()
}

// UpdateProductStock updates the gauge for a product's stock level
func UpdateProductStock(productID uint, productName string, stock float64) {
	ProductStockGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), productName).Set(stock)
}

// RecordInsufficientStock increments the rejected-sale counter
func RecordInsufficientStock() {
	InsufficientStockCounter.Inc()
}
