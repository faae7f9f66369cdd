package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductionsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "productions_registered_total",
		Help: "Total number of production batches registered",
	})

	ProductionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "productions_failed_total",
		Help: "Total number of failed production registrations",
	}, []string{"reason"})

	ProductionPartialUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "production_partial_updates_total",
		Help: "Inventory mutation sequences that failed after the batch record was written",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersShippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_shipped_total",
		Help: "Total number of orders shipped",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	OrdersImportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_imported_total",
		Help: "Total number of orders created by batch import",
	})

	ImportDuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "import_duplicates_skipped_total",
		Help: "External orders skipped because their external id already exists",
	})

	ImportOrdersDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "import_orders_discarded_total",
		Help: "External orders discarded because no line item SKU matched",
	})

	ImportItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "import_items_dropped_total",
		Help: "External line items dropped for an unmatched SKU",
	})

	ImportBatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "import_batch_latency_seconds",
		Help:    "Latency of batch import runs",
		Buckets: prometheus.DefBuckets,
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filament_low_stock_alerts_total",
		Help: "Low stock alerts raised for filaments",
	})

	FilamentPurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filament_purchases_total",
		Help: "Filament restocking purchases recorded",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
