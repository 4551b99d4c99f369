package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// MetricsPath is the HTTP path for the scrape endpoint (default: /metrics)
	MetricsPath string
	// MetricsPort is the port for the scrape server (default: 9090)
	MetricsPort int

	// Namespace for all metrics (default: mcp_client)
	Namespace string
	Subsystem string

	// DurationBuckets for latency histograms, in milliseconds
	DurationBuckets []float64
	// PageBuckets for pages-per-traversal histograms
	PageBuckets []float64

	// Registerer receives the collectors; defaults to the global registry.
	// Tests pass their own registry to stay isolated.
	Registerer prometheus.Registerer

	// ConstLabels added to every metric
	ConstLabels prometheus.Labels
}

// MetricsProvider records what the client observes while enumerating server
// collections.
type MetricsProvider interface {
	// RecordRequest records one JSON-RPC round trip
	RecordRequest(ctx context.Context, method, status string, duration time.Duration)

	// RecordPage records one fetched page of a collection
	RecordPage(ctx context.Context, collection string, itemCount int)

	// RecordTraversal records a completed traversal: how long it took, how
	// many pages it followed, and whether it ended cleanly
	RecordTraversal(ctx context.Context, collection, status string, pages int, duration time.Duration)

	// RecordProtocolViolation counts a detected pagination contract breach
	RecordProtocolViolation(ctx context.Context, kind string)

	// Management
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Traversal status label values.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Protocol violation kind label values.
const (
	ViolationDuplicateCursor   = "duplicate_cursor"
	ViolationPageLimitExceeded = "page_limit_exceeded"
)

// PrometheusMetricsProvider implements MetricsProvider using Prometheus.
type PrometheusMetricsProvider struct {
	config MetricsConfig
	server *http.Server

	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	pageItems         *prometheus.HistogramVec
	pageTotal         *prometheus.CounterVec
	traversalDuration *prometheus.HistogramVec
	traversalPages    *prometheus.HistogramVec
	traversalTotal    *prometheus.CounterVec
	violationTotal    *prometheus.CounterVec
}

// NewMetricsProvider creates a Prometheus metrics provider.
func NewMetricsProvider(config MetricsConfig) (MetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp_client"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.DurationBuckets == nil {
		config.DurationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}
	if config.PageBuckets == nil {
		config.PageBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 10000}
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	if config.ServiceName != "" {
		config.ConstLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		config.ConstLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	provider := &PrometheusMetricsProvider{config: config}
	provider.initializeMetrics()
	if err := provider.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return provider, nil
}

func (p *PrometheusMetricsProvider) initializeMetrics() {
	p.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of JSON-RPC requests in milliseconds",
			Buckets:     p.config.DurationBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_total",
			Help:        "Total number of JSON-RPC requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.pageItems = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "page_items",
			Help:        "Number of items per fetched page",
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"collection"},
	)

	p.pageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "page_total",
			Help:        "Total number of pages fetched",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"collection"},
	)

	p.traversalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "traversal_duration_milliseconds",
			Help:        "Duration of full collection traversals in milliseconds",
			Buckets:     p.config.DurationBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"collection", "status"},
	)

	p.traversalPages = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "traversal_pages",
			Help:        "Number of pages followed per traversal",
			Buckets:     p.config.PageBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"collection"},
	)

	p.traversalTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "traversal_total",
			Help:        "Total number of collection traversals",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"collection", "status"},
	)

	p.violationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "protocol_violation_total",
			Help:        "Total number of detected pagination contract violations",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"kind"},
	)
}

func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectors := []prometheus.Collector{
		p.requestDuration,
		p.requestTotal,
		p.pageItems,
		p.pageTotal,
		p.traversalDuration,
		p.traversalPages,
		p.traversalTotal,
		p.violationTotal,
	}

	for _, collector := range collectors {
		if err := p.config.Registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// RecordRequest records one JSON-RPC round trip.
func (p *PrometheusMetricsProvider) RecordRequest(ctx context.Context, method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.requestDuration.WithLabelValues(method, status).Observe(ms)
	p.requestTotal.WithLabelValues(method, status).Inc()
}

// RecordPage records one fetched page.
func (p *PrometheusMetricsProvider) RecordPage(ctx context.Context, collection string, itemCount int) {
	p.pageItems.WithLabelValues(collection).Observe(float64(itemCount))
	p.pageTotal.WithLabelValues(collection).Inc()
}

// RecordTraversal records a completed traversal.
func (p *PrometheusMetricsProvider) RecordTraversal(ctx context.Context, collection, status string, pages int, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.traversalDuration.WithLabelValues(collection, status).Observe(ms)
	p.traversalPages.WithLabelValues(collection).Observe(float64(pages))
	p.traversalTotal.WithLabelValues(collection, status).Inc()
}

// RecordProtocolViolation counts a detected contract breach.
func (p *PrometheusMetricsProvider) RecordProtocolViolation(ctx context.Context, kind string) {
	p.violationTotal.WithLabelValues(kind).Inc()
}

// Start starts the metrics scrape server.
func (p *PrometheusMetricsProvider) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(p.config.MetricsPath, promhttp.Handler())

	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.config.MetricsPort),
		Handler: mux,
	}

	go func() {
		_ = p.server.ListenAndServe()
	}()
	return nil
}

// Shutdown stops the metrics scrape server.
func (p *PrometheusMetricsProvider) Shutdown(ctx context.Context) error {
	if p.server != nil {
		return p.server.Shutdown(ctx)
	}
	return nil
}

// NopMetricsProvider discards everything. Used when metrics are disabled.
type NopMetricsProvider struct{}

func (NopMetricsProvider) RecordRequest(ctx context.Context, method, status string, duration time.Duration) {
}
func (NopMetricsProvider) RecordPage(ctx context.Context, collection string, itemCount int) {}
func (NopMetricsProvider) RecordTraversal(ctx context.Context, collection, status string, pages int, duration time.Duration) {
}
func (NopMetricsProvider) RecordProtocolViolation(ctx context.Context, kind string) {}
func (NopMetricsProvider) Start(ctx context.Context) error                          { return nil }
func (NopMetricsProvider) Shutdown(ctx context.Context) error                       { return nil }
