package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExtractionsTotal    *prometheus.CounterVec
	ExtractionDuration  prometheus.Histogram
	ListingPagesTotal   prometheus.Counter
	LinksCollected      prometheus.Gauge
	ReportDownloads     *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers the collectors with the default registry. It is safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psp_extractions_total",
			Help: "Total number of report extraction runs.",
		},
		[]string{"status"}, // success, no_links, no_data, session, filter, timeout, cancelled, invalid, busy, error
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "psp_extraction_duration_seconds",
			Help:    "Duration of report extraction runs.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 900},
		},
	)

	ListingPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "psp_listing_pages_total",
			Help: "Total number of listing pages read.",
		},
	)

	LinksCollected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "psp_links_collected",
			Help: "Number of spreadsheet links found by the most recent extraction.",
		},
	)

	ReportDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psp_report_downloads_total",
			Help: "Report spreadsheets processed, by outcome.",
		},
		[]string{"outcome"}, // success, cache_hit, fetch_error, parse_error, shape_error
	)
}
