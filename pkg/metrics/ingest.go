package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics tracks CSV uploads, the rows they produce and what the history
// sync did with them.
type IngestMetrics struct {
	uploads       *prometheus.CounterVec
	rows          *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	syncOutcomes  *prometheus.CounterVec
	cache         *prometheus.CounterVec
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reseller_uploads_total",
		Help: "CSV uploads by data kind and result.",
	}, []string{"kind", "result"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reseller_ingest_rows_total",
		Help: "Parsed CSV data rows by data kind and whether they were kept.",
	}, []string{"kind", "outcome"})
	parseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reseller_parse_duration_seconds",
		Help:    "Time spent parsing and analyzing one CSV.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	syncOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reseller_history_sync_records_total",
		Help: "History sync results per record.",
	}, []string{"kind", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reseller_analytics_cache_total",
		Help: "Dashboard cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(uploads, rows, parseDuration, syncOutcomes, cache)
	return &IngestMetrics{
		uploads:       uploads,
		rows:          rows,
		parseDuration: parseDuration,
		syncOutcomes:  syncOutcomes,
		cache:         cache,
	}
}

// ObserveUpload counts one upload attempt.
func (m *IngestMetrics) ObserveUpload(kind string, ok bool) {
	if m == nil || m.uploads == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.uploads.WithLabelValues(normalizeLabel(kind), result).Inc()
}

// ObserveRows adds kept and dropped row counts for one parsed CSV.
func (m *IngestMetrics) ObserveRows(kind string, kept, dropped int) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(kind), "kept").Add(float64(kept))
	m.rows.WithLabelValues(normalizeLabel(kind), "dropped").Add(float64(dropped))
}

// ObserveParse records how long parsing took.
func (m *IngestMetrics) ObserveParse(kind string, d time.Duration) {
	if m == nil || m.parseDuration == nil {
		return
	}
	m.parseDuration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

// ObserveSync adds count records to the given sync outcome.
func (m *IngestMetrics) ObserveSync(kind, outcome string, count int) {
	if m == nil || m.syncOutcomes == nil || count <= 0 {
		return
	}
	m.syncOutcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Add(float64(count))
}

// CacheHit counts a dashboard cache hit.
func (m *IngestMetrics) CacheHit() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("hit").Inc()
}

// CacheMiss counts a dashboard cache miss.
func (m *IngestMetrics) CacheMiss() {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

func normalizeLabel(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "unknown"
	}
	return v
}
