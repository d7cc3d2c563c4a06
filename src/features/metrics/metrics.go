package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts what happens during a run. A nil *Recorder is valid and
// records nothing, so components can take one optionally.
type Recorder struct {
	registry        *prometheus.Registry
	acquisitions    *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	providerQueries *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	placements      prometheus.Counter
	items           *prometheus.CounterVec
	itemDuration    prometheus.Histogram
}

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "acquisitions_total",
			Help:      "Acquisitions by download method and final status.",
		}, []string{"method", "status"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "strategy_attempts_total",
			Help:      "Download tool invocations by strategy and failure class.",
		}, []string{"strategy", "class"}),
		providerQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "provider_queries_total",
			Help:      "Metadata provider queries by provider and result.",
		}, []string{"provider", "result"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "resolutions_total",
			Help:      "Resolved identities by source.",
		}, []string{"source"}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "placements_total",
			Help:      "Files moved into the library.",
		}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shadowbox",
			Name:      "items_total",
			Help:      "Pipeline items by result.",
		}, []string{"result"}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shadowbox",
			Name:      "item_duration_seconds",
			Help:      "Wall clock time per pipeline item.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
	r.registry.MustRegister(r.acquisitions, r.attempts, r.providerQueries, r.resolutions, r.placements, r.items, r.itemDuration)
	return r
}

func (r *Recorder) Acquisition(method, status string) {
	if r == nil {
		return
	}
	r.acquisitions.WithLabelValues(method, status).Inc()
}

func (r *Recorder) Attempt(strategy, class string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(strategy, class).Inc()
}

func (r *Recorder) ProviderQuery(provider, result string) {
	if r == nil {
		return
	}
	r.providerQueries.WithLabelValues(provider, result).Inc()
}

func (r *Recorder) Resolution(source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(source).Inc()
}

func (r *Recorder) Placement() {
	if r == nil {
		return
	}
	r.placements.Inc()
}

// Item records the end of one pipeline item.
func (r *Recorder) Item(ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	r.items.WithLabelValues(result).Inc()
	r.itemDuration.Observe(elapsed.Seconds())
}

// WriteTextfile dumps all metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
