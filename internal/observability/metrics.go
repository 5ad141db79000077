package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewscout"

// Stage labels for ErrorsTotal.
const (
	StageExtract = "extract"
	StageScore   = "score"
	StageWrite   = "write"
)

// Metrics tracks operational metrics for a run. Each instance owns its
// registry so tests and repeated runs do not collide.
type Metrics struct {
	ReviewsExtracted prometheus.Counter
	ReviewsScored    prometheus.Counter
	ReviewsRouted    *prometheus.CounterVec
	LinesWritten     *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	SentimentScore   prometheus.Histogram

	registry *prometheus.Registry
	server   *http.Server
	logger   *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		ReviewsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_extracted_total",
			Help:      "Total reviews extracted from the target page",
		}),
		ReviewsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_scored_total",
			Help:      "Total sentiment inferences",
		}),
		ReviewsRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_routed_total",
			Help:      "Total reviews routed by bucket",
		}, []string{"bucket"}),
		LinesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_written_total",
			Help:      "Total lines written by output file",
		}, []string{"file"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total errors by stage",
		}, []string{"stage"}),
		SentimentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentiment_score",
			Help:      "Distribution of sentiment scores",
			Buckets:   prometheus.LinearBuckets(-1, 0.25, 9),
		}),
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics"),
	}

	m.registry.MustRegister(
		m.ReviewsExtracted,
		m.ReviewsScored,
		m.ReviewsRouted,
		m.LinesWritten,
		m.ErrorsTotal,
		m.SentimentScore,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScore records one inference.
func (m *Metrics) ObserveScore(score float64) {
	m.ReviewsScored.Inc()
	m.SentimentScore.Observe(score)
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the exposition handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Shutdown stops the metrics server if it was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

// Snapshot returns the run counters as a map.
func (m *Metrics) Snapshot() map[string]float64 {
	snap := map[string]float64{}
	families, err := m.registry.Gather()
	if err != nil {
		m.logger.Warn("gather metrics", "error", err)
		return snap
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				name := mf.GetName()
				for _, lp := range metric.GetLabel() {
					name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
				}
				snap[name] = c.GetValue()
			}
		}
	}
	return snap
}
