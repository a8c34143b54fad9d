package analysis

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeu5/gridroboman/core"
)

// episode outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeTruncated = "truncated"
	OutcomeHorizon   = "horizon"
	OutcomeError     = "error"
)

// Metrics holds the Prometheus collectors shared by every MetricsAnalyzer
type Metrics struct {
	episodes      *prometheus.CounterVec
	steps         *prometheus.CounterVec
	episodeLength *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridroboman",
			Name:      "episodes_total",
			Help:      "Completed episodes by experiment and outcome.",
		}, []string{"experiment", "outcome"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridroboman",
			Name:      "steps_total",
			Help:      "Environment steps taken by experiment.",
		}, []string{"experiment"}),
		episodeLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridroboman",
			Name:      "episode_length_steps",
			Help:      "Number of steps per episode.",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}, []string{"experiment"}),
	}
	reg.MustRegister(m.episodes, m.steps, m.episodeLength)
	return m
}

// Outcome classifies how an episode ended
func Outcome(trace *core.Trace) string {
	if trace.Error() != nil {
		return OutcomeError
	}
	last := trace.Last()
	switch {
	case last != nil && last.Terminated:
		return OutcomeSuccess
	case last != nil && last.Truncated:
		return OutcomeTruncated
	default:
		return OutcomeHorizon
	}
}

// MetricsAnalyzer feeds every episode of one experiment into Metrics
type MetricsAnalyzer struct {
	metrics *Metrics
	exp     string
}

var _ core.Analyzer = &MetricsAnalyzer{}

func NewMetricsAnalyzer(metrics *Metrics, exp string) *MetricsAnalyzer {
	return &MetricsAnalyzer{metrics: metrics, exp: exp}
}

func (a *MetricsAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	a.metrics.episodes.WithLabelValues(a.exp, Outcome(trace)).Inc()
	a.metrics.steps.WithLabelValues(a.exp).Add(float64(trace.Len()))
	a.metrics.episodeLength.WithLabelValues(a.exp).Observe(float64(trace.Len()))
}

func (a *MetricsAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *MetricsAnalyzer) Reset() {}

type MetricsAnalyzerConstructor struct {
	metrics *Metrics
}

var _ core.AnalyzerConstructor = &MetricsAnalyzerConstructor{}

func NewMetricsAnalyzerConstructor(metrics *Metrics) *MetricsAnalyzerConstructor {
	return &MetricsAnalyzerConstructor{metrics: metrics}
}

func (c *MetricsAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return NewMetricsAnalyzer(c.metrics, exp)
}

// ServeMetrics exposes gatherer on addr under /metrics until ctx is done
func ServeMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
}
