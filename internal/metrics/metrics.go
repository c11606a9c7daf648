// Package metrics exposes pipeline and publishing counters for Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketing_engine/internal/domain"
)

type Collector struct {
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	agentAttempts    *prometheus.CounterVec
	publishOutcomes  *prometheus.CounterVec
	claims           *prometheus.CounterVec
	staleRecovered   prometheus.Counter
	publishPass      prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_engine_pipeline_runs_total",
			Help: "Pipeline runs by final status and the stage they ended in.",
		}, []string{"status", "stage"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketing_engine_pipeline_duration_seconds",
			Help:    "Wall time of pipeline runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		agentAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_engine_agent_attempts_total",
			Help: "LLM agent attempts by agent and outcome.",
		}, []string{"agent", "outcome"}),
		publishOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_engine_publish_outcomes_total",
			Help: "Publish attempts by platform and resulting publish status.",
		}, []string{"platform", "status"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_engine_publish_claims_total",
			Help: "Claim attempts on due posts, won or lost.",
		}, []string{"result"}),
		staleRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketing_engine_stale_claims_total",
			Help: "In-flight posts flagged because their claim expired.",
		}),
		publishPass: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketing_engine_publish_pass_seconds",
			Help:    "Duration of a scheduler publish pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.pipelineRuns,
		c.pipelineDuration,
		c.agentAttempts,
		c.publishOutcomes,
		c.claims,
		c.staleRecovered,
		c.publishPass,
	)

	return c
}

func (c *Collector) RecordPipelineRun(status domain.RunStatus, stage domain.Stage, duration time.Duration) {
	c.pipelineRuns.WithLabelValues(string(status), string(stage)).Inc()
	c.pipelineDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordAgentAttempt(agent, outcome string) {
	c.agentAttempts.WithLabelValues(agent, outcome).Inc()
}

func (c *Collector) RecordPublishOutcome(platform domain.Platform, status domain.PublishStatus) {
	c.publishOutcomes.WithLabelValues(string(platform), string(status)).Inc()
}

func (c *Collector) RecordClaim(won bool) {
	result := "lost"
	if won {
		result = "won"
	}
	c.claims.WithLabelValues(result).Inc()
}

func (c *Collector) RecordStaleRecovered(count int) {
	c.staleRecovered.Add(float64(count))
}

func (c *Collector) RecordPublishPass(duration time.Duration) {
	c.publishPass.Observe(duration.Seconds())
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

// NewRouter serves /metrics and /healthz. A nil health check always reports ok.
func NewRouter(gatherer prometheus.Gatherer, health HealthFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", Handler(gatherer))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				http.Error(w, "unhealthy: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
