package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	routingDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskrouter_routing_decisions_total",
		Help: "Routing decisions by terminal state",
	}, []string{"state"})

	routedDepartments = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deskrouter_routed_departments",
		Help:    "Number of departments routed per query",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	responderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deskrouter_responder_latency_ms",
		Help:    "Latency of one department's retrieve+answer leg in milliseconds",
		Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"department"})

	answers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskrouter_answers_total",
		Help: "Department answers by kind",
	}, []string{"department", "kind"})

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deskrouter_retriever_latency_ms",
		Help:    "Latency of scoped retrieval in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"department"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deskrouter_retriever_results",
		Help:    "Fragments returned by scoped retrieval",
		Buckets: []float64{0, 1, 2, 4, 8, 16},
	}, []string{"department"})

	merges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deskrouter_merges_total",
		Help: "Merge synthesizer invocations",
	})

	pipelineOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskrouter_pipeline_outcomes_total",
		Help: "Pipeline results by outcome (answered, clarification, error)",
	}, []string{"outcome"})
)

// Register installs the collectors on the given registerer. It is safe to
// call more than once.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		reg.MustRegister(
			routingDecisions,
			routedDepartments,
			responderLatency,
			answers,
			retrieverLatency,
			retrieverResults,
			merges,
			pipelineOutcomes,
		)
	})
}

// ObserveRouting records one routing decision.
func ObserveRouting(state string, departments int) {
	routingDecisions.WithLabelValues(state).Inc()
	routedDepartments.Observe(float64(departments))
}

// ObserveResponder records one department leg.
func ObserveResponder(department string, start time.Time, kind string) {
	responderLatency.WithLabelValues(department).Observe(float64(time.Since(start).Milliseconds()))
	answers.WithLabelValues(department, kind).Inc()
}

// ObserveRetriever records one scoped retrieval.
func ObserveRetriever(department string, start time.Time, results int) {
	retrieverLatency.WithLabelValues(department).Observe(float64(time.Since(start).Milliseconds()))
	retrieverResults.WithLabelValues(department).Observe(float64(results))
}

// IncMerge counts one merge invocation.
func IncMerge() { merges.Inc() }

// IncOutcome counts one pipeline outcome.
func IncOutcome(outcome string) { pipelineOutcomes.WithLabelValues(outcome).Inc() }
