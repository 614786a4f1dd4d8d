// Package metrics exposes Prometheus instrumentation for pipeline runs
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts pipeline runs by final status
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpipe_runs_total",
		Help: "Pipeline runs by final status",
	}, []string{"status"})

	// AgentExecutionsTotal counts agent executions by agent and result
	AgentExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogpipe_agent_executions_total",
		Help: "Agent executions by agent name and result",
	}, []string{"agent", "result"})

	// AgentDuration observes agent wall-clock time in seconds
	AgentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogpipe_agent_duration_seconds",
		Help:    "Agent execution duration in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"agent"})
)

// ObserveAgent records one agent execution
func ObserveAgent(agent string, success bool, seconds float64) {
	result := "success"
	if !success {
		result = "failure"
	}
	AgentExecutionsTotal.WithLabelValues(agent, result).Inc()
	AgentDuration.WithLabelValues(agent).Observe(seconds)
}

// ObserveRun records one completed pipeline run
func ObserveRun(status string) {
	RunsTotal.WithLabelValues(status).Inc()
}
