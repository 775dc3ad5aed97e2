package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the server.
type Metrics struct {
	Registry *prometheus.Registry

	ChatRequests     *prometheus.CounterVec
	ToolExecutions   *prometheus.CounterVec
	ProviderResults  *prometheus.CounterVec
	TasksRegenerated prometheus.Counter
}

// New builds a fresh registry with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todoevolve_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		ToolExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todoevolve_tool_executions_total",
			Help: "Tool executions by tool name.",
		}, []string{"tool"}),
		ProviderResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todoevolve_provider_results_total",
			Help: "LLM completions by answering provider.",
		}, []string{"provider"}),
		TasksRegenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "todoevolve_tasks_regenerated_total",
			Help: "Recurring tasks recreated by the scheduler sweep.",
		}),
	}
}
