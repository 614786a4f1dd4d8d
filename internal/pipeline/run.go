package pipeline

import (
	"context"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/agent"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// Services bundles the external collaborators one pipeline run needs
type Services struct {
	Generator service.Generator
	Metrics   service.MetricsProvider
	Publisher service.PostPublisher
	Store     RunStore
	Bus       *EventBus
}

// Options overrides the per-agent execution defaults. Zero values keep
// each agent's own config.
type Options struct {
	MaxRetries    int
	AgentTimeout  time.Duration
	WriterTimeout time.Duration // the writer runs long; it gets its own budget
}

// configured is implemented by agents that carry their own defaults
type configured interface {
	Config() model.AgentConfig
}

// BuildRunners assembles the runner sequence for one request: the full
// seven-stage pipeline minus any stages the request skips. Publishing
// is also skipped when no publisher is wired.
func BuildRunners(request model.PipelineRequest, services Services, opts Options) []*agent.Runner {
	var agents []agent.Agent

	agents = append(agents,
		agent.NewMarketResearchAgent(services.Generator),
		agent.NewKeywordAnalyzerAgent(services.Generator, services.Metrics),
		agent.NewContentPlannerAgent(services.Generator),
		agent.NewSEOOptimizerAgent(services.Generator),
		agent.NewContentWriterAgent(services.Generator),
	)
	if !request.SkipQualityCheck {
		agents = append(agents, agent.NewQualityCheckerAgent(services.Generator))
	}
	if !request.SkipPublishing && services.Publisher != nil {
		agents = append(agents, agent.NewPublisherAgent(services.Publisher, request.PublishStatus))
	}

	runners := make([]*agent.Runner, 0, len(agents))
	for _, a := range agents {
		config := model.AgentConfig{Name: a.Name()}
		if c, ok := a.(configured); ok {
			config = c.Config()
		}
		if opts.MaxRetries > 0 {
			config.MaxRetries = opts.MaxRetries
		}
		if opts.AgentTimeout > 0 {
			config.Timeout = opts.AgentTimeout
		}
		if config.Name == "content_writer" && opts.WriterTimeout > 0 {
			config.Timeout = opts.WriterTimeout
		}
		runners = append(runners, agent.NewRunner(a, config))
	}
	return runners
}

// Run executes one request end to end and returns the pipeline result
func Run(ctx context.Context, request model.PipelineRequest, services Services, opts Options) (*model.PipelineResult, error) {
	runners := BuildRunners(request, services, opts)
	orchestrator := NewOrchestrator(runners, services.Bus, services.Store)
	return orchestrator.Run(ctx, request)
}

// RunWithID is Run with a caller-chosen run ID, used by the API where
// the ID is returned before the run finishes
func RunWithID(ctx context.Context, runID string, request model.PipelineRequest, services Services, opts Options) (*model.PipelineResult, error) {
	runners := BuildRunners(request, services, opts)
	orchestrator := NewOrchestrator(runners, services.Bus, services.Store)
	return orchestrator.RunWithID(ctx, runID, request)
}
