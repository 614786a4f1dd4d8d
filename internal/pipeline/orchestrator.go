package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/agent"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// RunStore persists run lifecycle and per-agent results. Persistence
// failures are logged, never fatal to the run.
type RunStore interface {
	SaveRun(runID string, request model.PipelineRequest, status model.PipelineStatus) error
	UpdateRunStatus(runID string, status model.PipelineStatus) error
	SaveRunError(runID, agentName, message string) error
	SaveRunEvent(runID string, event model.PipelineEvent) error
	SaveAgentResult(runID, agentName string, response *model.AgentResponse) error
}

// Orchestrator executes a fixed sequence of agent runners, merging
// each successful output into the accumulated state under the agent's
// declared key. A failed agent is recorded and skipped over; the run
// only fails outright when no agent succeeds.
type Orchestrator struct {
	runners []*agent.Runner
	bus     *EventBus
	store   RunStore
}

// NewOrchestrator creates an orchestrator over the given runners. The
// bus and store are optional; nil disables events or persistence.
func NewOrchestrator(runners []*agent.Runner, bus *EventBus, store RunStore) *Orchestrator {
	if bus == nil {
		bus = NewEventBus()
	}
	return &Orchestrator{runners: runners, bus: bus, store: store}
}

// Bus exposes the event bus so callers can subscribe before Run
func (o *Orchestrator) Bus() *EventBus {
	return o.bus
}

// Run executes the full pipeline for one request under a fresh run ID
func (o *Orchestrator) Run(ctx context.Context, request model.PipelineRequest) (*model.PipelineResult, error) {
	return o.RunWithID(ctx, uuid.New().String(), request)
}

// RunWithID executes the full pipeline under a caller-chosen run ID.
// The returned error is non-nil only for setup problems; agent
// failures are reported through the result's status and summary.
func (o *Orchestrator) RunWithID(ctx context.Context, runID string, request model.PipelineRequest) (*model.PipelineResult, error) {
	if len(o.runners) == 0 {
		return nil, fmt.Errorf("no agents configured")
	}

	start := time.Now()

	state := model.NewState(map[string]interface{}{
		"product_name":    request.ProductName,
		"niche":           request.Niche,
		"target_audience": request.TargetAudience,
		"target_keywords": request.TargetKeywords,
		"content_length":  request.ContentLength,
		"budget":          request.Budget,
	})

	o.persistRun(runID, request, model.StatusRunning)
	o.publish(runID, "pipeline_started", map[string]interface{}{
		"run_id":       runID,
		"product_name": request.ProductName,
		"total_agents": len(o.runners),
	})
	log.Printf("🚀 pipeline %s started with %d agents", runID, len(o.runners))

	results := make(map[string]*model.AgentResponse, len(o.runners))
	var errors []string
	cancelled := false

	for i, runner := range o.runners {
		if err := ctx.Err(); err != nil {
			cancelled = true
			errors = append(errors, fmt.Sprintf("pipeline cancelled before %s: %v", runner.Config().Name, err))
			break
		}

		name := runner.Config().Name
		o.wireRunner(runID, runner)

		o.publish(runID, "agent_started", map[string]interface{}{
			"agent":       name,
			"agent_index": i + 1,
			"total":       len(o.runners),
		})
		log.Printf("⚙️ [%d/%d] running %s", i+1, len(o.runners), name)

		response := o.executeRunner(ctx, runner, state)
		results[name] = response
		o.persistResult(runID, name, response)

		if response.Success {
			state = state.Merge(runner.Agent().OutputKey(), response.Data)
			log.Printf("✅ [%d/%d] %s completed in %.2fs", i+1, len(o.runners), name, response.ProcessingTime)
		} else {
			for _, msg := range response.Errors {
				errors = append(errors, fmt.Sprintf("%s: %s", name, msg))
				o.persistError(runID, name, msg)
			}
			log.Printf("❌ [%d/%d] %s failed, continuing with remaining agents", i+1, len(o.runners), name)
		}
	}

	// Final status: any success at all counts as completed
	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}

	status := model.StatusCompleted
	switch {
	case cancelled:
		status = model.StatusCancelled
	case successful == 0:
		status = model.StatusFailed
	}

	duration := time.Since(start).Seconds()
	result := &model.PipelineResult{
		RunID:   runID,
		Status:  status,
		Output:  state.Snapshot(),
		Results: results,
		Summary: model.ProcessingSummary{
			TotalAgents:      len(o.runners),
			SuccessfulAgents: successful,
			FailedAgents:     len(results) - successful,
			ProcessingTime:   duration,
			Errors:           errors,
		},
	}

	o.persistStatus(runID, status)
	o.publish(runID, "pipeline_completed", map[string]interface{}{
		"run_id":          runID,
		"status":          string(status),
		"success_rate":    successRate(successful, len(o.runners)),
		"processing_time": duration,
		"errors":          len(errors),
	})
	log.Printf("🏁 pipeline %s finished: %s (%d/%d agents, %.2fs)",
		runID, status, successful, len(o.runners), duration)

	return result, nil
}

// executeRunner isolates one agent execution; a panicking agent is
// converted into a failure response so the pipeline keeps going
func (o *Orchestrator) executeRunner(ctx context.Context, runner *agent.Runner, state model.State) (response *model.AgentResponse) {
	defer func() {
		if r := recover(); r != nil {
			name := runner.Config().Name
			log.Printf("💥 agent %s panicked: %v", name, r)
			response = &model.AgentResponse{
				Success: false,
				Data:    map[string]interface{}{},
				Errors:  []string{fmt.Sprintf("agent panicked: %v", r)},
				Metadata: map[string]interface{}{
					"agent_name":     name,
					"failure_reason": "panic",
				},
			}
		}
	}()
	return runner.Execute(ctx, state)
}

// wireRunner connects the runner's callbacks to the bus and store
func (o *Orchestrator) wireRunner(runID string, runner *agent.Runner) {
	runner.SetEventCallback(func(agentName, eventType string, data map[string]interface{}, timestamp string) {
		event := model.PipelineEvent{
			EventType: eventType,
			Data:      withAgentName(data, agentName),
			Timestamp: timestamp,
		}
		o.bus.Publish(event)
		o.persistEvent(runID, event)
	})
	runner.SetProgressCallback(func(agentName string, progress int, status, currentStep string) {
		o.bus.Publish(model.PipelineEvent{
			EventType: "agent_progress",
			Data: map[string]interface{}{
				"agent":        agentName,
				"progress":     progress,
				"status":       status,
				"current_step": currentStep,
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func (o *Orchestrator) publish(runID, eventType string, data map[string]interface{}) {
	event := model.PipelineEvent{
		EventType: eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	o.bus.Publish(event)
	o.persistEvent(runID, event)
}

func (o *Orchestrator) persistRun(runID string, request model.PipelineRequest, status model.PipelineStatus) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveRun(runID, request, status); err != nil {
		// The API pre-creates the run record; fall back to an update
		if err := o.store.UpdateRunStatus(runID, status); err != nil {
			log.Printf("⚠️ failed to save run %s: %v", runID, err)
		}
	}
}

func (o *Orchestrator) persistStatus(runID string, status model.PipelineStatus) {
	if o.store == nil {
		return
	}
	if err := o.store.UpdateRunStatus(runID, status); err != nil {
		log.Printf("⚠️ failed to update run %s status: %v", runID, err)
	}
}

func (o *Orchestrator) persistError(runID, agentName, message string) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveRunError(runID, agentName, message); err != nil {
		log.Printf("⚠️ failed to save run %s error: %v", runID, err)
	}
}

func (o *Orchestrator) persistEvent(runID string, event model.PipelineEvent) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveRunEvent(runID, event); err != nil {
		log.Printf("⚠️ failed to save run %s event: %v", runID, err)
	}
}

func (o *Orchestrator) persistResult(runID, agentName string, response *model.AgentResponse) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveAgentResult(runID, agentName, response); err != nil {
		log.Printf("⚠️ failed to save run %s result for %s: %v", runID, agentName, err)
	}
}

func withAgentName(data map[string]interface{}, agentName string) map[string]interface{} {
	out := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["agent"] = agentName
	return out
}

func successRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}
