// Package agent provides the uniform execute/retry/timeout/progress
// contract every pipeline agent runs inside, plus the concrete agents
// of the blog-generation pipeline.
package agent

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// Agent is a unit of work that consumes accumulated pipeline state and
// produces a structured result plus reasoning trace. Each agent
// declares the top-level key its output is merged under, so the
// orchestrator's merge step is schema-aware rather than a blind union.
type Agent interface {
	Name() string
	OutputKey() string
	Process(ctx context.Context, input model.State) (*model.AgentResponse, error)
}

// Runner wraps one agent with the execution envelope: retries with
// exponential backoff, a per-attempt timeout, progress tracking and
// fire-and-forget event emission. Failures never escape Execute as
// errors; they come back as a failure AgentResponse.
type Runner struct {
	agent  Agent
	config model.AgentConfig

	progressFn model.ProgressFunc
	eventFn    model.EventFunc

	mu          sync.RWMutex
	progress    int
	status      string
	currentStep string

	// sleep is swappable so tests can observe backoff without waiting
	sleep func(time.Duration)
}

// NewRunner wraps an agent with its execution config. Zero-valued
// retry and timeout settings get the envelope defaults (3 attempts,
// 120s per attempt).
func NewRunner(a Agent, config model.AgentConfig) *Runner {
	if config.Name == "" {
		config.Name = a.Name()
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	return &Runner{
		agent:  a,
		config: config,
		status: "idle",
		sleep:  time.Sleep,
	}
}

// Agent returns the wrapped agent
func (r *Runner) Agent() Agent {
	return r.agent
}

// Config returns the execution config
func (r *Runner) Config() model.AgentConfig {
	return r.config
}

// SetProgressCallback registers the progress listener
func (r *Runner) SetProgressCallback(fn model.ProgressFunc) {
	r.progressFn = fn
}

// SetEventCallback registers the event listener
func (r *Runner) SetEventCallback(fn model.EventFunc) {
	r.eventFn = fn
}

// Execute runs the agent through the full envelope. The returned
// response always has ProcessingTime set to the measured wall-clock
// duration; on unrecoverable failure it is a synthesized failure
// response, never a raw error.
func (r *Runner) Execute(ctx context.Context, input model.State) *model.AgentResponse {
	start := time.Now()

	r.updateProgress(0, "starting", "Initializing agent")
	r.emit("agent_started", map[string]interface{}{
		"input_data_keys": input.Keys(),
		"max_retries":     r.config.MaxRetries,
		"timeout":         r.config.Timeout.String(),
	})

	r.updateProgress(10, "processing", "Executing main task")

	ctx = withProgress(ctx, r.updateProgress)
	result, err := r.executeWithRetry(ctx, input)
	processingTime := time.Since(start).Seconds()

	if err != nil {
		errMsg := fmt.Sprintf("Agent %s failed: %v", r.config.Name, err)
		log.Printf("❌ %s", errMsg)

		r.emit("agent_failed", map[string]interface{}{
			"error":           errMsg,
			"processing_time": processingTime,
			"stack":           string(debug.Stack()),
		})
		r.updateProgress(100, "failed", fmt.Sprintf("Error: %v", err))

		return &model.AgentResponse{
			Success:        false,
			Data:           map[string]interface{}{},
			Reasoning:      []string{},
			Errors:         []string{errMsg},
			ProcessingTime: processingTime,
			Metadata: map[string]interface{}{
				"agent_name":     r.config.Name,
				"failure_reason": err.Error(),
			},
		}
	}

	r.updateProgress(90, "finalizing", "Preparing response")
	result.ProcessingTime = processingTime
	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}
	if _, ok := result.Metadata["agent_name"]; !ok {
		result.Metadata["agent_name"] = r.config.Name
	}

	r.emit("agent_completed", map[string]interface{}{
		"processing_time": processingTime,
		"success":         result.Success,
	})
	r.updateProgress(100, "completed", "Task finished successfully")

	return result
}

// Status returns the latest progress snapshot
func (r *Runner) Status() model.AgentStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.AgentStatus{
		Name:        r.config.Name,
		Progress:    r.progress,
		Status:      r.status,
		CurrentStep: r.currentStep,
	}
}

func (r *Runner) updateProgress(progress int, status, currentStep string) {
	r.mu.Lock()
	r.progress = progress
	r.status = status
	r.currentStep = currentStep
	r.mu.Unlock()

	if r.progressFn != nil {
		r.progressFn(r.config.Name, progress, status, currentStep)
	}
}

func (r *Runner) emit(eventType string, data map[string]interface{}) {
	if r.eventFn != nil {
		r.eventFn(r.config.Name, eventType, data, time.Now().UTC().Format(time.RFC3339))
	}
}
