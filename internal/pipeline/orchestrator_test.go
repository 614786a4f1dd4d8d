package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/agent"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/pipeline"
)

// fakeAgent is a scriptable pipeline stage
type fakeAgent struct {
	name      string
	outputKey string
	process   func(ctx context.Context, input model.State) (*model.AgentResponse, error)
}

func (f *fakeAgent) Name() string      { return f.name }
func (f *fakeAgent) OutputKey() string { return f.outputKey }
func (f *fakeAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	return f.process(ctx, input)
}

func succeeding(name string, data map[string]interface{}) *fakeAgent {
	return &fakeAgent{
		name:      name,
		outputKey: name,
		process: func(ctx context.Context, input model.State) (*model.AgentResponse, error) {
			return &model.AgentResponse{Success: true, Data: data, Errors: []string{}}, nil
		},
	}
}

func failing(name string) *fakeAgent {
	return &fakeAgent{
		name:      name,
		outputKey: name,
		process: func(ctx context.Context, input model.State) (*model.AgentResponse, error) {
			return nil, errors.New("stage exploded")
		},
	}
}

func runnersFor(agents ...agent.Agent) []*agent.Runner {
	runners := make([]*agent.Runner, 0, len(agents))
	for _, a := range agents {
		runners = append(runners, agent.NewRunner(a, model.AgentConfig{MaxRetries: 1, Timeout: time.Second}))
	}
	return runners
}

// memoryStore records everything the orchestrator persists
type memoryStore struct {
	mu       sync.Mutex
	statuses []model.PipelineStatus
	errors   []string
	events   []model.PipelineEvent
	results  map[string]*model.AgentResponse
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: map[string]*model.AgentResponse{}}
}

func (m *memoryStore) SaveRun(runID string, request model.PipelineRequest, status model.PipelineStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memoryStore) UpdateRunStatus(runID string, status model.PipelineStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memoryStore) SaveRunError(runID, agentName, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, agentName+": "+message)
	return nil
}

func (m *memoryStore) SaveRunEvent(runID string, event model.PipelineEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryStore) SaveAgentResult(runID, agentName string, response *model.AgentResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[agentName] = response
	return nil
}

func testRequest() model.PipelineRequest {
	return model.PipelineRequest{
		ProductName:    "Widget",
		Niche:          "widgets",
		TargetAudience: "makers",
		TargetKeywords: []string{"widget"},
	}
}

func TestOrchestratorAllSucceed(t *testing.T) {
	runners := runnersFor(
		succeeding("first", map[string]interface{}{"a": 1}),
		succeeding("second", map[string]interface{}{"b": 2}),
	)
	o := pipeline.NewOrchestrator(runners, nil, nil)

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Summary.SuccessfulAgents)
	assert.Equal(t, 0, result.Summary.FailedAgents)
	assert.Empty(t, result.Summary.Errors)

	// Each output lands under its agent's key
	first := result.Output["first"].(map[string]interface{})
	assert.Equal(t, 1, first["a"])
	second := result.Output["second"].(map[string]interface{})
	assert.Equal(t, 2, second["b"])
	// The seed request fields survive in the output
	assert.Equal(t, "Widget", result.Output["product_name"])
}

func TestOrchestratorPartialFailureContinues(t *testing.T) {
	runners := runnersFor(
		succeeding("first", map[string]interface{}{"a": 1}),
		failing("second"),
		succeeding("third", map[string]interface{}{"c": 3}),
	)
	store := newMemoryStore()
	o := pipeline.NewOrchestrator(runners, nil, store)

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Summary.SuccessfulAgents)
	assert.Equal(t, 1, result.Summary.FailedAgents)
	require.Len(t, result.Summary.Errors, 1)
	assert.Contains(t, result.Summary.Errors[0], "second")

	// The failed stage contributes nothing to the accumulated output
	assert.NotContains(t, result.Output, "second")
	assert.Contains(t, result.Output, "third")

	// Failure was persisted
	require.Len(t, store.errors, 1)
	assert.Contains(t, store.errors[0], "second")
	require.False(t, store.results["second"].Success)
	assert.Equal(t, model.StatusCompleted, store.statuses[len(store.statuses)-1])
}

func TestOrchestratorAllFail(t *testing.T) {
	runners := runnersFor(failing("only"))
	o := pipeline.NewOrchestrator(runners, nil, nil)

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, 0, result.Summary.SuccessfulAgents)
	assert.NotEmpty(t, result.Summary.Errors)
}

func TestOrchestratorNoAgents(t *testing.T) {
	o := pipeline.NewOrchestrator(nil, nil, nil)
	_, err := o.Run(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestOrchestratorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel once the first stage has fully completed
	bus := pipeline.NewEventBus()
	bus.SubscribeFunc(func(event model.PipelineEvent) {
		if event.EventType == "agent_completed" {
			cancel()
		}
	})

	runners := runnersFor(
		succeeding("first", map[string]interface{}{"a": 1}),
		failing("never-reached"),
	)
	o := pipeline.NewOrchestrator(runners, bus, nil)

	result, err := o.Run(ctx, testRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, result.Status)
	assert.Contains(t, result.Results, "first")
	assert.NotContains(t, result.Results, "never-reached")
}

func TestOrchestratorPanicIsolated(t *testing.T) {
	panicking := &fakeAgent{
		name:      "panicky",
		outputKey: "panicky",
		process: func(ctx context.Context, input model.State) (*model.AgentResponse, error) {
			panic("agent bug")
		},
	}
	runners := runnersFor(panicking, succeeding("after", map[string]interface{}{"ok": true}))
	o := pipeline.NewOrchestrator(runners, nil, nil)

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Contains(t, result.Output, "after")
	require.Contains(t, result.Results, "panicky")
	assert.False(t, result.Results["panicky"].Success)
}

func TestOrchestratorEventFlow(t *testing.T) {
	bus := pipeline.NewEventBus()
	var mu sync.Mutex
	var types []string
	bus.SubscribeFunc(func(event model.PipelineEvent) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, event.EventType)
	})

	runners := runnersFor(succeeding("solo", map[string]interface{}{}))
	o := pipeline.NewOrchestrator(runners, bus, nil)

	_, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "pipeline_started", types[0])
	assert.Contains(t, types, "agent_started")
	assert.Contains(t, types, "agent_completed")
	assert.Equal(t, "pipeline_completed", types[len(types)-1])
}

func TestEventBusPanicRecovery(t *testing.T) {
	bus := pipeline.NewEventBus()
	bus.SubscribeFunc(func(event model.PipelineEvent) {
		panic("observer bug")
	})
	delivered := false
	bus.SubscribeFunc(func(event model.PipelineEvent) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		bus.Publish(model.PipelineEvent{EventType: "test"})
	})
	assert.True(t, delivered)
}

func TestBuildRunnersSkipFlags(t *testing.T) {
	services := pipeline.Services{}

	all := pipeline.BuildRunners(model.PipelineRequest{}, services, pipeline.Options{})
	// No publisher wired, so publishing drops out even when not skipped
	assert.Len(t, all, 6)

	trimmed := pipeline.BuildRunners(model.PipelineRequest{SkipQualityCheck: true, SkipPublishing: true}, services, pipeline.Options{})
	assert.Len(t, trimmed, 5)

	names := map[string]bool{}
	for _, r := range trimmed {
		names[r.Config().Name] = true
	}
	assert.False(t, names["quality_checker"])
	assert.False(t, names["publisher"])
	assert.True(t, names["content_writer"])
}

func TestBuildRunnersOptionOverrides(t *testing.T) {
	opts := pipeline.Options{
		MaxRetries:    5,
		AgentTimeout:  10 * time.Second,
		WriterTimeout: 99 * time.Second,
	}
	runners := pipeline.BuildRunners(model.PipelineRequest{SkipPublishing: true}, pipeline.Services{}, opts)

	for _, r := range runners {
		config := r.Config()
		assert.Equal(t, 5, config.MaxRetries, config.Name)
		if config.Name == "content_writer" {
			assert.Equal(t, 99*time.Second, config.Timeout)
		} else {
			assert.Equal(t, 10*time.Second, config.Timeout)
		}
	}
}
