package store

import "github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"

// PipelineStore adapts the package-level persistence functions to the
// orchestrator's RunStore interface
type PipelineStore struct{}

// NewPipelineStore returns the adapter; InitDB must have been called
func NewPipelineStore() *PipelineStore {
	return &PipelineStore{}
}

func (s *PipelineStore) SaveRun(runID string, request model.PipelineRequest, status model.PipelineStatus) error {
	return SaveRun(runID, request, status)
}

func (s *PipelineStore) UpdateRunStatus(runID string, status model.PipelineStatus) error {
	return UpdateRunStatus(runID, status)
}

func (s *PipelineStore) SaveRunError(runID, agent, message string) error {
	return SaveRunError(runID, agent, message)
}

func (s *PipelineStore) SaveRunEvent(runID string, event model.PipelineEvent) error {
	return SaveRunEvent(runID, event)
}

func (s *PipelineStore) SaveAgentResult(runID, agent string, response *model.AgentResponse) error {
	return SaveAgentResult(runID, agent, response)
}
