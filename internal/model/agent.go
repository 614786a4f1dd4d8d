package model

import "time"

// AgentConfig holds per-agent settings, fixed at construction
type AgentConfig struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	MaxRetries       int           `json:"max_retries"` // total attempts, >= 1
	Timeout          time.Duration `json:"timeout"`     // per attempt
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	ReasoningEnabled bool          `json:"reasoning_enabled"`
}

// AgentResponse is the uniform result envelope every agent returns.
// When Success is false, Data is empty and Errors is non-empty.
type AgentResponse struct {
	Success        bool                   `json:"success"`
	Data           map[string]interface{} `json:"data"`
	Reasoning      []string               `json:"reasoning"` // chain of thought steps
	Errors         []string               `json:"errors"`
	ProcessingTime float64                `json:"processing_time"` // seconds, wall clock
	Metadata       map[string]interface{} `json:"metadata"`
}

// AgentStatus is the latest progress snapshot for a running agent
type AgentStatus struct {
	Name        string `json:"name"`
	Progress    int    `json:"progress"` // 0-100
	Status      string `json:"status"`
	CurrentStep string `json:"current_step"`
}

// ProgressFunc receives progress updates from an executing agent
type ProgressFunc func(agentName string, progress int, status string, currentStep string)

// EventFunc receives fire-and-forget agent events
type EventFunc func(agentName string, eventType string, data map[string]interface{}, timestamp string)

// PipelineEvent is a fire-and-forget notification with no delivery guarantee
type PipelineEvent struct {
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"timestamp"` // ISO8601
}
