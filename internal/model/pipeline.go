package model

// PipelineStatus is the lifecycle state of a pipeline run
type PipelineStatus string

const (
	StatusPending   PipelineStatus = "pending"
	StatusRunning   PipelineStatus = "running"
	StatusCompleted PipelineStatus = "completed"
	StatusFailed    PipelineStatus = "failed"
	StatusCancelled PipelineStatus = "cancelled"
)

// PipelineRequest is the input for POST /api/v1/runs and the CLI
type PipelineRequest struct {
	ProductName      string   `json:"product_name"`
	Niche            string   `json:"niche"`
	TargetAudience   string   `json:"target_audience"`
	TargetKeywords   []string `json:"target_keywords"`
	ContentLength    string   `json:"content_length"` // e.g. "2000-2500 words"
	Budget           float64  `json:"budget"`
	PublishStatus    string   `json:"publish_status"` // draft or publish
	SkipQualityCheck bool     `json:"skip_quality_check"`
	SkipPublishing   bool     `json:"skip_publishing"`
}

// ProcessingSummary enumerates per-run outcomes.
// It is attached to every run result, including partial successes.
type ProcessingSummary struct {
	TotalAgents      int      `json:"total_agents"`
	SuccessfulAgents int      `json:"successful_agents"`
	FailedAgents     int      `json:"failed_agents"`
	ProcessingTime   float64  `json:"processing_time"` // seconds
	Errors           []string `json:"errors"`
}

// PipelineResult is the final output of one pipeline run
type PipelineResult struct {
	RunID   string                    `json:"run_id"`
	Status  PipelineStatus            `json:"status"`
	Output  map[string]interface{}    `json:"output"`
	Results map[string]*AgentResponse `json:"results"`
	Summary ProcessingSummary         `json:"processing_summary"`
}
