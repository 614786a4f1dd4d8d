package metrics

import (
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/utils"
)

// EventSubscriber returns a pipeline event subscriber that feeds the
// Prometheus collectors. Subscribe it to the run's event bus.
func EventSubscriber() func(event model.PipelineEvent) {
	return func(event model.PipelineEvent) {
		switch event.EventType {
		case "agent_completed":
			agent, _ := event.Data["agent"].(string)
			seconds, _ := utils.Numeric(event.Data["processing_time"])
			ObserveAgent(agent, true, seconds)
		case "agent_failed":
			agent, _ := event.Data["agent"].(string)
			seconds, _ := utils.Numeric(event.Data["processing_time"])
			ObserveAgent(agent, false, seconds)
		case "pipeline_completed":
			status, _ := event.Data["status"].(string)
			ObserveRun(status)
		}
	}
}
