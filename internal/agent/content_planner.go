package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// ContentPlannerAgent is the third pipeline stage. It turns the market
// research and keyword analysis into a concrete article plan: outline,
// header hierarchy and keyword placement map.
type ContentPlannerAgent struct {
	gemini service.Generator
	config model.AgentConfig
}

// NewContentPlannerAgent creates the content planning agent
func NewContentPlannerAgent(gemini service.Generator) *ContentPlannerAgent {
	return &ContentPlannerAgent{
		gemini: gemini,
		config: model.AgentConfig{
			Name:             "content_planner",
			Description:      "Creates the article outline and keyword placement plan",
			MaxRetries:       3,
			Timeout:          120 * time.Second,
			Temperature:      0.6,
			MaxTokens:        3072,
			ReasoningEnabled: true,
		},
	}
}

// Name implements Agent
func (a *ContentPlannerAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *ContentPlannerAgent) OutputKey() string { return "content_plan" }

// Config returns the agent's execution config
func (a *ContentPlannerAgent) Config() model.AgentConfig { return a.config }

// Process builds the outline, then maps keywords onto it
func (a *ContentPlannerAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	productName := input.GetString("product_name")
	contentLength := input.GetString("content_length")
	if contentLength == "" {
		contentLength = "medium"
	}

	primaries := primaryKeywordsFrom(input)

	var allReasoning []string
	planData := map[string]interface{}{}

	// 1. Article outline grounded in the research
	ReportProgress(ctx, 25, "processing", "Creating content outline")
	outlinePrompt := fmt.Sprintf(`Create a complete blog article outline for %s.

Target length: %s
Primary keywords: %s
Audience: %s

Market research insights to build on:
%s

Deliver:
1. A compelling working title
2. H2/H3 header hierarchy (6-10 sections)
3. One-line purpose for every section
4. Where the FAQ and call-to-action sections belong`,
		productName, contentLength, joinKeywords(primaries),
		input.GetString("target_audience"), researchDigest(input))

	outline, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a senior content strategist planning SEO articles.", outlinePrompt,
		"Structuring the article around the research findings")
	if err != nil {
		return nil, fmt.Errorf("outline planning failed: %w", err)
	}
	planData["content_outline"] = map[string]interface{}{
		"outline":    outline.Response,
		"confidence": outline.Confidence,
	}
	allReasoning = append(allReasoning, outline.Steps...)

	// 2. Keyword placement over the outline
	ReportProgress(ctx, 65, "processing", "Mapping keyword placement")
	placementPrompt := fmt.Sprintf(`Given this article outline:

%s

Map the keywords onto it: for each of [%s] specify which headers and sections
should carry it, the target density, and which keyword belongs in the title,
meta description and first paragraph. Flag any risk of keyword stuffing.`,
		outline.Response, joinKeywords(primaries))

	placement, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are an on-page SEO specialist.", placementPrompt,
		"Distributing keywords across the planned sections")
	if err != nil {
		return nil, fmt.Errorf("keyword placement failed: %w", err)
	}
	planData["keyword_placement"] = map[string]interface{}{
		"placement":  placement.Response,
		"confidence": placement.Confidence,
	}
	allReasoning = append(allReasoning, placement.Steps...)

	ReportProgress(ctx, 90, "processing", "Finalizing content plan")
	avgConfidence := (outline.Confidence + placement.Confidence) / 2
	planData["planning_summary"] = map[string]interface{}{
		"planning_completed": true,
		"target_length":      contentLength,
		"primary_keywords":   primaries,
		"avg_confidence":     avgConfidence,
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      planData,
		Reasoning: allReasoning,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"confidence": avgConfidence,
		},
	}, nil
}

// primaryKeywordsFrom pulls the analyzer's primary selection, falling
// back to the raw target keywords when the analyzer stage was lost
func primaryKeywordsFrom(input model.State) []string {
	if analysis := input.GetMap("keyword_analysis"); analysis != nil {
		if primaries, ok := analysis["primary_keywords"].([]string); ok && len(primaries) > 0 {
			return primaries
		}
		if raw, ok := analysis["primary_keywords"].([]interface{}); ok && len(raw) > 0 {
			out := make([]string, 0, len(raw))
			for _, v := range raw {
				if s, ok := v.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return input.GetStrings("target_keywords")
}

// researchDigest summarizes upstream market research for prompts,
// degrading to a neutral line when that stage failed
func researchDigest(input model.State) string {
	research := input.GetMap("market_research")
	if research == nil {
		return "No market research available; plan from general best practices."
	}
	digest := ""
	for _, key := range []string{"customer_analysis", "selling_points"} {
		if section, ok := research[key].(map[string]interface{}); ok {
			if text, ok := section[key].(string); ok && text != "" {
				digest += text + "\n"
			}
		}
	}
	if digest == "" {
		return "No market research available; plan from general best practices."
	}
	return digest
}
