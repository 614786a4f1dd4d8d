package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/utils"
)

// QualityCheckerAgent is the sixth pipeline stage. It reviews the
// written article for quality, SEO compliance and readability, and
// produces a pass/fail verdict with concrete fixes.
type QualityCheckerAgent struct {
	gemini service.Generator
	config model.AgentConfig
}

// NewQualityCheckerAgent creates the quality check agent
func NewQualityCheckerAgent(gemini service.Generator) *QualityCheckerAgent {
	return &QualityCheckerAgent{
		gemini: gemini,
		config: model.AgentConfig{
			Name:             "quality_checker",
			Description:      "Reviews the article for quality, SEO compliance and readability",
			MaxRetries:       3,
			Timeout:          120 * time.Second,
			Temperature:      0.3,
			MaxTokens:        2048,
			ReasoningEnabled: true,
		},
	}
}

// Name implements Agent
func (a *QualityCheckerAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *QualityCheckerAgent) OutputKey() string { return "quality_check" }

// Config returns the agent's execution config
func (a *QualityCheckerAgent) Config() model.AgentConfig { return a.config }

// Process runs mechanical checks first, then the LLM review
func (a *QualityCheckerAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	article := articleFrom(input)
	if article == "" {
		return nil, fmt.Errorf("no article in pipeline state to review")
	}
	primaries := primaryKeywordsFrom(input)

	// 1. Mechanical checks that need no LLM call
	ReportProgress(ctx, 20, "processing", "Running mechanical checks")
	mechanical := mechanicalChecks(article, primaries)

	// 2. LLM review of quality and SEO compliance
	ReportProgress(ctx, 55, "processing", "Reviewing content quality")
	reviewPrompt := fmt.Sprintf(`Review this article draft for publication readiness.

Primary keywords: %s

Article:
%s

Score each area 0-100 and justify briefly:
1. Content quality (accuracy, depth, usefulness)
2. SEO compliance (keyword usage, header structure, meta-readiness)
3. Readability (sentence length, flow, formatting)
4. Engagement (hooks, examples, calls to action)

Then give an overall score 0-100 and list the top 3 concrete fixes.
End the RESPONSE section with a line "VERDICT: PASS" or "VERDICT: FAIL"
(fail when the overall score is below 60).`,
		joinKeywords(primaries), utils.Truncate(article, 12000))

	review, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a demanding managing editor reviewing drafts before publication.", reviewPrompt,
		"Scoring the draft across quality, SEO, readability and engagement")
	if err != nil {
		return nil, fmt.Errorf("quality review failed: %w", err)
	}

	passed := !strings.Contains(review.Response, "VERDICT: FAIL")

	ReportProgress(ctx, 90, "processing", "Compiling quality report")
	data := map[string]interface{}{
		"mechanical_checks": mechanical,
		"editorial_review": map[string]interface{}{
			"review":     review.Response,
			"confidence": review.Confidence,
		},
		"quality_summary": map[string]interface{}{
			"check_completed": true,
			"passed":          passed,
			"word_count":      mechanical["word_count"],
			"avg_confidence":  review.Confidence,
		},
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      data,
		Reasoning: review.Steps,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"confidence": review.Confidence,
			"passed":     passed,
		},
	}, nil
}

// mechanicalChecks computes the deterministic checks: length, keyword
// presence and header structure
func mechanicalChecks(article string, primaries []string) map[string]interface{} {
	lower := strings.ToLower(article)

	missing := []string{}
	for _, kw := range primaries {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}

	headerCount := 0
	for _, line := range strings.Split(article, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			headerCount++
		}
	}

	words := utils.WordCount(article)
	return map[string]interface{}{
		"word_count":       words,
		"header_count":     headerCount,
		"missing_keywords": missing,
		"length_ok":        words >= 500,
		"keywords_ok":      len(missing) == 0,
		"structure_ok":     headerCount >= 3,
	}
}

// articleFrom pulls the writer's final article text
func articleFrom(input model.State) string {
	if writing := input.GetMap("content_writing"); writing != nil {
		if final, ok := writing["final_article"].(map[string]interface{}); ok {
			if text, ok := final["content"].(string); ok {
				return text
			}
		}
	}
	return ""
}
