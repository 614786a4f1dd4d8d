package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// SEOOptimizerAgent is the fourth pipeline stage. It produces the
// technical SEO assets for the planned article: meta tags, URL slug,
// schema markup and featured-snippet targets.
type SEOOptimizerAgent struct {
	gemini service.Generator
	config model.AgentConfig
}

// NewSEOOptimizerAgent creates the SEO optimization agent
func NewSEOOptimizerAgent(gemini service.Generator) *SEOOptimizerAgent {
	return &SEOOptimizerAgent{
		gemini: gemini,
		config: model.AgentConfig{
			Name:             "seo_optimizer",
			Description:      "Generates meta tags, schema markup and snippet targets",
			MaxRetries:       3,
			Timeout:          120 * time.Second,
			Temperature:      0.4,
			MaxTokens:        2048,
			ReasoningEnabled: true,
		},
	}
}

// Name implements Agent
func (a *SEOOptimizerAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *SEOOptimizerAgent) OutputKey() string { return "seo_optimization" }

// Config returns the agent's execution config
func (a *SEOOptimizerAgent) Config() model.AgentConfig { return a.config }

// Process generates meta assets, then structured-data and snippet advice
func (a *SEOOptimizerAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	productName := input.GetString("product_name")
	primaries := primaryKeywordsFrom(input)
	outline := outlineFrom(input)

	var allReasoning []string
	seoData := map[string]interface{}{}

	// 1. Meta optimization
	ReportProgress(ctx, 25, "processing", "Generating meta tags")
	metaPrompt := fmt.Sprintf(`Generate SEO meta assets for an article about %s.

Primary keywords: %s
Article outline:
%s

Deliver:
1. Three title tag options (max 60 characters, keyword near the front)
2. Three meta descriptions (max 155 characters, with call-to-action)
3. A URL slug (lowercase, hyphens, primary keyword)
4. Open Graph title and description`,
		productName, joinKeywords(primaries), outline)

	meta, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a technical SEO specialist writing meta assets.", metaPrompt,
		"Crafting title tags and meta descriptions under length limits")
	if err != nil {
		return nil, fmt.Errorf("meta optimization failed: %w", err)
	}
	seoData["meta_optimization"] = map[string]interface{}{
		"meta_assets": meta.Response,
		"confidence":  meta.Confidence,
	}
	allReasoning = append(allReasoning, meta.Steps...)

	// 2. Schema markup and featured snippets
	ReportProgress(ctx, 65, "processing", "Planning schema and snippets")
	schemaPrompt := fmt.Sprintf(`For the same article about %s with keywords [%s]:

1. Recommend the JSON-LD schema types to embed (Article, FAQPage, Product where applicable)
   and sketch the JSON-LD for the most important one.
2. Identify 3 featured-snippet opportunities (paragraph, list or table) among the keywords
   and specify the exact content format each needs.`,
		productName, joinKeywords(primaries))

	schema, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a structured-data and SERP-features expert.", schemaPrompt,
		"Selecting schema types and snippet formats for the target queries")
	if err != nil {
		return nil, fmt.Errorf("schema planning failed: %w", err)
	}
	seoData["schema_markup"] = map[string]interface{}{
		"schema":     schema.Response,
		"confidence": schema.Confidence,
	}
	allReasoning = append(allReasoning, schema.Steps...)

	ReportProgress(ctx, 90, "processing", "Finalizing SEO package")
	avgConfidence := (meta.Confidence + schema.Confidence) / 2
	seoData["seo_summary"] = map[string]interface{}{
		"optimization_completed": true,
		"primary_keywords":       primaries,
		"avg_confidence":         avgConfidence,
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      seoData,
		Reasoning: allReasoning,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"confidence": avgConfidence,
		},
	}, nil
}

// outlineFrom pulls the planner's outline text, or a neutral line when
// the planner stage was lost
func outlineFrom(input model.State) string {
	if plan := input.GetMap("content_plan"); plan != nil {
		if section, ok := plan["content_outline"].(map[string]interface{}); ok {
			if text, ok := section["outline"].(string); ok && text != "" {
				return text
			}
		}
	}
	return "No outline available; use a standard review-article structure."
}
