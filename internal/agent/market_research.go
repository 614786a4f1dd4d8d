package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// MarketResearchAgent is the first pipeline stage. It analyzes the
// target audience, market trends and competitors, and identifies the
// product's unique selling points.
type MarketResearchAgent struct {
	gemini service.Generator
	config model.AgentConfig
	tools  *ToolRegistry
}

// NewMarketResearchAgent creates the market research agent
func NewMarketResearchAgent(gemini service.Generator) *MarketResearchAgent {
	a := &MarketResearchAgent{
		gemini: gemini,
		config: model.AgentConfig{
			Name:             "market_research",
			Description:      "Analyzes market, customers, competitors and identifies selling points",
			MaxRetries:       3,
			Timeout:          120 * time.Second,
			Temperature:      0.7,
			MaxTokens:        2048,
			ReasoningEnabled: true,
		},
		tools: NewToolRegistry(),
	}
	a.registerTools()
	return a
}

// Name implements Agent
func (a *MarketResearchAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *MarketResearchAgent) OutputKey() string { return "market_research" }

// Config returns the agent's execution config
func (a *MarketResearchAgent) Config() model.AgentConfig { return a.config }

func (a *MarketResearchAgent) registerTools() {
	a.tools.Register("analyze_target_audience", a.analyzeTargetAudience)
	a.tools.Register("research_market_trends", a.researchMarketTrends)
	a.tools.Register("analyze_competitors", a.analyzeCompetitors)
	a.tools.Register("identify_selling_points", a.identifySellingPoints)
}

func (a *MarketResearchAgent) analyzeTargetAudience(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	prompt := fmt.Sprintf(`You are a professional market researcher analyzing target customers for %s in the %s market.

Target Audience: %s

Provide detailed customer analysis covering:

1. DEMOGRAPHIC PROFILE:
- Age range and gender distribution
- Income levels and spending patterns
- Geographic locations (primary markets)

2. BEHAVIORAL ANALYSIS:
- Shopping behaviors and preferences
- Decision-making factors
- Online vs offline purchasing habits

3. PAIN POINTS & MOTIVATIONS:
- Main problems they face with current solutions
- What motivates their purchase decisions
- Price sensitivity analysis`,
		args["product_name"], args["niche"], args["target_audience"])

	reasoning, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a senior market research analyst.", prompt,
		"Deep dive into target customer segments")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"customer_analysis": reasoning.Response,
		"reasoning":         reasoning.Steps,
		"confidence":        reasoning.Confidence,
	}, nil
}

func (a *MarketResearchAgent) researchMarketTrends(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	prompt := fmt.Sprintf(`Analyze current market trends for the %s niche, focused on %s.

Cover:
1. Growth trends and market size direction
2. Emerging technologies and product innovations
3. Seasonal demand patterns
4. Consumer sentiment shifts over the last 12 months`,
		args["niche"], args["product_name"])

	reasoning, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a market trends analyst with access to industry reports.", prompt,
		"Identifying growth opportunities and demand patterns")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"market_trends": reasoning.Response,
		"reasoning":     reasoning.Steps,
		"confidence":    reasoning.Confidence,
	}, nil
}

func (a *MarketResearchAgent) analyzeCompetitors(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	prompt := fmt.Sprintf(`Perform a competitor analysis for %s in the %s market.

Cover:
1. Main competitor categories and their positioning
2. Common strengths and weaknesses across competitors
3. Pricing strategy comparison
4. Content and SEO gaps competitors leave open`,
		args["product_name"], args["niche"])

	reasoning, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a competitive intelligence specialist.", prompt,
		"Mapping the competitive landscape and its gaps")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"competitor_analysis": reasoning.Response,
		"reasoning":           reasoning.Steps,
		"confidence":          reasoning.Confidence,
	}, nil
}

func (a *MarketResearchAgent) identifySellingPoints(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	prompt := fmt.Sprintf(`Identify unique selling points and value propositions for %s targeting %s in the %s niche.

Cover:
1. Top 5 unique selling points ranked by conversion potential
2. Emotional vs rational purchase drivers
3. Differentiators against the competition
4. Messaging angles for blog content`,
		args["product_name"], args["target_audience"], args["niche"])

	reasoning, err := generateWithReasoning(ctx, a.gemini, a.config,
		"You are a product marketing strategist focused on conversion optimization.", prompt,
		"Identifying unique selling points and value propositions")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"selling_points": reasoning.Response,
		"reasoning":      reasoning.Steps,
		"confidence":     reasoning.Confidence,
	}, nil
}

// Process runs the four research tools in sequence and synthesizes a
// research summary with the averaged confidence
func (a *MarketResearchAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	ReportProgress(ctx, 5, "processing", "Starting market research analysis")

	args := map[string]interface{}{
		"product_name":    input.GetString("product_name"),
		"niche":           input.GetString("niche"),
		"target_audience": input.GetString("target_audience"),
	}

	var allReasoning []string
	marketData := map[string]interface{}{}
	var confidences []float64

	steps := []struct {
		progress int
		step     string
		tool     string
		dataKey  string
	}{
		{20, "Analyzing target customers", "analyze_target_audience", "customer_analysis"},
		{40, "Researching market trends", "research_market_trends", "market_trends"},
		{60, "Analyzing competitors", "analyze_competitors", "competitor_analysis"},
		{80, "Identifying selling points", "identify_selling_points", "selling_points"},
	}

	for _, s := range steps {
		ReportProgress(ctx, s.progress, "processing", s.step)
		result, err := a.tools.Invoke(ctx, s.tool, args)
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w", s.tool, err)
		}
		section := result.(map[string]interface{})
		marketData[s.dataKey] = section
		if stepsList, ok := section["reasoning"].([]string); ok {
			allReasoning = append(allReasoning, stepsList...)
		}
		if c, ok := section["confidence"].(float64); ok {
			confidences = append(confidences, c)
		}
	}

	ReportProgress(ctx, 90, "processing", "Synthesizing market insights")

	avgConfidence := 70.0
	if len(confidences) > 0 {
		var sum float64
		for _, c := range confidences {
			sum += c
		}
		avgConfidence = sum / float64(len(confidences))
	}

	marketData["market_research_summary"] = map[string]interface{}{
		"research_completed": true,
		"analysis_areas":     len(steps),
		"avg_confidence":     avgConfidence,
		"research_timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      marketData,
		Reasoning: allReasoning,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name":     a.config.Name,
			"confidence":     avgConfidence,
			"analysis_areas": len(steps),
			"total_insights": len(allReasoning),
		},
	}, nil
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}
