package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/keyword"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// KeywordAnalyzerAgent is the second pipeline stage. It expands the
// seed keywords, pulls metrics for the expanded set, scores and grades
// every candidate and selects the primary keywords for the article.
type KeywordAnalyzerAgent struct {
	gemini  service.Generator
	metrics service.MetricsProvider
	scorer  *keyword.Scorer
	config  model.AgentConfig
}

// NewKeywordAnalyzerAgent creates the keyword analysis agent
func NewKeywordAnalyzerAgent(gemini service.Generator, metrics service.MetricsProvider) *KeywordAnalyzerAgent {
	return &KeywordAnalyzerAgent{
		gemini:  gemini,
		metrics: metrics,
		scorer:  keyword.NewScorer(),
		config: model.AgentConfig{
			Name:             "keyword_analyzer",
			Description:      "Scores and selects the best keywords for the article",
			MaxRetries:       3,
			Timeout:          120 * time.Second,
			Temperature:      0.4,
			MaxTokens:        2048,
			ReasoningEnabled: true,
		},
	}
}

// Name implements Agent
func (a *KeywordAnalyzerAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *KeywordAnalyzerAgent) OutputKey() string { return "keyword_analysis" }

// Config returns the agent's execution config
func (a *KeywordAnalyzerAgent) Config() model.AgentConfig { return a.config }

// Process expands seeds, scores candidates and selects primaries
func (a *KeywordAnalyzerAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	seeds := input.GetStrings("target_keywords")
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no target keywords in pipeline state")
	}

	// 1. Expand seeds with long-tail variants
	ReportProgress(ctx, 20, "processing", "Expanding seed keywords")
	candidates := expandSeeds(a.metrics, seeds)
	log.Printf("🔑 keyword_analyzer: expanded %d seeds to %d candidates", len(seeds), len(candidates))

	// 2. Pull raw metrics for the candidate set
	ReportProgress(ctx, 40, "processing", "Fetching keyword metrics")
	rawMetrics, err := a.metrics.ResearchKeywords(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("keyword research failed: %w", err)
	}

	// 3. Score and grade every candidate
	ReportProgress(ctx, 60, "processing", "Scoring keywords")
	scores := a.scorer.ScoreAll(rawMetrics)
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scorable keywords among %d candidates", len(rawMetrics))
	}

	// 4. Pick primaries: the top graded keywords, seeds preferred
	ReportProgress(ctx, 75, "processing", "Selecting primary keywords")
	primaries := a.scorer.FilterTop(scores, 3, "C")
	if len(primaries) == 0 {
		primaries = scores[:min(3, len(scores))]
	}

	// 5. LLM intent analysis on the primaries
	ReportProgress(ctx, 85, "processing", "Analyzing search intent")
	primaryNames := make([]string, len(primaries))
	for i, p := range primaries {
		primaryNames[i] = p.Keyword
	}
	intent, err := a.analyzeIntent(ctx, input.GetString("product_name"), primaryNames)
	if err != nil {
		return nil, fmt.Errorf("intent analysis failed: %w", err)
	}

	report := keyword.BuildReport(scores)

	data := map[string]interface{}{
		"seed_keywords":     seeds,
		"scored_keywords":   scores,
		"primary_selection": primaries,
		"primary_keywords":  primaryNames,
		"intent_analysis": map[string]interface{}{
			"analysis":   intent.Response,
			"confidence": intent.Confidence,
		},
		"scoring_report": report,
		"analysis_summary": map[string]interface{}{
			"total_keywords_analyzed": len(scores),
			"primary_count":           len(primaries),
			"best_keyword":            scores[0].Keyword,
			"best_score":              scores[0].TotalScore,
			"best_grade":              scores[0].Grade,
		},
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      data,
		Reasoning: intent.Steps,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"confidence": intent.Confidence,
		},
	}, nil
}

func (a *KeywordAnalyzerAgent) analyzeIntent(ctx context.Context, productName string, keywords []string) (Reasoning, error) {
	prompt := fmt.Sprintf(`Analyze the search intent behind these keywords for an article about %s:

Keywords: %s

For each keyword classify the intent (informational, commercial, transactional, navigational),
describe what the searcher expects to find, and recommend the content angle that satisfies it.`,
		productName, joinKeywords(keywords))

	return generateWithReasoning(ctx, a.gemini, a.config,
		"You are an SEO strategist specializing in search intent analysis.", prompt,
		"Classifying search intent for the selected primary keywords")
}

// expandSeeds merges the seeds with autocomplete-style long-tail
// variants when the provider supports them, deduplicating as it goes
func expandSeeds(metrics service.MetricsProvider, seeds []string) []string {
	type completer interface {
		Autocomplete(keyword string) []string
	}

	seen := make(map[string]bool, len(seeds))
	out := make([]string, 0, len(seeds))
	add := func(kw string) {
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		out = append(out, kw)
	}

	for _, seed := range seeds {
		add(seed)
	}
	if c, ok := metrics.(completer); ok {
		for _, seed := range seeds {
			for _, variant := range c.Autocomplete(seed) {
				add(variant)
			}
		}
	}
	return out
}
