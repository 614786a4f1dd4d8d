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

// ContentWriterAgent is the fifth pipeline stage and the critical one:
// it writes the actual article section by section, then assembles the
// final draft. Its timeout is configured longer than the other agents
// because long-form generation dominates pipeline wall time.
type ContentWriterAgent struct {
	gemini service.Generator
	config model.AgentConfig
}

// NewContentWriterAgent creates the content writing agent
func NewContentWriterAgent(gemini service.Generator) *ContentWriterAgent {
	return &ContentWriterAgent{
		gemini: gemini,
		config: model.AgentConfig{
			Name:             "content_writer",
			Description:      "Writes the article section by section and assembles the draft",
			MaxRetries:       3,
			Timeout:          300 * time.Second,
			Temperature:      0.8,
			MaxTokens:        8192,
			ReasoningEnabled: true,
		},
	}
}

// Name implements Agent
func (a *ContentWriterAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *ContentWriterAgent) OutputKey() string { return "content_writing" }

// Config returns the agent's execution config
func (a *ContentWriterAgent) Config() model.AgentConfig { return a.config }

// Process writes introduction, body, conclusion and FAQ, then stitches
// the final article together
func (a *ContentWriterAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	productName := input.GetString("product_name")
	primaries := primaryKeywordsFrom(input)
	outline := outlineFrom(input)
	placement := placementFrom(input)

	targetWords := targetWordCount(input.GetString("content_length"))

	var allReasoning []string
	writingData := map[string]interface{}{}
	var confidences []float64

	sections := []struct {
		progress int
		step     string
		key      string
		prompt   string
	}{
		{
			20, "Writing introduction", "introduction",
			fmt.Sprintf(`Write the introduction (120-180 words) for a blog article about %s.
Hook the reader in the first sentence, name the main problem the article solves,
and naturally include the primary keyword "%s" in the first paragraph.`,
				productName, first(primaries)),
		},
		{
			50, "Writing main content", "main_content",
			fmt.Sprintf(`Write the main body of the article (target %d words total) about %s,
following this outline:

%s

Keyword placement plan:
%s

Use markdown with ## and ### headers matching the outline. Write in a
confident, practical voice for %s. Include concrete examples and comparisons.`,
				targetWords, productName, outline, placement, input.GetString("target_audience")),
		},
		{
			70, "Writing conclusion", "conclusion",
			fmt.Sprintf(`Write the conclusion (100-150 words) for the article about %s.
Summarize the key takeaways and end with a clear call to action.`, productName),
		},
		{
			80, "Writing FAQ section", "faq_section",
			fmt.Sprintf(`Write a FAQ section with 4-5 questions and answers about %s.
Base the questions on what searchers of [%s] actually ask.
Format each as "### Question" followed by a 2-3 sentence answer.`,
				productName, joinKeywords(primaries)),
		},
	}

	for _, s := range sections {
		ReportProgress(ctx, s.progress, "processing", s.step)
		reasoning, err := generateWithReasoning(ctx, a.gemini, a.config,
			"You are a professional blog writer producing publication-ready copy.",
			s.prompt, "Writing the "+s.key+" of the article")
		if err != nil {
			return nil, fmt.Errorf("%s writing failed: %w", s.key, err)
		}
		writingData[s.key] = map[string]interface{}{
			"content":    reasoning.Response,
			"word_count": utils.WordCount(reasoning.Response),
			"confidence": reasoning.Confidence,
		}
		allReasoning = append(allReasoning, reasoning.Steps...)
		confidences = append(confidences, reasoning.Confidence)
	}

	// Assemble the final draft in reading order
	ReportProgress(ctx, 90, "processing", "Assembling final article")
	var b strings.Builder
	for i, key := range []string{"introduction", "main_content", "conclusion", "faq_section"} {
		section := writingData[key].(map[string]interface{})
		if i > 0 {
			b.WriteString("\n\n")
		}
		if key == "faq_section" {
			b.WriteString("## Frequently Asked Questions\n\n")
		}
		b.WriteString(section["content"].(string))
	}
	article := b.String()
	totalWords := utils.WordCount(article)

	avgConfidence := 70.0
	if len(confidences) > 0 {
		var sum float64
		for _, c := range confidences {
			sum += c
		}
		avgConfidence = sum / float64(len(confidences))
	}

	writingData["final_article"] = map[string]interface{}{
		"content":    article,
		"word_count": totalWords,
	}
	writingData["writing_summary"] = map[string]interface{}{
		"writing_completed": true,
		"total_word_count":  totalWords,
		"target_word_count": targetWords,
		"sections_written":  len(sections),
		"avg_confidence":    avgConfidence,
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      writingData,
		Reasoning: allReasoning,
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"confidence": avgConfidence,
			"word_count": totalWords,
		},
	}, nil
}

// placementFrom pulls the planner's keyword placement text
func placementFrom(input model.State) string {
	if plan := input.GetMap("content_plan"); plan != nil {
		if section, ok := plan["keyword_placement"].(map[string]interface{}); ok {
			if text, ok := section["placement"].(string); ok && text != "" {
				return text
			}
		}
	}
	return "Place the primary keyword in the first paragraph and major headers; keep density natural."
}

// targetWordCount maps the requested content length to a word target
func targetWordCount(length string) int {
	switch strings.ToLower(length) {
	case "short":
		return 800
	case "long":
		return 2500
	default:
		return 1500
	}
}

func first(items []string) string {
	if len(items) > 0 {
		return items[0]
	}
	return ""
}
