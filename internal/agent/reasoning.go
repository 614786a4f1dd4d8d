package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

// Reasoning is a structured model response: the final answer, the
// chain-of-thought steps that led to it and a self-reported confidence.
type Reasoning struct {
	Response   string   `json:"response"`
	Steps      []string `json:"reasoning_steps"`
	Confidence float64  `json:"confidence"`
}

// Extractor turns a raw model reply into a structured Reasoning. The
// default implementation understands the REASONING/RESPONSE/CONFIDENCE
// convention; callers can swap in format-specific extractors.
type Extractor func(raw string) Reasoning

// BuildReasoningPrompt wraps a task prompt with the chain-of-thought
// instructions that make the reply parseable by ParseReasoning
func BuildReasoningPrompt(systemPrompt, userPrompt, reasoningContext string) string {
	return fmt.Sprintf(`%s

IMPORTANT: Use chain of thought reasoning. Break down your thinking into clear steps.

Context from previous reasoning:
%s

Task: %s

Please structure your response as follows:
REASONING:
1. [First step of your thinking]
2. [Second step of your thinking]
3. [Continue step by step]

RESPONSE:
[Your final response/output]

CONFIDENCE: [Your confidence level 0-100]
`, systemPrompt, reasoningContext, userPrompt)
}

// ParseReasoning extracts the structured sections from a raw reply.
// Malformed replies degrade instead of failing: a reply without the
// REASONING marker comes back whole at confidence 70, one with the
// marker but no RESPONSE section at confidence 60.
func ParseReasoning(raw string) Reasoning {
	_, after, found := strings.Cut(raw, "REASONING:")
	if !found {
		return Reasoning{
			Response:   strings.TrimSpace(raw),
			Steps:      []string{"Direct response without structured reasoning"},
			Confidence: 70,
		}
	}

	reasoningPart, after, found := strings.Cut(after, "RESPONSE:")
	if !found {
		return Reasoning{
			Response:   strings.TrimSpace(raw),
			Steps:      []string{"Parsing failed, using raw response"},
			Confidence: 60,
		}
	}

	responsePart, confidencePart, hasConfidence := strings.Cut(after, "CONFIDENCE:")

	var steps []string
	for _, line := range strings.Split(reasoningPart, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if (line[0] >= '1' && line[0] <= '9') || line[0] == '-' {
			steps = append(steps, line)
		}
	}

	confidence := 80.0
	if hasConfidence {
		if v, err := strconv.ParseFloat(digitsOf(confidencePart), 64); err == nil {
			confidence = min(v, 100)
		}
	}

	return Reasoning{
		Response:   strings.TrimSpace(responsePart),
		Steps:      steps,
		Confidence: confidence,
	}
}

// digitsOf keeps only the digit characters of s
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generateWithReasoning runs one Generator call wrapped in the
// chain-of-thought protocol. When reasoning is disabled the raw prompt
// goes through untouched and the reply gets a flat confidence of 85.
func generateWithReasoning(ctx context.Context, gen service.Generator, config model.AgentConfig, systemPrompt, userPrompt, reasoningContext string) (Reasoning, error) {
	if !config.ReasoningEnabled {
		raw, err := gen.GenerateContent(ctx, systemPrompt+"\n\n"+userPrompt, config.Temperature, config.MaxTokens)
		if err != nil {
			return Reasoning{}, err
		}
		return Reasoning{Response: raw, Steps: []string{}, Confidence: 85}, nil
	}

	prompt := BuildReasoningPrompt(systemPrompt, userPrompt, reasoningContext)
	raw, err := gen.GenerateContent(ctx, prompt, config.Temperature, config.MaxTokens)
	if err != nil {
		return Reasoning{}, err
	}
	return ParseReasoning(raw), nil
}
