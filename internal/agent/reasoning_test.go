package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// stubGenerator returns a canned reply and records the prompt it saw
type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestParseReasoningStructured(t *testing.T) {
	raw := `Some preamble the model added.
REASONING:
1. Looked at the market first
2. Compared the three main competitors
- Noted the pricing gap
RESPONSE:
The product should lead with its price advantage.
CONFIDENCE: 92`

	got := ParseReasoning(raw)

	assert.Equal(t, "The product should lead with its price advantage.", got.Response)
	assert.Equal(t, []string{
		"1. Looked at the market first",
		"2. Compared the three main competitors",
		"- Noted the pricing gap",
	}, got.Steps)
	assert.Equal(t, 92.0, got.Confidence)
}

func TestParseReasoningConfidenceHandling(t *testing.T) {
	t.Run("missing confidence defaults to 80", func(t *testing.T) {
		raw := "REASONING:\n1. step\nRESPONSE:\nanswer"
		got := ParseReasoning(raw)
		assert.Equal(t, "answer", got.Response)
		assert.Equal(t, 80.0, got.Confidence)
	})

	t.Run("confidence caps at 100", func(t *testing.T) {
		raw := "REASONING:\n1. step\nRESPONSE:\nanswer\nCONFIDENCE: 250"
		got := ParseReasoning(raw)
		assert.Equal(t, 100.0, got.Confidence)
	})

	t.Run("non-numeric confidence defaults to 80", func(t *testing.T) {
		raw := "REASONING:\n1. step\nRESPONSE:\nanswer\nCONFIDENCE: very high"
		got := ParseReasoning(raw)
		assert.Equal(t, 80.0, got.Confidence)
	})
}

func TestParseReasoningFallbacks(t *testing.T) {
	t.Run("no structure at all", func(t *testing.T) {
		got := ParseReasoning("Just a plain answer with no sections.")
		assert.Equal(t, "Just a plain answer with no sections.", got.Response)
		assert.Equal(t, 70.0, got.Confidence)
		require.Len(t, got.Steps, 1)
	})

	t.Run("reasoning marker without response section", func(t *testing.T) {
		raw := "REASONING:\n1. thought about it but never answered"
		got := ParseReasoning(raw)
		assert.Equal(t, raw, got.Response)
		assert.Equal(t, 60.0, got.Confidence)
	})
}

func TestBuildReasoningPrompt(t *testing.T) {
	prompt := BuildReasoningPrompt("system text", "user task", "previous context")

	assert.Contains(t, prompt, "system text")
	assert.Contains(t, prompt, "user task")
	assert.Contains(t, prompt, "previous context")
	assert.Contains(t, prompt, "REASONING:")
	assert.Contains(t, prompt, "RESPONSE:")
	assert.Contains(t, prompt, "CONFIDENCE:")
}

func TestGenerateWithReasoning(t *testing.T) {
	config := model.AgentConfig{Temperature: 0.5, MaxTokens: 100, ReasoningEnabled: true}

	t.Run("wraps prompt and parses reply", func(t *testing.T) {
		gen := &stubGenerator{reply: "REASONING:\n1. step\nRESPONSE:\nparsed\nCONFIDENCE: 75"}
		got, err := generateWithReasoning(context.Background(), gen, config, "sys", "task", "ctx")
		require.NoError(t, err)
		assert.Equal(t, "parsed", got.Response)
		assert.Equal(t, 75.0, got.Confidence)
		assert.Contains(t, gen.prompt, "REASONING:")
	})

	t.Run("reasoning disabled passes prompt through", func(t *testing.T) {
		plain := config
		plain.ReasoningEnabled = false
		gen := &stubGenerator{reply: "raw answer"}
		got, err := generateWithReasoning(context.Background(), gen, plain, "sys", "task", "")
		require.NoError(t, err)
		assert.Equal(t, "raw answer", got.Response)
		assert.Equal(t, 85.0, got.Confidence)
		assert.NotContains(t, gen.prompt, "REASONING:")
	})

	t.Run("generator error propagates", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("quota")}
		_, err := generateWithReasoning(context.Background(), gen, config, "sys", "task", "")
		assert.Error(t, err)
	})
}

func TestToolRegistry(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register("echo", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return args["msg"], nil
	})
	reg.Register("alpha", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return nil, nil
	})

	got, err := reg.Invoke(context.Background(), "echo", map[string]interface{}{"msg": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	_, err = reg.Invoke(context.Background(), "missing", nil)
	assert.ErrorContains(t, err, "unknown tool")

	assert.Equal(t, []string{"alpha", "echo"}, reg.Names())
}
