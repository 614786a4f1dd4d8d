package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Generator is the contract for a generative text service. Calls may
// fail on quota exhaustion, safety-filter blocks or network errors.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// GeminiService calls the Google AI Studio (Gemini) REST API.
// Free-tier rate limiting (minimum inter-call spacing) is enforced
// here because it is the caller's responsibility, not the API's.
type GeminiService struct {
	apiKey      string
	modelName   string
	baseURL     string
	httpClient  *http.Client
	minInterval time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// GeminiOption customizes a GeminiService
type GeminiOption func(*GeminiService)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiService) { g.httpClient = c }
}

// WithBaseURL overrides the API endpoint, mainly for tests
func WithBaseURL(url string) GeminiOption {
	return func(g *GeminiService) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithMinInterval sets the minimum spacing between requests
func WithMinInterval(d time.Duration) GeminiOption {
	return func(g *GeminiService) { g.minInterval = d }
}

// NewGeminiService creates a Gemini client. The API key is required.
func NewGeminiService(apiKey, modelName string, opts ...GeminiOption) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_AI_API_KEY is required")
	}
	if modelName == "" {
		modelName = "gemini-pro"
	}
	g := &GeminiService{
		apiKey:      apiKey,
		modelName:   modelName,
		baseURL:     "https://generativelanguage.googleapis.com",
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		minInterval: 4 * time.Second, // 15 requests/minute on the free tier
	}
	for _, opt := range opts {
		opt(g)
	}
	log.Printf("GeminiService initialized with model: %s", g.modelName)
	return g, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends one prompt and returns the generated text
func (g *GeminiService) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if err := g.rateLimit(ctx); err != nil {
		return "", err
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
			TopP:            0.8,
			TopK:            40,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.modelName, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s", ErrQuotaExhausted, strings.TrimSpace(string(raw)))
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if len(decoded.Candidates) == 0 {
		return "", ErrSafetyBlocked
	}
	candidate := decoded.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", ErrSafetyBlocked
	}
	if len(candidate.Content.Parts) == 0 {
		return "", ErrSafetyBlocked
	}

	text := strings.TrimSpace(candidate.Content.Parts[0].Text)
	log.Printf("Generated content: %d characters", len(text))
	return text, nil
}

// rateLimit sleeps until the minimum inter-request spacing has elapsed
func (g *GeminiService) rateLimit(ctx context.Context) error {
	g.mu.Lock()
	elapsed := time.Since(g.lastRequest)
	wait := g.minInterval - elapsed
	if g.lastRequest.IsZero() {
		wait = 0
	}
	g.lastRequest = time.Now().Add(wait)
	g.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	log.Printf("Rate limiting: sleeping for %v", wait.Round(10*time.Millisecond))
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
