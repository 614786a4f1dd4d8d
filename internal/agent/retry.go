package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

type attemptResult struct {
	response *model.AgentResponse
	err      error
}

// executeWithRetry runs Process up to MaxRetries times with a per-attempt
// timeout and exponential backoff (1s, 2s, 4s ...) between attempts.
// Non-retryable failures abort immediately; the final error carries the
// attempt count and the last underlying cause.
func (r *Runner) executeWithRetry(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			log.Printf("🔄 %s: retry %d/%d after %v (last error: %v)",
				r.config.Name, attempt+1, r.config.MaxRetries, backoff, lastErr)
			r.updateProgress(10, "retrying", fmt.Sprintf("Retry attempt %d/%d", attempt+1, r.config.MaxRetries))
			r.sleep(backoff)
		}

		response, err := r.runAttempt(ctx, input)
		if err == nil {
			if response.Success {
				return response, nil
			}
			// The agent reported a domain-level failure without an
			// error; treat it like a failed attempt.
			err = fmt.Errorf("agent reported failure: %s", firstOrDefault(response.Errors, "no error detail"))
		}
		lastErr = err

		if isNonRetryable(err) {
			return nil, fmt.Errorf("non-retryable error on attempt %d: %w", attempt+1, err)
		}
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", r.config.MaxRetries, lastErr)
}

// runAttempt executes a single Process call under the attempt timeout.
// A timed-out attempt is abandoned: its goroutine keeps running until
// Process notices the cancelled context, but its result is discarded.
func (r *Runner) runAttempt(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		response, err := r.agent.Process(attemptCtx, input)
		done <- attemptResult{response: response, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.response == nil {
			return nil, errors.New("agent returned no response")
		}
		return res.response, nil
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// Parent cancelled: the whole pipeline is shutting down.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("attempt timed out after %v", r.config.Timeout)
	}
}

// isNonRetryable reports whether retrying is pointless: cancelled
// pipelines, bad credentials and safety-filter blocks fail identically
// on every attempt.
func isNonRetryable(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, service.ErrUnauthorized) ||
		errors.Is(err, service.ErrSafetyBlocked)
}

func firstOrDefault(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
