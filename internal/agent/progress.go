package agent

import "context"

type progressKey struct{}

type progressReporter func(progress int, status, currentStep string)

// withProgress attaches the runner's progress sink to the context so
// agents can report intermediate steps without holding a Runner
// reference.
func withProgress(ctx context.Context, fn progressReporter) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportProgress publishes an intermediate progress update from inside
// Process. It is a no-op when the agent runs outside a Runner, so
// agents stay directly testable.
func ReportProgress(ctx context.Context, progress int, status, currentStep string) {
	if fn, ok := ctx.Value(progressKey{}).(progressReporter); ok {
		fn(progress, status, currentStep)
	}
}
