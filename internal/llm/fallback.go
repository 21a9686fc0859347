package llm

import (
	"context"
	"strings"
)

// DeterministicFallback serves the request's locally computed fallback body.
// It never fails and performs no I/O.
type DeterministicFallback struct{}

func (DeterministicFallback) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return req.Fallback, nil
}

// CompleteStream emits the fallback body line by line so streaming consumers
// observe the same incremental contract as the live path.
func (DeterministicFallback) CompleteStream(ctx context.Context, req CompletionRequest, emit StreamFunc) error {
	for _, line := range strings.SplitAfter(req.Fallback, "\n") {
		if line == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := emit(line); err != nil {
			return err
		}
	}
	return nil
}
