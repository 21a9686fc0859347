package llm

import (
	"context"

	"go.uber.org/zap"

	"neuroscreen/internal/config"
)

// Result is the outcome of a gateway completion. Degraded marks responses
// served by the deterministic fallback instead of the live model.
type Result struct {
	Text     string
	Degraded bool
}

// Gateway selects between the live completer and the deterministic fallback
// by availability. Upstream failure never propagates to callers: a failed
// live call fails over immediately, with no retries.
type Gateway struct {
	live  StreamingCompleter // nil when no credential is configured
	local StreamingCompleter
	log   *zap.Logger
}

// NewGateway builds a gateway from configuration. With no API key the
// gateway runs permanently in fallback mode.
func NewGateway(cfg config.LLMConfig, log *zap.Logger) *Gateway {
	g := &Gateway{local: DeterministicFallback{}, log: log}
	if cfg.APIKey != "" {
		g.live = NewLiveCompletion(cfg, log)
	} else {
		log.Warn("LLM API key not configured, all generation will use the deterministic fallback")
	}
	return g
}

// NewGatewayWithClient builds a gateway around an explicit live completer.
// Used by tests to inject failures.
func NewGatewayWithClient(live StreamingCompleter, log *zap.Logger) *Gateway {
	return &Gateway{live: live, local: DeterministicFallback{}, log: log}
}

// Complete runs a single-turn completion, failing over to the deterministic
// fallback on any upstream error.
func (g *Gateway) Complete(ctx context.Context, req CompletionRequest) Result {
	if g.live != nil {
		text, err := g.live.Complete(ctx, req)
		if err == nil {
			return Result{Text: text}
		}
		g.log.Warn("Live completion failed, serving deterministic fallback", zap.Error(err))
	}
	text, _ := g.local.Complete(ctx, req)
	return Result{Text: text, Degraded: true}
}

// Stream runs a streaming completion. If the live stream fails before any
// chunk was emitted, the fallback body is streamed instead. Once chunks have
// gone out there is no partial-chunk retry: the error terminates the stream.
// A cancelled context (client disconnect) is never failed over.
func (g *Gateway) Stream(ctx context.Context, req CompletionRequest, emit StreamFunc) (degraded bool, err error) {
	if g.live != nil {
		emitted := false
		wrapped := func(chunk string) error {
			emitted = true
			return emit(chunk)
		}
		err := g.live.CompleteStream(ctx, req, wrapped)
		if err == nil {
			return false, nil
		}
		if ctx.Err() != nil || emitted {
			return false, err
		}
		g.log.Warn("Live stream failed before first chunk, streaming deterministic fallback", zap.Error(err))
	}
	return true, g.local.CompleteStream(ctx, req, emit)
}
