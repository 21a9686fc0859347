package llm

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"go.uber.org/zap"

	"neuroscreen/internal/config"
)

// The system role is fixed for every request; endpoints only vary the user
// prompt, token bound and temperature.
const clinicalSystemPrompt = "You are a pediatric neuropsychologist with expertise in childhood developmental screening. You write cautious, parent-friendly clinical summaries and never diagnose."

// CompletionRequest is a single-turn completion against the external model.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64

	// Fallback is the deterministic locally computed body substituted when
	// the live service is unavailable. It is produced by the same prompt
	// builder that produced Prompt, so it carries the same section headings.
	Fallback string
}

// Completer is the capability interface for single-turn text completion.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// StreamFunc receives one incremental text chunk. Returning an error stops
// the stream.
type StreamFunc func(chunk string) error

// StreamingCompleter additionally supports incremental delivery.
type StreamingCompleter interface {
	Completer
	CompleteStream(ctx context.Context, req CompletionRequest, emit StreamFunc) error
}

// AnthropicMessager is the slice of the Anthropic SDK the live completer
// uses, extracted so tests can substitute it.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// LiveCompletion calls the Anthropic Messages API.
type LiveCompletion struct {
	messages AnthropicMessager
	model    anthropic.Model
	log      *zap.Logger
}

// NewLiveCompletion builds a live completer from configuration.
func NewLiveCompletion(cfg config.LLMConfig, log *zap.Logger) *LiveCompletion {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &LiveCompletion{
		messages: &client.Messages,
		model:    anthropic.Model(cfg.Model),
		log:      log,
	}
}

func (l *LiveCompletion) params(req CompletionRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       l.model,
		MaxTokens:   int64(req.MaxTokens),
		System:      []anthropic.TextBlockParam{{Text: clinicalSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(req.Temperature),
	}
}

// Complete performs a blocking single-turn completion and returns the
// concatenated text blocks of the response.
func (l *LiveCompletion) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := l.messages.New(ctx, l.params(req))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// CompleteStream performs a streaming completion, emitting text deltas as
// they arrive. Context cancellation (e.g. the client disconnecting)
// terminates the upstream request; the stream is always closed before
// returning.
func (l *LiveCompletion) CompleteStream(ctx context.Context, req CompletionRequest, emit StreamFunc) error {
	stream := l.messages.NewStreaming(ctx, l.params(req))
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if err := emit(delta.Text); err != nil {
					return err
				}
			}
		}
	}
	return stream.Err()
}
