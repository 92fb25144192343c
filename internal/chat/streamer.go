// Package chat streams generated answers with mid-stream cancellation.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openai/openai-go"

	"github.com/rawcsav/Hinterview/internal/retry"
)

const (
	retryAttempts = 3
	retryDelay    = 5 * time.Second
)

// Config carries the generation settings for answer streaming.
type Config struct {
	Model        string
	SystemPrompt string
	Temperature  float64
	TopP         float64
}

// fragmentStream is the subset of the SSE stream the consume loop needs.
// *ssestream.Stream[openai.ChatCompletionChunk] satisfies it.
type fragmentStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

type openStreamFunc func(ctx context.Context, params openai.ChatCompletionNewParams) fragmentStream

// Streamer issues one streaming chat completion per question. The stream is
// not restartable mid-flight; cancelling the context stops it cleanly.
type Streamer struct {
	cfg    Config
	open   openStreamFunc
	delay  time.Duration
	logger *slog.Logger
}

func NewStreamer(api *openai.Client, cfg Config, logger *slog.Logger) *Streamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Streamer{
		cfg: cfg,
		open: func(ctx context.Context, params openai.ChatCompletionNewParams) fragmentStream {
			return api.Chat.Completions.NewStreaming(ctx, params)
		},
		delay:  retryDelay,
		logger: logger,
	}
}

// Ask streams an answer for the composed prompt, calling emit for each text
// fragment as it arrives. Cancellation is checked before the request starts
// and after every fragment; a cancelled context stops the stream, releases
// it, and returns nil; cancellation is not a failure. A rate limit before
// the first fragment is retried; any other transport error is surfaced.
func (s *Streamer) Ask(ctx context.Context, fullPrompt string, maxCompletion int, emit func(string)) error {
	if ctx.Err() != nil {
		return nil
	}
	if maxCompletion < 1 {
		maxCompletion = 1
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(s.cfg.SystemPrompt),
			openai.UserMessage(fullPrompt),
		},
		Model:       openai.ChatModel(s.cfg.Model),
		Temperature: openai.Float(s.cfg.Temperature),
		TopP:        openai.Float(s.cfg.TopP),
		MaxTokens:   openai.Int(int64(maxCompletion)),
	}

	emitted := false
	policy := retry.Policy{
		MaxAttempts: retryAttempts,
		Delay:       s.delay,
		Retryable: func(err error) bool {
			// Restarting after output has been shown would repeat the answer.
			return !emitted && retry.RateLimited(err)
		},
	}

	err := policy.Do(ctx, func() error {
		return s.consume(ctx, params, emit, &emitted)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Streamer) consume(ctx context.Context, params openai.ChatCompletionNewParams, emit func(string), emitted *bool) error {
	stream := s.open(ctx, params)
	defer stream.Close()

	for stream.Next() {
		if ctx.Err() != nil {
			return nil
		}
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			*emitted = true
			emit(delta)
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	if err := stream.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted by a new recording; expected, silent termination.
			return nil
		}
		return err
	}
	return nil
}
