// Package transcribe turns recorded audio clips into question text.
package transcribe

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/openai/openai-go"
)

// FailureMessage is the sentinel returned when transcription fails. Callers
// must check for it and skip retrieval and generation for that segment.
const FailureMessage = "Transcription failed. Please try again."

// DefaultHint primes the transcription model with the expected register.
const DefaultHint = "This is an audio recording of a professional, personable, and fluid conversation."

// Transcriber sends encoded clips to the whisper API.
type Transcriber struct {
	api    *openai.Client
	hint   string
	logger *slog.Logger
}

func New(api *openai.Client, hint string, logger *slog.Logger) *Transcriber {
	if hint == "" {
		hint = DefaultHint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcriber{api: api, hint: hint, logger: logger}
}

// Transcribe returns the cleaned transcription of the clip at path, or
// FailureMessage when the clip cannot be read or the remote call fails.
func (t *Transcriber) Transcribe(ctx context.Context, path string) string {
	f, err := os.Open(path)
	if err != nil {
		t.logger.Error("open audio clip", "path", path, "error", err)
		return FailureMessage
	}
	defer f.Close()

	resp, err := t.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:   f,
		Model:  openai.AudioModelWhisper1,
		Prompt: openai.String(t.hint),
	})
	if err != nil {
		t.logger.Error("transcription request failed", "error", err)
		return FailureMessage
	}

	text := CleanTranscript(resp.Text)
	if text == "" {
		return FailureMessage
	}
	return text
}

// CleanTranscript strips non-ASCII runes the transcription model sometimes
// emits and trims the result.
func CleanTranscript(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
