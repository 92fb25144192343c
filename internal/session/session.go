// Package session coordinates the hotkey, recorder, and answering pipeline.
// A single goroutine consumes key events: a press cancels any in-flight
// answer and starts recording, a release hands the finished clip to the
// pipeline under a fresh per-answer context.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rawcsav/Hinterview/internal/audio"
	"github.com/rawcsav/Hinterview/internal/corpus"
	"github.com/rawcsav/Hinterview/internal/display"
	"github.com/rawcsav/Hinterview/internal/hotkey"
	"github.com/rawcsav/Hinterview/internal/prompt"
	"github.com/rawcsav/Hinterview/internal/transcribe"
)

// Transcriber converts an encoded clip into question text, returning
// transcribe.FailureMessage on failure.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) string
}

// QueryEmbedder embeds a transcribed question.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// Composer assembles the bounded prompt for a question.
type Composer interface {
	Compose(query string, queryVec []float64, corp *corpus.Corpus) (*prompt.Composed, error)
}

// Streamer streams the generated answer, emitting fragments as they arrive.
type Streamer interface {
	Ask(ctx context.Context, fullPrompt string, maxCompletion int, emit func(string)) error
}

// Session is the long-lived coordinator for one run.
type Session struct {
	keys        hotkey.Source
	recorder    audio.Recorder
	disp        display.Display
	transcriber Transcriber
	embedder    QueryEmbedder
	composer    Composer
	streamer    Streamer
	corpus      *corpus.Corpus
	logger      *slog.Logger

	recording bool // touched only by the Run goroutine

	mu           sync.Mutex
	cancelAnswer context.CancelFunc
	answers      sync.WaitGroup
}

func New(
	keys hotkey.Source,
	recorder audio.Recorder,
	disp display.Display,
	transcriber Transcriber,
	embedder QueryEmbedder,
	composer Composer,
	streamer Streamer,
	corp *corpus.Corpus,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		keys:        keys,
		recorder:    recorder,
		disp:        disp,
		transcriber: transcriber,
		embedder:    embedder,
		composer:    composer,
		streamer:    streamer,
		corpus:      corp,
		logger:      logger,
	}
}

// Run consumes hotkey events until ctx is cancelled or the source closes.
// Per-segment failures are reported to the display and never end the loop.
func (s *Session) Run(ctx context.Context) error {
	s.disp.Instructions()

	events := s.keys.Events()
	for {
		select {
		case <-ctx.Done():
			s.interrupt()
			s.answers.Wait()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				s.interrupt()
				s.answers.Wait()
				return nil
			}
			switch ev.Kind {
			case hotkey.Press:
				s.onPress(ctx)
			case hotkey.Release:
				s.onRelease(ctx)
			}
		}
	}
}

// onPress cancels any in-flight answer and starts a new segment. A press
// while already recording only interrupts; it never restarts capture.
func (s *Session) onPress(ctx context.Context) {
	s.interrupt()
	if s.recording {
		return
	}
	if err := s.recorder.Start(ctx); err != nil {
		s.disp.Error(fmt.Sprintf("recording failed: %v", err))
		return
	}
	s.recording = true
	s.disp.Recording()
}

func (s *Session) onRelease(ctx context.Context) {
	if !s.recording {
		return
	}
	s.recording = false

	clip, err := s.recorder.Stop()
	if err != nil {
		s.disp.Error(fmt.Sprintf("recording failed: %v", err))
		return
	}

	answerCtx := s.newAnswerContext(ctx)
	s.answers.Add(1)
	go func() {
		defer s.answers.Done()
		s.answer(answerCtx, clip)
	}()
}

// interrupt trips the cancellation checkpoint of the current answer stream,
// if any. The stream's goroutine stops producing output at its next check;
// it does not need to have unwound before a new segment starts.
func (s *Session) interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelAnswer != nil {
		s.cancelAnswer()
		s.cancelAnswer = nil
	}
}

// newAnswerContext installs a fresh cancellable context for the next answer,
// clearing the previous segment's cancellation.
func (s *Session) newAnswerContext(parent context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := context.WithCancel(parent)
	s.cancelAnswer = cancel
	return ctx
}

// answer runs transcribe, retrieve, compose, and stream for one segment.
func (s *Session) answer(ctx context.Context, clip string) {
	s.disp.Transcribing()
	question := s.transcriber.Transcribe(ctx, clip)
	if question == transcribe.FailureMessage {
		s.disp.Error(question)
		return
	}
	if ctx.Err() != nil {
		return
	}

	s.disp.Processing()
	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.disp.Error(fmt.Sprintf("embedding the question failed: %v", err))
		return
	}

	composed, err := s.composer.Compose(question, queryVec, s.corpus)
	if err != nil {
		s.disp.Error(fmt.Sprintf("retrieval failed: %v", err))
		return
	}
	s.logger.Debug("prompt composed",
		"docs", len(composed.DocsUsed),
		"max_completion", composed.MaxCompletion,
		"clamped", composed.Clamped,
	)

	if ctx.Err() != nil {
		return
	}
	s.disp.Question(question)

	if err := s.streamer.Ask(ctx, composed.FullPrompt, composed.MaxCompletion, s.disp.Fragment); err != nil {
		s.disp.Error(fmt.Sprintf("answer failed: %v", err))
		return
	}
	if ctx.Err() == nil {
		s.disp.AnswerDone()
	}
}
