package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rawcsav/Hinterview/internal/transcribe"
)

var (
	flagAudio string
	flagText  string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single question through the full pipeline",
	Long: `Builds the corpus and answers one question, either transcribed from an
encoded audio clip (--audio) or given directly (--text).`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&flagAudio, "audio", "", "encoded audio clip to transcribe")
	askCmd.Flags().StringVar(&flagText, "text", "", "question text (skips transcription)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if flagAudio == "" && flagText == "" {
		return errors.New("one of --audio or --text is required")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	corp := a.buildCorpus(ctx)

	question := flagText
	if flagAudio != "" {
		a.console.Transcribing()
		question = a.transcriber.Transcribe(ctx, flagAudio)
		if question == transcribe.FailureMessage {
			return errors.New(question)
		}
	}

	a.console.Processing()
	queryVec, err := a.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return fmt.Errorf("embed question: %w", err)
	}

	composed, err := a.composer.Compose(question, queryVec, corp)
	if err != nil {
		return fmt.Errorf("compose prompt: %w", err)
	}
	for _, doc := range composed.DocsUsed {
		a.logger.Debug("using section", "title", doc.Title, "loc", doc.Loc)
	}

	a.console.Question(question)
	if err := a.streamer.Ask(ctx, composed.FullPrompt, composed.MaxCompletion, a.console.Fragment); err != nil {
		return fmt.Errorf("stream answer: %w", err)
	}
	a.console.AnswerDone()
	return nil
}
