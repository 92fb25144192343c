package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rawcsav/Hinterview/internal/audio"
	"github.com/rawcsav/Hinterview/internal/hotkey"
	"github.com/rawcsav/Hinterview/internal/session"
)

var flagClip string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the corpus and start the listening loop",
	Long: `Builds the document corpus, then listens for recording segments.

Without a native hotkey hook, pressing Enter toggles press/release: the
first Enter starts a segment (and cancels any in-flight answer), the next
ends it. The --clip flag supplies the encoded recording each segment hands
to transcription; real device capture plugs in behind the same interface.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagClip, "clip", "", "encoded audio clip delivered per completed segment")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	corp := a.buildCorpus(ctx)

	keys := hotkey.NewStdinSource(os.Stdin)
	go keys.Run(ctx)

	sess := session.New(
		keys,
		audio.NewClipPlayback(flagClip),
		a.console,
		a.transcriber,
		a.embedder,
		a.composer,
		a.streamer,
		corp,
		a.logger,
	)

	if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
