package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rawcsav/Hinterview/internal/chat"
	"github.com/rawcsav/Hinterview/internal/chunk"
	"github.com/rawcsav/Hinterview/internal/config"
	"github.com/rawcsav/Hinterview/internal/corpus"
	"github.com/rawcsav/Hinterview/internal/display"
	"github.com/rawcsav/Hinterview/internal/embedding"
	"github.com/rawcsav/Hinterview/internal/prompt"
	"github.com/rawcsav/Hinterview/internal/token"
	"github.com/rawcsav/Hinterview/internal/transcribe"
)

// app wires the components every command shares.
type app struct {
	cfg         *config.Config
	codec       *token.CL100K
	embedder    *embedding.Embedder
	builder     *corpus.Builder
	composer    *prompt.Composer
	streamer    *chat.Streamer
	transcriber *transcribe.Transcriber
	console     *display.Console
	logger      *slog.Logger
}

func newApp() (*app, error) {
	logger := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCL100K()
	if err != nil {
		return nil, err
	}

	client, err := embedding.NewClient(cfg.APIKey)
	if err != nil {
		return nil, err
	}

	embedder := embedding.NewEmbedder(client, cfg.EmbedWorkers, logger)
	chunker := chunk.NewChunker(codec, cfg.SectionTokens)
	loader := corpus.NewLoader(chunker, logger)

	return &app{
		cfg:      cfg,
		codec:    codec,
		embedder: embedder,
		builder:  corpus.NewBuilder(loader, embedder, logger),
		composer: prompt.NewComposer(codec, cfg.TopN, cfg.MaxTokens, cfg.Structured, logger),
		streamer: chat.NewStreamer(client.API(), chat.Config{
			Model:        cfg.Model,
			SystemPrompt: cfg.SystemPrompt,
			Temperature:  cfg.Temperature,
			TopP:         cfg.TopP,
		}, logger),
		transcriber: transcribe.New(client.API(), cfg.TranscriptionHint, logger),
		console:     display.NewConsole(os.Stdout),
		logger:      logger,
	}, nil
}

// buildCorpus loads and embeds the document folder, reporting a folder
// access error once and continuing with whatever was built.
func (a *app) buildCorpus(ctx context.Context) *corpus.Corpus {
	fmt.Printf("Building corpus from %s...\n", a.cfg.FolderPath)

	corp, err := a.builder.Build(ctx, a.cfg.FolderPath, a.cfg.DocumentKinds(), a.console.Progress)
	if err != nil {
		a.console.Error(fmt.Sprintf("corpus build: %v (fix folder_path and restart to retry)", err))
	}

	fmt.Printf("Corpus ready: %d sections\n", corp.Len())
	return corp
}
