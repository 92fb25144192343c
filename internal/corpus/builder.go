package corpus

import (
	"context"
	"log/slog"
	"time"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

// SectionEmbedder attaches embeddings to sections, omitting failures.
type SectionEmbedder interface {
	EmbedSections(ctx context.Context, sections []chunk.Section, progress func(done, total int)) []chunk.Section
}

// Builder runs the load-chunk-embed pipeline that produces the corpus.
type Builder struct {
	loader   *Loader
	embedder SectionEmbedder
	logger   *slog.Logger
}

func NewBuilder(loader *Loader, embedder SectionEmbedder, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{loader: loader, embedder: embedder, logger: logger}
}

// Build loads and embeds every eligible document under folder. A folder
// access error yields an empty corpus alongside the error, so the caller can
// report it and keep running.
func (b *Builder) Build(ctx context.Context, folder string, kinds map[string]chunk.Kind, progress func(done, total int)) (*Corpus, error) {
	start := time.Now()

	sections, err := b.loader.Load(folder, kinds)
	if err != nil {
		return New(nil), err
	}

	embedded := b.embedder.EmbedSections(ctx, sections, progress)
	if dropped := len(sections) - len(embedded); dropped > 0 {
		b.logger.Warn("some sections failed to embed", "dropped", dropped, "total", len(sections))
	}

	b.logger.Info("corpus built",
		"sections", len(embedded),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return New(embedded), nil
}
