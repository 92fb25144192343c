package embedding

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rawcsav/Hinterview/internal/chunk"
	"github.com/rawcsav/Hinterview/internal/retry"
)

const (
	// DefaultWorkers is the embedding fan-out during corpus construction.
	DefaultWorkers = 6

	retryAttempts = 3
	retryDelay    = 5 * time.Second
)

// EmbeddingClient is the remote embedding call the embedder depends on.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Embedder computes section embeddings across a bounded worker pool.
// Rate-limit errors are retried with a fixed backoff; any other failure
// drops that single section so the rest of the corpus stays usable.
type Embedder struct {
	client  EmbeddingClient
	workers int
	policy  retry.Policy
	logger  *slog.Logger
}

// NewEmbedder creates an Embedder with the given worker count. A count of
// zero or less selects DefaultWorkers.
func NewEmbedder(client EmbeddingClient, workers int, logger *slog.Logger) *Embedder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{
		client:  client,
		workers: workers,
		policy: retry.Policy{
			MaxAttempts: retryAttempts,
			Delay:       retryDelay,
			Retryable:   retry.RateLimited,
		},
		logger: logger,
	}
}

// EmbedSections embeds every section and returns the ones that succeeded,
// in corpus order, with embeddings attached. Workers pull sections
// independently; results are attributed by index so completion order does
// not matter. progress, if non-nil, is called after each section completes.
func (e *Embedder) EmbedSections(ctx context.Context, sections []chunk.Section, progress func(done, total int)) []chunk.Section {
	if len(sections) == 0 {
		return nil
	}

	results := make([][]float64, len(sections))
	jobs := make(chan int)
	var done atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vec, err := e.embed(ctx, sections[i].Text)
				if err != nil {
					e.logger.Warn("embedding failed, omitting section",
						"title", sections[i].Title,
						"loc", sections[i].Loc,
						"error", err,
					)
				} else {
					results[i] = vec
				}
				if progress != nil {
					progress(int(done.Add(1)), len(sections))
				}
			}
		}()
	}

	for i := range sections {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	embedded := make([]chunk.Section, 0, len(sections))
	for i, vec := range results {
		if vec == nil {
			continue
		}
		s := sections[i]
		s.Embedding = vec
		embedded = append(embedded, s)
	}
	return embedded
}

// EmbedQuery embeds a transcribed question with the same retry policy.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return e.embed(ctx, text)
}

func (e *Embedder) embed(ctx context.Context, text string) ([]float64, error) {
	var vec []float64
	err := e.policy.Do(ctx, func() error {
		v, err := e.client.Embed(ctx, text)
		if err != nil {
			return err
		}
		vec = v
		return nil
	})
	return vec, err
}
