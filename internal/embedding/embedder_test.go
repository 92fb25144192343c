package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

// fakeClient drives the embedder without the network.
type fakeClient struct {
	OnEmbed func(ctx context.Context, text string) ([]float64, error)
}

func (f *fakeClient) Embed(ctx context.Context, text string) ([]float64, error) {
	return f.OnEmbed(ctx, text)
}

func numberedSections(n int) []chunk.Section {
	sections := make([]chunk.Section, n)
	for i := range sections {
		sections[i] = chunk.Section{
			ID:    fmt.Sprintf("id-%d", i),
			Title: "doc",
			Loc:   fmt.Sprintf("loc-%d", i),
			Text:  strconv.Itoa(i),
		}
	}
	return sections
}

// TestEmbedSections_AttributesResultsByIndex runs a wide pool with skewed
// per-item latency and checks every vector lands on its own section.
func TestEmbedSections_AttributesResultsByIndex(t *testing.T) {
	client := &fakeClient{
		OnEmbed: func(ctx context.Context, text string) ([]float64, error) {
			i, err := strconv.Atoi(text)
			require.NoError(t, err)
			// Vary completion order across workers.
			time.Sleep(time.Duration(i%4) * time.Millisecond)
			return []float64{float64(i)}, nil
		},
	}
	embedder := NewEmbedder(client, 4, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sections := numberedSections(24)
	got := embedder.EmbedSections(context.Background(), sections, nil)

	require.Len(t, got, 24)
	for i, s := range got {
		assert.Equal(t, fmt.Sprintf("id-%d", i), s.ID, "corpus order must be preserved")
		require.Len(t, s.Embedding, 1)
		assert.Equal(t, float64(i), s.Embedding[0], "embedding must belong to its section")
	}
}

// TestEmbedSections_OmitsFailedItems drops a failing section without
// aborting the batch.
func TestEmbedSections_OmitsFailedItems(t *testing.T) {
	client := &fakeClient{
		OnEmbed: func(ctx context.Context, text string) ([]float64, error) {
			if text == "7" {
				return nil, errors.New("model overloaded")
			}
			return []float64{1}, nil
		},
	}
	embedder := NewEmbedder(client, 3, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got := embedder.EmbedSections(context.Background(), numberedSections(10), nil)

	require.Len(t, got, 9)
	for _, s := range got {
		assert.NotEqual(t, "id-7", s.ID)
		assert.NotNil(t, s.Embedding)
	}
}

// TestEmbedSections_RetriesRateLimit retries 429s with backoff and keeps
// the section once the call succeeds.
func TestEmbedSections_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	client := &fakeClient{
		OnEmbed: func(ctx context.Context, text string) ([]float64, error) {
			if calls.Add(1) < 3 {
				return nil, &openai.Error{StatusCode: 429}
			}
			return []float64{1}, nil
		},
	}
	embedder := NewEmbedder(client, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	embedder.policy.Delay = time.Millisecond

	got := embedder.EmbedSections(context.Background(), numberedSections(1), nil)

	require.Len(t, got, 1)
	assert.EqualValues(t, 3, calls.Load())
}

func TestEmbedSections_ReportsProgress(t *testing.T) {
	client := &fakeClient{
		OnEmbed: func(ctx context.Context, text string) ([]float64, error) {
			return []float64{1}, nil
		},
	}
	embedder := NewEmbedder(client, 4, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var mu sync.Mutex
	var dones []int
	total := 0
	embedder.EmbedSections(context.Background(), numberedSections(12), func(done, t int) {
		mu.Lock()
		defer mu.Unlock()
		dones = append(dones, done)
		total = t
	})

	assert.Len(t, dones, 12)
	assert.Equal(t, 12, total)

	max := 0
	for _, d := range dones {
		if d > max {
			max = d
		}
	}
	assert.Equal(t, 12, max, "final progress callback must report completion")
}

func TestEmbedSections_Empty(t *testing.T) {
	embedder := NewEmbedder(&fakeClient{}, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Nil(t, embedder.EmbedSections(context.Background(), nil, nil))
}

func TestEmbedQuery(t *testing.T) {
	client := &fakeClient{
		OnEmbed: func(ctx context.Context, text string) ([]float64, error) {
			assert.Equal(t, "what did you lead?", text)
			return []float64{0.5, 0.5}, nil
		},
	}
	embedder := NewEmbedder(client, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))

	vec, err := embedder.EmbedQuery(context.Background(), "what did you lead?")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, vec)
}
