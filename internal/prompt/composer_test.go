package prompt

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawcsav/Hinterview/internal/chunk"
	"github.com/rawcsav/Hinterview/internal/corpus"
)

// fieldCodec counts whitespace-separated words as tokens.
type fieldCodec struct{}

func (fieldCodec) Encode(text string) []int { return make([]int, len(strings.Fields(text))) }
func (fieldCodec) Decode(ids []int) string  { return "" }
func (fieldCodec) Count(text string) int    { return len(strings.Fields(text)) }

func section(id string, kind chunk.Kind, title, loc string, embedding []float64) chunk.Section {
	return chunk.Section{
		ID:        id,
		Title:     title,
		Kind:      kind,
		Loc:       loc,
		Text:      "text of " + id,
		Tokens:    3,
		Embedding: embedding,
	}
}

func testCorpus() *corpus.Corpus {
	return corpus.New([]chunk.Section{
		section("r1", chunk.KindResume, "resume - Resume", "led a team", []float64{1, 0, 0}),
		section("r2", chunk.KindResume, "resume - Resume", "built a service", []float64{0.2, 0.1, 0}),
		section("j1", chunk.KindJobDescription, "posting - Job Description", "we are hiring", []float64{0.9, 0.1, 0}),
		section("o1", chunk.KindOther, "notes", "background reading", []float64{0.8, 0.2, 0}),
		section("o2", chunk.KindOther, "notes", "misc trivia", []float64{0, 1, 0}),
	})
}

func TestCompose_PlainModeTopThree(t *testing.T) {
	composer := NewComposer(fieldCodec{}, 3, 1000, false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := composer.Compose("What did you lead?", []float64{1, 0, 0}, testCorpus())
	require.NoError(t, err)

	require.Len(t, got.DocsUsed, 3)
	assert.Equal(t, DocRef{Title: "resume - Resume", Loc: "led a team"}, got.DocsUsed[0])
	assert.Equal(t, DocRef{Title: "posting - Job Description", Loc: "we are hiring"}, got.DocsUsed[1])
	assert.Equal(t, DocRef{Title: "notes", Loc: "background reading"}, got.DocsUsed[2])

	assert.Contains(t, got.FullPrompt, "Title: resume - Resume")
	assert.Contains(t, got.FullPrompt, "Textual excerpt section:\n\"\"\"\ntext of r1\n\"\"\"")
	assert.True(t, strings.HasSuffix(got.FullPrompt, "What did you lead?"))

	assert.Contains(t, got.ShortMessage, "Title: notes")
	assert.NotContains(t, got.ShortMessage, "Textual excerpt section")
}

func TestCompose_StructuredPoolsAreDistinct(t *testing.T) {
	composer := NewComposer(fieldCodec{}, 3, 1000, true, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := composer.Compose("question", []float64{1, 0, 0}, testCorpus())
	require.NoError(t, err)

	require.Len(t, got.DocsUsed, 3)
	assert.Equal(t, "led a team", got.DocsUsed[0].Loc, "best resume section")
	assert.Equal(t, "we are hiring", got.DocsUsed[1].Loc, "best job description section")
	assert.Equal(t, "background reading", got.DocsUsed[2].Loc, "best remaining section")

	// The third pick never repeats the first two.
	assert.NotEqual(t, got.DocsUsed[0].Loc, got.DocsUsed[2].Loc)
	assert.NotEqual(t, got.DocsUsed[1].Loc, got.DocsUsed[2].Loc)
}

// TestCompose_StructuredExclusionByID checks a remaining section sharing a
// loc preview with a picked one is still eligible: exclusion is keyed by
// section identity, not the preview string.
func TestCompose_StructuredExclusionByID(t *testing.T) {
	corp := corpus.New([]chunk.Section{
		section("r1", chunk.KindResume, "resume - Resume", "shared preview", []float64{1, 0, 0}),
		section("j1", chunk.KindJobDescription, "posting - Job Description", "we are hiring", []float64{0.9, 0.1, 0}),
		section("o1", chunk.KindOther, "notes", "shared preview", []float64{0.8, 0.2, 0}),
	})
	composer := NewComposer(fieldCodec{}, 3, 1000, true, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := composer.Compose("question", []float64{1, 0, 0}, corp)
	require.NoError(t, err)

	require.Len(t, got.DocsUsed, 3)
	assert.Equal(t, "notes", got.DocsUsed[2].Title, "identical loc must not mask a distinct section")
}

func TestCompose_StructuredMissingSubset(t *testing.T) {
	noResume := corpus.New([]chunk.Section{
		section("j1", chunk.KindJobDescription, "posting - Job Description", "we are hiring", []float64{1, 0, 0}),
		section("o1", chunk.KindOther, "notes", "background reading", []float64{1, 0, 0}),
	})
	composer := NewComposer(fieldCodec{}, 3, 1000, true, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := composer.Compose("question", []float64{1, 0, 0}, noResume)
	require.ErrorIs(t, err, ErrMissingSubset)
	assert.Contains(t, err.Error(), "resume")
}

func TestCompose_BudgetClampsToFloor(t *testing.T) {
	composer := NewComposer(fieldCodec{}, 3, 5, false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := composer.Compose("a deliberately windy question", []float64{1, 0, 0}, testCorpus())
	require.NoError(t, err)

	assert.Equal(t, 1, got.MaxCompletion, "budget must clamp to a positive floor")
	assert.True(t, got.Clamped)
}

func TestCompose_BudgetSubtractsPromptTokens(t *testing.T) {
	codec := fieldCodec{}
	composer := NewComposer(codec, 3, 1000, false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	query := "What did you lead?"
	got, err := composer.Compose(query, []float64{1, 0, 0}, testCorpus())
	require.NoError(t, err)

	want := 1000 - codec.Count(query+got.FullPrompt)
	assert.Equal(t, want, got.MaxCompletion)
	assert.False(t, got.Clamped)
}
