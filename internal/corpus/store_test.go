package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

func testSections() []chunk.Section {
	return []chunk.Section{
		{ID: "r1", Title: "cv - Resume", Kind: chunk.KindResume},
		{ID: "j1", Title: "posting - Job Description", Kind: chunk.KindJobDescription},
		{ID: "r2", Title: "cv - Resume", Kind: chunk.KindResume},
		{ID: "o1", Title: "portfolio", Kind: chunk.KindOther},
	}
}

func TestCorpus_ByKind(t *testing.T) {
	c := New(testSections())

	resumes := c.ByKind(chunk.KindResume)
	require.Len(t, resumes, 2)
	assert.Equal(t, "r1", resumes[0].ID)
	assert.Equal(t, "r2", resumes[1].ID)

	assert.Len(t, c.ByKind(chunk.KindJobDescription), 1)
	assert.Empty(t, New(nil).ByKind(chunk.KindResume))
}

func TestCorpus_Excluding(t *testing.T) {
	c := New(testSections())

	rest := c.Excluding("r1", "j1")
	require.Len(t, rest, 2)
	assert.Equal(t, "r2", rest[0].ID)
	assert.Equal(t, "o1", rest[1].ID)

	assert.Len(t, c.Excluding(), 4)
	assert.Len(t, c.Excluding("unknown"), 4)
}

func TestCorpus_Get(t *testing.T) {
	c := New(testSections())

	s, ok := c.Get("j1")
	require.True(t, ok)
	assert.Equal(t, chunk.KindJobDescription, s.Kind)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 4, c.Len())
}
