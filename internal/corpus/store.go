package corpus

import (
	"github.com/rawcsav/Hinterview/internal/chunk"
)

// Corpus is the immutable set of embedded sections for one run. It is built
// once at startup and read-only afterwards, so lookups need no locking.
type Corpus struct {
	sections []chunk.Section
	byID     map[string]int
}

// New indexes the given sections in corpus order.
func New(sections []chunk.Section) *Corpus {
	byID := make(map[string]int, len(sections))
	for i, s := range sections {
		byID[s.ID] = i
	}
	return &Corpus{sections: sections, byID: byID}
}

func (c *Corpus) Len() int {
	return len(c.sections)
}

// Sections returns every section in corpus order. The slice must not be
// mutated.
func (c *Corpus) Sections() []chunk.Section {
	return c.sections
}

// ByKind returns the sections of documents tagged with kind, in corpus order.
func (c *Corpus) ByKind(kind chunk.Kind) []chunk.Section {
	var out []chunk.Section
	for _, s := range c.sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Excluding returns every section whose ID is not in ids, in corpus order.
func (c *Corpus) Excluding(ids ...string) []chunk.Section {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var out []chunk.Section
	for _, s := range c.sections {
		if _, excluded := drop[s.ID]; excluded {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Get looks up a section by ID.
func (c *Corpus) Get(id string) (chunk.Section, bool) {
	i, ok := c.byID[id]
	if !ok {
		return chunk.Section{}, false
	}
	return c.sections[i], true
}
