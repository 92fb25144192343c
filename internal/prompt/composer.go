// Package prompt selects the best-related sections for a question and
// assembles the bounded-size chat prompt.
package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rawcsav/Hinterview/internal/chunk"
	"github.com/rawcsav/Hinterview/internal/corpus"
	"github.com/rawcsav/Hinterview/internal/rank"
	"github.com/rawcsav/Hinterview/internal/token"
)

// ErrMissingSubset is returned when structured retrieval finds no sections
// for a required document category.
var ErrMissingSubset = errors.New("structured retrieval: required document pool is empty")

const (
	// DefaultTopN is how many sections plain mode selects.
	DefaultTopN = 3

	// minCompletion is the floor for the completion token budget. Hitting it
	// means the prompt nearly exhausted the configured maximum.
	minCompletion = 1

	preamble = "Use the below textual excerpts to answer the subsequent question. " +
		"If the answer cannot be found in the provided text, do your best to provide " +
		"the most rational and comprehensive response. Be as succinct as possible."
)

// DocRef identifies a selected section for docs-used reporting.
type DocRef struct {
	Title string
	Loc   string
}

// Composed is an assembled prompt ready for generation.
type Composed struct {
	ShortMessage  string   // preamble plus title lines only
	FullPrompt    string   // preamble, excerpt blocks, and the question
	DocsUsed      []DocRef // selection order
	MaxCompletion int      // completion budget left under the configured maximum
	Clamped       bool     // true when the budget hit the floor
}

// Composer assembles prompts under a token budget. In structured mode it
// guarantees one section each from the resume pool, the job-description
// pool, and the remaining corpus.
type Composer struct {
	codec      token.Codec
	topN       int
	structured bool
	maxTokens  int
	logger     *slog.Logger
}

func NewComposer(codec token.Codec, topN, maxTokens int, structured bool, logger *slog.Logger) *Composer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		codec:      codec,
		topN:       topN,
		structured: structured,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// Compose selects sections related to the query and builds the prompt.
// queryVec must be the query's embedding; sections are ranked against it
// without re-embedding.
func (c *Composer) Compose(query string, queryVec []float64, corp *corpus.Corpus) (*Composed, error) {
	var picked []chunk.Section
	if c.structured {
		var err error
		picked, err = c.pickStructured(queryVec, corp)
		if err != nil {
			return nil, err
		}
	} else {
		for _, s := range rank.TopN(queryVec, corp.Sections(), c.topN) {
			picked = append(picked, s.Section)
		}
	}

	var short, full strings.Builder
	short.WriteString(preamble)
	full.WriteString(preamble)

	docsUsed := make([]DocRef, 0, len(picked))
	for _, s := range picked {
		docInfo := fmt.Sprintf("\n\nTitle: %s", s.Title)
		short.WriteString(docInfo)
		full.WriteString(docInfo)
		full.WriteString(fmt.Sprintf("\nTextual excerpt section:\n\"\"\"\n%s\n\"\"\"", s.Text))
		docsUsed = append(docsUsed, DocRef{Title: s.Title, Loc: s.Loc})
	}
	full.WriteString(query)

	budget := c.maxTokens - c.codec.Count(query+full.String())
	clamped := false
	if budget < minCompletion {
		budget = minCompletion
		clamped = true
		c.logger.Warn("prompt nearly exhausts the token budget",
			"max_tokens", c.maxTokens,
			"sections", len(picked),
		)
	}

	return &Composed{
		ShortMessage:  short.String(),
		FullPrompt:    full.String(),
		DocsUsed:      docsUsed,
		MaxCompletion: budget,
		Clamped:       clamped,
	}, nil
}

// pickStructured takes the single best section from the resume pool, the
// single best from the job-description pool, and the best of the rest.
// Exclusion is keyed by section ID, so sections that happen to share a loc
// preview cannot mask each other.
func (c *Composer) pickStructured(queryVec []float64, corp *corpus.Corpus) ([]chunk.Section, error) {
	resume := rank.TopN(queryVec, corp.ByKind(chunk.KindResume), 1)
	if len(resume) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSubset, chunk.KindResume)
	}
	jobDesc := rank.TopN(queryVec, corp.ByKind(chunk.KindJobDescription), 1)
	if len(jobDesc) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSubset, chunk.KindJobDescription)
	}

	picked := []chunk.Section{resume[0].Section, jobDesc[0].Section}

	rest := corp.Excluding(resume[0].Section.ID, jobDesc[0].Section.ID)
	if third := rank.TopN(queryVec, rest, 1); len(third) > 0 {
		picked = append(picked, third[0].Section)
	}
	return picked, nil
}
