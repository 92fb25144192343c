// Package chunk splits document text into fixed-size token windows, the
// atomic retrieval unit for ranking and prompt assembly.
package chunk

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/rawcsav/Hinterview/internal/token"
)

// Kind classifies a source document for structured retrieval.
type Kind string

const (
	KindResume         Kind = "resume"
	KindJobDescription Kind = "job_description"
	KindOther          Kind = "other"
)

const (
	// DefaultSectionTokens is the window size of a full section.
	DefaultSectionTokens = 200

	// locTokens is how many leading tokens form the loc preview.
	locTokens = 10
)

// Section is one token window of a source document.
type Section struct {
	ID        string    // unique per section, used as the exclusion key
	Title     string    // document name, with category suffix when tagged
	Kind      Kind      // document category
	Loc       string    // decoded preview of the first locTokens tokens
	Text      string    // decoded window
	Tokens    int       // exact token count of the window
	Embedding []float64 // attached after embedding, nil before
}

// Chunker walks a document's token stream and emits contiguous sections.
type Chunker struct {
	codec     token.Codec
	maxTokens int
}

// NewChunker creates a chunker emitting windows of at most maxTokens tokens.
// A maxTokens of zero or less selects DefaultSectionTokens.
func NewChunker(codec token.Codec, maxTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultSectionTokens
	}
	return &Chunker{codec: codec, maxTokens: maxTokens}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalize collapses newline and whitespace runs to single spaces so token
// boundaries are not artifacts of formatting.
func normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// Split partitions text into sections. The windows cover the token stream
// contiguously and exhaustively; only the last window may be shorter than the
// configured size. Empty input yields no sections.
func (c *Chunker) Split(text, title string, kind Kind) []Section {
	ids := c.codec.Encode(normalize(text))
	if len(ids) == 0 {
		return nil
	}

	var sections []Section
	var window []int
	var loc string

	flush := func() {
		if len(window) == 0 {
			return
		}
		decoded := strings.TrimSpace(c.codec.Decode(window))
		if loc == "" {
			// Shorter than the preview length; the whole window is the loc.
			loc = decoded
		}
		sections = append(sections, Section{
			ID:     uuid.New().String(),
			Title:  title,
			Kind:   kind,
			Loc:    loc,
			Text:   decoded,
			Tokens: len(window),
		})
		window = nil
		loc = ""
	}

	for _, id := range ids {
		window = append(window, id)
		if len(window) == locTokens {
			loc = strings.TrimSpace(c.codec.Decode(window))
		}
		if len(window) >= c.maxTokens {
			flush()
		}
	}
	flush()

	return sections
}
