// Package corpus builds and holds the in-memory section corpus for one run.
package corpus

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

// Loader reads eligible files from the corpus folder and chunks them into
// sections. The file's base name becomes the document title; the kinds map
// assigns categories used by structured retrieval.
type Loader struct {
	chunker *chunk.Chunker
	logger  *slog.Logger
}

func NewLoader(chunker *chunk.Chunker, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{chunker: chunker, logger: logger}
}

// Load walks folder and returns the sections of every readable .txt, .pdf,
// and .md file. Files that fail to read are logged and skipped; a folder
// access error is returned so the caller can report it once and continue
// with an empty corpus.
func (l *Loader) Load(folder string, kinds map[string]chunk.Kind) ([]chunk.Section, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read corpus folder: %w", err)
	}

	var sections []chunk.Section
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		text, err := extract(path)
		if err != nil {
			l.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		if text == "" {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		kind, ok := kinds[base]
		if !ok {
			kind = chunk.KindOther
		}

		docSections := l.chunker.Split(text, titleFor(base, kind), kind)
		l.logger.Debug("chunked document", "title", base, "kind", kind, "sections", len(docSections))
		sections = append(sections, docSections...)
	}

	return sections, nil
}

// titleFor labels tagged documents so prompt excerpts read naturally,
// e.g. "resume_2024 - Resume".
func titleFor(base string, kind chunk.Kind) string {
	switch kind {
	case chunk.KindResume:
		return base + " - Resume"
	case chunk.KindJobDescription:
		return base + " - Job Description"
	default:
		return base
	}
}

// extract returns the plain text of a corpus file. Unrecognized extensions
// yield empty text and are skipped.
func extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	case ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return extractMarkdown(data), nil
	default:
		return "", nil
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractMarkdown walks the goldmark AST and collects the document's text
// content, dropping markup. The chunker collapses whitespace afterwards, so
// separators only need to keep words apart.
func extractMarkdown(source []byte) string {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			buf.WriteByte(' ')
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
