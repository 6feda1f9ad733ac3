// Package chunker splits Markdown-style menu documents into sections.
package chunker

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultMarker is the header prefix that starts a new chunk.
const DefaultMarker = "##"

// Chunk is one section of a document, tagged with its enclosing header.
type Chunk struct {
	Index    int
	Category string // empty for content before the first header
	Content  string
}

// Chunker turns a document on disk into ordered chunks.
type Chunker interface {
	ChunkFile(path string) ([]Chunk, error)
}

// InputError reports a document that could not be read as text.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read document %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// MarkdownHeader splits on a single header level.
type MarkdownHeader struct {
	marker string
}

// NewMarkdownHeader creates a chunker that splits on lines starting with marker.
func NewMarkdownHeader(marker string) *MarkdownHeader {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		marker = DefaultMarker
	}
	return &MarkdownHeader{marker: marker}
}

// ChunkFile reads path and splits its contents.
func (m *MarkdownHeader) ChunkFile(path string) ([]Chunk, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &InputError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &InputError{Path: path, Err: fmt.Errorf("not valid UTF-8 text")}
	}

	return m.Split(string(data)), nil
}

// Split splits text into chunks in document order. Sections without content
// are dropped; text without any header comes back as a single chunk.
func (m *MarkdownHeader) Split(text string) []Chunk {
	var (
		chunks   []Chunk
		category string
		lines    []string
		fence    string
	)

	flush := func() {
		content := strings.TrimRight(strings.Join(lines, "\n"), "\n")
		if content != "" {
			chunks = append(chunks, Chunk{
				Index:    len(chunks),
				Category: category,
				Content:  content,
			})
		}
		lines = lines[:0]
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if fence == "" {
			if f := fenceOf(line); f != "" {
				fence = f
			} else if name, ok := m.header(line); ok {
				flush()
				category = name
				continue
			}
		} else if strings.HasPrefix(line, fence) {
			fence = ""
		}

		// blank lines only count once a section has content
		if line == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return chunks
}

func (m *MarkdownHeader) header(line string) (string, bool) {
	if !strings.HasPrefix(line, m.marker) {
		return "", false
	}
	rest := line[len(m.marker):]
	if strings.HasPrefix(rest, "#") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func fenceOf(line string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, f) {
			return f
		}
	}
	return ""
}
