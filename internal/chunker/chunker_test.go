package chunker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoHeadersYieldsWholeDocument(t *testing.T) {
	doc := "Espresso - $3.00\nLatte - $4.00\n\nAsk about seasonal specials."

	chunks := NewMarkdownHeader(DefaultMarker).Split(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0].Category)
	assert.Equal(t, doc, chunks[0].Content)
}

func TestSplit_TwoSections(t *testing.T) {
	chunks := NewMarkdownHeader(DefaultMarker).Split("##A\nbody1\n##B\nbody2")

	assert.Equal(t, []Chunk{
		{Index: 0, Category: "A", Content: "body1"},
		{Index: 1, Category: "B", Content: "body2"},
	}, chunks)
}

func TestSplit_HotAndCold(t *testing.T) {
	chunks := NewMarkdownHeader(DefaultMarker).Split("## Hot\nEspresso\n## Cold\nIced Latte\n")

	assert.Equal(t, []Chunk{
		{Index: 0, Category: "Hot", Content: "Espresso"},
		{Index: 1, Category: "Cold", Content: "Iced Latte"},
	}, chunks)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []Chunk
	}{
		{
			name: "leading content has empty category",
			doc:  "Welcome\n## Hot\nEspresso",
			want: []Chunk{
				{Index: 0, Category: "", Content: "Welcome"},
				{Index: 1, Category: "Hot", Content: "Espresso"},
			},
		},
		{
			name: "deeper headers stay in content",
			doc:  "## Signature\n### Mocha Magic\nChocolate\n### Vanilla Dream\nVanilla",
			want: []Chunk{
				{Index: 0, Category: "Signature", Content: "### Mocha Magic\nChocolate\n### Vanilla Dream\nVanilla"},
			},
		},
		{
			name: "empty sections are dropped",
			doc:  "## Empty\n## Hot\nEspresso\n## Also Empty\n\n",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "Espresso"},
			},
		},
		{
			name: "blank lines inside a section are kept",
			doc:  "## Hot\n\n\nEspresso\n\nLatte\n\n\n",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "Espresso\n\nLatte"},
			},
		},
		{
			name: "lines are trimmed",
			doc:  "  ## Hot  \n   Espresso   \n\tLatte",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "Espresso\nLatte"},
			},
		},
		{
			name: "headers inside code fences are content",
			doc:  "## Hot\n```\n## not a header\n```\nEspresso",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "```\n## not a header\n```\nEspresso"},
			},
		},
		{
			name: "windows line endings",
			doc:  "## Hot\r\nEspresso\r\n## Cold\r\nIced Latte\r\n",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "Espresso"},
				{Index: 1, Category: "Cold", Content: "Iced Latte"},
			},
		},
		{
			name: "repeated categories are not merged",
			doc:  "## Hot\nEspresso\n## Hot\nLatte",
			want: []Chunk{
				{Index: 0, Category: "Hot", Content: "Espresso"},
				{Index: 1, Category: "Hot", Content: "Latte"},
			},
		},
		{
			name: "empty document",
			doc:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			doc:  "\n  \n\t\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMarkdownHeader(DefaultMarker).Split(tt.doc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_CustomMarker(t *testing.T) {
	chunks := NewMarkdownHeader("#").Split("# Drinks\nEspresso\n## Hot\nLatte\n# Food\nCroissant")

	assert.Equal(t, []Chunk{
		{Index: 0, Category: "Drinks", Content: "Espresso\n## Hot\nLatte"},
		{Index: 1, Category: "Food", Content: "Croissant"},
	}, chunks)
}

func TestSplit_ContentReconstructsBody(t *testing.T) {
	body := []string{"Intro line", "Espresso\nAmericano", "Iced Latte\n\nCold Brew"}
	doc := body[0] + "\n## Hot\n" + body[1] + "\n## Cold\n" + body[2] + "\n"

	chunks := NewMarkdownHeader(DefaultMarker).Split(doc)

	var contents []string
	for _, c := range chunks {
		contents = append(contents, c.Content)
	}
	assert.Equal(t, strings.Join(body, "\n"), strings.Join(contents, "\n"))
}

func TestSplit_Deterministic(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "menu.md"))
	require.NoError(t, err)

	c := NewMarkdownHeader(DefaultMarker)
	assert.Equal(t, c.Split(string(data)), c.Split(string(data)))
}

func TestChunkFile_Menu(t *testing.T) {
	chunks, err := NewMarkdownHeader("").ChunkFile(filepath.Join("testdata", "menu.md"))
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Equal(t, "", chunks[0].Category)
	assert.Equal(t, "Hot Coffee", chunks[1].Category)
	assert.Equal(t, "Signature Drinks", chunks[2].Category)
	assert.Equal(t, "Cold Drinks", chunks[3].Category)

	assert.Contains(t, chunks[2].Content, "### Mocha Magic")
	assert.Contains(t, chunks[2].Content, "### Hazelnut Harmony")
	assert.Equal(t, "Iced Latte - $4.75\nCold Brew - $4.50", chunks[3].Content)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestChunkFile_Errors(t *testing.T) {
	dir := t.TempDir()

	binary := filepath.Join(dir, "menu.bin")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00, 0x81}, 0644))

	tests := []struct {
		name     string
		path     string
		notExist bool
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.md"), notExist: true},
		{name: "directory", path: dir},
		{name: "binary content", path: binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := NewMarkdownHeader(DefaultMarker).ChunkFile(tt.path)
			require.Error(t, err)
			assert.Nil(t, chunks)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.path, inputErr.Path)
			assert.Equal(t, tt.notExist, errors.Is(err, fs.ErrNotExist))
		})
	}
}
