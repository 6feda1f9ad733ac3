package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barista-ai/menu-ingest/internal/ingest"
)

func TestRenderSummary_Complete(t *testing.T) {
	out := RenderSummary(&ingest.Report{
		Path:    "menu.md",
		Chunks:  2,
		Results: []ingest.Result{{Index: 0}, {Index: 1}},
	}, nil)

	assert.Contains(t, out, "2 records written")
	assert.Contains(t, out, "menu.md")
	assert.NotContains(t, out, "skipped")
}

func TestRenderSummary_WriteFailure(t *testing.T) {
	out := RenderSummary(&ingest.Report{
		Path:   "menu.md",
		Chunks: 3,
		Results: []ingest.Result{
			{Index: 0},
			{Index: 1, Err: &ingest.StorageWriteError{Index: 1, Err: errors.New("connection refused")}},
		},
	}, nil)

	assert.Contains(t, out, "write failed")
	assert.Contains(t, out, "skipped:")
	assert.Contains(t, out, "failed to write record 1: connection refused")
}

func TestRenderSummary_EmbeddingFailure(t *testing.T) {
	err := errors.New("quota exceeded")
	out := RenderSummary(&ingest.Report{Path: "menu.md", Chunks: 2, Err: err}, err)

	assert.Contains(t, out, "embedding failed")
	assert.Contains(t, out, "quota exceeded")
}

func TestRenderSummary_NoReport(t *testing.T) {
	out := RenderSummary(nil, errors.New("failed to read document missing.md"))

	assert.Contains(t, out, "failed to read document missing.md")
}
