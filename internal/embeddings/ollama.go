package embeddings

import (
	"context"

	"github.com/barista-ai/menu-ingest/internal/ollama"
)

// OllamaProvider embeds with a local Ollama model such as nomic-embed-text.
// Task type and dimensionality are fixed by the model and not sent.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a provider on top of an Ollama client.
func NewOllamaProvider(client *ollama.Client) *OllamaProvider {
	return &OllamaProvider{client: client}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Embed requests one embedding for req.Text.
func (p *OllamaProvider) Embed(ctx context.Context, req Request) ([]float32, error) {
	return p.client.Embeddings(ctx, &ollama.EmbeddingRequest{
		Model:  req.Model,
		Prompt: req.Text,
	})
}
