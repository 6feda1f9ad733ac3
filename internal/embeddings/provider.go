package embeddings

import (
	"context"
	"fmt"

	"github.com/barista-ai/menu-ingest/config"
	"github.com/barista-ai/menu-ingest/internal/ollama"
)

// Request is a single embedding call.
type Request struct {
	Model      string
	Text       string
	TaskType   string
	Dimensions int
}

// Provider is an external embedding service.
type Provider interface {
	Name() string
	Embed(ctx context.Context, req Request) ([]float32, error)
}

// NewProvider builds the provider selected in cfg.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Embeddings.Provider {
	case config.ProviderGemini, "":
		return NewGeminiProvider(cfg.Embeddings.APIKey, cfg.Embeddings.BaseURL, cfg.Embeddings.Timeout), nil
	case config.ProviderOllama:
		return NewOllamaProvider(ollama.NewClient(cfg.Ollama.BaseURL, cfg.Embeddings.Timeout)), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Embeddings.Provider)
	}
}
