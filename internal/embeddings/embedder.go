// Package embeddings turns menu chunks into fixed-size vectors through an
// external embedding service.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/barista-ai/menu-ingest/internal/chunker"
)

// Dimensions is the length of every stored embedding.
const Dimensions = 768

// TaskSemanticSimilarity asks the service for similarity-optimised vectors.
const TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"

var (
	ErrEmptyEmbedding    = errors.New("empty embedding returned")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// ServiceError wraps any failure of the embedding call for one chunk.
type ServiceError struct {
	Provider string
	Index    int
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service %s failed for chunk %d: %v", e.Provider, e.Index, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// CanonicalText is the exact string that is both embedded and stored.
// An empty category still keeps the separator.
func CanonicalText(c chunker.Chunk) string {
	return fmt.Sprintf("%s - %s", c.Category, c.Content)
}

// Result is an embedded chunk.
type Result struct {
	Text   string
	Vector pgvector.Vector
}

// Options configures an Embedder.
type Options struct {
	Model             string
	TaskType          string
	RequestsPerSecond float64 // <= 0 means unlimited
	Burst             int
	Normalize         bool
}

// Embedder produces one embedding per chunk, one service call each.
type Embedder struct {
	provider Provider
	opts     Options
	limiter  *rate.Limiter
	log      *zap.Logger
}

// NewEmbedder creates an embedder on top of provider.
func NewEmbedder(provider Provider, opts Options, log *zap.Logger) *Embedder {
	if opts.TaskType == "" {
		opts.TaskType = TaskSemanticSimilarity
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Embedder{
		provider: provider,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, opts.Burst),
		log:      log.Named("embedder"),
	}
}

// Embed builds the canonical text for c and requests its embedding. Failures
// are logged and returned as *ServiceError; nothing is retried.
func (e *Embedder) Embed(ctx context.Context, c chunker.Chunk) (*Result, error) {
	text := CanonicalText(c)
	e.log.Debug("creating embedding",
		zap.Int("chunk", c.Index),
		zap.String("category", c.Category),
		zap.Int("chars", len(text)),
	)

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, e.fail(c, fmt.Errorf("rate limiter: %w", err))
	}

	values, err := e.provider.Embed(ctx, Request{
		Model:      e.opts.Model,
		Text:       text,
		TaskType:   e.opts.TaskType,
		Dimensions: Dimensions,
	})
	if err != nil {
		return nil, e.fail(c, err)
	}
	if len(values) == 0 {
		return nil, e.fail(c, ErrEmptyEmbedding)
	}
	if len(values) != Dimensions {
		return nil, e.fail(c, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(values), Dimensions))
	}

	if e.opts.Normalize {
		values = normalizeVector(values)
	}

	return &Result{Text: text, Vector: pgvector.NewVector(values)}, nil
}

func (e *Embedder) fail(c chunker.Chunk, err error) error {
	e.log.Error("embedding failed",
		zap.Int("chunk", c.Index),
		zap.String("category", c.Category),
		zap.String("provider", e.provider.Name()),
		zap.Error(err),
	)
	return &ServiceError{Provider: e.provider.Name(), Index: c.Index, Err: err}
}

// normalizeVector scales vec to unit length for cosine distance.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
