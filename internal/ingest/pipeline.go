// Package ingest wires the chunker, the embedder and the record store into
// the menu ingestion pipeline.
package ingest

import (
	"context"
	"iter"

	"go.uber.org/zap"

	"github.com/barista-ai/menu-ingest/internal/chunker"
	"github.com/barista-ai/menu-ingest/internal/embeddings"
)

// ChunkEmbedder embeds a single chunk. *embeddings.Embedder implements it.
type ChunkEmbedder interface {
	Embed(ctx context.Context, c chunker.Chunk) (*embeddings.Result, error)
}

var _ ChunkEmbedder = (*embeddings.Embedder)(nil)

// Observer follows the progress of a run.
type Observer interface {
	Chunked(total int)
	Recorded(res Result)
}

type nopObserver struct{}

func (nopObserver) Chunked(int)      {}
func (nopObserver) Recorded(Result) {}

// Pipeline runs one document through chunking, embedding and writing.
type Pipeline struct {
	chunker  chunker.Chunker
	embedder ChunkEmbedder
	writer   *Writer
	observer Observer
	log      *zap.Logger
}

// NewPipeline composes the three stages.
func NewPipeline(ch chunker.Chunker, emb ChunkEmbedder, w *Writer, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		chunker:  ch,
		embedder: emb,
		writer:   w,
		log:      log.Named("pipeline"),
	}
	p.SetObserver(nil)
	return p
}

// SetObserver installs o; nil removes any observer.
func (p *Pipeline) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	p.observer = o
	p.writer.OnResult(o.Recorded)
}

// Run ingests the document at path.
//
// An unreadable document returns a nil report and a *chunker.InputError.
// An embedding failure on chunk k returns the report of chunks before k and
// the *embeddings.ServiceError; nothing from k on is written. A write failure
// is reported in the last Result and Run returns a nil error.
func (p *Pipeline) Run(ctx context.Context, path string) (*Report, error) {
	log := p.log.With(zap.String("path", path))

	chunks, err := p.chunker.ChunkFile(path)
	if err != nil {
		log.Error("failed to chunk document", zap.Error(err))
		return nil, err
	}
	log.Info("document chunked", zap.Int("chunks", len(chunks)))
	p.observer.Chunked(len(chunks))

	report := &Report{Path: path, Chunks: len(chunks)}
	report.Results, report.Err = p.writer.Write(ctx, p.embed(ctx, chunks))

	fields := []zap.Field{
		zap.Int("chunks", report.Chunks),
		zap.Int("written", report.Written()),
	}
	switch {
	case report.Err != nil:
		log.Error("ingestion aborted", append(fields, zap.Error(report.Err))...)
	case report.Failure() != nil:
		log.Warn("ingestion stopped early", append(fields, zap.Error(report.Failure().Err))...)
	default:
		log.Info("ingestion complete", fields...)
	}

	return report, report.Err
}

// embed yields records lazily so chunk k+1 is only embedded after chunk k
// has been written.
func (p *Pipeline) embed(ctx context.Context, chunks []chunker.Chunk) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, c := range chunks {
			res, err := p.embedder.Embed(ctx, c)
			if err != nil {
				yield(Record{Index: c.Index}, err)
				return
			}
			if !yield(Record{Index: c.Index, Text: res.Text, Embedding: res.Vector}, nil) {
				return
			}
		}
	}
}
