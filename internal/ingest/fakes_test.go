package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/barista-ai/menu-ingest/internal/db"
	"github.com/barista-ai/menu-ingest/internal/embeddings"
)

var errStoreDown = errors.New("connection refused")

// memoryStore assigns IDs and timestamps the way the database does.
type memoryStore struct {
	mu     sync.Mutex
	rows   []db.Record
	calls  int
	failAt int // 1-based insert call that fails; 0 never fails
}

func (s *memoryStore) InsertRecord(ctx context.Context, text string, embedding pgvector.Vector) (*db.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failAt > 0 && s.calls == s.failAt {
		return nil, errStoreDown
	}

	rec := db.Record{
		ID:          uuid.New(),
		TextContent: text,
		Embedding:   embedding,
		Timestamp:   time.Now(),
	}
	s.rows = append(s.rows, rec)
	return &rec, nil
}

func (s *memoryStore) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	texts := make([]string, 0, len(s.rows))
	for _, r := range s.rows {
		texts = append(texts, r.TextContent)
	}
	return texts
}

// recordingProvider captures every text sent for embedding.
type recordingProvider struct {
	texts  []string
	failAt int // 1-based call that fails; 0 never fails
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Embed(ctx context.Context, req embeddings.Request) ([]float32, error) {
	p.texts = append(p.texts, req.Text)
	if p.failAt > 0 && len(p.texts) == p.failAt {
		return nil, errors.New("deadline exceeded")
	}
	values := make([]float32, req.Dimensions)
	for i := range values {
		values[i] = float32(len(p.texts)) / 10
	}
	return values, nil
}

// recordingObserver keeps everything the pipeline reports.
type recordingObserver struct {
	total   int
	results []Result
}

func (o *recordingObserver) Chunked(total int)   { o.total = total }
func (o *recordingObserver) Recorded(res Result) { o.results = append(o.results, res) }
