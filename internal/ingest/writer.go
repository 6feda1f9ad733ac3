package ingest

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/barista-ai/menu-ingest/internal/db"
)

// RecordStore persists one record and returns it with its store-assigned
// ID and timestamp. *db.DB implements it.
type RecordStore interface {
	InsertRecord(ctx context.Context, text string, embedding pgvector.Vector) (*db.Record, error)
}

var _ RecordStore = (*db.DB)(nil)

// Record is an embedded chunk waiting to be written.
type Record struct {
	Index     int
	Text      string
	Embedding pgvector.Vector
}

// Result is the outcome of writing one record.
type Result struct {
	Index     int
	Text      string
	ID        uuid.UUID
	Timestamp time.Time
	Err       error
}

// OK reports whether the record was persisted.
func (r Result) OK() bool { return r.Err == nil }

// StorageWriteError reports a record the store rejected or could not reach.
type StorageWriteError struct {
	Index int
	Err   error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write record %d: %v", e.Index, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// Writer inserts records one at a time.
type Writer struct {
	store    RecordStore
	log      *zap.Logger
	onResult func(Result)
}

// NewWriter creates a writer on top of store.
func NewWriter(store RecordStore, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{store: store, log: log.Named("writer")}
}

// OnResult registers fn to be called after every write attempt.
func (w *Writer) OnResult(fn func(Result)) {
	w.onResult = fn
}

// Write pulls records in order and inserts each as a new row.
//
// The first store failure is logged, appended as a failed Result and ends the
// batch; rows written before it stay. It is not returned as an error, callers
// inspect the results. An error yielded by records (an upstream embedding
// failure) also ends the batch and is returned.
func (w *Writer) Write(ctx context.Context, records iter.Seq2[Record, error]) ([]Result, error) {
	var results []Result

	for rec, err := range records {
		if err != nil {
			return results, err
		}

		res := w.writeOne(ctx, rec)
		results = append(results, res)
		if w.onResult != nil {
			w.onResult(res)
		}
		if !res.OK() {
			w.log.Warn("stopping batch after write failure",
				zap.Int("written", len(results)-1),
			)
			break
		}
	}

	return results, nil
}

func (w *Writer) writeOne(ctx context.Context, rec Record) Result {
	res := Result{Index: rec.Index, Text: rec.Text}

	stored, err := w.store.InsertRecord(ctx, rec.Text, rec.Embedding)
	if err != nil {
		w.log.Error("write failed", zap.Int("chunk", rec.Index), zap.Error(err))
		res.Err = &StorageWriteError{Index: rec.Index, Err: err}
		return res
	}

	res.ID = stored.ID
	res.Timestamp = stored.Timestamp
	w.log.Info("record written",
		zap.Int("chunk", rec.Index),
		zap.Stringer("id", stored.ID),
	)
	return res
}

// Records adapts a slice to the sequence Write consumes.
func Records(records []Record) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, rec := range records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Written counts the persisted results.
func Written(results []Result) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}

// FirstFailure returns the first failed result, or nil.
func FirstFailure(results []Result) *Result {
	for i := range results {
		if !results[i].OK() {
			return &results[i]
		}
	}
	return nil
}
