package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// InsertRecord inserts a new row. There is no existence check, so the same
// text inserted twice produces two rows.
func (db *DB) InsertRecord(ctx context.Context, text string, embedding pgvector.Vector) (*Record, error) {
	rec := Record{TextContent: text, Embedding: embedding}

	query := fmt.Sprintf(
		`INSERT INTO %s (text_content, embedding) VALUES ($1, $2) RETURNING id, "timestamp"`,
		quoteIdent(db.table),
	)
	if err := db.pool.QueryRow(ctx, query, text, embedding).Scan(&rec.ID, &rec.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	return &rec, nil
}

// CountRecords returns the number of rows in the table.
func (db *DB) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(db.table))
	if err := db.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
