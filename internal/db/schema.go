package db

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type schemaParams struct {
	Table          string
	EmbeddingIndex string
	TimestampIndex string
	Dimensions     int
}

// RenderMigrations returns the schema statements for table, in order.
func RenderMigrations(table string, dimensions int) ([]string, error) {
	table = normalizeTable(table)
	base := table[strings.LastIndex(table, ".")+1:]
	params := schemaParams{
		Table:          quoteIdent(table),
		EmbeddingIndex: quoteIdent(base + "_embedding_idx"),
		TimestampIndex: quoteIdent(base + "_timestamp_idx"),
		Dimensions:     dimensions,
	}

	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	rendered := make([]string, 0, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(migrationFS, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, params); err != nil {
			return nil, fmt.Errorf("failed to render migration %s: %w", name, err)
		}
		rendered = append(rendered, buf.String())
	}
	return rendered, nil
}

// Migrate creates the pgvector extension, the record table and its indexes.
// Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context, dimensions int) error {
	migrations, err := RenderMigrations(db.table, dimensions)
	if err != nil {
		return err
	}
	for i, sql := range migrations {
		if _, err := db.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}
