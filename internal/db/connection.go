package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the collection menu records are written to.
const DefaultTable = "menu"

// DB wraps the database connection pool
type DB struct {
	pool  *pgxpool.Pool
	table string
}

// New creates a new database connection writing to table.
func New(ctx context.Context, connString, table string) (*DB, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, table: normalizeTable(table)}, nil
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Table returns the table records are written to.
func (db *DB) Table() string {
	return db.table
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.pool.Close()
}

func normalizeTable(table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		return DefaultTable
	}
	return table
}

// quoteIdent quotes a possibly schema-qualified name such as public.menu.
func quoteIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
