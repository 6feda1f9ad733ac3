package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Record is one persisted menu chunk. ID and Timestamp are assigned by the
// database on insert.
type Record struct {
	ID          uuid.UUID
	TextContent string
	Embedding   pgvector.Vector
	Timestamp   time.Time
}
