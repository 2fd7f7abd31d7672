package ports

import (
	"context"

	"firedam/internal/domain"
)

// SnapshotStore is a local copy of the catalogue that can be rewritten atomically
type SnapshotStore interface {
	BeginTx(ctx context.Context) (SnapshotTx, error)
	Close() error
}

// SnapshotTx represents a transaction replacing snapshot contents
type SnapshotTx interface {
	// Clear operations
	ClearCollection(collection string) error
	ClearBucket(bucket string) error

	// Insert operations
	PutDocument(collection string, rec domain.RawRecord) error
	PutObject(bucket string, rec domain.RawRecord) error

	// Transaction control
	Commit() error
	Rollback() error
}
