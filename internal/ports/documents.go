package ports

import (
	"context"

	"firedam/internal/domain"
)

// DocumentQuerier runs one filtered read against a document collection.
// Implementations bind every clause to a native predicate and put the
// document id under the "id" field of each raw record.
type DocumentQuerier interface {
	Query(ctx context.Context, collection string, clauses []domain.FilterClause) ([]domain.RawRecord, error)
}
