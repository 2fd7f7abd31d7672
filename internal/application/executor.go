package application

import (
	"context"
	"fmt"

	"firedam/internal/domain"
	"firedam/internal/ports"
)

// Executor runs translated queries against the configured backends.
// Every query costs exactly one remote call; nothing is retried or cached.
type Executor struct {
	documents ports.DocumentQuerier
	objects   ports.ObjectLister
}

// NewExecutor creates an Executor. Either port may be nil when the
// corresponding backend is not configured.
func NewExecutor(documents ports.DocumentQuerier, objects ports.ObjectLister) *Executor {
	return &Executor{documents: documents, objects: objects}
}

// Execute runs q and returns the matching raw records
func (e *Executor) Execute(ctx context.Context, q domain.Query) ([]domain.RawRecord, error) {
	desc := q.Resource
	if desc.IsZero() {
		return nil, fmt.Errorf("execute: query has no resource")
	}

	switch desc.Kind() {
	case domain.KindCollection:
		if e.documents == nil {
			return nil, domain.Unavailable("documents", "query "+desc.Target(), ErrNotConfigured)
		}
		return e.documents.Query(ctx, desc.Target(), q.Clauses)

	case domain.KindBucket:
		if e.objects == nil {
			return nil, domain.Unavailable("objects", "list "+desc.Target(), ErrNotConfigured)
		}
		raws, err := e.objects.List(ctx, desc.Target(), q.Prefix())
		if err != nil {
			return nil, err
		}
		_, rest := q.Split()
		return filterRecords(raws, rest), nil

	default:
		return nil, fmt.Errorf("execute: unsupported resource kind %s", desc.Kind())
	}
}

// filterRecords keeps the records every clause matches, in listing order
func filterRecords(raws []domain.RawRecord, clauses []domain.FilterClause) []domain.RawRecord {
	if len(clauses) == 0 {
		return raws
	}
	out := make([]domain.RawRecord, 0, len(raws))
outer:
	for _, r := range raws {
		for _, c := range clauses {
			if !c.Matches(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}
