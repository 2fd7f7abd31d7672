// Package memory holds the catalogue in process memory. It backs tests and
// the fixtures backend.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"

	"firedam/internal/domain"
)

// Store implements ports.DocumentQuerier and ports.ObjectLister over
// in-memory records
type Store struct {
	mu        sync.RWMutex
	documents map[string][]domain.RawRecord
	objects   map[string][]domain.RawRecord
	err       error
	queries   int
	listings  int
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		documents: make(map[string][]domain.RawRecord),
		objects:   make(map[string][]domain.RawRecord),
	}
}

// AddDocument appends a document to collection
func (s *Store) AddDocument(collection string, rec domain.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[collection] = append(s.documents[collection], maps.Clone(rec))
}

// AddObject appends an object to bucket
func (s *Store) AddObject(bucket string, rec domain.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket] = append(s.objects[bucket], maps.Clone(rec))
}

// FailWith makes every following call return err. A nil err restores
// normal behaviour.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many queries and listings the store has served
func (s *Store) Calls() (queries, listings int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries, s.listings
}

// Query returns the documents of collection matching every clause
func (s *Store) Query(ctx context.Context, collection string, clauses []domain.FilterClause) ([]domain.RawRecord, error) {
	s.mu.Lock()
	s.queries++
	failure := s.err
	docs := s.documents[collection]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("memory", "query "+collection, err)
	}
	if failure != nil {
		return nil, failure
	}

	out := make([]domain.RawRecord, 0, len(docs))
	for _, doc := range docs {
		if matchesAll(doc, clauses) {
			out = append(out, maps.Clone(doc))
		}
	}
	return out, nil
}

// List returns the objects of bucket whose name starts with prefix
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]domain.RawRecord, error) {
	s.mu.Lock()
	s.listings++
	failure := s.err
	objs := s.objects[bucket]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("memory", "list "+bucket, err)
	}
	if failure != nil {
		return nil, failure
	}

	out := make([]domain.RawRecord, 0, len(objs))
	for _, obj := range objs {
		name, _ := obj["name"].(string)
		if strings.HasPrefix(name, prefix) {
			out = append(out, maps.Clone(obj))
		}
	}
	return out, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func matchesAll(r domain.RawRecord, clauses []domain.FilterClause) bool {
	for _, c := range clauses {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}
