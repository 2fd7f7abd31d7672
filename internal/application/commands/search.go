package commands

import (
	"context"

	"firedam/internal/application"
	"firedam/internal/domain"
)

// SearchResult is the outcome of one search over a resource
type SearchResult struct {
	Resource string
	Clauses  []domain.FilterClause
	Records  []domain.ResultRecord
}

// SearchCommand runs a filter map against one resource
type SearchCommand struct {
	backend  *application.Backend
	Resource string
	Filter   domain.FilterMap
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(backend *application.Backend, resource string, filter domain.FilterMap) *SearchCommand {
	return &SearchCommand{
		backend:  backend,
		Resource: resource,
		Filter:   filter,
	}
}

// Execute describes the resource, translates the filter, runs the query
// and normalizes the records. Validation failures are returned before any
// backend is contacted.
func (c *SearchCommand) Execute(ctx context.Context) (*SearchResult, error) {
	desc, err := c.backend.Registry.Describe(c.Resource)
	if err != nil {
		return nil, err
	}

	q, err := domain.Translate(desc, c.Filter)
	if err != nil {
		return nil, err
	}

	raws, err := c.backend.Executor.Execute(ctx, q)
	if err != nil {
		return nil, err
	}

	records, err := domain.Normalize(desc, raws)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Resource: desc.Name(),
		Clauses:  q.Clauses,
		Records:  records,
	}, nil
}
