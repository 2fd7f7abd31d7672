package commands

import (
	"context"
	"fmt"

	"firedam/internal/application"
	"firedam/internal/domain"
	"firedam/internal/ports"
)

// SnapshotCount is the number of records copied for one resource
type SnapshotCount struct {
	Resource string
	Records  int
}

// SnapshotResult contains the result of a snapshot run
type SnapshotResult struct {
	Counts []SnapshotCount
}

// Total returns the number of records copied
func (r *SnapshotResult) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c.Records
	}
	return n
}

// SnapshotCommand copies every resource from the backend into a local
// snapshot store. It reads remote records and writes local ones only.
type SnapshotCommand struct {
	backend *application.Backend
	store   ports.SnapshotStore
}

// NewSnapshotCommand creates a new SnapshotCommand
func NewSnapshotCommand(backend *application.Backend, store ports.SnapshotStore) *SnapshotCommand {
	return &SnapshotCommand{
		backend: backend,
		store:   store,
	}
}

// Execute runs the snapshot. The store is rewritten in one transaction;
// on any failure, or when the backend returned nothing at all, the
// previous contents are kept.
func (c *SnapshotCommand) Execute(ctx context.Context) (*SnapshotResult, error) {
	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	result := &SnapshotResult{}
	for _, desc := range c.backend.Registry.Resources() {
		n, err := c.copyResource(ctx, tx, desc)
		if err != nil {
			return nil, &application.SnapshotError{Resource: desc.Name(), Err: err}
		}
		result.Counts = append(result.Counts, SnapshotCount{Resource: desc.Name(), Records: n})
	}

	if result.Total() == 0 {
		return result, application.ErrEmptySnapshot
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("snapshot: commit: %w", err)
	}
	committed = true
	return result, nil
}

func (c *SnapshotCommand) copyResource(ctx context.Context, tx ports.SnapshotTx, desc domain.ResourceDescriptor) (int, error) {
	q, err := domain.Translate(desc, nil)
	if err != nil {
		return 0, err
	}
	raws, err := c.backend.Executor.Execute(ctx, q)
	if err != nil {
		return 0, err
	}

	switch desc.Kind() {
	case domain.KindCollection:
		if err := tx.ClearCollection(desc.Target()); err != nil {
			return 0, err
		}
		for _, r := range raws {
			if err := tx.PutDocument(desc.Target(), domain.CanonicalDates(desc, r)); err != nil {
				return 0, err
			}
		}
	case domain.KindBucket:
		if err := tx.ClearBucket(desc.Target()); err != nil {
			return 0, err
		}
		for _, r := range raws {
			if err := tx.PutObject(desc.Target(), domain.CanonicalDates(desc, r)); err != nil {
				return 0, err
			}
		}
	}
	return len(raws), nil
}
