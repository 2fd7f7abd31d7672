package application

import (
	"errors"
	"io"

	"firedam/internal/domain"
	"firedam/internal/ports"
)

// Backend bundles the registry with an executor bound to concrete adapters
type Backend struct {
	Registry *domain.Registry
	Executor *Executor
	closers  []io.Closer
}

// NewBackend wires documents and objects into a Backend. Closers are
// released by Close in reverse order.
func NewBackend(documents ports.DocumentQuerier, objects ports.ObjectLister, closers ...io.Closer) *Backend {
	return &Backend{
		Registry: domain.NewRegistry(),
		Executor: NewExecutor(documents, objects),
		closers:  closers,
	}
}

// Close releases the underlying clients
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
