package ports

import (
	"context"

	"firedam/internal/domain"
)

// ObjectLister lists the objects of a bucket under a name prefix.
// An empty prefix lists the whole bucket.
type ObjectLister interface {
	List(ctx context.Context, bucket, prefix string) ([]domain.RawRecord, error)
}
