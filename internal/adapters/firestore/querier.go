// Package firestore runs collection queries against Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"firedam/internal/domain"
)

const backendName = "firestore"

// Options configures the Firestore client
type Options struct {
	// ProjectID defaults to the project of the credentials
	ProjectID string
	// DatabaseID defaults to the "(default)" database
	DatabaseID string
	// CredentialsFile is a service account key file. When empty, application
	// default credentials are used, or the emulator when
	// FIRESTORE_EMULATOR_HOST is set.
	CredentialsFile string
}

// Querier implements ports.DocumentQuerier
type Querier struct {
	client *firestore.Client
}

// NewQuerier connects to Firestore
func NewQuerier(ctx context.Context, opts Options) (*Querier, error) {
	projectID := opts.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	databaseID := opts.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOpts...)
	if err != nil {
		return nil, domain.Unauthorized(backendName, "connect", err)
	}
	return &Querier{client: client}, nil
}

// NewQuerierFromClient wraps an existing client
func NewQuerierFromClient(client *firestore.Client) *Querier {
	return &Querier{client: client}
}

// Query runs one filtered read against collection
func (q *Querier) Query(ctx context.Context, collection string, clauses []domain.FilterClause) ([]domain.RawRecord, error) {
	op := "query " + collection

	query := q.client.Collection(collection).Query
	for _, c := range clauses {
		pred, err := predicate(c.Operator)
		if err != nil {
			return nil, err
		}
		query = query.Where(c.Field, pred, c.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []domain.RawRecord
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(op, err)
		}
		records = append(records, documentRecord(doc))
	}
	return records, nil
}

// Close releases the client
func (q *Querier) Close() error {
	return q.client.Close()
}

// predicate maps a clause operator to the Firestore where operator
func predicate(op domain.Operator) (string, error) {
	switch op {
	case domain.OpEquals:
		return "==", nil
	case domain.OpInSet:
		return "in", nil
	case domain.OpArrayOverlaps:
		return "array-contains-any", nil
	case domain.OpGreaterOrEqual:
		return ">=", nil
	case domain.OpLessOrEqual:
		return "<=", nil
	default:
		return "", fmt.Errorf("firestore: unsupported operator %s", op)
	}
}

func documentRecord(doc *firestore.DocumentSnapshot) domain.RawRecord {
	rec := domain.RawRecord(doc.Data())
	if rec == nil {
		rec = domain.RawRecord{}
	}
	for k, v := range rec {
		rec[k] = fieldValue(v)
	}
	rec["id"] = doc.Ref.ID
	return rec
}

// fieldValue replaces document references by the id they point to
func fieldValue(v any) any {
	switch v := v.(type) {
	case *firestore.DocumentRef:
		if v == nil {
			return nil
		}
		return v.ID
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fieldValue(e)
		}
		return out
	default:
		return v
	}
}

// classify maps a gRPC failure to the backend error taxonomy
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return domain.Unauthorized(backendName, op, err)
	case codes.FailedPrecondition, codes.InvalidArgument:
		return domain.Rejected(backendName, op, err)
	default:
		return domain.Unavailable(backendName, op, err)
	}
}
