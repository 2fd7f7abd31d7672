// Package gcs lists objects of a Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"firedam/internal/domain"
)

const backendName = "gcs"

// Lister implements ports.ObjectLister
type Lister struct {
	client *storage.Client
}

// NewLister creates a storage client. An empty credentials file falls back
// to application default credentials.
func NewLister(ctx context.Context, credentialsFile string) (*Lister, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, domain.Unauthorized(backendName, "connect", err)
	}
	return &Lister{client: client}, nil
}

// List iterates the bucket once under prefix
func (l *Lister) List(ctx context.Context, bucket, prefix string) ([]domain.RawRecord, error) {
	op := "list " + bucket

	it := l.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var records []domain.RawRecord
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classify(op, err)
		}
		records = append(records, objectRecord(bucket, attrs))
	}
	return records, nil
}

// Close releases the client
func (l *Lister) Close() error {
	return l.client.Close()
}

func objectRecord(bucket string, attrs *storage.ObjectAttrs) domain.RawRecord {
	rec := domain.RawRecord{
		"name":        attrs.Name,
		"size":        attrs.Size,
		"downloadUrl": PublicURL(bucket, attrs.Name),
		"generation":  attrs.Generation,
	}
	if attrs.ContentType != "" {
		rec["contentType"] = attrs.ContentType
	}
	if !attrs.Created.IsZero() {
		rec["timeCreated"] = attrs.Created
	}
	if !attrs.Updated.IsZero() {
		rec["updated"] = attrs.Updated
	}
	if attrs.Etag != "" {
		rec["etag"] = attrs.Etag
	}
	return rec
}

// PublicURL returns the public HTTPS address of an object
func PublicURL(bucket, name string) string {
	u := url.URL{
		Scheme: "https",
		Host:   "storage.googleapis.com",
		Path:   "/" + bucket + "/" + name,
	}
	return u.String()
}

// classify maps a storage failure to the backend error taxonomy. Only
// 401 and 403 are credential problems; everything else is unavailability.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.Unauthorized(backendName, op, err)
		}
	}
	return domain.Unavailable(backendName, op, err)
}
