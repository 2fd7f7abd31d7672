// Package s3 lists objects of an S3-compatible mirror of the asset bucket.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"firedam/internal/domain"
)

const backendName = "s3"

// Config holds the mirror connection settings.
type Config struct {
	Endpoint        string // e.g. "localhost:9000"
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	// Bucket replaces the logical bucket name on every listing. Empty keeps it.
	Bucket string
}

// Lister implements ports.ObjectLister over MinIO or any S3 endpoint
type Lister struct {
	mc     *minio.Client
	bucket string
}

// NewLister creates a MinIO client
func NewLister(cfg Config) (*Lister, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3: endpoint is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Lister{mc: mc, bucket: cfg.Bucket}, nil
}

// List returns every object under prefix in one recursive listing
func (l *Lister) List(ctx context.Context, bucket, prefix string) ([]domain.RawRecord, error) {
	if l.bucket != "" {
		bucket = l.bucket
	}
	op := "list " + bucket

	var records []domain.RawRecord
	for obj := range l.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, classify(op, obj.Err)
		}
		records = append(records, objectRecord(l.mc.EndpointURL(), bucket, obj))
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable(backendName, op, err)
	}
	return records, nil
}

// Close is a no-op; the MinIO client holds no resources to release
func (l *Lister) Close() error {
	return nil
}

func objectRecord(endpoint *url.URL, bucket string, obj minio.ObjectInfo) domain.RawRecord {
	rec := domain.RawRecord{
		"name": obj.Key,
		"size": obj.Size,
	}
	if ct := contentType(obj); ct != "" {
		rec["contentType"] = ct
	}
	if !obj.LastModified.IsZero() {
		rec["timeCreated"] = obj.LastModified
	}
	if obj.ETag != "" {
		rec["etag"] = obj.ETag
	}
	if endpoint != nil {
		u := *endpoint
		u.Path = "/" + bucket + "/" + obj.Key
		rec["downloadUrl"] = u.String()
	}
	return rec
}

// contentType reads the object type. Listings carry it only in the user
// metadata MinIO returns for WithMetadata, keyed "content-type" in any case.
func contentType(obj minio.ObjectInfo) string {
	if obj.ContentType != "" {
		return obj.ContentType
	}
	for k, v := range obj.UserMetadata {
		if strings.EqualFold(k, "content-type") {
			return v
		}
	}
	return ""
}

// classify maps an S3 error response to the backend error taxonomy
func classify(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.Unauthorized(backendName, op, err)
	case resp.Code == "AccessDenied", resp.Code == "InvalidAccessKeyId", resp.Code == "SignatureDoesNotMatch":
		return domain.Unauthorized(backendName, op, err)
	default:
		return domain.Unavailable(backendName, op, err)
	}
}
