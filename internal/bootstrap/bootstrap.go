// Package bootstrap builds the query backend selected by the configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"firedam/internal/adapters/firestore"
	"firedam/internal/adapters/gcs"
	"firedam/internal/adapters/memory"
	"firedam/internal/adapters/s3"
	"firedam/internal/adapters/sqlite"
	"firedam/internal/application"
	"firedam/internal/config"
	"firedam/internal/ports"
)

// NewBackend connects the document and object adapters named by cfg.
// Callers release them with Backend.Close.
func NewBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*application.Backend, error) {
	switch cfg.Backend {
	case config.BackendFirebase:
		return firebaseBackend(ctx, cfg, log)

	case config.BackendSnapshot:
		store, err := sqlite.OpenExisting(cfg.Snapshot.Path)
		if err != nil {
			return nil, err
		}
		taken, err := store.TakenAt(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("reading snapshot: %w", err)
		}
		log.Info("Using snapshot backend",
			zap.String("path", store.Path()),
			zap.Time("taken_at", taken),
		)
		return application.NewBackend(store, store, store), nil

	case config.BackendMemory:
		store, err := memory.LoadFixtures(cfg.Fixtures.Path)
		if err != nil {
			return nil, err
		}
		log.Info("Using in-memory backend", zap.String("fixtures", cfg.Fixtures.Path))
		return application.NewBackend(store, store, store), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func firebaseBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*application.Backend, error) {
	docs, err := firestore.NewQuerier(ctx, firestore.Options{
		ProjectID:       cfg.ProjectID,
		DatabaseID:      cfg.Database,
		CredentialsFile: cfg.Credentials,
	})
	if err != nil {
		return nil, err
	}

	objects, err := objectLister(ctx, cfg)
	if err != nil {
		docs.Close()
		return nil, err
	}

	log.Info("Connected to Firebase",
		zap.String("project", cfg.ProjectID),
		zap.String("storage", cfg.Storage.Driver),
	)
	return application.NewBackend(docs, objects, docs, objects), nil
}

type closingLister interface {
	ports.ObjectLister
	Close() error
}

func objectLister(ctx context.Context, cfg config.Config) (closingLister, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return s3.NewLister(s3.Config{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			AccessKeyID:     cfg.Storage.S3.AccessKey,
			SecretAccessKey: cfg.Storage.S3.SecretKey,
			UseSSL:          cfg.Storage.S3.Secure,
			Bucket:          cfg.Storage.S3.Bucket,
		})
	case config.StorageGCS, "":
		return gcs.NewLister(ctx, cfg.Credentials)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
