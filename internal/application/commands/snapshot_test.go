package commands

import (
	"context"
	"errors"
	"testing"

	"firedam/internal/adapters/memory"
	"firedam/internal/application"
	"firedam/internal/domain"
	"firedam/internal/ports"
)

type fakeSnapshotStore struct {
	docs       map[string][]domain.RawRecord
	objects    map[string][]domain.RawRecord
	committed  bool
	rolledBack bool
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		docs:    make(map[string][]domain.RawRecord),
		objects: make(map[string][]domain.RawRecord),
	}
}

func (f *fakeSnapshotStore) BeginTx(ctx context.Context) (ports.SnapshotTx, error) {
	return &fakeSnapshotTx{store: f}, nil
}

func (f *fakeSnapshotStore) Close() error { return nil }

type fakeSnapshotTx struct {
	store *fakeSnapshotStore
}

func (tx *fakeSnapshotTx) ClearCollection(collection string) error {
	delete(tx.store.docs, collection)
	return nil
}

func (tx *fakeSnapshotTx) ClearBucket(bucket string) error {
	delete(tx.store.objects, bucket)
	return nil
}

func (tx *fakeSnapshotTx) PutDocument(collection string, rec domain.RawRecord) error {
	tx.store.docs[collection] = append(tx.store.docs[collection], rec)
	return nil
}

func (tx *fakeSnapshotTx) PutObject(bucket string, rec domain.RawRecord) error {
	tx.store.objects[bucket] = append(tx.store.objects[bucket], rec)
	return nil
}

func (tx *fakeSnapshotTx) Commit() error {
	tx.store.committed = true
	return nil
}

func (tx *fakeSnapshotTx) Rollback() error {
	tx.store.rolledBack = true
	return nil
}

func TestSnapshotCommand_CopiesEveryResource(t *testing.T) {
	backend, _ := seededBackend(t)
	store := newFakeSnapshotStore()

	result, err := NewSnapshotCommand(backend, store).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []SnapshotCount{
		{Resource: "assets", Records: 3},
		{Resource: "versions", Records: 0},
		{Resource: "comments", Records: 0},
		{Resource: "asset_files", Records: 3},
	}
	if len(result.Counts) != len(want) {
		t.Fatalf("expected %d counts, got %v", len(want), result.Counts)
	}
	for i := range want {
		if result.Counts[i] != want[i] {
			t.Errorf("count %d: expected %+v, got %+v", i, want[i], result.Counts[i])
		}
	}
	if result.Total() != 6 {
		t.Errorf("expected total 6, got %d", result.Total())
	}
	if !store.committed {
		t.Error("expected commit")
	}
	if len(store.objects[domain.AssetBucket]) != 3 {
		t.Errorf("expected 3 objects in snapshot, got %d", len(store.objects[domain.AssetBucket]))
	}
}

func TestSnapshotCommand_EmptyBackendKeepsSnapshot(t *testing.T) {
	backend := application.NewBackend(memory.NewStore(), memory.NewStore())
	store := newFakeSnapshotStore()

	_, err := NewSnapshotCommand(backend, store).Execute(context.Background())
	if !errors.Is(err, application.ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
	if store.committed || !store.rolledBack {
		t.Errorf("expected rollback without commit, got committed=%v rolledBack=%v", store.committed, store.rolledBack)
	}
}

func TestSnapshotCommand_BackendFailureRollsBack(t *testing.T) {
	backend, mem := seededBackend(t)
	mem.FailWith(domain.Unavailable("memory", "query", errors.New("down")))
	store := newFakeSnapshotStore()

	_, err := NewSnapshotCommand(backend, store).Execute(context.Background())
	var snapErr *application.SnapshotError
	if !errors.As(err, &snapErr) || snapErr.Resource != "assets" {
		t.Fatalf("expected SnapshotError for assets, got %v", err)
	}
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected wrapped unavailable error, got %v", err)
	}
	if !store.rolledBack {
		t.Error("expected rollback")
	}
}
