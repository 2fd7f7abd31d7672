package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"firedam/internal/domain"
	"firedam/internal/ports"
)

// snapshotTx implements ports.SnapshotTx
type snapshotTx struct {
	tx *sql.Tx
}

// Ensure snapshotTx implements SnapshotTx
var _ ports.SnapshotTx = (*snapshotTx)(nil)

// ClearCollection removes every document of a collection
func (t *snapshotTx) ClearCollection(collection string) error {
	_, err := t.tx.Exec(`DELETE FROM documents WHERE collection = ?`, collection)
	return err
}

// ClearBucket removes every object of a bucket
func (t *snapshotTx) ClearBucket(bucket string) error {
	_, err := t.tx.Exec(`DELETE FROM objects WHERE bucket = ?`, bucket)
	return err
}

// PutDocument inserts or replaces a document, keyed by its "id" field
func (t *snapshotTx) PutDocument(collection string, rec domain.RawRecord) error {
	id, ok := rec["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("document in %s has no id", collection)
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("document %s/%s: %w", collection, id, err)
	}
	_, err = t.tx.Exec(`
		INSERT OR REPLACE INTO documents (collection, id, data)
		VALUES (?, ?, ?)
	`, collection, id, data)
	return err
}

// PutObject inserts or replaces an object, keyed by its "name" field
func (t *snapshotTx) PutObject(bucket string, rec domain.RawRecord) error {
	name, ok := rec["name"].(string)
	if !ok || name == "" {
		return fmt.Errorf("object in %s has no name", bucket)
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("object %s/%s: %w", bucket, name, err)
	}
	_, err = t.tx.Exec(`
		INSERT OR REPLACE INTO objects (bucket, name, data)
		VALUES (?, ?, ?)
	`, bucket, name, data)
	return err
}

// Commit stamps the snapshot time and commits the transaction
func (t *snapshotTx) Commit() error {
	if _, err := t.tx.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('taken_at', ?)
	`, domain.FormatTimestamp(time.Now())); err != nil {
		_ = t.tx.Rollback()
		return err
	}
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *snapshotTx) Rollback() error {
	return t.tx.Rollback()
}

// encodeRecord stores timestamps in the canonical ISO8601 form so that
// range clauses can compare them as text
func encodeRecord(rec domain.RawRecord) ([]byte, error) {
	return json.Marshal(canonical(map[string]any(rec)))
}

func canonical(v any) any {
	switch t := v.(type) {
	case time.Time:
		return domain.FormatTimestamp(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = canonical(item)
		}
		return out
	case domain.RawRecord:
		return canonical(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = canonical(item)
		}
		return out
	default:
		return v
	}
}
