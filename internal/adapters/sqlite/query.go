package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"firedam/internal/domain"
)

// Query returns the documents of collection matching every clause. Clauses
// are compiled to json_extract predicates over the stored document.
func (s *Store) Query(ctx context.Context, collection string, clauses []domain.FilterClause) ([]domain.RawRecord, error) {
	var b strings.Builder
	b.WriteString(`SELECT data FROM documents WHERE collection = ?`)
	args := []any{collection}

	for _, c := range clauses {
		cond, condArgs, err := compileClause(c)
		if err != nil {
			return nil, err
		}
		b.WriteString(" AND ")
		b.WriteString(cond)
		args = append(args, condArgs...)
	}
	b.WriteString(" ORDER BY rowid")

	return s.scan(ctx, "query "+collection, b.String(), args...)
}

// List returns the objects of bucket whose name starts with prefix
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]domain.RawRecord, error) {
	return s.scan(ctx, "list "+bucket, `
		SELECT data FROM objects
		WHERE bucket = ? AND substr(name, 1, length(?)) = ?
		ORDER BY rowid
	`, bucket, prefix, prefix)
}

func (s *Store) scan(ctx context.Context, op, query string, args ...any) ([]domain.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(backendName, op, err)
	}
	defer rows.Close()

	var records []domain.RawRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, domain.Unavailable(backendName, op, err)
		}
		var rec domain.RawRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, domain.Unavailable(backendName, op, fmt.Errorf("corrupt row: %w", err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(backendName, op, err)
	}
	return records, nil
}

// compileClause turns one clause into a SQL condition and its arguments.
// Type guards keep SQLite's cross-type ordering (numbers sort before text)
// from matching values FilterClause.Matches would reject.
func compileClause(c domain.FilterClause) (string, []any, error) {
	path := jsonPath(c.Field)

	switch c.Operator {
	case domain.OpEquals:
		v, guard, err := sqlValue(c.Value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("(json_type(data, ?) %s AND json_extract(data, ?) = ?)", guard), []any{path, path, v}, nil

	case domain.OpInSet:
		values := c.Values()
		args := []any{path, path}
		guard := ""
		for _, raw := range values {
			v, g, err := sqlValue(raw)
			if err != nil {
				return "", nil, err
			}
			guard = g
			args = append(args, v)
		}
		return fmt.Sprintf("(json_type(data, ?) %s AND json_extract(data, ?) IN (%s))", guard, placeholders(len(values))), args, nil

	case domain.OpArrayOverlaps:
		values := c.Values()
		args := []any{path, path}
		for _, raw := range values {
			v, _, err := sqlValue(raw)
			if err != nil {
				return "", nil, err
			}
			args = append(args, v)
		}
		return fmt.Sprintf(
			"(json_type(data, ?) = 'array' AND EXISTS (SELECT 1 FROM json_each(data, ?) WHERE json_each.value IN (%s)))",
			placeholders(len(values)),
		), args, nil

	case domain.OpGreaterOrEqual, domain.OpLessOrEqual:
		v, guard, err := sqlValue(c.Value)
		if err != nil {
			return "", nil, err
		}
		cmp := ">="
		if c.Operator == domain.OpLessOrEqual {
			cmp = "<="
		}
		return fmt.Sprintf("(json_type(data, ?) %s AND json_extract(data, ?) %s ?)", guard, cmp), []any{path, path, v}, nil

	default:
		return "", nil, fmt.Errorf("sqlite: unsupported operator %s", c.Operator)
	}
}

// sqlValue converts a clause value to a SQL argument and the json_type
// guard that restricts the stored value to the same kind
func sqlValue(v any) (any, string, error) {
	switch t := v.(type) {
	case string:
		return t, "= 'text'", nil
	case float64:
		return t, "IN ('integer', 'real')", nil
	case time.Time:
		return domain.FormatTimestamp(t), "= 'text'", nil
	default:
		return nil, "", fmt.Errorf("sqlite: unsupported clause value %T", v)
	}
}

func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

