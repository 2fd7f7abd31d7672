package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/buger/jsonparser"
)

// FilterEntry is one key/value pair of a filter map
type FilterEntry struct {
	Key   string
	Value any
}

// FilterMap is a caller-supplied filter with its key order preserved
type FilterMap []FilterEntry

// FilterMapFrom builds a FilterMap from an already decoded mapping. Go maps
// carry no order, so keys are sorted to keep translation deterministic.
func FilterMapFrom(m map[string]any) FilterMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fm := make(FilterMap, 0, len(keys))
	for _, k := range keys {
		fm = append(fm, FilterEntry{Key: k, Value: m[k]})
	}
	return fm
}

// ParseFilterMap decodes a JSON object, keeping the order of its keys.
// Empty input and "null" yield an empty filter.
func ParseFilterMap(data []byte) (FilterMap, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return FilterMap{}, nil
	}

	obj, typ, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("parsing filter: %w", err)
	}
	if len(bytes.TrimSpace(data[end:])) > 0 {
		return nil, fmt.Errorf("parsing filter: trailing data after object")
	}
	switch typ {
	case jsonparser.Null:
		return FilterMap{}, nil
	case jsonparser.Object:
	default:
		return nil, fmt.Errorf("parsing filter: expected a JSON object, got %s", typ)
	}

	fm := FilterMap{}
	seen := make(map[string]bool)
	// ObjectEach unescapes keys itself but leaves string values raw
	err = jsonparser.ObjectEach(obj, func(rawKey, raw []byte, vt jsonparser.ValueType, _ int) error {
		key := string(rawKey)
		if seen[key] {
			return fmt.Errorf("parsing filter: duplicate key %q", key)
		}
		seen[key] = true

		value, err := decodeValue(raw, vt)
		if err != nil {
			return fmt.Errorf("parsing filter value for %q: %w", key, err)
		}
		fm = append(fm, FilterEntry{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fm, nil
}

// decodeValue turns one raw member value into the shapes encoding/json
// produces: string, float64, bool, nil, []any or map[string]any
func decodeValue(raw []byte, vt jsonparser.ValueType) (any, error) {
	switch vt {
	case jsonparser.String:
		return jsonparser.ParseString(raw)
	case jsonparser.Null:
		return nil, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Keys returns the filter keys in order
func (fm FilterMap) Keys() []string {
	keys := make([]string, len(fm))
	for i, e := range fm {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value for key
func (fm FilterMap) Get(key string) (any, bool) {
	for _, e := range fm {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the entries as a JSON object in order
func (fm FilterMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fm {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON encodes v without HTML escaping so range prefixes stay readable
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}
