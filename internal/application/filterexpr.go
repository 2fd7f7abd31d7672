package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"firedam/internal/domain"
)

// ParseFilterExpr reads a filter typed by a person: either a JSON object or
// space separated key=value pairs, e.g.
//
//	category=image tags=["banner","hero"] uploadedAt=>=2024-06-01
func ParseFilterExpr(s string) (domain.FilterMap, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "{") {
		return domain.ParseFilterMap([]byte(s))
	}

	var fm domain.FilterMap
	for _, pair := range strings.Fields(s) {
		e, err := ParseFilterPair(pair)
		if err != nil {
			return nil, err
		}
		if _, dup := fm.Get(e.Key); dup {
			return nil, fmt.Errorf("filter key %q given twice", e.Key)
		}
		fm = append(fm, e)
	}
	return fm, nil
}

// ParseFilterPair parses one key=value pair. JSON numbers and lists are
// decoded; anything else stays text.
func ParseFilterPair(s string) (domain.FilterEntry, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return domain.FilterEntry{}, fmt.Errorf("invalid filter %q: expected key=value", s)
	}
	return domain.FilterEntry{Key: strings.TrimSpace(key), Value: pairValue(raw)}, nil
}

func pairValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case float64, []any:
			return v
		}
	}
	return raw
}
