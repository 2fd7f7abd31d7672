package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Operator is the comparison a FilterClause applies
type Operator int

const (
	OpEquals Operator = iota
	OpInSet
	OpArrayOverlaps
	OpGreaterOrEqual
	OpLessOrEqual
)

func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpInSet:
		return "in-set"
	case OpArrayOverlaps:
		return "array-overlaps"
	case OpGreaterOrEqual:
		return "greater-or-equal"
	case OpLessOrEqual:
		return "less-or-equal"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// FilterClause is one resolved (attribute, operator, value) constraint.
//
// Value holds a string, float64 or time.Time for OpEquals, OpGreaterOrEqual
// and OpLessOrEqual, and a non-empty []any of those for OpInSet and
// OpArrayOverlaps.
type FilterClause struct {
	Attribute string
	Field     string
	Type      AttributeType
	Operator  Operator
	Value     any
	Listing   bool
}

func (c FilterClause) String() string {
	return fmt.Sprintf("%s %s %v", c.Attribute, c.Operator, c.Value)
}

// Values returns the clause value as a slice, for both scalar and set operators
func (c FilterClause) Values() []any {
	if vs, ok := c.Value.([]any); ok {
		return vs
	}
	return []any{c.Value}
}

// Matches evaluates the clause against a raw record. Missing and null fields
// never match.
func (c FilterClause) Matches(r RawRecord) bool {
	got, ok := r[c.Field]
	if !ok || got == nil {
		return false
	}

	if c.Listing {
		s, ok := got.(string)
		want, _ := c.Value.(string)
		return ok && strings.HasPrefix(s, want)
	}

	switch c.Operator {
	case OpEquals:
		return scalarEqual(got, c.Value)
	case OpInSet:
		for _, want := range c.Values() {
			if scalarEqual(got, want) {
				return true
			}
		}
		return false
	case OpArrayOverlaps:
		items, ok := toSlice(got)
		if !ok {
			return false
		}
		for _, item := range items {
			for _, want := range c.Values() {
				if scalarEqual(item, want) {
					return true
				}
			}
		}
		return false
	case OpGreaterOrEqual:
		cmp, ok := compareScalar(got, c.Value)
		return ok && cmp >= 0
	case OpLessOrEqual:
		cmp, ok := compareScalar(got, c.Value)
		return ok && cmp <= 0
	default:
		return false
	}
}

// Query is the translated form of a filter map for one resource
type Query struct {
	Resource ResourceDescriptor
	Clauses  []FilterClause
}

// Split separates listing-parameter clauses from the ones that filter results
func (q Query) Split() (listing, rest []FilterClause) {
	for _, c := range q.Clauses {
		if c.Listing {
			listing = append(listing, c)
		} else {
			rest = append(rest, c)
		}
	}
	return listing, rest
}

// Prefix returns the listing prefix, or "" when the query has none
func (q Query) Prefix() string {
	listing, _ := q.Split()
	for _, c := range listing {
		if s, ok := c.Value.(string); ok {
			return s
		}
	}
	return ""
}

func scalarEqual(got, want any) bool {
	switch w := want.(type) {
	case time.Time:
		t, ok := toTime(got)
		return ok && t.Equal(w)
	case float64:
		f, err := cast.ToFloat64E(got)
		return err == nil && isNumber(got) && f == w
	case string:
		s, ok := got.(string)
		return ok && s == w
	default:
		return false
	}
}

func compareScalar(got, bound any) (int, bool) {
	switch b := bound.(type) {
	case time.Time:
		t, ok := toTime(got)
		if !ok {
			return 0, false
		}
		return t.Compare(b), true
	case float64:
		if !isNumber(got) {
			return 0, false
		}
		f, err := cast.ToFloat64E(got)
		if err != nil {
			return 0, false
		}
		switch {
		case f < b:
			return -1, true
		case f > b:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := ParseTimestamp(t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func toFloat(v any) float64 {
	f, _ := cast.ToFloat64E(v)
	return f
}
