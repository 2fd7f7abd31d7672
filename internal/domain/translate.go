package domain

import (
	"errors"
	"strconv"
	"strings"
)

// MaxSetValues caps in-set and array-overlaps sequences. The document store
// rejects larger disjunctions.
const MaxSetValues = 30

// Translate turns a filter map into a Query against desc. Entries are
// translated in order, one clause per entry. Nothing is sent anywhere: a
// returned error is always the caller's fault.
func Translate(desc ResourceDescriptor, filters FilterMap) (Query, error) {
	q := Query{Resource: desc, Clauses: make([]FilterClause, 0, len(filters))}
	for _, e := range filters {
		a, ok := desc.Attribute(e.Key)
		if !ok {
			return Query{}, &UnknownAttributeError{Resource: desc.Name(), Attribute: e.Key}
		}
		c, err := classify(a, e.Value)
		if err != nil {
			return Query{}, err
		}
		q.Clauses = append(q.Clauses, c)
	}
	return q, nil
}

func classify(a Attribute, raw any) (FilterClause, error) {
	c := FilterClause{Attribute: a.Name, Field: a.Field, Type: a.Type, Listing: a.Listing}

	if items, ok := toSlice(raw); ok {
		c.Operator = OpInSet
		if a.Type == TypeArray {
			c.Operator = OpArrayOverlaps
		}
		if a.Listing {
			return FilterClause{}, &InvalidOperatorError{Attribute: a.Name, Operator: c.Operator, Type: a.Type}
		}
		if len(items) == 0 {
			return FilterClause{}, &InvalidValueError{Attribute: a.Name, Value: raw, Reason: "empty sequence"}
		}
		if len(items) > MaxSetValues {
			return FilterClause{}, &InvalidValueError{
				Attribute: a.Name,
				Value:     len(items),
				Reason:    "sequence longer than " + strconv.Itoa(MaxSetValues) + " values",
			}
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			v, err := coerce(a, item)
			if err != nil {
				return FilterClause{}, err
			}
			values = append(values, v)
		}
		c.Value = values
		return c, nil
	}

	switch v := raw.(type) {
	case nil:
		return FilterClause{}, &InvalidValueError{Attribute: a.Name, Value: raw, Reason: "null is not a filter value"}

	case map[string]any:
		return FilterClause{}, &InvalidValueError{Attribute: a.Name, Value: raw, Reason: "nested objects are not supported"}

	case string:
		if op, bound, ok := rangeBound(v); ok {
			if a.Listing || !a.Type.Comparable() {
				return FilterClause{}, &InvalidOperatorError{Attribute: a.Name, Operator: op, Type: a.Type}
			}
			value, err := coerce(a, bound)
			if err != nil {
				var ive *InvalidValueError
				if errors.As(err, &ive) {
					ive.Value = v
				}
				return FilterClause{}, err
			}
			c.Operator = op
			c.Value = value
			return c, nil
		}
	}

	value, err := coerce(a, raw)
	if err != nil {
		return FilterClause{}, err
	}
	if a.Type == TypeArray {
		c.Operator = OpArrayOverlaps
		c.Value = []any{value}
		return c, nil
	}
	c.Operator = OpEquals
	c.Value = value
	return c, nil
}

// rangeBound recognises the ">=" and "<=" prefixes
func rangeBound(s string) (Operator, string, bool) {
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGreaterOrEqual, strings.TrimSpace(s[2:]), true
	case strings.HasPrefix(s, "<="):
		return OpLessOrEqual, strings.TrimSpace(s[2:]), true
	default:
		return 0, "", false
	}
}

// coerce converts one scalar to the representation clauses carry for a's type
func coerce(a Attribute, raw any) (any, error) {
	invalid := func(reason string) error {
		return &InvalidValueError{Attribute: a.Name, Value: raw, Reason: reason}
	}

	switch a.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("expected a string")
		}
		return s, nil

	case TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("expected a string")
		}
		if !a.allows(s) {
			return nil, invalid("expected one of " + strings.Join(a.Values, ", "))
		}
		return s, nil

	case TypeNumber:
		switch n := raw.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, invalid("expected a number")
			}
			return f, nil
		default:
			if !isNumber(raw) {
				return nil, invalid("expected a number")
			}
			return toFloat(raw), nil
		}

	case TypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("expected an ISO8601 date")
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return nil, invalid("unparsable date")
		}
		return t, nil

	case TypeArray:
		switch raw.(type) {
		case string:
			return raw, nil
		default:
			if !isNumber(raw) {
				return nil, invalid("expected a string or number element")
			}
			return toFloat(raw), nil
		}

	default:
		return nil, invalid("unsupported attribute type " + a.Type.String())
	}
}
