package domain

import (
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/spf13/cast"
)

// RawRecord is one item as the backend returned it, keyed by remote field name.
// Document adapters put the document id under "id".
type RawRecord map[string]any

// ResultRecord is one item in the documented output schema. Absent fields
// have no key.
type ResultRecord map[string]any

// Normalize maps raw records to the output schema of desc
func Normalize(desc ResourceDescriptor, raws []RawRecord) ([]ResultRecord, error) {
	out := make([]ResultRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := NormalizeRecord(desc, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// NormalizeRecord maps a single raw record to the output schema of desc
func NormalizeRecord(desc ResourceDescriptor, raw RawRecord) (ResultRecord, error) {
	rec := make(ResultRecord, len(desc.output))
	for _, f := range desc.output {
		v, ok := raw[f.Field]
		if !ok || v == nil {
			if f.Required {
				return nil, &MalformedRecordError{
					Resource: desc.name,
					Record:   recordID(raw),
					Field:    f.Name,
					Reason:   "is missing",
				}
			}
			continue
		}

		cv, err := coerceOutput(f.Type, v)
		if err != nil {
			return nil, &MalformedRecordError{
				Resource: desc.name,
				Record:   recordID(raw),
				Field:    f.Name,
				Reason:   err.Error(),
			}
		}
		rec[f.Name] = cv
	}
	return rec, nil
}

// CanonicalDates returns a copy of raw where every date attribute that
// holds a parsable timestamp is a time.Time
func CanonicalDates(desc ResourceDescriptor, raw RawRecord) RawRecord {
	out := maps.Clone(raw)
	for _, a := range desc.attributes {
		if a.Type != TypeDate {
			continue
		}
		if t, ok := toTime(out[a.Field]); ok {
			out[a.Field] = t
		}
	}
	return out
}

func coerceOutput(t AttributeType, v any) (any, error) {
	switch t {
	case TypeString, TypeEnum:
		if _, ok := v.(time.Time); ok {
			return nil, fmt.Errorf("is a timestamp, expected a string")
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("is %T, expected a string", v)
		}
		return s, nil

	case TypeNumber:
		var f float64
		switch n := v.(type) {
		case string:
			parsed, err := cast.ToFloat64E(n)
			if err != nil {
				return nil, fmt.Errorf("is %q, expected a number", n)
			}
			f = parsed
		default:
			if !isNumber(v) {
				return nil, fmt.Errorf("is %T, expected a number", v)
			}
			f = toFloat(v)
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil

	case TypeDate:
		t, ok := toTime(v)
		if !ok {
			return nil, fmt.Errorf("is %v, expected a timestamp", v)
		}
		return FormatTimestamp(t), nil

	case TypeArray:
		items, ok := toSlice(v)
		if !ok {
			return nil, fmt.Errorf("is %T, expected an array", v)
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, fmt.Errorf("has element %T, expected strings", item)
			}
			out = append(out, s)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("has unsupported type %s", t)
	}
}

func recordID(raw RawRecord) string {
	for _, key := range []string{"id", "name"} {
		if s, ok := raw[key].(string); ok {
			return s
		}
	}
	return ""
}
