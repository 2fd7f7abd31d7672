package domain

import (
	"testing"
	"time"
)

func TestFilterClause_Matches(t *testing.T) {
	june1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		clause FilterClause
		record RawRecord
		want   bool
	}{
		{
			name:   "equal string",
			clause: FilterClause{Field: "contentType", Operator: OpEquals, Value: "image/png"},
			record: RawRecord{"contentType": "image/png"},
			want:   true,
		},
		{
			name:   "different string",
			clause: FilterClause{Field: "contentType", Operator: OpEquals, Value: "image/png"},
			record: RawRecord{"contentType": "image/jpeg"},
		},
		{
			name:   "missing field",
			clause: FilterClause{Field: "contentType", Operator: OpEquals, Value: "image/png"},
			record: RawRecord{"name": "a.png"},
		},
		{
			name:   "null field",
			clause: FilterClause{Field: "contentType", Operator: OpEquals, Value: "image/png"},
			record: RawRecord{"contentType": nil},
		},
		{
			name:   "equal number across types",
			clause: FilterClause{Field: "size", Operator: OpEquals, Value: float64(512)},
			record: RawRecord{"size": int64(512)},
			want:   true,
		},
		{
			name:   "numeric text is not a number",
			clause: FilterClause{Field: "size", Operator: OpEquals, Value: float64(512)},
			record: RawRecord{"size": "512"},
		},
		{
			name:   "in set",
			clause: FilterClause{Field: "contentType", Operator: OpInSet, Value: []any{"image/png", "image/jpeg"}},
			record: RawRecord{"contentType": "image/jpeg"},
			want:   true,
		},
		{
			name:   "not in set",
			clause: FilterClause{Field: "contentType", Operator: OpInSet, Value: []any{"image/png"}},
			record: RawRecord{"contentType": "video/mp4"},
		},
		{
			name:   "array overlap",
			clause: FilterClause{Field: "tags", Operator: OpArrayOverlaps, Value: []any{"hero", "banner"}},
			record: RawRecord{"tags": []any{"summer", "banner"}},
			want:   true,
		},
		{
			name:   "array overlap on string slice",
			clause: FilterClause{Field: "tags", Operator: OpArrayOverlaps, Value: []any{"banner"}},
			record: RawRecord{"tags": []string{"banner"}},
			want:   true,
		},
		{
			name:   "array without overlap",
			clause: FilterClause{Field: "tags", Operator: OpArrayOverlaps, Value: []any{"hero"}},
			record: RawRecord{"tags": []any{"summer"}},
		},
		{
			name:   "overlap on scalar field",
			clause: FilterClause{Field: "tags", Operator: OpArrayOverlaps, Value: []any{"hero"}},
			record: RawRecord{"tags": "hero"},
		},
		{
			name:   "date lower bound inclusive",
			clause: FilterClause{Field: "timeCreated", Operator: OpGreaterOrEqual, Value: june1},
			record: RawRecord{"timeCreated": june1},
			want:   true,
		},
		{
			name:   "date before lower bound",
			clause: FilterClause{Field: "timeCreated", Operator: OpGreaterOrEqual, Value: june1},
			record: RawRecord{"timeCreated": "2024-05-31T23:59:59Z"},
		},
		{
			name:   "upper bound is midnight",
			clause: FilterClause{Field: "timeCreated", Operator: OpLessOrEqual, Value: june1},
			record: RawRecord{"timeCreated": time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC)},
		},
		{
			name:   "number upper bound",
			clause: FilterClause{Field: "size", Operator: OpLessOrEqual, Value: float64(1024)},
			record: RawRecord{"size": 1000},
			want:   true,
		},
		{
			name:   "unparsable date field",
			clause: FilterClause{Field: "timeCreated", Operator: OpGreaterOrEqual, Value: june1},
			record: RawRecord{"timeCreated": "garbage"},
		},
		{
			name:   "listing prefix",
			clause: FilterClause{Field: "name", Operator: OpEquals, Value: "assets/2024/", Listing: true},
			record: RawRecord{"name": "assets/2024/hero.png"},
			want:   true,
		},
		{
			name:   "listing prefix mismatch",
			clause: FilterClause{Field: "name", Operator: OpEquals, Value: "assets/2024/", Listing: true},
			record: RawRecord{"name": "assets/2023/hero.png"},
		},
		{
			name:   "uncomparable value",
			clause: FilterClause{Field: "meta", Operator: OpEquals, Value: map[string]any{}},
			record: RawRecord{"meta": map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clause.Matches(tt.record); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperator_String(t *testing.T) {
	want := map[Operator]string{
		OpEquals:         "equals",
		OpInSet:          "in-set",
		OpArrayOverlaps:  "array-overlaps",
		OpGreaterOrEqual: "greater-or-equal",
		OpLessOrEqual:    "less-or-equal",
		Operator(42):     "Operator(42)",
	}
	for op, s := range want {
		if op.String() != s {
			t.Errorf("expected %q, got %q", s, op.String())
		}
	}
}
