package resourcing

import (
	"testing"

	"scobro-sync/internal/clarizen"
)

func TestMapRecord_HoursFirstPresentWins(t *testing.T) {
	fm := FieldMap{
		ID:    path{"Id"},
		Owner: path{"Resource", "Name"},
		Hours: []path{{"RemainingEffort", "value"}, {"RemainingEffort"}, {"ActualEffort"}},
	}

	tests := []struct {
		name string
		e    clarizen.RawEntity
		want float64
	}{
		{
			name: "nested value beats later alternatives",
			e:    clarizen.RawEntity{"RemainingEffort": map[string]any{"value": 6.0}, "ActualEffort": 99.0},
			want: 6,
		},
		{
			name: "falls through to actual effort",
			e:    clarizen.RawEntity{"ActualEffort": 2.5},
			want: 2.5,
		},
		{
			name: "no hours field defaults to zero",
			e:    clarizen.RawEntity{"Id": "x"},
			want: 0,
		},
		{
			name: "non-finite serialized value defaults to zero",
			e:    clarizen.RawEntity{"RemainingEffort": map[string]any{"value": "NaN"}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mapRecord(tt.e, fm, "assignment")
			if rec.Hours != tt.want {
				t.Errorf("Hours = %v, want %v", rec.Hours, tt.want)
			}
			if rec.Type != "assignment" {
				t.Errorf("Type = %q, want assignment", rec.Type)
			}
		})
	}
}

func TestOwnerMatches_ExactCaseSensitive(t *testing.T) {
	fm := FieldMap{Owner: path{"Resource", "Name"}}
	e := clarizen.RawEntity{"Resource": map[string]any{"Name": "Scott Brown"}}

	if !ownerMatches(e, fm, "Scott Brown") {
		t.Error("exact match rejected")
	}
	// Deliberately strict: casing and whitespace drift exclude the record.
	if ownerMatches(e, fm, "scott brown") {
		t.Error("case-insensitive match accepted")
	}
	if ownerMatches(e, fm, "Scott Brown ") {
		t.Error("trailing-whitespace match accepted")
	}
	if ownerMatches(e, fm, "") {
		t.Error("empty identity matched a named owner")
	}
	// An owner-less row must not pair with an empty identity either.
	if ownerMatches(clarizen.RawEntity{"Id": "junk"}, fm, "") {
		t.Error("empty identity matched a row with no owner field")
	}
}
