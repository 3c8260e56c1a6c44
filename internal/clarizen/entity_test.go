package clarizen

import (
	"math"
	"testing"
)

func TestDig_AbsentFieldsAreNil(t *testing.T) {
	e := RawEntity{"a": map[string]any{"b": "deep"}}

	if got := Dig(e, "a", "b"); got != "deep" {
		t.Errorf("Dig(a,b) = %v, want deep", got)
	}
	if got := Dig(e, "a", "missing"); got != nil {
		t.Errorf("Dig(a,missing) = %v, want nil", got)
	}
	if got := Dig(e, "missing", "b"); got != nil {
		t.Errorf("Dig(missing,b) = %v, want nil", got)
	}
	// Descending through a scalar must not panic.
	if got := Dig(e, "a", "b", "c"); got != nil {
		t.Errorf("Dig through scalar = %v, want nil", got)
	}
}

func TestFirstString(t *testing.T) {
	e := RawEntity{"userName": "sbrown", "fullName": ""}

	got := FirstString(e, []string{"fullName"}, []string{"userName"})
	if got != "sbrown" {
		t.Errorf("FirstString = %q, want sbrown (empty string is skipped)", got)
	}
	if got := FirstString(e, []string{"nope"}); got != "" {
		t.Errorf("FirstString(absent) = %q, want empty", got)
	}
}

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		name string
		e    RawEntity
		want float64
	}{
		{"plain number", RawEntity{"RemainingEffort": 12.5}, 12.5},
		{"nested value object", RawEntity{"RemainingEffort": map[string]any{"value": 8.0}}, 8.0},
		{"numeric string tolerated", RawEntity{"RemainingEffort": "4"}, 4},
		{"second candidate wins", RawEntity{"ActualEffort": 3.0}, 3},
		{"all absent defaults to zero", RawEntity{}, 0},
		{"non-numeric defaults to zero", RawEntity{"RemainingEffort": "n/a"}, 0},
		{"negative coerced to zero", RawEntity{"RemainingEffort": -2.0}, 0},
		{"NaN string rejected", RawEntity{"RemainingEffort": "NaN"}, 0},
		{"infinite string rejected", RawEntity{"RemainingEffort": "+Inf"}, 0},
		{"NaN value rejected", RawEntity{"RemainingEffort": math.NaN()}, 0},
	}

	candidates := [][]string{
		{"RemainingEffort", "value"},
		{"RemainingEffort"},
		{"ActualEffort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstNumber(tt.e, candidates...)
			if got != tt.want {
				t.Errorf("FirstNumber = %v, want %v", got, tt.want)
			}
			if math.IsNaN(got) || got < 0 {
				t.Errorf("FirstNumber = %v, must be finite and non-negative", got)
			}
		})
	}
}
