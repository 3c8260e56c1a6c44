package clarizen

import (
	"context"
	"errors"
	"testing"
)

func TestRunCascade_FirstNonEmptyWins(t *testing.T) {
	tests := []struct {
		name         string
		results      [][]RawEntity
		wantIndex    int
		wantEntities int
	}{
		{
			name:         "first candidate wins",
			results:      [][]RawEntity{{{"Id": "a"}}, {{"Id": "b"}}},
			wantIndex:    0,
			wantEntities: 1,
		},
		{
			name:         "empty then non-empty",
			results:      [][]RawEntity{{}, {{"Id": "a"}, {"Id": "b"}}},
			wantIndex:    1,
			wantEntities: 2,
		},
		{
			name:         "two empties then full table",
			results:      [][]RawEntity{{}, nil, {{"Id": "x"}}},
			wantIndex:    2,
			wantEntities: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
				result := tt.results[calls]
				calls++
				return result, nil
			}

			queries := make([]string, len(tt.results))
			got, err := RunCascade(context.Background(), queries, exec)
			if err != nil {
				t.Fatalf("RunCascade() error = %v", err)
			}
			if got.WinningIndex != tt.wantIndex {
				t.Errorf("WinningIndex = %d, want %d", got.WinningIndex, tt.wantIndex)
			}
			if len(got.Entities) != tt.wantEntities {
				t.Errorf("len(Entities) = %d, want %d", len(got.Entities), tt.wantEntities)
			}
			// Later candidates must never run once one succeeds.
			if calls != tt.wantIndex+1 {
				t.Errorf("exec called %d times, want %d", calls, tt.wantIndex+1)
			}
		})
	}
}

func TestRunCascade_AllExhausted(t *testing.T) {
	calls := 0
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		calls++
		return nil, nil
	}

	_, err := RunCascade(context.Background(), []string{"q1", "q2", "q3"}, exec)
	if !errors.Is(err, ErrAllQueriesExhausted) {
		t.Fatalf("error = %v, want ErrAllQueriesExhausted", err)
	}
	if calls != 3 {
		t.Errorf("exec called %d times, want 3", calls)
	}
	if !IsExhausted(err) {
		t.Error("IsExhausted() = false, want true")
	}
}

func TestRunCascade_ErrorCountsAsEmptyAttempt(t *testing.T) {
	calls := 0
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("tenant rejected predicate")
		}
		return []RawEntity{{"Id": "a"}}, nil
	}

	got, err := RunCascade(context.Background(), []string{"precise", "loose"}, exec)
	if err != nil {
		t.Fatalf("RunCascade() error = %v", err)
	}
	if got.WinningIndex != 1 {
		t.Errorf("WinningIndex = %d, want 1", got.WinningIndex)
	}
	if calls != 2 {
		t.Errorf("exec called %d times, want 2 (failed candidate is not retried)", calls)
	}
}

func TestRunCascade_NoCandidates(t *testing.T) {
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		t.Fatal("exec must not be called for an empty candidate list")
		return nil, nil
	}
	_, err := RunCascade(context.Background(), nil, exec)
	if !errors.Is(err, ErrAllQueriesExhausted) {
		t.Fatalf("error = %v, want ErrAllQueriesExhausted", err)
	}
}
