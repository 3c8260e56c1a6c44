package clarizen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCleanID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/User/abc123", "abc123"},
		{"/WorkItem/9f2e", "9f2e"},
		{"abc123", "abc123"},
		{"/A/B/trailing", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanID(tt.in); got != tt.want {
			t.Errorf("CleanID(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// Idempotence: cleaning twice equals cleaning once.
		if got := CleanID(CleanID(tt.in)); got != tt.want {
			t.Errorf("CleanID(CleanID(%q)) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func buildIn(ids []string) string {
	return fmt.Sprintf("SELECT Id FROM WorkItem WHERE Parent IN (%s)", strings.Join(ids, ","))
}

func TestFetchInBatches_PartitionSizes(t *testing.T) {
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%02d", i)
	}

	var batchSizes []int
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		n := strings.Count(czql, "id")
		batchSizes = append(batchSizes, n)
		return []RawEntity{{"q": czql}}, nil
	}

	result := FetchInBatches(context.Background(), ids, BatchOptions{BatchSize: 20}, buildIn, exec)

	if len(batchSizes) != 2 || batchSizes[0] != 20 || batchSizes[1] != 5 {
		t.Fatalf("batch sizes = %v, want [20 5]", batchSizes)
	}
	if len(result) != 2 {
		t.Errorf("len(result) = %d, want 2", len(result))
	}
	// Concatenation preserves batch order.
	first := result[0]["q"].(string)
	if !strings.Contains(first, "id00") {
		t.Errorf("first result does not come from first batch: %s", first)
	}
}

func TestFetchInBatches_QueryTextCap(t *testing.T) {
	ids := []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}

	var batches int
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		batches++
		if len(czql) > 60 {
			t.Errorf("query text %d chars exceeds cap", len(czql))
		}
		return nil, nil
	}

	FetchInBatches(context.Background(), ids, BatchOptions{BatchSize: 20, QueryTextCap: 60}, buildIn, exec)

	if batches < 2 {
		t.Errorf("expected the text cap to force multiple batches, got %d", batches)
	}
}

func TestFetchInBatches_CleansEntityReferences(t *testing.T) {
	var got string
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		got = czql
		return nil, nil
	}

	FetchInBatches(context.Background(), []string{"/User/u1", "u2"}, BatchOptions{}, buildIn, exec)

	if strings.Contains(got, "/User/") {
		t.Errorf("entity reference prefix leaked into query: %s", got)
	}
	if !strings.Contains(got, "u1") || !strings.Contains(got, "u2") {
		t.Errorf("cleaned ids missing from query: %s", got)
	}
}

func TestFetchInBatches_BatchFailureIsTolerated(t *testing.T) {
	ids := make([]string, 40)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%02d", i)
	}

	call := 0
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		call++
		if call == 1 {
			return nil, errors.New("URL too long")
		}
		return []RawEntity{{"batch": call}}, nil
	}

	result := FetchInBatches(context.Background(), ids, BatchOptions{BatchSize: 20}, buildIn, exec)

	if call != 2 {
		t.Fatalf("exec called %d times, want 2 (failed batch is not retried)", call)
	}
	if len(result) != 1 {
		t.Errorf("len(result) = %d, want 1 (failed batch contributes nothing)", len(result))
	}
}

func TestFetchInBatches_Empty(t *testing.T) {
	exec := func(ctx context.Context, czql string) ([]RawEntity, error) {
		t.Fatal("exec must not be called for an empty identifier list")
		return nil, nil
	}
	if got := FetchInBatches(context.Background(), nil, BatchOptions{}, buildIn, exec); got != nil {
		t.Errorf("FetchInBatches(nil) = %v, want nil", got)
	}
}
