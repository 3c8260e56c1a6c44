package resourcing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"scobro-sync/internal/clarizen"
)

type fakeMetrics struct {
	mu             sync.Mutex
	queries        int
	exhausted      int
	batchFailures  int
	sourceFailures []string
}

func (f *fakeMetrics) RecordQuery() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
}

func (f *fakeMetrics) RecordCascadeExhausted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exhausted++
}

func (f *fakeMetrics) RecordSourceFailure(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceFailures = append(f.sourceFailures, source)
}

func (f *fakeMetrics) RecordBatchFailure() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchFailures++
}

// queryServer fakes the CZQL endpoint, dispatching on the table name in the
// query text. Tables absent from responses answer 500 for every candidate.
func queryServer(t *testing.T, responses map[string]string) *clarizen.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding query payload: %v", err)
		}
		for table, body := range responses {
			if strings.Contains(payload["q"], "FROM "+table) {
				w.Write([]byte(body))
				return
			}
		}
		http.Error(w, "tenant refused", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return clarizen.NewClient(clarizen.Config{BaseURL: srv.URL}, nil)
}

func TestReconcile_PartialFailure(t *testing.T) {
	client := queryServer(t, map[string]string{
		"RegularResourceLink": `{"entities":[
			{"Id":"a1","Resource":{"Name":"Scott Brown"},"WorkItem":{"Id":"/Project/p1","Name":"Platform"},"RemainingEffort":{"value":6}},
			{"Id":"a2","Resource":{"Name":"Somebody Else"},"RemainingEffort":{"value":40}}
		]}`,
		"Timesheet": `{"entities":[
			{"Id":"t1","ReportedBy":{"Name":"Scott Brown"},"Duration":{"value":2},"ReportedDate":"2026-08-20"}
		]}`,
	})

	metrics := &fakeMetrics{}
	r := NewReconciler(client, metrics)
	identity := clarizen.Identity{Name: "Scott Brown", UserID: "/User/u1"}

	records, summary := r.Reconcile(context.Background(), clarizen.Session{Token: "tok"}, identity)

	if summary.State != PassPartiallySucceeded {
		t.Errorf("State = %q, want PartiallySucceeded", summary.State)
	}
	if summary.Identity != "Scott Brown" {
		t.Errorf("summary.Identity = %q", summary.Identity)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (mismatched owner filtered out)", len(records))
	}
	// Concatenation follows fixed source order: assignments before timesheet.
	if records[0].Type != "assignment" || records[1].Type != "timesheet" {
		t.Errorf("record types = [%s %s]", records[0].Type, records[1].Type)
	}
	if records[0].Hours != 6 || records[1].Hours != 2 {
		t.Errorf("hours = [%v %v], want [6 2]", records[0].Hours, records[1].Hours)
	}

	if len(summary.Sources) != 4 {
		t.Fatalf("summary covers %d sources, want 4", len(summary.Sources))
	}
	byName := map[string]SourceOutcome{}
	for _, o := range summary.Sources {
		byName[o.Source] = o
	}
	if o := byName["assignments"]; o.Error != "" || o.Records != 1 || o.WinningQuery != 0 {
		t.Errorf("assignments outcome = %+v", o)
	}
	if o := byName["project-resources"]; o.Error == "" || o.WinningQuery != -1 {
		t.Errorf("project-resources outcome = %+v, want a recorded failure", o)
	}
	if o := byName["allocations"]; o.Error == "" {
		t.Errorf("allocations outcome = %+v, want a recorded failure", o)
	}

	// 1 winning query each for the two healthy sources, 3 failed candidates
	// each for the two broken ones.
	if metrics.queries != 8 {
		t.Errorf("queries = %d, want 8", metrics.queries)
	}
	if metrics.exhausted != 2 {
		t.Errorf("exhausted = %d, want 2", metrics.exhausted)
	}
	sort.Strings(metrics.sourceFailures)
	if len(metrics.sourceFailures) != 2 || metrics.sourceFailures[0] != "allocations" || metrics.sourceFailures[1] != "project-resources" {
		t.Errorf("sourceFailures = %v", metrics.sourceFailures)
	}
}

func TestReconcile_RecoversNameFromTimesheetScan(t *testing.T) {
	// The profile yielded no display name; the timesheet rows still embed the
	// user's entity reference, which the scan mines for the name.
	client := queryServer(t, map[string]string{
		"RegularResourceLink": `{"entities":[
			{"Id":"a1","Resource":{"Name":"Scott Brown"},"RemainingEffort":{"value":6}}
		]}`,
		"ProjectResourceLink": `{"entities":[{"Id":"r1","Resource":{"Name":"Somebody Else"}}]}`,
		"Timesheet": `{"entities":[
			{"Id":"t1","ReportedBy":{"id":"/User/other","Name":"Somebody Else"},"Duration":{"value":8}},
			{"Id":"t2","ReportedBy":{"id":"/User/u1","Name":"Scott Brown"},"Duration":{"value":2}}
		]}`,
		"AllocationLink": `{"entities":[{"Id":"l1","Resource":{"Name":"Somebody Else"}}]}`,
	})

	r := NewReconciler(client, nil)
	records, summary := r.Reconcile(context.Background(), clarizen.Session{Token: "tok"},
		clarizen.Identity{Name: "", UserID: "/User/u1"})

	if summary.Identity != "Scott Brown" {
		t.Fatalf("summary.Identity = %q, want the recovered name", summary.Identity)
	}
	if summary.State != PassFullySucceeded {
		t.Errorf("State = %q, want FullySucceeded", summary.State)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (assignment plus own timesheet row)", len(records))
	}
	for _, rec := range records {
		if rec.UserName != "Scott Brown" {
			t.Errorf("record %s owned by %q, want Scott Brown", rec.ID, rec.UserName)
		}
	}
}

func TestReconcile_RefusesUnresolvedIdentity(t *testing.T) {
	// Owner-less rows everywhere and nothing to recover a name from: an empty
	// filter must not silently match every row.
	ownerless := `{"entities":[{"Id":"junk","Duration":{"value":99}}]}`
	client := queryServer(t, map[string]string{
		"RegularResourceLink": ownerless,
		"ProjectResourceLink": ownerless,
		"Timesheet":           ownerless,
		"AllocationLink":      ownerless,
	})

	metrics := &fakeMetrics{}
	r := NewReconciler(client, metrics)
	records, summary := r.Reconcile(context.Background(), clarizen.Session{Token: "tok"},
		clarizen.Identity{Name: "", UserID: "/User/u1"})

	if len(records) != 0 {
		t.Fatalf("len(records) = %d, want 0 (no records without a resolved identity)", len(records))
	}
	if summary.State != PassExhausted {
		t.Errorf("State = %q, want Exhausted", summary.State)
	}
	if len(summary.Sources) != 4 {
		t.Fatalf("summary covers %d sources, want 4", len(summary.Sources))
	}
	for _, o := range summary.Sources {
		if o.Error == "" {
			t.Errorf("source %s reports no error on a refused pass", o.Source)
		}
	}
	// Only the recovery scan ran; no per-source cascade was attempted.
	if metrics.queries != 1 {
		t.Errorf("queries = %d, want 1", metrics.queries)
	}
}

func TestReconcile_AllSourcesDown(t *testing.T) {
	client := queryServer(t, nil)
	r := NewReconciler(client, nil)

	records, summary := r.Reconcile(context.Background(), clarizen.Session{Token: "tok"},
		clarizen.Identity{Name: "Scott Brown"})

	if summary.State != PassExhausted {
		t.Errorf("State = %q, want Exhausted", summary.State)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
	for _, o := range summary.Sources {
		if o.Error == "" {
			t.Errorf("source %s reports no error on a dead tenant", o.Source)
		}
	}
}

func TestReconcile_AllSourcesHealthy(t *testing.T) {
	// The last two sources answer rows for other users only; the cascade still
	// succeeds, the owner filter just leaves no records.
	client := queryServer(t, map[string]string{
		"RegularResourceLink": `{"entities":[{"Id":"a1","Resource":{"Name":"Scott Brown"}}]}`,
		"ProjectResourceLink": `{"entities":[{"Id":"r1","Resource":{"Name":"Scott Brown"},"Role":{"Name":"Engineer"}}]}`,
		"Timesheet":           `{"entities":[{"Id":"t1","ReportedBy":{"Name":"Somebody Else"}}]}`,
		"AllocationLink":      `{"entities":[{"Id":"l1","Resource":{"Name":"Somebody Else"}}]}`,
	})

	r := NewReconciler(client, nil)
	records, summary := r.Reconcile(context.Background(), clarizen.Session{Token: "tok"},
		clarizen.Identity{Name: "Scott Brown"})

	if summary.State != PassFullySucceeded {
		t.Errorf("State = %q, want FullySucceeded", summary.State)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
}
