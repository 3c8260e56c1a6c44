package resourcing

import (
	"context"
	"time"

	"scobro-sync/internal/clarizen"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PassState labels the outcome of a reconciliation pass. PartiallySucceeded
// is not an error: it is the expected steady state whenever one of several
// independent sources is unreachable.
type PassState string

const (
	PassFullySucceeded     PassState = "FullySucceeded"
	PassPartiallySucceeded PassState = "PartiallySucceeded"
	PassExhausted          PassState = "Exhausted"
)

// SourceOutcome is the per-source result captured by the all-settled join.
type SourceOutcome struct {
	Source       string `json:"source"`
	Records      int    `json:"records"`
	WinningQuery int    `json:"winningQuery"`
	Error        string `json:"error,omitempty"`
}

// PassSummary is the machine-readable partial-failure report. Callers no
// longer need to inspect logs to detect a degraded run.
type PassSummary struct {
	Timestamp time.Time       `json:"timestamp"`
	Identity  string          `json:"identity"`
	State     PassState       `json:"state"`
	Sources   []SourceOutcome `json:"sources"`
}

// SourceMetrics receives failure signals from the reconciler; nil-safe via
// the package-level helpers below.
type SourceMetrics interface {
	RecordQuery()
	RecordCascadeExhausted()
	RecordSourceFailure(source string)
	RecordBatchFailure()
}

// Reconciler fetches the four resourcing feeds concurrently, filters each by
// the resolved identity and maps each into the canonical Record shape. One
// source's failure never cancels or aborts the others.
type Reconciler struct {
	client  *clarizen.Client
	sources []Source
	metrics SourceMetrics
}

// NewReconciler creates a Reconciler over the standard four sources. metrics
// may be nil.
func NewReconciler(client *clarizen.Client, metrics SourceMetrics) *Reconciler {
	return &Reconciler{client: client, sources: Sources(), metrics: metrics}
}

// Reconcile runs one pass. The returned records are the concatenation across
// sources in fixed source order, per-source append order within. The summary
// always covers every source, succeeded or not; no error is returned because
// per-source failure is recovered locally by design. The session token is
// read-only shared state across the fan-out branches.
//
// An identity with no name is resolved by scanning the timesheet table before
// the fan-out; if that fails too the pass refuses to emit records, because an
// empty filter string would match every owner-less row.
func (r *Reconciler) Reconcile(ctx context.Context, sess clarizen.Session, identity clarizen.Identity) ([]Record, PassSummary) {
	if identity.Name == "" {
		identity.Name = r.recoverName(ctx, sess, identity)
	}
	if identity.Name == "" {
		log.Error().Str("userId", identity.UserID).Msg("No usable identity to filter by, refusing to emit records")
		return nil, r.refusedSummary()
	}

	outcomes := make([]SourceOutcome, len(r.sources))
	recordSets := make([][]Record, len(r.sources))

	var g errgroup.Group
	for i, src := range r.sources {
		i, src := i, src
		g.Go(func() error {
			recordSets[i], outcomes[i] = r.fetchSource(ctx, sess, identity, src)
			// Branch outcomes are captured in their slots; returning an error
			// here would let a sibling's failure cancel the group.
			return nil
		})
	}
	_ = g.Wait()

	var records []Record
	succeeded := 0
	for i := range outcomes {
		if outcomes[i].Error == "" {
			succeeded++
		}
		records = append(records, recordSets[i]...)
	}

	state := PassPartiallySucceeded
	switch succeeded {
	case len(r.sources):
		state = PassFullySucceeded
	case 0:
		state = PassExhausted
	}

	summary := PassSummary{
		Timestamp: time.Now().UTC(),
		Identity:  identity.Name,
		State:     state,
		Sources:   outcomes,
	}

	log.Info().
		Str("state", string(state)).
		Int("records", len(records)).
		Int("sources", succeeded).
		Msg("Reconciliation pass complete")
	return records, summary
}

// recoveryQuery selects the timesheet rows with the reporter reference intact;
// the current user's display name is mined from the first row whose reference
// embeds the profile's raw id.
const recoveryQuery = "SELECT Id, ReportedBy, ReportedBy.Name FROM Timesheet"

func (r *Reconciler) recoverName(ctx context.Context, sess clarizen.Session, identity clarizen.Identity) string {
	entities, err := r.countingExec(sess)(ctx, recoveryQuery)
	if err != nil {
		log.Warn().Err(err).Msg("Name recovery query failed")
		return ""
	}
	name := clarizen.RecoverName(identity.UserID, entities,
		[]string{"ReportedBy", "id"},
		[]string{"ReportedBy", "Name"})
	if name != "" {
		log.Info().Str("identity", name).Msg("Identity recovered by result-set scan")
	}
	return name
}

// refusedSummary covers every source with the same non-retryable outcome.
func (r *Reconciler) refusedSummary() PassSummary {
	outcomes := make([]SourceOutcome, len(r.sources))
	for i, src := range r.sources {
		outcomes[i] = SourceOutcome{
			Source:       src.Name,
			WinningQuery: -1,
			Error:        "no usable identity to filter by",
		}
	}
	return PassSummary{
		Timestamp: time.Now().UTC(),
		State:     PassExhausted,
		Sources:   outcomes,
	}
}

func (r *Reconciler) fetchSource(ctx context.Context, sess clarizen.Session, identity clarizen.Identity, src Source) ([]Record, SourceOutcome) {
	outcome := SourceOutcome{Source: src.Name, WinningQuery: -1}

	result, err := clarizen.RunCascade(ctx, src.Queries(identity), r.countingExec(sess))
	if err != nil {
		log.Warn().Err(err).Str("source", src.Name).Msg("Source fetch failed, degrading pass")
		r.recordFailure(src.Name, err)
		outcome.Error = err.Error()
		return nil, outcome
	}
	outcome.WinningQuery = result.WinningIndex

	var records []Record
	for _, e := range result.Entities {
		if !ownerMatches(e, src.Fields, identity.Name) {
			continue
		}
		records = append(records, mapRecord(e, src.Fields, src.Type))
	}
	outcome.Records = len(records)
	return records, outcome
}

// countingExec wraps the client query so every attempt is counted.
func (r *Reconciler) countingExec(sess clarizen.Session) clarizen.QueryFunc {
	return func(ctx context.Context, czql string) ([]clarizen.RawEntity, error) {
		if r.metrics != nil {
			r.metrics.RecordQuery()
		}
		return r.client.Query(ctx, sess, czql)
	}
}

func (r *Reconciler) recordFailure(source string, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordSourceFailure(source)
	if clarizen.IsExhausted(err) {
		r.metrics.RecordCascadeExhausted()
	}
}
