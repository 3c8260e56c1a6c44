package resourcing

import (
	"context"
	"fmt"
	"strings"

	"scobro-sync/internal/clarizen"

	"github.com/rs/zerolog/log"
)

// TreeFetcher is the alternate reconciliation strategy: a parent/child work
// item tree instead of the four-source flat pass. Callers pick one strategy
// or the other depending on which API surface the tenant exposes.
type TreeFetcher struct {
	client  *clarizen.Client
	batch   clarizen.BatchOptions
	metrics SourceMetrics
}

// NewTreeFetcher creates a TreeFetcher. metrics may be nil.
func NewTreeFetcher(client *clarizen.Client, batch clarizen.BatchOptions, metrics SourceMetrics) *TreeFetcher {
	return &TreeFetcher{client: client, batch: batch, metrics: metrics}
}

// FetchTree retrieves the caller's parent work items via the query cascade,
// then their children in identifier batches, and joins them one level deep.
// Cascade exhaustion on the parent side is fatal for this strategy; per-batch
// failures on the child side only thin out the tree.
func (f *TreeFetcher) FetchTree(ctx context.Context, sess clarizen.Session, identity clarizen.Identity) (Hierarchy, error) {
	exec := func(ctx context.Context, czql string) ([]clarizen.RawEntity, error) {
		if f.metrics != nil {
			f.metrics.RecordQuery()
		}
		return f.client.Query(ctx, sess, czql)
	}

	parentQueries := []string{
		fmt.Sprintf("SELECT Id, Name, StartDate, DueDate, Work FROM WorkItem WHERE TrackStatus = 'Active' AND Manager = '/User/%s'", clarizen.CleanID(identity.UserID)),
		fmt.Sprintf("SELECT Id, Name, StartDate, DueDate, Work, Manager.Name FROM WorkItem WHERE Manager.Name = '%s'", identity.Name),
		"SELECT Id, Name, StartDate, DueDate, Work FROM WorkItem WHERE Parent IS NULL",
	}

	result, err := clarizen.RunCascade(ctx, parentQueries, exec)
	if err != nil {
		if f.metrics != nil && clarizen.IsExhausted(err) {
			f.metrics.RecordCascadeExhausted()
		}
		return Hierarchy{}, fmt.Errorf("fetching parent work items: %w", err)
	}
	parents := MapParentItems(result.Entities)

	ids := make([]string, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.ID)
	}

	childRows := clarizen.FetchInBatches(ctx, ids, f.batch, childQuery, func(ctx context.Context, czql string) ([]clarizen.RawEntity, error) {
		entities, err := exec(ctx, czql)
		if err != nil && f.metrics != nil {
			f.metrics.RecordBatchFailure()
		}
		return entities, err
	})
	children := MapChildItems(childRows)

	log.Debug().Int("parents", len(parents)).Int("children", len(children)).Msg("Work item tree fetched")
	return BuildHierarchy(parents, children), nil
}

// childQuery serializes one batch of parent ids into a child lookup.
func childQuery(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("'/WorkItem/%s'", id)
	}
	return fmt.Sprintf("SELECT Id, Name, Parent.Id, Parent.Name, StartDate, DueDate, Work FROM WorkItem WHERE Parent IN (%s)", strings.Join(quoted, ","))
}
