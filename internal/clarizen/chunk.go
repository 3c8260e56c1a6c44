package clarizen

import (
	"context"
	"regexp"

	"github.com/rs/zerolog/log"
)

// entityRefPattern strips an entity-reference prefix of the form
// "/<Type>/<bareId>", keeping only the trailing id segment. Greedy, so
// multi-segment references also reduce to the bare id. Bare ids pass through
// untouched, which makes CleanID idempotent.
var entityRefPattern = regexp.MustCompile(`^.*/`)

// CleanID reduces an entity reference like "/User/abc123" to "abc123".
func CleanID(id string) string {
	return entityRefPattern.ReplaceAllString(id, "")
}

// BatchOptions bounds the size of each chunked query.
type BatchOptions struct {
	// BatchSize caps the identifier count per batch. Default 20.
	BatchSize int

	// QueryTextCap caps the serialized query length, a proxy for transport
	// URL-length limits. A batch is flushed early when the next identifier
	// would push the built query past this. Default 2000.
	QueryTextCap int
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.QueryTextCap <= 0 {
		o.QueryTextCap = 2000
	}
	return o
}

// QueryBuilder serializes one batch of identifiers into a CZQL query string.
type QueryBuilder func(ids []string) string

// FetchInBatches splits an identifier list into bounded batches, executes one
// query per batch sequentially, and concatenates the successes in original
// batch order. Identifier cleaning is applied here unconditionally; callers
// may pass entity references or bare ids interchangeably. A failed batch is
// logged and contributes nothing; there is no retry and no global failure
// threshold.
func FetchInBatches(ctx context.Context, ids []string, opts BatchOptions, build QueryBuilder, exec QueryFunc) []RawEntity {
	opts = opts.withDefaults()

	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := CleanID(id); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	var result []RawEntity
	for _, batch := range partition(cleaned, opts, build) {
		entities, err := exec(ctx, build(batch))
		if err != nil {
			log.Warn().Err(err).Int("batchSize", len(batch)).Msg("Batch query failed, skipping batch")
			continue
		}
		result = append(result, entities...)
	}
	return result
}

// partition groups identifiers into consecutive batches respecting both the
// count cap and the serialized-query length cap.
func partition(ids []string, opts BatchOptions, build QueryBuilder) [][]string {
	var batches [][]string
	var current []string

	for _, id := range ids {
		candidate := append(current, id)
		if len(current) > 0 &&
			(len(candidate) > opts.BatchSize || len(build(candidate)) > opts.QueryTextCap) {
			batches = append(batches, current)
			candidate = []string{id}
		}
		current = candidate
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
