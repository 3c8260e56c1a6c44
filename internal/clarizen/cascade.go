package clarizen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// QueryFunc executes one CZQL query and returns its entity rows.
type QueryFunc func(ctx context.Context, czql string) ([]RawEntity, error)

// CascadeResult reports which candidate produced the accepted result set.
type CascadeResult struct {
	Entities     []RawEntity
	WinningIndex int
}

// RunCascade executes candidate queries strictly in order and stops at the
// first one whose result set is non-empty. A candidate that errors counts as
// a zero-result attempt and is not retried; the next candidate runs instead.
// Different identifier formats are valid in different tenant configurations,
// and only a live attempt reveals which one works, so the candidate list
// encodes "precise predicate first, looser predicate next, full table last".
func RunCascade(ctx context.Context, queries []string, exec QueryFunc) (*CascadeResult, error) {
	for i, q := range queries {
		entities, err := exec(ctx, q)
		if err != nil {
			log.Warn().Err(err).Int("candidate", i).Msg("Cascade candidate failed, trying next")
			continue
		}
		if len(entities) == 0 {
			log.Debug().Int("candidate", i).Msg("Cascade candidate returned no entities")
			continue
		}
		return &CascadeResult{Entities: entities, WinningIndex: i}, nil
	}
	return nil, fmt.Errorf("%w after %d candidates", ErrAllQueriesExhausted, len(queries))
}
