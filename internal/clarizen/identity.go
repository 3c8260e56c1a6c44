package clarizen

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Identity is the resolved display-name or user-id string used as the join
// key across otherwise-incompatible entity schemas. Once resolved for a pass,
// the same Name must be used for every source's filter predicate.
type Identity struct {
	// Name is the filter string. May be empty if no source yielded one; the
	// scan-based recovery in RecoverName is the last resort.
	Name string

	// UserID is the raw internal id from the session-info payload, kept for
	// scan-based recovery and entity-reference query predicates.
	UserID string
}

// ResolveIdentity discovers the canonical current-user string. Waterfall,
// first non-empty wins: explicit caller hint, profile full name, profile
// username. Some tenant configurations omit a usable display name entirely;
// those fall through with an empty Name and rely on RecoverName later.
func ResolveIdentity(ctx context.Context, c *Client, sess Session, explicitHint string) (Identity, error) {
	info, err := c.SessionInfo(ctx, sess)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{
		UserID: FirstString(info,
			[]string{"id"},
			[]string{"userId"},
			[]string{"UserId"},
			[]string{"user", "id"},
		),
	}

	switch {
	case explicitHint != "":
		id.Name = explicitHint
	default:
		id.Name = FirstString(info,
			[]string{"fullName"},
			[]string{"FullName"},
			[]string{"displayName"},
			[]string{"user", "fullName"},
		)
		if id.Name == "" {
			id.Name = FirstString(info,
				[]string{"username"},
				[]string{"userName"},
				[]string{"loginName"},
				[]string{"email"},
			)
		}
	}

	if id.Name == "" {
		log.Warn().Str("userId", id.UserID).Msg("Session info carries no usable display name; scan-based recovery will be attempted")
	}
	return id, nil
}

// RecoverName mines an already-fetched, unrelated result set for the current
// user's name: the first entry whose id field contains the profile's raw id
// wins, and its name field is adopted. Last-resort resolution only.
func RecoverName(userID string, entities []RawEntity, idPath, namePath []string) string {
	if userID == "" {
		return ""
	}
	bare := CleanID(userID)
	for _, e := range entities {
		embedded := Str(e, idPath...)
		if embedded == "" {
			continue
		}
		if strings.Contains(embedded, bare) {
			if name := Str(e, namePath...); name != "" {
				return name
			}
		}
	}
	return ""
}
