package resourcing

import "scobro-sync/internal/clarizen"

// Record is the canonical resourcing unit handed to the UI, regardless of
// which provider shape it came from. Dates are passed through as provider
// strings; the UI formats them.
type Record struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Tag         string  `json:"tag"`
	UserName    string  `json:"userName"`
	Hours       float64 `json:"hours"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Status      string  `json:"status"`
	Role        string  `json:"role"`
	Type        string  `json:"type"`
}

// path is one nested field location in a RawEntity.
type path []string

// FieldMap declares where a source's schema keeps each canonical field. Hours
// lists alternatives in priority order: the first present numeric value wins
// and absence coerces to 0, never to NaN. Making the mapping a table keeps
// the first-present-wins policy auditable per source.
type FieldMap struct {
	ID          path
	ProjectID   path
	ProjectName path
	Tag         path
	Owner       path
	Hours       []path
	StartDate   path
	EndDate     path
	Status      path
	Role        path
}

// mapRecord applies a FieldMap to one raw entity.
func mapRecord(e clarizen.RawEntity, fm FieldMap, recordType string) Record {
	hours := make([][]string, len(fm.Hours))
	for i, p := range fm.Hours {
		hours[i] = p
	}
	return Record{
		ID:          clarizen.Str(e, fm.ID...),
		ProjectID:   clarizen.Str(e, fm.ProjectID...),
		ProjectName: clarizen.Str(e, fm.ProjectName...),
		Tag:         clarizen.Str(e, fm.Tag...),
		UserName:    clarizen.Str(e, fm.Owner...),
		Hours:       clarizen.FirstNumber(e, hours...),
		StartDate:   clarizen.Str(e, fm.StartDate...),
		EndDate:     clarizen.Str(e, fm.EndDate...),
		Status:      clarizen.Str(e, fm.Status...),
		Role:        clarizen.Str(e, fm.Role...),
		Type:        recordType,
	}
}

// ownerMatches applies the identity filter. Exact string equality,
// case-sensitive, no normalization: whitespace or casing drift between
// providers silently excludes records. Known brittleness, preserved on
// purpose; see DESIGN.md. An empty identity never matches: it would pair
// with every row whose owner field is absent.
func ownerMatches(e clarizen.RawEntity, fm FieldMap, identity string) bool {
	if identity == "" {
		return false
	}
	return clarizen.Str(e, fm.Owner...) == identity
}
