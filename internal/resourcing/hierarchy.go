package resourcing

import (
	"time"

	"scobro-sync/internal/clarizen"
)

// ParentWorkItem is a top-level work item in the tree strategy.
type ParentWorkItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	WorkHours float64 `json:"workHours"`
}

// ChildWorkItem is a work item nested under a parent by foreign key.
type ChildWorkItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ParentID   string  `json:"parentId"`
	ParentName string  `json:"parentName"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	WorkHours  float64 `json:"workHours"`
}

// HierarchyEntry pairs one parent with its joined children.
type HierarchyEntry struct {
	Parent   ParentWorkItem  `json:"parent"`
	Children []ChildWorkItem `json:"children"`
}

// Hierarchy is the nested parent→children snapshot handed to the UI. The
// join is purely child.ParentID == parent.ID, one level deep. A child whose
// parent was filtered out upstream (zero-effort parents are dropped at the
// mapping stage) lands in UnassignedChildren instead of vanishing; ChildCount
// still counts it.
type Hierarchy struct {
	Timestamp          time.Time        `json:"timestamp"`
	ParentCount        int              `json:"parentCount"`
	ChildCount         int              `json:"childCount"`
	Entries            []HierarchyEntry `json:"entries"`
	UnassignedChildren []ChildWorkItem  `json:"unassignedChildren,omitempty"`
}

// BuildHierarchy joins children to parents by strict id equality.
func BuildHierarchy(parents []ParentWorkItem, children []ChildWorkItem) Hierarchy {
	h := Hierarchy{
		Timestamp:   time.Now().UTC(),
		ParentCount: len(parents),
		ChildCount:  len(children),
	}

	assigned := make(map[string]bool)
	for _, p := range parents {
		entry := HierarchyEntry{Parent: p}
		for _, c := range children {
			if c.ParentID == p.ID {
				entry.Children = append(entry.Children, c)
				assigned[c.ID] = true
			}
		}
		h.Entries = append(h.Entries, entry)
	}

	for _, c := range children {
		if !assigned[c.ID] {
			h.UnassignedChildren = append(h.UnassignedChildren, c)
		}
	}
	return h
}

// MapParentItems converts raw rows into parents, dropping zero-effort items.
// The filter lives here, at the source-processing stage, not in the join.
func MapParentItems(entities []clarizen.RawEntity) []ParentWorkItem {
	var parents []ParentWorkItem
	for _, e := range entities {
		hours := clarizen.FirstNumber(e,
			[]string{"Work", "value"},
			[]string{"Work"},
			[]string{"WorkHours"},
		)
		if hours <= 0 {
			continue
		}
		parents = append(parents, ParentWorkItem{
			ID:        clarizen.CleanID(clarizen.Str(e, "Id")),
			Name:      clarizen.Str(e, "Name"),
			StartDate: clarizen.Str(e, "StartDate"),
			EndDate:   clarizen.Str(e, "DueDate"),
			WorkHours: hours,
		})
	}
	return parents
}

// MapChildItems converts raw rows into children, dropping zero-effort items.
func MapChildItems(entities []clarizen.RawEntity) []ChildWorkItem {
	var children []ChildWorkItem
	for _, e := range entities {
		hours := clarizen.FirstNumber(e,
			[]string{"Work", "value"},
			[]string{"Work"},
			[]string{"WorkHours"},
		)
		if hours <= 0 {
			continue
		}
		children = append(children, ChildWorkItem{
			ID:         clarizen.CleanID(clarizen.Str(e, "Id")),
			Name:       clarizen.Str(e, "Name"),
			ParentID:   clarizen.CleanID(clarizen.Str(e, "Parent", "Id")),
			ParentName: clarizen.Str(e, "Parent", "Name"),
			StartDate:  clarizen.Str(e, "StartDate"),
			EndDate:    clarizen.Str(e, "DueDate"),
			WorkHours:  hours,
		})
	}
	return children
}
