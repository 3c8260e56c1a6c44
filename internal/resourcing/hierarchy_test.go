package resourcing

import (
	"testing"

	"scobro-sync/internal/clarizen"
)

func TestBuildHierarchy(t *testing.T) {
	parents := []ParentWorkItem{
		{ID: "p1", Name: "Platform Rebuild", WorkHours: 120},
		{ID: "p2", Name: "Migration", WorkHours: 40},
	}
	children := []ChildWorkItem{
		{ID: "c1", Name: "API layer", ParentID: "p1", WorkHours: 30},
		{ID: "c2", Name: "Stray task", ParentID: "p-gone", WorkHours: 8},
	}

	h := BuildHierarchy(parents, children)

	if h.ParentCount != 2 {
		t.Errorf("ParentCount = %d, want 2", h.ParentCount)
	}
	// Orphans still count; they are reported, not dropped.
	if h.ChildCount != 2 {
		t.Errorf("ChildCount = %d, want 2", h.ChildCount)
	}
	if len(h.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(h.Entries))
	}
	if len(h.Entries[0].Children) != 1 || h.Entries[0].Children[0].ID != "c1" {
		t.Errorf("p1 children = %v, want [c1]", h.Entries[0].Children)
	}
	if len(h.Entries[1].Children) != 0 {
		t.Errorf("p2 children = %v, want none", h.Entries[1].Children)
	}
	if len(h.UnassignedChildren) != 1 || h.UnassignedChildren[0].ID != "c2" {
		t.Errorf("UnassignedChildren = %v, want [c2]", h.UnassignedChildren)
	}
}

func TestBuildHierarchy_Empty(t *testing.T) {
	h := BuildHierarchy(nil, nil)
	if h.ParentCount != 0 || h.ChildCount != 0 || len(h.Entries) != 0 {
		t.Errorf("empty hierarchy = %+v", h)
	}
}

func TestMapParentItems_DropsZeroEffort(t *testing.T) {
	entities := []clarizen.RawEntity{
		{"Id": "/WorkItem/p1", "Name": "Real work", "Work": map[string]any{"value": 12.0}},
		{"Id": "/WorkItem/p2", "Name": "Placeholder", "Work": map[string]any{"value": 0.0}},
		{"Id": "/WorkItem/p3", "Name": "No work field"},
	}

	parents := MapParentItems(entities)
	if len(parents) != 1 {
		t.Fatalf("len(parents) = %d, want 1", len(parents))
	}
	if parents[0].ID != "p1" {
		t.Errorf("ID = %q, want the cleaned bare id p1", parents[0].ID)
	}
	if parents[0].WorkHours != 12 {
		t.Errorf("WorkHours = %v, want 12", parents[0].WorkHours)
	}
}

func TestMapChildItems_CleansParentReference(t *testing.T) {
	entities := []clarizen.RawEntity{
		{
			"Id":     "/WorkItem/c1",
			"Name":   "Subtask",
			"Work":   8.0,
			"Parent": map[string]any{"Id": "/WorkItem/p1", "Name": "Platform Rebuild"},
		},
	}

	children := MapChildItems(entities)
	if len(children) != 1 {
		t.Fatalf("len(children) = %d, want 1", len(children))
	}
	c := children[0]
	if c.ID != "c1" || c.ParentID != "p1" {
		t.Errorf("ids = (%q, %q), want cleaned (c1, p1)", c.ID, c.ParentID)
	}
	if c.ParentName != "Platform Rebuild" {
		t.Errorf("ParentName = %q", c.ParentName)
	}
}
