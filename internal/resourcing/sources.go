package resourcing

import (
	"fmt"

	"scobro-sync/internal/clarizen"
)

// Source declares one of the four independent resourcing feeds. Queries is an
// ordered cascade: the precise entity-reference predicate first, a looser
// name predicate that also selects a disambiguating field next, and the
// unfiltered table as last resort. Which predicate works depends on tenant
// configuration and is only discoverable by trying.
type Source struct {
	Name    string
	Type    string
	Queries func(id clarizen.Identity) []string
	Fields  FieldMap
}

// Sources returns the four feeds of the standard reconciliation pass.
func Sources() []Source {
	return []Source{
		{
			Name: "assignments",
			Type: "assignment",
			Queries: func(id clarizen.Identity) []string {
				return []string{
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, RemainingEffort, ActualEffort, WorkItem.StartDate, WorkItem.DueDate, WorkItem.State FROM RegularResourceLink WHERE Resource = '/User/%s'", clarizen.CleanID(id.UserID)),
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, RemainingEffort, ActualEffort, WorkItem.StartDate, WorkItem.DueDate, WorkItem.State FROM RegularResourceLink WHERE Resource.Name = '%s'", id.Name),
					"SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, RemainingEffort, ActualEffort, WorkItem.StartDate, WorkItem.DueDate, WorkItem.State FROM RegularResourceLink",
				}
			},
			Fields: FieldMap{
				ID:          path{"Id"},
				ProjectID:   path{"WorkItem", "Id"},
				ProjectName: path{"WorkItem", "Name"},
				Owner:       path{"Resource", "Name"},
				Hours:       []path{{"RemainingEffort", "value"}, {"RemainingEffort"}, {"ActualEffort", "value"}, {"ActualEffort"}},
				StartDate:   path{"WorkItem", "StartDate"},
				EndDate:     path{"WorkItem", "DueDate"},
				Status:      path{"WorkItem", "State", "id"},
			},
		},
		{
			Name: "project-resources",
			Type: "project-resource",
			Queries: func(id clarizen.Identity) []string {
				return []string{
					fmt.Sprintf("SELECT Id, Project.Id, Project.Name, Resource.Name, Role.Name, StartDate, EndDate FROM ProjectResourceLink WHERE Resource = '/User/%s'", clarizen.CleanID(id.UserID)),
					fmt.Sprintf("SELECT Id, Project.Id, Project.Name, Resource.Name, Role.Name, StartDate, EndDate FROM ProjectResourceLink WHERE Resource.Name = '%s'", id.Name),
					"SELECT Id, Project.Id, Project.Name, Resource.Name, Role.Name, StartDate, EndDate FROM ProjectResourceLink",
				}
			},
			Fields: FieldMap{
				ID:          path{"Id"},
				ProjectID:   path{"Project", "Id"},
				ProjectName: path{"Project", "Name"},
				Owner:       path{"Resource", "Name"},
				Role:        path{"Role", "Name"},
				StartDate:   path{"StartDate"},
				EndDate:     path{"EndDate"},
			},
		},
		{
			Name: "timesheet",
			Type: "timesheet",
			Queries: func(id clarizen.Identity) []string {
				return []string{
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, ReportedBy.Name, Duration, ReportedDate, State FROM Timesheet WHERE ReportedBy = '/User/%s'", clarizen.CleanID(id.UserID)),
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, ReportedBy.Name, Duration, ReportedDate, State FROM Timesheet WHERE ReportedBy.Name = '%s'", id.Name),
					"SELECT Id, WorkItem.Id, WorkItem.Name, ReportedBy.Name, Duration, ReportedDate, State FROM Timesheet",
				}
			},
			Fields: FieldMap{
				ID:          path{"Id"},
				ProjectID:   path{"WorkItem", "Id"},
				ProjectName: path{"WorkItem", "Name"},
				Owner:       path{"ReportedBy", "Name"},
				Hours:       []path{{"Duration", "value"}, {"Duration"}},
				StartDate:   path{"ReportedDate"},
				EndDate:     path{"ReportedDate"},
				Status:      path{"State", "id"},
			},
		},
		{
			Name: "allocations",
			Type: "allocation",
			Queries: func(id clarizen.Identity) []string {
				return []string{
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, AllocatedHours, RemainingHours, StartDate, EndDate FROM AllocationLink WHERE Resource = '/User/%s'", clarizen.CleanID(id.UserID)),
					fmt.Sprintf("SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, AllocatedHours, RemainingHours, StartDate, EndDate FROM AllocationLink WHERE Resource.Name = '%s'", id.Name),
					"SELECT Id, WorkItem.Id, WorkItem.Name, Resource.Name, AllocatedHours, RemainingHours, StartDate, EndDate FROM AllocationLink",
				}
			},
			Fields: FieldMap{
				ID:          path{"Id"},
				ProjectID:   path{"WorkItem", "Id"},
				ProjectName: path{"WorkItem", "Name"},
				Owner:       path{"Resource", "Name"},
				Hours:       []path{{"AllocatedHours", "value"}, {"AllocatedHours"}, {"RemainingHours"}},
				StartDate:   path{"StartDate"},
				EndDate:     path{"EndDate"},
			},
		},
	}
}
