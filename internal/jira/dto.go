package jira

// Issue is the subset of tracker issue data the logbook surfaces.
type Issue struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Updated  string `json:"updated"`
}

type searchResponse struct {
	Total  int        `json:"total"`
	Issues []issueDTO `json:"issues"`
}

type issueDTO struct {
	Key    string    `json:"key"`
	Fields fieldsDTO `json:"fields"`
}

type fieldsDTO struct {
	Summary string `json:"summary"`
	Status  struct {
		Name string `json:"name"`
	} `json:"status"`
	Assignee struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Updated string `json:"updated"`
}

func mapIssue(dto issueDTO) Issue {
	return Issue{
		Key:      dto.Key,
		Summary:  dto.Fields.Summary,
		Status:   dto.Fields.Status.Name,
		Assignee: dto.Fields.Assignee.DisplayName,
		Updated:  dto.Fields.Updated,
	}
}
