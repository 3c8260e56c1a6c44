package store

import "time"

// Entry is one timestamped logbook entry; its content lives in EntryItems.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryItem is a single typed item inside an entry (Action, Decision, Note,
// Meeting).
type EntryItem struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entryId"`
	ItemType  string    `json:"itemType"`
	Content   string    `json:"content"`
	Project   string    `json:"project,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a reusable label, unique by name.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Person is a referenced colleague, unique by name.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// IssueRef links an entry item to a tracker issue key.
type IssueRef struct {
	ID          string    `json:"id"`
	EntryItemID string    `json:"entryItemId"`
	IssueKey    string    `json:"issueKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemWithMetadata bundles an item with its joined tags, people and refs.
type ItemWithMetadata struct {
	Item      EntryItem  `json:"item"`
	Tags      []Tag      `json:"tags"`
	People    []Person   `json:"people"`
	IssueRefs []IssueRef `json:"issueRefs"`
}

// EntryWithItems is the full read shape for one entry.
type EntryWithItems struct {
	Entry Entry              `json:"entry"`
	Items []ItemWithMetadata `json:"items"`
}

// Project is a local project record used to categorize items.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Meeting is a logged meeting with optional schedule bounds.
type Meeting struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Location    string     `json:"location,omitempty"`
	MeetingType string     `json:"meetingType"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Attendee is one participant of a meeting.
type Attendee struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meetingId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeetingAction is a follow-up captured during a meeting.
type MeetingAction struct {
	ID          string     `json:"id"`
	MeetingID   string     `json:"meetingId"`
	EntryItemID string     `json:"entryItemId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
