package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateMeeting inserts a meeting. Type defaults to "general", status starts
// as "scheduled".
func (s *Store) CreateMeeting(ctx context.Context, title, description string, start, end *time.Time, location, meetingType string) (Meeting, error) {
	if meetingType == "" {
		meetingType = "general"
	}
	m := Meeting{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		Location:    location,
		MeetingType: meetingType,
		Status:      "scheduled",
		CreatedAt:   nowUTC(),
	}
	m.UpdatedAt = m.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (id, title, description, start_time, end_time, location, meeting_type, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, nullableString(m.Description),
		nullableTimeValue(m.StartTime), nullableTimeValue(m.EndTime),
		nullableString(m.Location), m.MeetingType, m.Status,
		m.CreatedAt.Format(time.RFC3339), m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Meeting{}, fmt.Errorf("inserting meeting: %w", err)
	}
	return m, nil
}

// GetAllMeetings lists meetings, most recently created first.
func (s *Store) GetAllMeetings(ctx context.Context) ([]Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, start_time, end_time, location, meeting_type, status, created_at, updated_at
		 FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		var description, startTime, endTime, location sql.NullString
		var created, updated string
		if err := rows.Scan(&m.ID, &m.Title, &description, &startTime, &endTime, &location,
			&m.MeetingType, &m.Status, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		m.Description = description.String
		m.StartTime = parseNullableTime(startTime)
		m.EndTime = parseNullableTime(endTime)
		m.Location = location.String
		m.CreatedAt = parseTime(created)
		m.UpdatedAt = parseTime(updated)
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// DeleteMeeting removes a meeting and, via cascade, attendees and actions.
func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting meeting: %w", err)
	}
	return nil
}

// AddAttendee registers a participant. Role defaults to "participant",
// status starts as "invited".
func (s *Store) AddAttendee(ctx context.Context, meetingID, name, email, role string) (Attendee, error) {
	if role == "" {
		role = "participant"
	}
	a := Attendee{
		ID:        uuid.NewString(),
		MeetingID: meetingID,
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    "invited",
		CreatedAt: nowUTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meeting_attendees (id, meeting_id, name, email, role, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.MeetingID, a.Name, nullableString(a.Email), a.Role, a.Status,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Attendee{}, fmt.Errorf("inserting attendee: %w", err)
	}
	return a, nil
}

// GetAttendees lists a meeting's participants.
func (s *Store) GetAttendees(ctx context.Context, meetingID string) ([]Attendee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, name, email, role, status, created_at
		 FROM meeting_attendees WHERE meeting_id = ? ORDER BY created_at`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("listing attendees: %w", err)
	}
	defer rows.Close()

	var attendees []Attendee
	for rows.Next() {
		var a Attendee
		var email sql.NullString
		var created string
		if err := rows.Scan(&a.ID, &a.MeetingID, &a.Name, &email, &a.Role, &a.Status, &created); err != nil {
			return nil, fmt.Errorf("scanning attendee: %w", err)
		}
		a.Email = email.String
		a.CreatedAt = parseTime(created)
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

// CreateAction records a follow-up for a meeting. Priority defaults to
// "medium", status starts as "open".
func (s *Store) CreateAction(ctx context.Context, meetingID, title, description, assignee string, dueDate *time.Time, priority string) (MeetingAction, error) {
	if priority == "" {
		priority = "medium"
	}
	a := MeetingAction{
		ID:          uuid.NewString(),
		MeetingID:   meetingID,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		DueDate:     dueDate,
		Status:      "open",
		Priority:    priority,
		CreatedAt:   nowUTC(),
	}
	a.UpdatedAt = a.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meeting_actions (id, meeting_id, entry_item_id, title, description, assignee, due_date, status, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.MeetingID, nullableString(a.EntryItemID), a.Title,
		nullableString(a.Description), nullableString(a.Assignee),
		nullableTimeValue(a.DueDate), a.Status, a.Priority,
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return MeetingAction{}, fmt.Errorf("inserting meeting action: %w", err)
	}
	return a, nil
}

// GetActions lists a meeting's follow-ups.
func (s *Store) GetActions(ctx context.Context, meetingID string) ([]MeetingAction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, entry_item_id, title, description, assignee, due_date, status, priority, created_at, updated_at
		 FROM meeting_actions WHERE meeting_id = ? ORDER BY created_at`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("listing meeting actions: %w", err)
	}
	defer rows.Close()

	var actions []MeetingAction
	for rows.Next() {
		var a MeetingAction
		var entryItemID, description, assignee, dueDate sql.NullString
		var created, updated string
		if err := rows.Scan(&a.ID, &a.MeetingID, &entryItemID, &a.Title, &description,
			&assignee, &dueDate, &a.Status, &a.Priority, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning meeting action: %w", err)
		}
		a.EntryItemID = entryItemID.String
		a.Description = description.String
		a.Assignee = assignee.String
		a.DueDate = parseNullableTime(dueDate)
		a.CreatedAt = parseTime(created)
		a.UpdatedAt = parseTime(updated)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
