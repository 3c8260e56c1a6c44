package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateEntry inserts a new entry at the given timestamp.
func (s *Store) CreateEntry(ctx context.Context, timestamp time.Time) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: timestamp.UTC().Truncate(time.Second),
		CreatedAt: nowUTC(),
	}
	e.UpdatedAt = e.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, timestamp, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		e.ID,
		e.Timestamp.Format(time.RFC3339),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting entry: %w", err)
	}
	return e, nil
}

// CreateEntryItem inserts a typed item under an entry.
func (s *Store) CreateEntryItem(ctx context.Context, entryID, itemType, content, project string) (EntryItem, error) {
	item := EntryItem{
		ID:        uuid.NewString(),
		EntryID:   entryID,
		ItemType:  itemType,
		Content:   content,
		Project:   project,
		CreatedAt: nowUTC(),
	}
	item.UpdatedAt = item.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entry_items (id, entry_id, item_type, content, project, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.EntryID, item.ItemType, item.Content, nullableString(item.Project),
		item.CreatedAt.Format(time.RFC3339), item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return EntryItem{}, fmt.Errorf("inserting entry item: %w", err)
	}
	return item, nil
}

// UpdateEntryItemContent replaces an item's content.
func (s *Store) UpdateEntryItemContent(ctx context.Context, itemID, content string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE entry_items SET content = ?, updated_at = ? WHERE id = ?`,
		content, nowUTC().Format(time.RFC3339), itemID,
	)
	if err != nil {
		return fmt.Errorf("updating entry item content: %w", err)
	}
	return nil
}

// UpdateEntryItemProject replaces an item's project.
func (s *Store) UpdateEntryItemProject(ctx context.Context, itemID, project string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE entry_items SET project = ?, updated_at = ? WHERE id = ?`,
		nullableString(project), nowUTC().Format(time.RFC3339), itemID,
	)
	if err != nil {
		return fmt.Errorf("updating entry item project: %w", err)
	}
	return nil
}

// GetOrCreateTag returns the tag with the given name, creating it if absent.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM tags WHERE name = ?`, name)
	var t Tag
	var createdAt string
	err := row.Scan(&t.ID, &t.Name, &createdAt)
	switch {
	case err == nil:
		t.CreatedAt = parseTime(createdAt)
		return t, nil
	case err != sql.ErrNoRows:
		return Tag{}, fmt.Errorf("looking up tag: %w", err)
	}

	t = Tag{ID: uuid.NewString(), Name: name, CreatedAt: nowUTC()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Tag{}, fmt.Errorf("inserting tag: %w", err)
	}
	return t, nil
}

// GetOrCreatePerson returns the person with the given name, creating if absent.
func (s *Store) GetOrCreatePerson(ctx context.Context, name string) (Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM people WHERE name = ?`, name)
	var p Person
	var createdAt string
	err := row.Scan(&p.ID, &p.Name, &createdAt)
	switch {
	case err == nil:
		p.CreatedAt = parseTime(createdAt)
		return p, nil
	case err != sql.ErrNoRows:
		return Person{}, fmt.Errorf("looking up person: %w", err)
	}

	p = Person{ID: uuid.NewString(), Name: name, CreatedAt: nowUTC()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO people (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Person{}, fmt.Errorf("inserting person: %w", err)
	}
	return p, nil
}

// CreateIssueRef links an entry item to a tracker issue key.
func (s *Store) CreateIssueRef(ctx context.Context, itemID, issueKey string) (IssueRef, error) {
	ref := IssueRef{
		ID:          uuid.NewString(),
		EntryItemID: itemID,
		IssueKey:    issueKey,
		CreatedAt:   nowUTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO issue_refs (id, entry_item_id, issue_key, created_at) VALUES (?, ?, ?, ?)`,
		ref.ID, ref.EntryItemID, ref.IssueKey, ref.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return IssueRef{}, fmt.Errorf("inserting issue ref: %w", err)
	}
	return ref, nil
}

// LinkItemTag attaches a tag to an item; duplicates are ignored.
func (s *Store) LinkItemTag(ctx context.Context, itemID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_tags (entry_item_id, tag_id) VALUES (?, ?)`, itemID, tagID)
	if err != nil {
		return fmt.Errorf("linking tag: %w", err)
	}
	return nil
}

// LinkItemPerson attaches a person to an item; duplicates are ignored.
func (s *Store) LinkItemPerson(ctx context.Context, itemID, personID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_people (entry_item_id, person_id) VALUES (?, ?)`, itemID, personID)
	if err != nil {
		return fmt.Errorf("linking person: %w", err)
	}
	return nil
}

// RemoveItemTags detaches every tag from an item.
func (s *Store) RemoveItemTags(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM item_tags WHERE entry_item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("removing item tags: %w", err)
	}
	return nil
}

// RemoveItemPeople detaches every person from an item.
func (s *Store) RemoveItemPeople(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM item_people WHERE entry_item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("removing item people: %w", err)
	}
	return nil
}

// RemoveItemIssueRefs deletes every issue ref from an item.
func (s *Store) RemoveItemIssueRefs(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM issue_refs WHERE entry_item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("removing issue refs: %w", err)
	}
	return nil
}

// DeleteEntryItem removes an item and, via cascade, its metadata links.
func (s *Store) DeleteEntryItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entry_items WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("deleting entry item: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry and, via cascade, its items.
func (s *Store) DeleteEntry(ctx context.Context, entryID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// GetAllEntriesWithItems returns every entry, newest first, with items and
// their metadata joined in.
func (s *Store) GetAllEntriesWithItems(ctx context.Context) ([]EntryWithItems, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, created_at, updated_at FROM entries ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, created, updated string
		if err := rows.Scan(&e.ID, &ts, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Timestamp = parseTime(ts)
		e.CreatedAt = parseTime(created)
		e.UpdatedAt = parseTime(updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	result := make([]EntryWithItems, 0, len(entries))
	for _, e := range entries {
		items, err := s.getItemsWithMetadata(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, EntryWithItems{Entry: e, Items: items})
	}
	return result, nil
}

func (s *Store) getItemsWithMetadata(ctx context.Context, entryID string) ([]ItemWithMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, item_type, content, project, created_at, updated_at
		 FROM entry_items WHERE entry_id = ? ORDER BY created_at`, entryID)
	if err != nil {
		return nil, fmt.Errorf("listing entry items: %w", err)
	}
	defer rows.Close()

	var items []EntryItem
	for rows.Next() {
		var item EntryItem
		var project sql.NullString
		var created, updated string
		if err := rows.Scan(&item.ID, &item.EntryID, &item.ItemType, &item.Content, &project, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning entry item: %w", err)
		}
		item.Project = project.String
		item.CreatedAt = parseTime(created)
		item.UpdatedAt = parseTime(updated)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry items: %w", err)
	}

	result := make([]ItemWithMetadata, 0, len(items))
	for _, item := range items {
		tags, err := s.getItemTags(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		people, err := s.getItemPeople(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		refs, err := s.getItemIssueRefs(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ItemWithMetadata{Item: item, Tags: tags, People: people, IssueRefs: refs})
	}
	return result, nil
}

func (s *Store) getItemTags(ctx context.Context, itemID string) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_at FROM tags t
		 JOIN item_tags it ON t.id = it.tag_id
		 WHERE it.entry_item_id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing item tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		var created string
		if err := rows.Scan(&t.ID, &t.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		t.CreatedAt = parseTime(created)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) getItemPeople(ctx context.Context, itemID string) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.created_at FROM people p
		 JOIN item_people ip ON p.id = ip.person_id
		 WHERE ip.entry_item_id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing item people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		p.CreatedAt = parseTime(created)
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) getItemIssueRefs(ctx context.Context, itemID string) ([]IssueRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_item_id, issue_key, created_at FROM issue_refs WHERE entry_item_id = ?`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing issue refs: %w", err)
	}
	defer rows.Close()

	var refs []IssueRef
	for rows.Next() {
		var ref IssueRef
		var created string
		if err := rows.Scan(&ref.ID, &ref.EntryItemID, &ref.IssueKey, &created); err != nil {
			return nil, fmt.Errorf("scanning issue ref: %w", err)
		}
		ref.CreatedAt = parseTime(created)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
