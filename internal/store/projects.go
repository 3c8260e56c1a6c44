package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultColor = "#4A90D9"

// CreateProject inserts a new project. Color falls back to the default.
func (s *Store) CreateProject(ctx context.Context, name, description, color string) (Project, error) {
	if color == "" {
		color = defaultColor
	}
	p := Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   nowUTC(),
	}
	p.UpdatedAt = p.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, nullableString(p.Description), p.Color,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return p, nil
}

// GetAllProjects lists projects alphabetically.
func (s *Store) GetAllProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, color, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject patches the provided fields; empty strings leave a field
// unchanged.
func (s *Store) UpdateProject(ctx context.Context, id, name, description, color string) (Project, error) {
	current, err := s.getProject(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if name != "" {
		current.Name = name
	}
	if description != "" {
		current.Description = description
	}
	if color != "" {
		current.Color = color
	}
	current.UpdatedAt = nowUTC()

	_, err = s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
		current.Name, nullableString(current.Description), current.Color,
		current.UpdatedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		return Project{}, fmt.Errorf("updating project: %w", err)
	}
	return current, nil
}

// DeleteProject removes a project record.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (s *Store) getProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, color, created_at, updated_at FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return Project{}, fmt.Errorf("project %s not found", id)
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var description sql.NullString
	var created, updated string
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Color, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return Project{}, err
		}
		return Project{}, fmt.Errorf("scanning project: %w", err)
	}
	p.Description = description.String
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}
