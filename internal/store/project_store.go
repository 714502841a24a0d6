package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhagen/workmain/internal/model"
)

// CreateClient inserts a new client.
func (s *SQLiteStore) CreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	if strings.TrimSpace(client.Name) == "" {
		return nil, fmt.Errorf("client name must not be empty")
	}
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	client.Active = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		client.ID, client.Name, boolToInt(client.Active),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("creating client %s", client.Name), Err: err}
	}
	return &client, nil
}

// GetClientByName retrieves a client by exact name.
func (s *SQLiteStore) GetClientByName(ctx context.Context, name string) (*model.Client, error) {
	var (
		client    model.Client
		activeInt int
	)
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name, active, created_at, updated_at FROM clients WHERE name = ?", name,
	).Scan(&client.ID, &client.Name, &activeInt, &client.CreatedAt, &client.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("getting client %s", name), Err: err}
	}
	client.Active = activeInt != 0
	return &client, nil
}

// GetClients retrieves all clients ordered by name.
func (s *SQLiteStore) GetClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, active, created_at, updated_at FROM clients ORDER BY name")
	if err != nil {
		return nil, &PersistenceError{Op: "querying clients", Err: err}
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var (
			c         model.Client
			activeInt int
		)
		if err := rows.Scan(&c.ID, &c.Name, &activeInt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		c.Active = activeInt != 0
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateProject inserts a new project, optionally under a client.
func (s *SQLiteStore) CreateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	project.Active = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, client_id, name, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.ClientID, project.Name, boolToInt(project.Active),
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("creating project %s", project.Name), Err: err}
	}
	return &project, nil
}

// GetProjectByName retrieves a project by exact name.
func (s *SQLiteStore) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	var (
		p         model.Project
		activeInt int
	)
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, client_id, name, active, created_at, updated_at FROM projects WHERE name = ?", name,
	).Scan(&p.ID, &p.ClientID, &p.Name, &activeInt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("getting project %s", name), Err: err}
	}
	p.Active = activeInt != 0
	return &p, nil
}

// GetProjects retrieves all projects ordered by name.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, client_id, name, active, created_at, updated_at FROM projects ORDER BY name")
	if err != nil {
		return nil, &PersistenceError{Op: "querying projects", Err: err}
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var (
			p         model.Project
			activeInt int
		)
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &activeInt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p.Active = activeInt != 0
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
