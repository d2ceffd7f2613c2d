package store

import (
	"context"
	"database/sql"
	"fmt"

	"stagehand/internal/model"
)

// CreateContact creates a new contact.
func CreateContact(ctx context.Context, db *sql.DB, name, email, phone string) (*model.Contact, error) {
	if name == "" {
		return nil, fmt.Errorf("contact name is required")
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, phone) VALUES (?, ?, ?)`,
		name, email, phone,
	)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting contact id: %w", err)
	}

	return GetContact(ctx, db, id)
}

// GetContact returns a contact by ID.
func GetContact(ctx context.Context, db *sql.DB, id int64) (*model.Contact, error) {
	c := &model.Contact{}
	var email, phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, created_at, deleted_at
		 FROM contacts WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&c.ID, &c.Name, &email, &phone, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	c.Email = email.String
	c.Phone = phone.String
	return c, nil
}

// ListContacts returns all non-deleted contacts.
func ListContacts(ctx context.Context, db *sql.DB) ([]model.Contact, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, phone, created_at, deleted_at
		 FROM contacts WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var email, phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &email, &phone, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		c.Email = email.String
		c.Phone = phone.String
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateContact updates a contact's fields.
func UpdateContact(ctx context.Context, db *sql.DB, id int64, name, email, phone string) (*model.Contact, error) {
	if name == "" {
		return nil, fmt.Errorf("contact name is required")
	}
	_, err := db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, phone = ? WHERE id = ? AND deleted_at IS NULL`,
		name, email, phone, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return GetContact(ctx, db, id)
}

// DeleteContact soft-deletes a contact. Contacts that are the
// custodian of an open work order cannot be deleted.
func DeleteContact(ctx context.Context, db *sql.DB, id int64) error {
	var open int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_orders
		 WHERE custodian_contact_id = ? AND status NOT IN ('checked_out', 'cancelled')`, id,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("checking contact usage: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("contact is the custodian of %d open work order(s)", open)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE contacts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	return nil
}

// CreateProject creates a new project.
func CreateProject(ctx context.Context, db *sql.DB, name, code string) (*model.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO projects (name, code) VALUES (?, ?)`,
		name, code,
	)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting project id: %w", err)
	}

	return GetProject(ctx, db, id)
}

// GetProject returns a project by ID.
func GetProject(ctx context.Context, db *sql.DB, id int64) (*model.Project, error) {
	p := &model.Project{}
	var code sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, code, created_at, deleted_at
		 FROM projects WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.Name, &code, &p.CreatedAt, &p.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	p.Code = code.String
	return p, nil
}

// ListProjects returns all non-deleted projects.
func ListProjects(ctx context.Context, db *sql.DB) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, code, created_at, deleted_at
		 FROM projects WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var code sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &code, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		p.Code = code.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject updates a project's fields.
func UpdateProject(ctx context.Context, db *sql.DB, id int64, name, code string) (*model.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	_, err := db.ExecContext(ctx,
		`UPDATE projects SET name = ?, code = ? WHERE id = ? AND deleted_at IS NULL`,
		name, code, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return GetProject(ctx, db, id)
}

// DeleteProject soft-deletes a project. Projects that are the
// custodian of an open work order cannot be deleted.
func DeleteProject(ctx context.Context, db *sql.DB, id int64) error {
	var open int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_orders
		 WHERE custodian_project_id = ? AND status NOT IN ('checked_out', 'cancelled')`, id,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("checking project usage: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("project is the custodian of %d open work order(s)", open)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE projects SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}
