package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/syndic/internal/models"
)

const contactColumns = `id, name, type, phone, email, address, description`

// ContactRepo manages the directory.
type ContactRepo struct {
	db *DB
}

func scanContact(s rowScanner) (models.Contact, error) {
	var (
		c                                  models.Contact
		typ                                string
		phone, email, address, description sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &typ, &phone, &email, &address, &description); err != nil {
		return models.Contact{}, err
	}
	c.Type = models.ContactType(typ)
	c.Phone = phone.String
	c.Email = email.String
	c.Address = address.String
	c.Description = description.String
	return c, nil
}

func (r *ContactRepo) query(ctx context.Context, op, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", op, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetAll returns every contact by name.
func (r *ContactRepo) GetAll(ctx context.Context) ([]models.Contact, error) {
	return r.query(ctx, "list contacts",
		`SELECT `+contactColumns+` FROM contacts ORDER BY name COLLATE NOCASE, id`)
}

// GetByType returns the contacts of one type by name.
func (r *ContactRepo) GetByType(ctx context.Context, t models.ContactType) ([]models.Contact, error) {
	return r.query(ctx, "contacts by type",
		`SELECT `+contactColumns+` FROM contacts WHERE type = ? ORDER BY name COLLATE NOCASE, id`, string(t))
}

// GetByID returns the contact or nil when it does not exist.
func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := scanContact(r.db.conn.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get contact: %w", err)
	}
	return &c, nil
}

// Create inserts c and returns its id.
func (r *ContactRepo) Create(ctx context.Context, c models.Contact) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO contacts (name, type, phone, email, address, description) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Type), nullString(c.Phone), nullString(c.Email), nullString(c.Address), nullString(c.Description))
	if err != nil {
		return 0, fmt.Errorf("store: create contact: %w", err)
	}
	return res.LastInsertId()
}

// Update merges the set fields of p.
func (r *ContactRepo) Update(ctx context.Context, id int64, p models.ContactPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var a assignments
	if p.Name != nil {
		a.set("name", *p.Name)
	}
	if p.Type != nil {
		a.set("type", string(*p.Type))
	}
	if p.Phone != nil {
		a.set("phone", nullString(*p.Phone))
	}
	if p.Email != nil {
		a.set("email", nullString(*p.Email))
	}
	if p.Address != nil {
		a.set("address", nullString(*p.Address))
	}
	if p.Description != nil {
		a.set("description", nullString(*p.Description))
	}
	return a.apply(ctx, r.db, "contacts", id, "update contact")
}

// Delete removes a contact.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete contact: %w", err)
	}
	return affectedOrNotFound(res, "delete contact")
}
