package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const contactColumns = `id, company_id, name, email, phone, created_by, created_at, updated_at`

func scanContact(row scannable) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListContacts(ctx context.Context, companyID string, filter store.ContactFilter) ([]models.Contact, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE company_id = $1
		  AND ($2::text = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY name ASC
	`, companyID, filter.Query)
	if err != nil {
		return nil, wrap(err, "list contacts")
	}
	contacts, err := collect(rows, scanContact)
	return contacts, wrap(err, "list contacts")
}

func (s *Store) GetContact(ctx context.Context, companyID, id string) (models.Contact, error) {
	c, err := scanContact(s.db.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Contact{}, wrap(err, "get contact")
	}
	return c, nil
}

func (s *Store) CreateContact(ctx context.Context, companyID, userID string, input store.ContactInput) (models.Contact, error) {
	c, err := scanContact(s.db.QueryRow(ctx, `
		INSERT INTO contacts (id, company_id, name, email, phone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contactColumns,
		uuid.NewString(), companyID, input.Name, input.Email, input.Phone, userID))
	if err != nil {
		return models.Contact{}, wrap(err, "create contact")
	}
	return c, nil
}

func (s *Store) UpdateContact(ctx context.Context, companyID, id string, patch store.ContactPatch) (models.Contact, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	setField(&a, "email", patch.Email)
	setField(&a, "phone", patch.Phone)
	if a.empty() {
		return models.Contact{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("contacts", contactColumns, id, companyID)
	c, err := scanContact(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Contact{}, wrap(err, "update contact")
	}
	return c, nil
}

func (s *Store) DeleteContact(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete contact")
}
