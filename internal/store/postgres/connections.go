package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const connectionColumns = `id, company_id, name, email, phone, created_by, created_at`

func scanConnection(row scannable) (models.Connection, error) {
	var c models.Connection
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.CreatedBy, &c.CreatedAt)
	return c, err
}

func (s *Store) ListConnections(ctx context.Context, companyID string) ([]models.Connection, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list connections")
	}
	items, err := collect(rows, scanConnection)
	return items, wrap(err, "list connections")
}

func (s *Store) GetConnection(ctx context.Context, companyID, id string) (models.Connection, error) {
	c, err := scanConnection(s.db.QueryRow(ctx, `
		SELECT `+connectionColumns+`
		FROM connections
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Connection{}, wrap(err, "get connection")
	}
	return c, nil
}

func (s *Store) CreateConnection(ctx context.Context, companyID, userID string, input store.ConnectionInput) (models.Connection, error) {
	c, err := scanConnection(s.db.QueryRow(ctx, `
		INSERT INTO connections (id, company_id, name, email, phone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+connectionColumns,
		uuid.NewString(), companyID, input.Name, input.Email, input.Phone, userID))
	if err != nil {
		return models.Connection{}, wrap(err, "create connection")
	}
	return c, nil
}

func (s *Store) UpdateConnection(ctx context.Context, companyID, id string, patch store.ConnectionPatch) (models.Connection, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	setField(&a, "email", patch.Email)
	setField(&a, "phone", patch.Phone)
	if a.empty() {
		return models.Connection{}, store.ErrNoChanges
	}
	query, args := a.update("connections", connectionColumns, id, companyID)
	c, err := scanConnection(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Connection{}, wrap(err, "update connection")
	}
	return c, nil
}

func (s *Store) DeleteConnection(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM connections WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete connection")
}
