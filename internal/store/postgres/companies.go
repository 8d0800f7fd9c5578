package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const companyColumns = `id, name, domain, address, created_by, created_at, updated_at`

func scanCompany(row scannable) (models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.Address, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, wrap(err, "list companies")
	}
	companies, err := collect(rows, scanCompany)
	return companies, wrap(err, "list companies")
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (models.Company, error) {
	c, err := scanCompany(s.db.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE id = $1 AND deleted_at IS NULL
	`, companyID))
	if err != nil {
		return models.Company{}, wrap(err, "get company")
	}
	return c, nil
}

func (s *Store) CreateCompany(ctx context.Context, userID string, input store.CompanyInput) (models.Company, error) {
	c, err := scanCompany(s.db.QueryRow(ctx, `
		INSERT INTO companies (id, name, domain, address, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyColumns,
		uuid.NewString(), input.Name, input.Domain, input.Address, userID))
	if err != nil {
		return models.Company{}, wrap(err, "create company")
	}
	return c, nil
}

func (s *Store) UpdateCompany(ctx context.Context, companyID string, patch store.CompanyPatch) (models.Company, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	setField(&a, "domain", patch.Domain)
	setField(&a, "address", patch.Address)
	if a.empty() {
		return models.Company{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	args := append(a.args, companyID)
	query := fmt.Sprintf(
		"UPDATE companies SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		a.joined(), len(args), companyColumns,
	)
	c, err := scanCompany(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Company{}, wrap(err, "update company")
	}
	return c, nil
}

// DeleteCompany soft-deletes; the company's records stay in place.
func (s *Store) DeleteCompany(ctx context.Context, companyID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE companies
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, companyID)
	return expectOne(tag, err, "delete company")
}
