package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const contractColumns = `id, company_id, name, details, start_date, end_date, value::float8,
	created_by, updated_by, created_at, updated_at`

func scanContract(row scannable) (models.Contract, error) {
	var c models.Contract
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Details, &c.StartDate, &c.EndDate, &c.Value,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListContracts(ctx context.Context, companyID string) ([]models.Contract, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE company_id = $1
		ORDER BY start_date DESC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list contracts")
	}
	items, err := collect(rows, scanContract)
	return items, wrap(err, "list contracts")
}

func (s *Store) GetContract(ctx context.Context, companyID, id string) (models.Contract, error) {
	c, err := scanContract(s.db.QueryRow(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Contract{}, wrap(err, "get contract")
	}
	return c, nil
}

func (s *Store) CreateContract(ctx context.Context, companyID, userID string, input store.ContractInput) (models.Contract, error) {
	start, err := parseDate(input.StartDate)
	if err != nil {
		return models.Contract{}, err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return models.Contract{}, err
	}
	c, err := scanContract(s.db.QueryRow(ctx, `
		INSERT INTO contracts (id, company_id, name, details, start_date, end_date, value, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+contractColumns,
		uuid.NewString(), companyID, input.Name, input.Details, start, end, input.Value, userID))
	if err != nil {
		return models.Contract{}, wrap(err, "create contract")
	}
	return c, nil
}

// UpdateContract applies patch and records userID as the last editor. A
// start or end date that inverts the stored range yields ErrEndBeforeStart.
func (s *Store) UpdateContract(ctx context.Context, companyID, userID, id string, patch store.ContractPatch) (models.Contract, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	setField(&a, "details", patch.Details)
	if err := setDate(&a, "start_date", patch.StartDate); err != nil {
		return models.Contract{}, err
	}
	if err := setDate(&a, "end_date", patch.EndDate); err != nil {
		return models.Contract{}, err
	}
	setField(&a, "value", patch.Value)
	if a.empty() {
		return models.Contract{}, store.ErrNoChanges
	}
	a.add("updated_by", userID)
	a.raw("updated_at = NOW()")
	query, args := a.update("contracts", contractColumns, id, companyID)
	c, err := scanContract(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Contract{}, wrap(err, "update contract")
	}
	return c, nil
}

func (s *Store) DeleteContract(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contracts WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete contract")
}
