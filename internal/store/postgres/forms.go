package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const formColumns = `id, company_id, name, data::text, created_by, created_at, updated_at`

func scanForm(row scannable) (models.Form, error) {
	var (
		f    models.Form
		data string
	)
	err := row.Scan(&f.ID, &f.CompanyID, &f.Name, &data, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	f.Data = json.RawMessage(data)
	return f, err
}

func (s *Store) ListForms(ctx context.Context, companyID string) ([]models.Form, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+formColumns+`
		FROM forms
		WHERE company_id = $1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list forms")
	}
	items, err := collect(rows, scanForm)
	return items, wrap(err, "list forms")
}

func (s *Store) GetForm(ctx context.Context, companyID, id string) (models.Form, error) {
	f, err := scanForm(s.db.QueryRow(ctx, `
		SELECT `+formColumns+`
		FROM forms
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Form{}, wrap(err, "get form")
	}
	return f, nil
}

func (s *Store) CreateForm(ctx context.Context, companyID, userID string, input store.FormInput) (models.Form, error) {
	f, err := scanForm(s.db.QueryRow(ctx, `
		INSERT INTO forms (id, company_id, name, data, created_by)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING `+formColumns,
		uuid.NewString(), companyID, input.Name, string(input.Data), userID))
	if err != nil {
		return models.Form{}, wrap(err, "create form")
	}
	return f, nil
}

func (s *Store) UpdateForm(ctx context.Context, companyID, id string, patch store.FormPatch) (models.Form, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	if len(patch.Data) > 0 {
		a.addCast("data", "jsonb", string(patch.Data))
	}
	if a.empty() {
		return models.Form{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("forms", formColumns, id, companyID)
	f, err := scanForm(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Form{}, wrap(err, "update form")
	}
	return f, nil
}

func (s *Store) DeleteForm(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM forms WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete form")
}
