package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const projectColumns = `id, company_id, name, description, created_by, created_at, updated_at`

func scanProject(row scannable) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProjects(ctx context.Context, companyID string) ([]models.Project, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE company_id = $1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list projects")
	}
	items, err := collect(rows, scanProject)
	return items, wrap(err, "list projects")
}

func (s *Store) GetProject(ctx context.Context, companyID, id string) (models.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Project{}, wrap(err, "get project")
	}
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, companyID, userID string, input store.ProjectInput) (models.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx, `
		INSERT INTO projects (id, company_id, name, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		uuid.NewString(), companyID, input.Name, input.Description, userID))
	if err != nil {
		return models.Project{}, wrap(err, "create project")
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, companyID, id string, patch store.ProjectPatch) (models.Project, error) {
	var a assignments
	setField(&a, "name", patch.Name)
	setField(&a, "description", patch.Description)
	if a.empty() {
		return models.Project{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("projects", projectColumns, id, companyID)
	p, err := scanProject(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Project{}, wrap(err, "update project")
	}
	return p, nil
}

// DeleteProject removes the project with its time entries. Tasks that
// referenced it are kept and lose the reference.
func (s *Store) DeleteProject(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete project")
}
