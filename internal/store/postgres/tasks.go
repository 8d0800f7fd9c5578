package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const taskColumns = `id, company_id, project_id, title, description, status, due_date, created_by, created_at, updated_at`

func scanTask(row scannable) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.CompanyID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, companyID string, filter store.TaskFilter) ([]models.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE company_id = $1 AND ($2::text = '' OR status = $2)
		ORDER BY due_date ASC NULLS LAST, created_at DESC
	`, companyID, filter.Status)
	if err != nil {
		return nil, wrap(err, "list tasks")
	}
	items, err := collect(rows, scanTask)
	return items, wrap(err, "list tasks")
}

func (s *Store) GetTask(ctx context.Context, companyID, id string) (models.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Task{}, wrap(err, "get task")
	}
	return t, nil
}

// CreateTask returns ErrProjectNotFound when ProjectID names a project
// outside companyID.
func (s *Store) CreateTask(ctx context.Context, companyID, userID string, input store.TaskInput) (models.Task, error) {
	due, err := parseOptionalDate(input.DueDate)
	if err != nil {
		return models.Task{}, err
	}
	status := input.Status
	if status == "" {
		status = store.TaskTodo
	}
	t, err := scanTask(s.db.QueryRow(ctx, `
		INSERT INTO tasks (id, company_id, project_id, title, description, status, due_date, created_by)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text, $7::date, $8::uuid
		WHERE $3::uuid IS NULL
		   OR EXISTS (SELECT 1 FROM projects WHERE id = $3 AND company_id = $2)
		RETURNING `+taskColumns,
		uuid.NewString(), companyID, input.ProjectID, input.Title, input.Description, status, due, userID))
	if err != nil {
		err = wrap(err, "create task")
		if errors.Is(err, store.ErrNotFound) {
			return models.Task{}, fmt.Errorf("create task: %w", store.ErrProjectNotFound)
		}
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, companyID, id string, patch store.TaskPatch) (models.Task, error) {
	var a assignments
	setField(&a, "title", patch.Title)
	setField(&a, "description", patch.Description)
	setField(&a, "status", patch.Status)
	if err := setDate(&a, "due_date", patch.DueDate); err != nil {
		return models.Task{}, err
	}
	if a.empty() {
		return models.Task{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("tasks", taskColumns, id, companyID)
	t, err := scanTask(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Task{}, wrap(err, "update task")
	}
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete task")
}
