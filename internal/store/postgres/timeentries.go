package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const timeEntryColumns = `id, company_id, project_id, user_id, start_time, end_time, note, created_at`

func scanTimeEntry(row scannable) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := row.Scan(&e.ID, &e.CompanyID, &e.ProjectID, &e.UserID, &e.StartTime, &e.EndTime, &e.Note, &e.CreatedAt)
	return e, err
}

func (s *Store) ListTimeEntries(ctx context.Context, companyID string, filter store.TimeEntryFilter) ([]models.TimeEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+timeEntryColumns+`
		FROM time_entries
		WHERE company_id = $1 AND ($2::text = '' OR project_id::text = $2)
		ORDER BY start_time DESC
	`, companyID, filter.ProjectID)
	if err != nil {
		return nil, wrap(err, "list time entries")
	}
	items, err := collect(rows, scanTimeEntry)
	return items, wrap(err, "list time entries")
}

func (s *Store) GetTimeEntry(ctx context.Context, companyID, id string) (models.TimeEntry, error) {
	e, err := scanTimeEntry(s.db.QueryRow(ctx, `
		SELECT `+timeEntryColumns+`
		FROM time_entries
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.TimeEntry{}, wrap(err, "get time entry")
	}
	return e, nil
}

func (s *Store) CreateTimeEntry(ctx context.Context, companyID, userID string, input store.TimeEntryInput) (models.TimeEntry, error) {
	start, err := parseDate(input.StartTime)
	if err != nil {
		return models.TimeEntry{}, err
	}
	end, err := parseOptionalDate(input.EndTime)
	if err != nil {
		return models.TimeEntry{}, err
	}
	e, err := scanTimeEntry(s.db.QueryRow(ctx, `
		INSERT INTO time_entries (id, company_id, project_id, user_id, start_time, end_time, note)
		SELECT $1::uuid, p.company_id, p.id, $4::uuid, $5::timestamptz, $6::timestamptz, $7::text
		FROM projects p
		WHERE p.id = $3::uuid AND p.company_id = $2::uuid
		RETURNING `+timeEntryColumns,
		uuid.NewString(), companyID, input.ProjectID, userID, start, end, input.Note))
	if err != nil {
		err = wrap(err, "create time entry")
		if errors.Is(err, store.ErrNotFound) {
			return models.TimeEntry{}, fmt.Errorf("create time entry: %w", store.ErrProjectNotFound)
		}
		return models.TimeEntry{}, err
	}
	return e, nil
}

func (s *Store) UpdateTimeEntry(ctx context.Context, companyID, id string, patch store.TimeEntryPatch) (models.TimeEntry, error) {
	var a assignments
	if err := setDate(&a, "end_time", patch.EndTime); err != nil {
		return models.TimeEntry{}, err
	}
	setField(&a, "note", patch.Note)
	if a.empty() {
		return models.TimeEntry{}, store.ErrNoChanges
	}
	query, args := a.update("time_entries", timeEntryColumns, id, companyID)
	e, err := scanTimeEntry(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.TimeEntry{}, wrap(err, "update time entry")
	}
	return e, nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM time_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete time entry")
}
