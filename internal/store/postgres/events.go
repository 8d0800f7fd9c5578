package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const eventColumns = `id, company_id, title, description, starts_at, ends_at, all_day, created_by, created_at, updated_at`

func scanEvent(row scannable) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.CompanyID, &e.Title, &e.Description, &e.Start, &e.End, &e.AllDay,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) ListEvents(ctx context.Context, companyID string) ([]models.Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE company_id = $1
		ORDER BY starts_at ASC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list events")
	}
	items, err := collect(rows, scanEvent)
	return items, wrap(err, "list events")
}

func (s *Store) GetEvent(ctx context.Context, companyID, id string) (models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Event{}, wrap(err, "get event")
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, companyID, userID string, input store.EventInput) (models.Event, error) {
	start, err := parseDate(input.Start)
	if err != nil {
		return models.Event{}, err
	}
	end, err := parseDate(input.End)
	if err != nil {
		return models.Event{}, err
	}
	e, err := scanEvent(s.db.QueryRow(ctx, `
		INSERT INTO events (id, company_id, title, description, starts_at, ends_at, all_day, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+eventColumns,
		uuid.NewString(), companyID, input.Title, input.Description, start, end, input.AllDay, userID))
	if err != nil {
		return models.Event{}, wrap(err, "create event")
	}
	return e, nil
}

func (s *Store) UpdateEvent(ctx context.Context, companyID, id string, patch store.EventPatch) (models.Event, error) {
	var a assignments
	setField(&a, "title", patch.Title)
	setField(&a, "description", patch.Description)
	if err := setDate(&a, "starts_at", patch.Start); err != nil {
		return models.Event{}, err
	}
	if err := setDate(&a, "ends_at", patch.End); err != nil {
		return models.Event{}, err
	}
	setField(&a, "all_day", patch.AllDay)
	if a.empty() {
		return models.Event{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("events", eventColumns, id, companyID)
	e, err := scanEvent(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Event{}, wrap(err, "update event")
	}
	return e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete event")
}
