package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const proposalColumns = `id, company_id, title, description, amount::float8, status, deal_id, created_by, created_at, updated_at`

func scanProposal(row scannable) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.ID, &p.CompanyID, &p.Title, &p.Description, &p.Amount, &p.Status, &p.DealID,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProposals(ctx context.Context, companyID string) ([]models.Proposal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list proposals")
	}
	items, err := collect(rows, scanProposal)
	return items, wrap(err, "list proposals")
}

func (s *Store) GetProposal(ctx context.Context, companyID, id string) (models.Proposal, error) {
	p, err := scanProposal(s.db.QueryRow(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Proposal{}, wrap(err, "get proposal")
	}
	return p, nil
}

func (s *Store) CreateProposal(ctx context.Context, companyID, userID string, input store.ProposalInput) (models.Proposal, error) {
	status := input.Status
	if status == "" {
		status = store.ProposalDraft
	}
	p, err := scanProposal(s.db.QueryRow(ctx, `
		INSERT INTO proposals (id, company_id, title, description, amount, status, deal_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+proposalColumns,
		uuid.NewString(), companyID, input.Title, input.Description, *input.Amount, status, input.DealID, userID))
	if err != nil {
		return models.Proposal{}, wrap(err, "create proposal")
	}
	return p, nil
}

func (s *Store) UpdateProposal(ctx context.Context, companyID, id string, patch store.ProposalPatch) (models.Proposal, error) {
	var a assignments
	setField(&a, "title", patch.Title)
	setField(&a, "description", patch.Description)
	setField(&a, "amount", patch.Amount)
	setField(&a, "status", patch.Status)
	if a.empty() {
		return models.Proposal{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")

	var updated models.Proposal
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if patch.Status != nil {
			var current string
			if err := tx.QueryRow(ctx, `
				SELECT status FROM proposals
				WHERE id = $1 AND company_id = $2
				FOR UPDATE
			`, id, companyID).Scan(&current); err != nil {
				return wrap(err, "lock proposal")
			}
			if !store.ValidProposalTransition(current, *patch.Status) {
				return fmt.Errorf("%s to %s: %w", current, *patch.Status, store.ErrInvalidTransition)
			}
		}
		query, args := a.update("proposals", proposalColumns, id, companyID)
		p, err := scanProposal(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return wrap(err, "update proposal")
		}
		updated = p
		return nil
	})
	if err != nil {
		return models.Proposal{}, err
	}
	return updated, nil
}

func (s *Store) DeleteProposal(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM proposals WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete proposal")
}
