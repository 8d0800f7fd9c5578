package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const auditListLimit = 200

func (s *Store) InsertAudit(ctx context.Context, entry models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO audit_logs (id, company_id, actor_user_id, action_type, target_type, target_id, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.CompanyID, nullIfEmpty(entry.ActorUserID), entry.ActionType, entry.TargetType,
		nullIfEmpty(entry.TargetID), nullIfEmpty(entry.IP), nullIfEmpty(entry.UserAgent))
	return wrap(err, "insert audit")
}

func (s *Store) ListAudit(ctx context.Context, companyID string, filter store.AuditFilter) ([]models.AuditLog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, company_id, COALESCE(actor_user_id::text, ''), action_type, target_type,
		       COALESCE(target_id, ''), COALESCE(ip, ''), COALESCE(user_agent, ''), created_at
		FROM audit_logs
		WHERE company_id = $1
		  AND ($2::text = '' OR action_type = $2)
		  AND ($3::text = '' OR actor_user_id::text = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`, companyID, filter.ActionType, filter.UserID, auditListLimit)
	if err != nil {
		return nil, wrap(err, "list audit")
	}
	items, err := collect(rows, func(row scannable) (models.AuditLog, error) {
		var l models.AuditLog
		err := row.Scan(&l.ID, &l.CompanyID, &l.ActorUserID, &l.ActionType, &l.TargetType,
			&l.TargetID, &l.IP, &l.UserAgent, &l.CreatedAt)
		return l, err
	})
	return items, wrap(err, "list audit")
}
