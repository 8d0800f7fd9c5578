package postgres

import (
	"context"

	"github.com/groszeck/taxena-netlify/internal/models"
)

func (s *Store) Dashboard(ctx context.Context, companyID string, allCompanies bool, year int) (models.Dashboard, error) {
	var d models.Dashboard
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(1) FROM companies WHERE deleted_at IS NULL AND ($2 OR id = $1)),
			(SELECT COUNT(1) FROM contacts WHERE company_id = $1),
			(SELECT COUNT(1) FROM tasks WHERE company_id = $1),
			(SELECT COUNT(1) FROM projects WHERE company_id = $1),
			(SELECT COUNT(1) FROM invoices WHERE company_id = $1 AND status IN ('draft', 'sent', 'overdue'))
	`, companyID, allCompanies).Scan(&d.TotalCompanies, &d.TotalContacts, &d.TotalTasks, &d.TotalProjects, &d.OpenInvoices)
	if err != nil {
		return models.Dashboard{}, wrap(err, "dashboard counts")
	}

	rows, err := s.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM due_date)::int, SUM(amount)::float8
		FROM invoices
		WHERE company_id = $1 AND status = 'paid' AND EXTRACT(YEAR FROM due_date)::int = $2
		GROUP BY 1
	`, companyID, year)
	if err != nil {
		return models.Dashboard{}, wrap(err, "dashboard revenue")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			month int
			total float64
		)
		if err := rows.Scan(&month, &total); err != nil {
			return models.Dashboard{}, wrap(err, "dashboard revenue")
		}
		if month >= 1 && month <= 12 {
			d.MonthlyRevenue[month-1] = total
		}
	}
	if err := rows.Err(); err != nil {
		return models.Dashboard{}, wrap(err, "dashboard revenue")
	}
	return d, nil
}
