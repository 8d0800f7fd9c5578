package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const bracketQuery = `
	SELECT id, bracket_cap::float8, rate::float8
	FROM tax_rates
	WHERE company_id = $1
	ORDER BY bracket_cap ASC NULLS LAST`

func scanBracket(row scannable) (models.TaxBracket, error) {
	var b models.TaxBracket
	err := row.Scan(&b.ID, &b.BracketCap, &b.Rate)
	return b, err
}

func (s *Store) ListTaxBrackets(ctx context.Context, companyID string) ([]models.TaxBracket, error) {
	rows, err := s.db.Query(ctx, bracketQuery, companyID)
	if err != nil {
		return nil, wrap(err, "list tax brackets")
	}
	items, err := collect(rows, scanBracket)
	return items, wrap(err, "list tax brackets")
}

// ReplaceTaxBrackets swaps the company's whole schedule in one transaction.
func (s *Store) ReplaceTaxBrackets(ctx context.Context, companyID string, brackets []store.TaxBracketInput) ([]models.TaxBracket, error) {
	var saved []models.TaxBracket
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tax_rates WHERE company_id = $1`, companyID); err != nil {
			return wrap(err, "clear tax brackets")
		}
		batch := &pgx.Batch{}
		for _, b := range brackets {
			batch.Queue(`
				INSERT INTO tax_rates (id, company_id, bracket_cap, rate)
				VALUES ($1, $2, $3, $4)
			`, uuid.NewString(), companyID, b.BracketCap, *b.Rate)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wrap(err, "insert tax brackets")
		}
		rows, err := tx.Query(ctx, bracketQuery, companyID)
		if err != nil {
			return wrap(err, "list tax brackets")
		}
		saved, err = collect(rows, scanBracket)
		return wrap(err, "list tax brackets")
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

const taxReportColumns = `id, company_id, user_id, period, taxable_income::float8, deductions::float8, tax_owed::float8, submitted_at`

func scanTaxReport(row scannable) (models.TaxReport, error) {
	var r models.TaxReport
	err := row.Scan(&r.ID, &r.CompanyID, &r.UserID, &r.Period, &r.TaxableIncome, &r.Deductions, &r.TaxOwed, &r.SubmittedAt)
	return r, err
}

func (s *Store) CreateTaxReport(ctx context.Context, companyID, userID string, input store.TaxReportInput) (models.TaxReport, error) {
	r, err := scanTaxReport(s.db.QueryRow(ctx, `
		INSERT INTO tax_reports (id, company_id, user_id, period, taxable_income, deductions, tax_owed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taxReportColumns,
		uuid.NewString(), companyID, userID, input.Period, *input.TaxableIncome, *input.Deductions, *input.TaxOwed))
	if err != nil {
		return models.TaxReport{}, wrap(err, "create tax report")
	}
	return r, nil
}

func (s *Store) ListTaxReports(ctx context.Context, companyID string) ([]models.TaxReport, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+taxReportColumns+`
		FROM tax_reports
		WHERE company_id = $1
		ORDER BY submitted_at DESC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list tax reports")
	}
	items, err := collect(rows, scanTaxReport)
	return items, wrap(err, "list tax reports")
}
