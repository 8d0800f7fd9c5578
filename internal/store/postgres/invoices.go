package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const invoiceColumns = `id, company_id, customer_id, amount::float8, due_date, status, description, created_by, created_at, updated_at`

func scanInvoice(row scannable) (models.Invoice, error) {
	var i models.Invoice
	err := row.Scan(&i.ID, &i.CompanyID, &i.CustomerID, &i.Amount, &i.DueDate, &i.Status,
		&i.Description, &i.CreatedBy, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (s *Store) ListInvoices(ctx context.Context, companyID string) ([]models.Invoice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE company_id = $1
		ORDER BY due_date DESC, created_at DESC
	`, companyID)
	if err != nil {
		return nil, wrap(err, "list invoices")
	}
	items, err := collect(rows, scanInvoice)
	return items, wrap(err, "list invoices")
}

func (s *Store) GetInvoice(ctx context.Context, companyID, id string) (models.Invoice, error) {
	i, err := scanInvoice(s.db.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
	if err != nil {
		return models.Invoice{}, wrap(err, "get invoice")
	}
	return i, nil
}

func (s *Store) CreateInvoice(ctx context.Context, companyID, userID string, input store.InvoiceInput) (models.Invoice, error) {
	due, err := parseDate(input.DueDate)
	if err != nil {
		return models.Invoice{}, err
	}
	i, err := scanInvoice(s.db.QueryRow(ctx, `
		INSERT INTO invoices (id, company_id, customer_id, amount, due_date, status, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+invoiceColumns,
		uuid.NewString(), companyID, input.CustomerID, *input.Amount, due, input.Status, input.Description, userID))
	if err != nil {
		return models.Invoice{}, wrap(err, "create invoice")
	}
	return i, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, companyID, id string, patch store.InvoicePatch) (models.Invoice, error) {
	var a assignments
	setField(&a, "customer_id", patch.CustomerID)
	setField(&a, "amount", patch.Amount)
	if err := setDate(&a, "due_date", patch.DueDate); err != nil {
		return models.Invoice{}, err
	}
	setField(&a, "status", patch.Status)
	setField(&a, "description", patch.Description)
	if a.empty() {
		return models.Invoice{}, store.ErrNoChanges
	}
	a.raw("updated_at = NOW()")
	query, args := a.update("invoices", invoiceColumns, id, companyID)
	i, err := scanInvoice(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Invoice{}, wrap(err, "update invoice")
	}
	return i, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete invoice")
}
