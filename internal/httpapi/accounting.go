package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/tax"
)

func (h *Handler) listTaxRates(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectTaxRates, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	brackets, err := h.store.ListTaxBrackets(r.Context(), session.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brackets)
}

func (h *Handler) replaceTaxRates(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectTaxRates, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.TaxBracketsInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.store.ReplaceTaxBrackets(r.Context(), session.CompanyID, in.Brackets)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "tax_rates.replace", "tax_rates", session.CompanyID)
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) calculateTax(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectReports, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.TaxCalculationInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	stored, err := h.store.ListTaxBrackets(r.Context(), session.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	owed := tax.Owed(decimal.NewFromFloat(*in.TaxableIncome), toBrackets(stored))
	writeJSON(w, http.StatusOK, models.TaxCalculation{
		TaxableIncome: *in.TaxableIncome,
		TaxOwed:       owed.Round(2).InexactFloat64(),
	})
}

func toBrackets(stored []models.TaxBracket) []tax.Bracket {
	brackets := make([]tax.Bracket, 0, len(stored))
	for _, b := range stored {
		bracket := tax.Bracket{Rate: decimal.NewFromFloat(b.Rate)}
		if b.BracketCap == nil {
			bracket.Unbounded = true
		} else {
			bracket.Cap = decimal.NewFromFloat(*b.BracketCap)
		}
		brackets = append(brackets, bracket)
	}
	return brackets
}

func (h *Handler) createTaxReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectReports, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.TaxReportInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	in.TaxableIncome = cents(in.TaxableIncome)
	in.Deductions = cents(in.Deductions)
	in.TaxOwed = cents(in.TaxOwed)
	report, err := h.store.CreateTaxReport(r.Context(), session.CompanyID, session.UserID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "tax_report.create", "tax_report", report.ID)
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) listTaxReports(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectReports, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reports, err := h.store.ListTaxReports(r.Context(), session.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// cents rounds a money amount half away from zero to two places.
func cents(v *float64) *float64 {
	rounded := decimal.NewFromFloat(*v).Round(2).InexactFloat64()
	return &rounded
}
