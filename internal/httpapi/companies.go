package httpapi

import (
	"net/http"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

// Superadmins act across companies. Everyone else only ever sees their own
// company, and a foreign company id is reported as not found.

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectCompany, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.authz.IsSuperadmin(session.Role) {
		companies, err := h.store.ListCompanies(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, companies)
		return
	}
	company, err := h.store.GetCompany(r.Context(), session.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, []models.Company{company})
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectCompany, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.companyTarget(r, session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	company, err := h.store.GetCompany(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectCompanies, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.CompanyInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	company, err := h.store.CreateCompany(r.Context(), session.UserID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "company.create", "company", company.ID)
	writeJSON(w, http.StatusCreated, company)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectCompany, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.companyTarget(r, session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch store.CompanyPatch
	if err := h.decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	company, err := h.store.UpdateCompany(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "company.update", "company", id)
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectCompanies, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := requireID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.DeleteCompany(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "company.delete", "company", id)
	w.WriteHeader(http.StatusNoContent)
}

// companyTarget resolves the {id} a caller may address.
func (h *Handler) companyTarget(r *http.Request, session auth.Session) (string, error) {
	id, err := requireID(r)
	if err != nil {
		return "", err
	}
	if id != session.CompanyID && !h.authz.IsSuperadmin(session.Role) {
		return "", apperr.Missing("not found")
	}
	return id, nil
}
