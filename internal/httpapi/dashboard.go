package httpapi

import (
	"net/http"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/authz"
)

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	year, err := queryInt(r, "year", h.now().UTC().Year())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if year < 1900 || year > 9999 {
		h.fail(w, r, apperr.Invalid("year must be between 1900 and 9999"))
		return
	}
	summary, err := h.store.Dashboard(r.Context(), session.CompanyID, h.authz.IsSuperadmin(session.Role), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
