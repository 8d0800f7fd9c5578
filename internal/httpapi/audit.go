package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/logging"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

// recordAudit stores a trail entry for a completed mutation. A failed write
// is logged and does not fail the request.
func (h *Handler) recordAudit(r *http.Request, session auth.Session, actionType, targetType, targetID string) {
	err := h.store.InsertAudit(r.Context(), models.AuditLog{
		CompanyID:   session.CompanyID,
		ActorUserID: session.UserID,
		ActionType:  actionType,
		TargetType:  targetType,
		TargetID:    targetID,
		IP:          r.RemoteAddr,
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("audit write failed",
			zap.String("action", actionType),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectAudit, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	query := r.URL.Query()
	filter := store.AuditFilter{
		ActionType: strings.TrimSpace(query.Get("action")),
		UserID:     strings.TrimSpace(firstNonEmpty(query.Get("user_id"), query.Get("userId"))),
	}
	if err := validate.Struct(filter); err != nil {
		h.fail(w, r, err)
		return
	}
	entries, err := h.store.ListAudit(r.Context(), session.CompanyID, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
