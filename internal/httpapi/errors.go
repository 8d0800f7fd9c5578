package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/store"
)

// mapError translates store sentinels into the client-facing taxonomy.
// Anything it does not recognise becomes Internal.
func mapError(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, store.ErrProjectNotFound):
		return apperr.Missing("project not found")
	case errors.Is(err, store.ErrNotFound):
		return apperr.Missing("not found")
	case errors.Is(err, store.ErrEmailTaken):
		return apperr.Duplicate("email already in use")
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Duplicate("record already exists")
	case errors.Is(err, store.ErrInvalidTransition):
		return apperr.Wrap(apperr.Conflict, "invalid status transition", err)
	case errors.Is(err, store.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid credentials")
	case errors.Is(err, store.ErrNoChanges):
		return apperr.Invalid("no fields to update")
	case errors.Is(err, store.ErrEndBeforeStart):
		return apperr.Invalid("end must be on or after start")
	case errors.Is(err, store.ErrNotParticipant):
		return apperr.Denied("not a chat participant")
	case errors.Is(err, store.ErrUnknownParticipant):
		return apperr.Invalid("unknown participant")
	default:
		return apperr.Internalf(err)
	}
}

// fail writes err as {"error": message}. Internal causes are logged and
// never sent to the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := mapError(err)
	if appErr.Kind == apperr.Internal {
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, appErr.Kind.Status(), errorResponse{Error: appErr.Message})
}
