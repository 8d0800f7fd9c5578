package httpapi

import (
	"context"
	"net/http"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
)

type authContextKey struct{}

// authenticate verifies the bearer token before any handler runs, so a
// rejected request never reaches the store.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		session, err := h.tokens.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		session.Role = authz.NormalizeRole(session.Role)
		if state := stateFromContext(r.Context()); state != nil {
			state.companyID = session.CompanyID
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(authContextKey{}).(auth.Session)
	return session, ok
}

func isPublicEndpoint(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	switch r.URL.Path {
	case "/healthz", "/metrics", "/api/login", "/api/signup":
		return true
	default:
		return false
	}
}

// session returns the caller's session after checking the role may perform
// action on object.
func (h *Handler) session(r *http.Request, object, action string) (auth.Session, error) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		return auth.Session{}, apperr.Unauthorized("missing or malformed authorization header")
	}
	allowed, err := h.authz.Allowed(session.Role, object, action)
	if err != nil {
		return auth.Session{}, apperr.Internalf(err)
	}
	if !allowed {
		return auth.Session{}, apperr.Denied("insufficient permissions")
	}
	return session, nil
}

