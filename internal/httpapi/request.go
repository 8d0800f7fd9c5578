package httpapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

// methods dispatches on the request method. Anything unregistered gets 405
// with an Allow header listing what is.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if fn, ok := m[r.Method]; ok {
		fn(w, r)
		return
	}
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	slices.Sort(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// recordID returns the {id} path parameter, falling back to ?id=. An empty
// result means none was given.
func recordID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if id == "" {
		return "", nil
	}
	if !isValidUUID(id) {
		return "", apperr.Invalid("id must be a valid UUID")
	}
	return id, nil
}

func requireID(r *http.Request) (string, error) {
	id, err := recordID(r)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", apperr.Invalid("id is required")
	}
	return id, nil
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// decode reads and validates a JSON body into dst.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return h.decodeLimited(w, r, defaultBodyLimit, dst)
}

func (h *Handler) decodeLimited(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if err := validate.Decode(w, r, limit, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid("%s must be an integer", key)
	}
	return n, nil
}
