package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
)

// resource describes one tenant-scoped record type. T is the record, In the
// create body and P the patch body. A nil operation is not routed.
type resource[T, In, P any] struct {
	// name is the audit target type; actions are recorded as name.create etc.
	name   string
	id     func(T) string
	list   func(r *http.Request, s auth.Session) ([]T, error)
	get    func(ctx context.Context, companyID, id string) (T, error)
	create func(r *http.Request, s auth.Session, in In) (T, error)
	update func(ctx context.Context, s auth.Session, id string, patch P) (T, error)
	delete func(ctx context.Context, companyID, id string) error
	// bodyLimit overrides the default request body limit for create.
	bodyLimit int64
}

// mount routes path (list, create, ?id= operations) and path/{id}.
func mount[T, In, P any](h *Handler, r chi.Router, path string, res resource[T, In, P]) {
	collection := methods{}
	item := methods{}

	if res.list != nil || res.get != nil {
		collection[http.MethodGet] = func(w http.ResponseWriter, r *http.Request) {
			id, err := recordID(r)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			if id != "" && res.get != nil {
				getRecord(h, w, r, res, id)
				return
			}
			listRecords(h, w, r, res)
		}
	}
	if res.get != nil {
		item[http.MethodGet] = func(w http.ResponseWriter, r *http.Request) {
			id, err := requireID(r)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			getRecord(h, w, r, res, id)
		}
	}
	if res.create != nil {
		collection[http.MethodPost] = func(w http.ResponseWriter, r *http.Request) {
			createRecord(h, w, r, res)
		}
	}
	if res.update != nil {
		patch := func(w http.ResponseWriter, r *http.Request) {
			updateRecord(h, w, r, res)
		}
		for _, m := range []methods{collection, item} {
			m[http.MethodPatch] = patch
			m[http.MethodPut] = patch
		}
	}
	if res.delete != nil {
		del := func(w http.ResponseWriter, r *http.Request) {
			deleteRecord(h, w, r, res)
		}
		collection[http.MethodDelete] = del
		item[http.MethodDelete] = del
	}

	r.Handle(path, collection)
	r.Handle(path+"/{id}", item)
}

func listRecords[T, In, P any](h *Handler, w http.ResponseWriter, r *http.Request, res resource[T, In, P]) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := res.list(r, session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func getRecord[T, In, P any](h *Handler, w http.ResponseWriter, r *http.Request, res resource[T, In, P], id string) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := res.get(r.Context(), session.CompanyID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func createRecord[T, In, P any](h *Handler, w http.ResponseWriter, r *http.Request, res resource[T, In, P]) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit := res.bodyLimit
	if limit <= 0 {
		limit = defaultBodyLimit
	}
	var in In
	if err := h.decodeLimited(w, r, limit, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := res.create(r, session, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, res.name+".create", res.name, res.id(created))
	writeJSON(w, http.StatusCreated, created)
}

func updateRecord[T, In, P any](h *Handler, w http.ResponseWriter, r *http.Request, res resource[T, In, P]) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := requireID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch P
	if err := h.decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := res.update(r.Context(), session, id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, res.name+".update", res.name, id)
	writeJSON(w, http.StatusOK, updated)
}

func deleteRecord[T, In, P any](h *Handler, w http.ResponseWriter, r *http.Request, res resource[T, In, P]) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := requireID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := res.delete(r.Context(), session.CompanyID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, res.name+".delete", res.name, id)
	w.WriteHeader(http.StatusNoContent)
}
