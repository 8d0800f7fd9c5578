package httpapi

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

const defaultFilePageSize = 50

func (h *Handler) formsResource() resource[models.Form, store.FormInput, store.FormPatch] {
	return resource[models.Form, store.FormInput, store.FormPatch]{
		name: "form",
		id:   func(f models.Form) string { return f.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Form, error) {
			return h.store.ListForms(r.Context(), s.CompanyID)
		},
		get: h.store.GetForm,
		create: func(r *http.Request, s auth.Session, in store.FormInput) (models.Form, error) {
			return h.store.CreateForm(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.FormPatch) (models.Form, error) {
			return h.store.UpdateForm(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteForm,
	}
}

// Files are immutable once uploaded, so there is no update operation.
func (h *Handler) filesResource() resource[models.File, store.FileEnvelope, struct{}] {
	return resource[models.File, store.FileEnvelope, struct{}]{
		name: "file",
		id:   func(f models.File) string { return f.ID },
		list: func(r *http.Request, s auth.Session) ([]models.File, error) {
			page, err := pageFromQuery(r)
			if err != nil {
				return nil, err
			}
			return h.store.ListFiles(r.Context(), s.CompanyID, page)
		},
		get: h.store.GetFile,
		create: func(r *http.Request, s auth.Session, in store.FileEnvelope) (models.File, error) {
			data, err := base64.StdEncoding.DecodeString(in.FileData)
			if err != nil {
				return models.File{}, apperr.Invalid("file_data must be base64 encoded")
			}
			if int64(len(data)) > h.maxUpload {
				return models.File{}, apperr.TooLarge("file too large")
			}
			return h.store.CreateFile(r.Context(), s.CompanyID, s.UserID, store.FileUpload{
				FileName: in.FileName,
				FileType: in.FileType,
				Data:     data,
			})
		},
		delete:    h.store.DeleteFile,
		bodyLimit: envelopeLimit(h.maxUpload),
	}
}

// envelopeLimit bounds a JSON upload body: the base64 expansion of the
// largest allowed file plus room for the other fields.
func envelopeLimit(maxUpload int64) int64 {
	return int64(base64.StdEncoding.EncodedLen(int(maxUpload))) + 64<<10
}

func pageFromQuery(r *http.Request) (store.Page, error) {
	limit, err := queryInt(r, "limit", defaultFilePageSize)
	if err != nil {
		return store.Page{}, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return store.Page{}, err
	}
	page := store.Page{Limit: limit, Offset: offset}
	if err := validate.Struct(page); err != nil {
		return store.Page{}, err
	}
	return page, nil
}
