package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

type sessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

func newSessionResponse(token string, u models.User) sessionResponse {
	return sessionResponse{
		Token: token,
		User: sessionUser{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			CompanyID: u.CompanyID,
			Role:      authz.NormalizeRole(u.Role),
		},
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in store.LoginInput
	if err := validate.Decode(w, r, defaultBodyLimit, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), in.Email)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, store.ErrInvalidCredentials)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok, err := h.passwords.Matches(user.PasswordHash, in.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		h.fail(w, r, store.ErrInvalidCredentials)
		return
	}

	token, session, err := h.tokens.Issue(user.ID, user.CompanyID, user.Role, user.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "user.login", "user", user.ID)
	writeJSON(w, http.StatusOK, newSessionResponse(token, user))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in store.SignupInput
	if err := validate.Decode(w, r, defaultBodyLimit, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validate.Struct(in); err != nil {
		h.fail(w, r, err)
		return
	}

	hash, err := h.passwords.Hash(in.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, _, err := h.store.Signup(r.Context(), store.SignupParams{
		Name:         in.Name,
		Email:        in.Email,
		CompanyName:  in.CompanyName,
		PasswordHash: hash,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, session, err := h.tokens.Issue(user.ID, user.CompanyID, user.Role, user.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "user.signup", "user", user.ID)
	writeJSON(w, http.StatusCreated, newSessionResponse(token, user))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		h.fail(w, r, apperr.Unauthorized("missing or malformed authorization header"))
		return
	}
	user, err := h.store.GetUser(r.Context(), session.CompanyID, session.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectUsers, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.store.ListUsers(r.Context(), session.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

