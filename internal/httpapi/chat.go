package httpapi

import (
	"net/http"

	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/store"
)

type chatCreated struct {
	ChatID string `json:"chat_id"`
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chats, err := h.store.ListChats(r.Context(), session.CompanyID, session.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.ChatInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	chat, err := h.store.CreateChat(r.Context(), session.CompanyID, session.UserID, in.ParticipantIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordAudit(r, session, "chat.create", "chat", chat.ID)
	writeJSON(w, http.StatusCreated, chatCreated{ChatID: chat.ID})
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chatID, err := requireID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	messages, err := h.store.ListMessages(r.Context(), session.CompanyID, chatID, session.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r, authz.ObjectRecords, authz.ActionWrite)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chatID, err := requireID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in store.MessageInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.store.SendMessage(r.Context(), session.CompanyID, chatID, session.UserID, in.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
