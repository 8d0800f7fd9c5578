package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

func (h *Handler) contactsResource() resource[models.Contact, store.ContactInput, store.ContactPatch] {
	return resource[models.Contact, store.ContactInput, store.ContactPatch]{
		name: "contact",
		id:   func(c models.Contact) string { return c.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Contact, error) {
			filter := store.ContactFilter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
			return h.store.ListContacts(r.Context(), s.CompanyID, filter)
		},
		get: h.store.GetContact,
		create: func(r *http.Request, s auth.Session, in store.ContactInput) (models.Contact, error) {
			return h.store.CreateContact(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.ContactPatch) (models.Contact, error) {
			return h.store.UpdateContact(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteContact,
	}
}

func (h *Handler) connectionsResource() resource[models.Connection, store.ConnectionInput, store.ConnectionPatch] {
	return resource[models.Connection, store.ConnectionInput, store.ConnectionPatch]{
		name: "connection",
		id:   func(c models.Connection) string { return c.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Connection, error) {
			return h.store.ListConnections(r.Context(), s.CompanyID)
		},
		get: h.store.GetConnection,
		create: func(r *http.Request, s auth.Session, in store.ConnectionInput) (models.Connection, error) {
			return h.store.CreateConnection(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.ConnectionPatch) (models.Connection, error) {
			return h.store.UpdateConnection(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteConnection,
	}
}

func (h *Handler) invoicesResource() resource[models.Invoice, store.InvoiceInput, store.InvoicePatch] {
	return resource[models.Invoice, store.InvoiceInput, store.InvoicePatch]{
		name: "invoice",
		id:   func(i models.Invoice) string { return i.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Invoice, error) {
			return h.store.ListInvoices(r.Context(), s.CompanyID)
		},
		get: h.store.GetInvoice,
		create: func(r *http.Request, s auth.Session, in store.InvoiceInput) (models.Invoice, error) {
			return h.store.CreateInvoice(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.InvoicePatch) (models.Invoice, error) {
			return h.store.UpdateInvoice(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteInvoice,
	}
}

func (h *Handler) contractsResource() resource[models.Contract, store.ContractInput, store.ContractPatch] {
	return resource[models.Contract, store.ContractInput, store.ContractPatch]{
		name: "contract",
		id:   func(c models.Contract) string { return c.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Contract, error) {
			return h.store.ListContracts(r.Context(), s.CompanyID)
		},
		get: h.store.GetContract,
		create: func(r *http.Request, s auth.Session, in store.ContractInput) (models.Contract, error) {
			return h.store.CreateContract(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.ContractPatch) (models.Contract, error) {
			return h.store.UpdateContract(ctx, s.CompanyID, s.UserID, id, p)
		},
		delete: h.store.DeleteContract,
	}
}

func (h *Handler) proposalsResource() resource[models.Proposal, store.ProposalInput, store.ProposalPatch] {
	return resource[models.Proposal, store.ProposalInput, store.ProposalPatch]{
		name: "proposal",
		id:   func(p models.Proposal) string { return p.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Proposal, error) {
			return h.store.ListProposals(r.Context(), s.CompanyID)
		},
		get: h.store.GetProposal,
		create: func(r *http.Request, s auth.Session, in store.ProposalInput) (models.Proposal, error) {
			return h.store.CreateProposal(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.ProposalPatch) (models.Proposal, error) {
			return h.store.UpdateProposal(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteProposal,
	}
}
