// Package httpapi serves the CRM's JSON API. Every tenant-scoped handler
// reads the caller's company from the verified session, never from input.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/groszeck/taxena-netlify/internal/apperr"
	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const (
	defaultBodyLimit = 1 << 20
	defaultMaxUpload = 5 << 20
)

type Deps struct {
	Store          store.Store
	Tokens         *auth.Tokens
	Passwords      auth.Passwords
	Authz          *authz.Authorizer
	Log            *zap.Logger
	Registry       *prometheus.Registry
	CORSOrigins    []string
	MaxUploadBytes int64
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

type Handler struct {
	store     store.Store
	tokens    *auth.Tokens
	passwords auth.Passwords
	authz     *authz.Authorizer
	log       *zap.Logger
	registry  *prometheus.Registry
	metrics   *metrics
	origins   []string
	maxUpload int64
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:     d.Store,
		tokens:    d.Tokens,
		passwords: d.Passwords,
		authz:     d.Authz,
		log:       d.Log,
		registry:  d.Registry,
		origins:   d.CORSOrigins,
		maxUpload: d.MaxUploadBytes,
		now:       d.Now,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.registry == nil {
		h.registry = prometheus.NewRegistry()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUpload
	}
	if h.now == nil {
		h.now = time.Now
	}
	if len(h.origins) == 0 {
		h.origins = []string{"*"}
	}
	h.metrics = newMetrics(h.registry)
	return h
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(h.logRequests, h.cors, h.authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, r, apperr.Missing("not found"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	r.Handle("/api/login", methods{http.MethodPost: h.login})
	r.Handle("/api/signup", methods{http.MethodPost: h.signup})
	r.Handle("/api/me", methods{http.MethodGet: h.me})
	r.Handle("/api/users", methods{http.MethodGet: h.listUsers})

	r.Handle("/api/companies", methods{
		http.MethodGet:  h.listCompanies,
		http.MethodPost: h.createCompany,
	})
	r.Handle("/api/companies/{id}", methods{
		http.MethodGet:    h.getCompany,
		http.MethodPatch:  h.updateCompany,
		http.MethodPut:    h.updateCompany,
		http.MethodDelete: h.deleteCompany,
	})

	mount(h, r, "/api/contacts", h.contactsResource())
	mount(h, r, "/api/connections", h.connectionsResource())
	mount(h, r, "/api/invoices", h.invoicesResource())
	mount(h, r, "/api/contracts", h.contractsResource())
	mount(h, r, "/api/proposals", h.proposalsResource())
	mount(h, r, "/api/tasks", h.tasksResource())
	mount(h, r, "/api/projects", h.projectsResource())
	mount(h, r, "/api/time-entries", h.timeEntriesResource())
	mount(h, r, "/api/events", h.eventsResource())
	mount(h, r, "/api/forms", h.formsResource())
	mount(h, r, "/api/files", h.filesResource())

	r.Handle("/api/chats", methods{
		http.MethodGet:  h.listChats,
		http.MethodPost: h.createChat,
	})
	r.Handle("/api/chats/{id}/messages", methods{
		http.MethodGet:  h.listMessages,
		http.MethodPost: h.sendMessage,
	})

	r.Handle("/api/accounting/tax-rates", methods{
		http.MethodGet: h.listTaxRates,
		http.MethodPut: h.replaceTaxRates,
	})
	r.Handle("/api/accounting/calculate", methods{http.MethodPost: h.calculateTax})
	r.Handle("/api/accounting/reports", methods{
		http.MethodGet:  h.listTaxReports,
		http.MethodPost: h.createTaxReport,
	})

	r.Handle("/api/dashboard", methods{http.MethodGet: h.dashboard})
	r.Handle("/api/audit", methods{http.MethodGet: h.listAudit})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
