package store

import (
	"context"

	"github.com/groszeck/taxena-netlify/internal/models"
)

// Every tenant-scoped method takes the caller's companyID from the verified
// session and filters on it. A record owned by another company behaves
// exactly like a missing one and yields ErrNotFound.
type Store interface {
	Users
	Companies
	Contacts
	Connections
	Invoices
	Contracts
	Proposals
	Tasks
	Projects
	TimeEntries
	Events
	Forms
	Files
	Chats
	Accounting
	Audit
	Dashboards
}

type Users interface {
	// GetUserByEmail looks up an active user across all companies.
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUser(ctx context.Context, companyID, userID string) (models.User, error)
	ListUsers(ctx context.Context, companyID string) ([]models.User, error)
	// Signup creates the user, and the company when no company of that name
	// exists, in one transaction. It returns ErrEmailTaken without writing
	// anything when the email is already registered.
	Signup(ctx context.Context, params SignupParams) (models.User, models.Company, error)
}

type Companies interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, companyID string) (models.Company, error)
	CreateCompany(ctx context.Context, userID string, input CompanyInput) (models.Company, error)
	UpdateCompany(ctx context.Context, companyID string, patch CompanyPatch) (models.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
}

type Contacts interface {
	ListContacts(ctx context.Context, companyID string, filter ContactFilter) ([]models.Contact, error)
	GetContact(ctx context.Context, companyID, id string) (models.Contact, error)
	CreateContact(ctx context.Context, companyID, userID string, input ContactInput) (models.Contact, error)
	UpdateContact(ctx context.Context, companyID, id string, patch ContactPatch) (models.Contact, error)
	DeleteContact(ctx context.Context, companyID, id string) error
}

type Connections interface {
	ListConnections(ctx context.Context, companyID string) ([]models.Connection, error)
	GetConnection(ctx context.Context, companyID, id string) (models.Connection, error)
	CreateConnection(ctx context.Context, companyID, userID string, input ConnectionInput) (models.Connection, error)
	UpdateConnection(ctx context.Context, companyID, id string, patch ConnectionPatch) (models.Connection, error)
	DeleteConnection(ctx context.Context, companyID, id string) error
}

type Invoices interface {
	ListInvoices(ctx context.Context, companyID string) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, companyID, id string) (models.Invoice, error)
	CreateInvoice(ctx context.Context, companyID, userID string, input InvoiceInput) (models.Invoice, error)
	UpdateInvoice(ctx context.Context, companyID, id string, patch InvoicePatch) (models.Invoice, error)
	DeleteInvoice(ctx context.Context, companyID, id string) error
}

type Contracts interface {
	ListContracts(ctx context.Context, companyID string) ([]models.Contract, error)
	GetContract(ctx context.Context, companyID, id string) (models.Contract, error)
	CreateContract(ctx context.Context, companyID, userID string, input ContractInput) (models.Contract, error)
	UpdateContract(ctx context.Context, companyID, userID, id string, patch ContractPatch) (models.Contract, error)
	DeleteContract(ctx context.Context, companyID, id string) error
}

type Proposals interface {
	ListProposals(ctx context.Context, companyID string) ([]models.Proposal, error)
	GetProposal(ctx context.Context, companyID, id string) (models.Proposal, error)
	CreateProposal(ctx context.Context, companyID, userID string, input ProposalInput) (models.Proposal, error)
	// UpdateProposal returns ErrInvalidTransition when a status change is
	// not allowed from the current status.
	UpdateProposal(ctx context.Context, companyID, id string, patch ProposalPatch) (models.Proposal, error)
	DeleteProposal(ctx context.Context, companyID, id string) error
}

type Tasks interface {
	ListTasks(ctx context.Context, companyID string, filter TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, companyID, id string) (models.Task, error)
	CreateTask(ctx context.Context, companyID, userID string, input TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, companyID, id string, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, companyID, id string) error
}

type Projects interface {
	ListProjects(ctx context.Context, companyID string) ([]models.Project, error)
	GetProject(ctx context.Context, companyID, id string) (models.Project, error)
	CreateProject(ctx context.Context, companyID, userID string, input ProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, companyID, id string, patch ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, companyID, id string) error
}

type TimeEntries interface {
	ListTimeEntries(ctx context.Context, companyID string, filter TimeEntryFilter) ([]models.TimeEntry, error)
	GetTimeEntry(ctx context.Context, companyID, id string) (models.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, companyID, userID string, input TimeEntryInput) (models.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, companyID, id string, patch TimeEntryPatch) (models.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, companyID, id string) error
}

type Events interface {
	ListEvents(ctx context.Context, companyID string) ([]models.Event, error)
	GetEvent(ctx context.Context, companyID, id string) (models.Event, error)
	CreateEvent(ctx context.Context, companyID, userID string, input EventInput) (models.Event, error)
	UpdateEvent(ctx context.Context, companyID, id string, patch EventPatch) (models.Event, error)
	DeleteEvent(ctx context.Context, companyID, id string) error
}

type Forms interface {
	ListForms(ctx context.Context, companyID string) ([]models.Form, error)
	GetForm(ctx context.Context, companyID, id string) (models.Form, error)
	CreateForm(ctx context.Context, companyID, userID string, input FormInput) (models.Form, error)
	UpdateForm(ctx context.Context, companyID, id string, patch FormPatch) (models.Form, error)
	DeleteForm(ctx context.Context, companyID, id string) error
}

type Files interface {
	// ListFiles returns metadata only; FileData is left empty.
	ListFiles(ctx context.Context, companyID string, page Page) ([]models.File, error)
	GetFile(ctx context.Context, companyID, id string) (models.File, error)
	CreateFile(ctx context.Context, companyID, userID string, upload FileUpload) (models.File, error)
	DeleteFile(ctx context.Context, companyID, id string) error
}

type Chats interface {
	ListChats(ctx context.Context, companyID, userID string) ([]models.Chat, error)
	// CreateChat adds userID to participantIDs. Every participant must be a
	// user of companyID, otherwise ErrUnknownParticipant.
	CreateChat(ctx context.Context, companyID, userID string, participantIDs []string) (models.Chat, error)
	ListMessages(ctx context.Context, companyID, chatID, userID string) ([]models.Message, error)
	SendMessage(ctx context.Context, companyID, chatID, userID, content string) (models.Message, error)
}

type Accounting interface {
	// ListTaxBrackets is ordered by ascending cap, open-ended bracket last.
	ListTaxBrackets(ctx context.Context, companyID string) ([]models.TaxBracket, error)
	ReplaceTaxBrackets(ctx context.Context, companyID string, brackets []TaxBracketInput) ([]models.TaxBracket, error)
	CreateTaxReport(ctx context.Context, companyID, userID string, input TaxReportInput) (models.TaxReport, error)
	ListTaxReports(ctx context.Context, companyID string) ([]models.TaxReport, error)
}

type Audit interface {
	InsertAudit(ctx context.Context, entry models.AuditLog) error
	ListAudit(ctx context.Context, companyID string, filter AuditFilter) ([]models.AuditLog, error)
}

type Dashboards interface {
	// Dashboard aggregates companyID's records. With allCompanies set the
	// company total counts every active company.
	Dashboard(ctx context.Context, companyID string, allCompanies bool, year int) (models.Dashboard, error)
}
