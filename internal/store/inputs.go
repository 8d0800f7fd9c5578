package store

import (
	"encoding/json"

	"github.com/groszeck/taxena-netlify/internal/validate"
)

// Inputs are decoded straight from request bodies. Ownership fields
// (company_id, created_by) come from the session and have no input field.

type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type SignupInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	CompanyName string `json:"company_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

type SignupParams struct {
	Name         string
	Email        string
	CompanyName  string
	PasswordHash string
}

type CompanyInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Domain  *string `json:"domain" validate:"omitnil,max=255"`
	Address *string `json:"address" validate:"omitnil,max=500"`
}

type CompanyPatch struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=255"`
	Domain  *string `json:"domain" validate:"omitnil,max=255"`
	Address *string `json:"address" validate:"omitnil,max=500"`
}

type ContactInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email string  `json:"email" validate:"required,email,max=255"`
	Phone *string `json:"phone" validate:"omitnil,min=7,max=20"`
}

type ContactPatch struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Phone *string `json:"phone" validate:"omitnil,min=7,max=20"`
}

type ContactFilter struct {
	// Query matches name or email, case-insensitively.
	Query string
}

type ConnectionInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email string  `json:"email" validate:"required,email,max=255"`
	Phone *string `json:"phone" validate:"omitnil,min=7,max=20"`
}

type ConnectionPatch struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Phone *string `json:"phone" validate:"omitnil,min=7,max=20"`
}

type InvoiceInput struct {
	CustomerID  string   `json:"customer_id" validate:"required,max=255"`
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	DueDate     string   `json:"due_date" validate:"required,isodate"`
	Status      string   `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
}

type InvoicePatch struct {
	CustomerID  *string  `json:"customer_id" validate:"omitnil,min=1,max=255"`
	Amount      *float64 `json:"amount" validate:"omitnil,gte=0"`
	DueDate     *string  `json:"due_date" validate:"omitnil,isodate"`
	Status      *string  `json:"status" validate:"omitnil,oneof=draft sent paid overdue cancelled"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
}

type ContractInput struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Details   *string  `json:"details" validate:"omitnil,max=10000"`
	StartDate string   `json:"start_date" validate:"required,isodate"`
	EndDate   string   `json:"end_date" validate:"required,isodate"`
	Value     *float64 `json:"value" validate:"omitnil,gte=0"`
}

func (in ContractInput) CheckFields() []string {
	return validate.EndNotBefore("start_date", in.StartDate, "end_date", in.EndDate)
}

type ContractPatch struct {
	Name      *string  `json:"name" validate:"omitnil,min=1,max=255"`
	Details   *string  `json:"details" validate:"omitnil,max=10000"`
	StartDate *string  `json:"start_date" validate:"omitnil,isodate"`
	EndDate   *string  `json:"end_date" validate:"omitnil,isodate"`
	Value     *float64 `json:"value" validate:"omitnil,gte=0"`
}

func (p ContractPatch) CheckFields() []string {
	return validate.EndNotBefore("start_date", deref(p.StartDate), "end_date", deref(p.EndDate))
}

const (
	ProposalDraft    = "draft"
	ProposalSent     = "sent"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

type ProposalInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitnil,max=10000"`
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft sent accepted rejected"`
	DealID      *int64   `json:"deal_id" validate:"omitnil,gt=0"`
}

type ProposalPatch struct {
	Title       *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string  `json:"description" validate:"omitnil,max=10000"`
	Amount      *float64 `json:"amount" validate:"omitnil,gte=0"`
	Status      *string  `json:"status" validate:"omitnil,oneof=draft sent accepted rejected"`
}

const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

type TaskInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	Status      string  `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	ProjectID   *string `json:"project_id" validate:"omitnil,uuid"`
	DueDate     *string `json:"due_date" validate:"omitnil,isodate"`
}

type TaskPatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	Status      *string `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	DueDate     *string `json:"due_date" validate:"omitnil,isodate"`
}

type TaskFilter struct {
	Status string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
}

type ProjectInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
}

type ProjectPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
}

type TimeEntryInput struct {
	ProjectID string  `json:"project_id" validate:"required,uuid"`
	StartTime string  `json:"start_time" validate:"required,isodate"`
	EndTime   *string `json:"end_time" validate:"omitnil,isodate"`
	Note      *string `json:"note" validate:"omitnil,max=1000"`
}

func (in TimeEntryInput) CheckFields() []string {
	return validate.EndNotBefore("start_time", in.StartTime, "end_time", deref(in.EndTime))
}

// TimeEntryPatch stops a running entry or edits its note. An end time
// before the stored start time yields ErrEndBeforeStart.
type TimeEntryPatch struct {
	EndTime *string `json:"end_time" validate:"omitnil,isodate"`
	Note    *string `json:"note" validate:"omitnil,max=1000"`
}

type TimeEntryFilter struct {
	ProjectID string `json:"project_id" validate:"omitempty,uuid"`
}

type EventInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Start       string  `json:"start" validate:"required,isodate"`
	End         string  `json:"end" validate:"required,isodate"`
	AllDay      bool    `json:"all_day"`
}

func (in EventInput) CheckFields() []string {
	return validate.EndNotBefore("start", in.Start, "end", in.End)
}

type EventPatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Start       *string `json:"start" validate:"omitnil,isodate"`
	End         *string `json:"end" validate:"omitnil,isodate"`
	AllDay      *bool   `json:"all_day"`
}

func (p EventPatch) CheckFields() []string {
	return validate.EndNotBefore("start", deref(p.Start), "end", deref(p.End))
}

type FormInput struct {
	Name string          `json:"name" validate:"required,max=255"`
	Data json.RawMessage `json:"data" validate:"required,jsonobject"`
}

type FormPatch struct {
	Name *string         `json:"name" validate:"omitnil,min=1,max=255"`
	Data json.RawMessage `json:"data" validate:"omitempty,jsonobject"`
}

// FileEnvelope is the JSON upload body; FileData is base64.
type FileEnvelope struct {
	FileName string `json:"file_name" validate:"required,filename"`
	FileType string `json:"file_type" validate:"required,oneof=image/png image/jpeg image/gif application/pdf text/plain application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
	FileData string `json:"file_data" validate:"required,b64"`
}

type FileUpload struct {
	FileName string
	FileType string
	Data     []byte
}

type Page struct {
	Limit  int `json:"limit" validate:"gte=1,lte=100"`
	Offset int `json:"offset" validate:"gte=0"`
}

type ChatInput struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,max=50,dive,uuid"`
}

type MessageInput struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type TaxBracketInput struct {
	BracketCap *float64 `json:"bracket_cap" validate:"omitnil,gte=0"`
	Rate       *float64 `json:"rate" validate:"required,gte=0,lte=1"`
}

type TaxBracketsInput struct {
	Brackets []TaxBracketInput `json:"brackets" validate:"required,min=1,max=50,dive"`
}

// CheckFields requires strictly ascending caps with at most one open-ended
// bracket, placed last.
func (in TaxBracketsInput) CheckFields() []string {
	var previous *float64
	for i, b := range in.Brackets {
		if b.BracketCap == nil {
			if i != len(in.Brackets)-1 {
				return []string{"only the last bracket may omit bracket_cap"}
			}
			continue
		}
		if previous != nil && *b.BracketCap <= *previous {
			return []string{"bracket_cap values must be strictly ascending"}
		}
		previous = b.BracketCap
	}
	return nil
}

type TaxCalculationInput struct {
	TaxableIncome *float64 `json:"taxable_income" validate:"required,gte=0"`
}

type TaxReportInput struct {
	Period        string   `json:"period" validate:"required,max=50"`
	TaxableIncome *float64 `json:"taxable_income" validate:"required,gte=0"`
	Deductions    *float64 `json:"deductions" validate:"required,gte=0"`
	TaxOwed       *float64 `json:"tax_owed" validate:"required,gte=0"`
}

type AuditFilter struct {
	ActionType string `json:"action"`
	UserID     string `json:"user_id" validate:"omitempty,uuid"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
