package models

import "time"

type AuditLog struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	ActorUserID string    `json:"actor_user_id"`
	ActionType  string    `json:"action_type"`
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

type Dashboard struct {
	TotalCompanies int64       `json:"total_companies"`
	TotalContacts  int64       `json:"total_contacts"`
	TotalTasks     int64       `json:"total_tasks"`
	TotalProjects  int64       `json:"total_projects"`
	OpenInvoices   int64       `json:"open_invoices"`
	MonthlyRevenue [12]float64 `json:"monthly_revenue"`
}
