package models

import "time"

// TaxBracket is one slice of a company's progressive schedule. A nil
// BracketCap marks the open-ended top bracket.
type TaxBracket struct {
	ID         string   `json:"id"`
	BracketCap *float64 `json:"bracket_cap"`
	Rate       float64  `json:"rate"`
}

type TaxReport struct {
	ID            string    `json:"report_id"`
	CompanyID     string    `json:"company_id"`
	UserID        string    `json:"user_id"`
	Period        string    `json:"period"`
	TaxableIncome float64   `json:"taxable_income"`
	Deductions    float64   `json:"deductions"`
	TaxOwed       float64   `json:"tax_owed"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type TaxCalculation struct {
	TaxableIncome float64 `json:"taxable_income"`
	TaxOwed       float64 `json:"tax_owed"`
}
