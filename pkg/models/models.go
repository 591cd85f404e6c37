package models

import (
	"time"

	"github.com/google/uuid"
)

// Loan is a tracked personal loan. TenureMonths and DerivedInstallment are
// computed by the ledger from the user-entered fields; PaidMonths only ever
// moves through the ledger's payment path.
type Loan struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Principal          float64   `json:"principal"`
	AnnualRate         float64   `json:"annual_rate"` // nominal annual rate as a percentage, e.g. 8.5
	StartDate          string    `json:"start_date"`  // YYYY-MM-DD
	EndDate            string    `json:"end_date"`    // YYYY-MM-DD
	Installment        float64   `json:"installment"` // amount the user actually pays each month
	DueDay             int       `json:"due_day"`     // day of month (1-31), informational only
	PaidMonths         int       `json:"paid_months"`
	TenureMonths       int       `json:"tenure_months"`
	DerivedInstallment float64   `json:"derived_installment"` // formula-computed, informational
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Retired reports whether every installment of the term has been paid.
func (l *Loan) Retired() bool {
	return l.PaidMonths == l.TenureMonths
}
