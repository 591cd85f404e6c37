package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loantrack/pkg/amortize"
	"loantrack/pkg/models"
	"loantrack/pkg/store"
)

const (
	minDueDay = 1
	maxDueDay = 31
)

var (
	// ErrNotFound is returned when the referenced loan does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrInvalidDraft is the single composite validation failure. Individual
	// fields are deliberately not reported.
	ErrInvalidDraft = errors.New("please fill in all loan fields with valid values")

	// ErrLoanRetired is returned when a payment is recorded against a loan
	// whose full term has already been paid.
	ErrLoanRetired = errors.New("loan is already fully paid")
)

// Ledger handles the business logic for loans: validation, derived fields,
// and the paid-months lifecycle.
type Ledger struct {
	storage store.Storage
	logger  *zap.Logger
}

// NewLedger creates a new Ledger with a given Storage implementation.
func NewLedger(s store.Storage, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		storage: s,
		logger:  logger,
	}
}

// Validate checks a draft for completeness and consistency. Any failing
// check yields ErrInvalidDraft.
func (l *Ledger) Validate(draft models.Draft) error {
	switch {
	case strings.TrimSpace(draft.Name) == "":
		return ErrInvalidDraft
	case draft.Principal <= 0:
		return ErrInvalidDraft
	case draft.AnnualRate < 0:
		return ErrInvalidDraft
	case !datesParseable(draft.StartDate, draft.EndDate):
		return ErrInvalidDraft
	case draft.Installment <= 0:
		return ErrInvalidDraft
	case draft.DueDay < minDueDay || draft.DueDay > maxDueDay:
		return ErrInvalidDraft
	case amortize.ElapsedMonths(draft.StartDate, draft.EndDate) <= 0:
		return ErrInvalidDraft
	}
	return nil
}

func datesParseable(start, end string) bool {
	if _, err := time.Parse(amortize.DateLayout, start); err != nil {
		return false
	}
	if _, err := time.Parse(amortize.DateLayout, end); err != nil {
		return false
	}
	return true
}

// AddLoan validates the draft and appends a new loan with derived tenure and
// installment and a zero paid-months counter.
func (l *Ledger) AddLoan(draft models.Draft) (*models.Loan, error) {
	if err := l.Validate(draft); err != nil {
		return nil, err
	}

	now := time.Now()
	loan := &models.Loan{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(draft.Name),
		Principal:   draft.Principal,
		AnnualRate:  draft.AnnualRate,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Installment: draft.Installment,
		DueDay:      draft.DueDay,
		PaidMonths:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.computeDerived(loan)

	if err := l.storage.CreateLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to store loan: %w", err)
	}

	l.logger.Debug("loan added",
		zap.String("op", "ledger.AddLoan"),
		zap.String("loan_id", loan.ID.String()),
		zap.Int("tenure_months", loan.TenureMonths),
	)
	return loan, nil
}

// EditLoan replaces all user-entered fields of the loan with the draft and
// recomputes the derived fields. The paid-months counter is preserved; a
// longer edited term can move a retired loan back to active.
func (l *Ledger) EditLoan(id uuid.UUID, draft models.Draft) (*models.Loan, error) {
	if err := l.Validate(draft); err != nil {
		return nil, err
	}

	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return nil, err
	}

	loan.Name = strings.TrimSpace(draft.Name)
	loan.Principal = draft.Principal
	loan.AnnualRate = draft.AnnualRate
	loan.StartDate = draft.StartDate
	loan.EndDate = draft.EndDate
	loan.Installment = draft.Installment
	loan.DueDay = draft.DueDay
	loan.UpdatedAt = time.Now()
	l.computeDerived(loan)

	if err := l.storage.UpdateLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	l.logger.Debug("loan edited",
		zap.String("op", "ledger.EditLoan"),
		zap.String("loan_id", loan.ID.String()),
		zap.Int("tenure_months", loan.TenureMonths),
	)
	return loan, nil
}

// DeleteLoan removes the loan if present. Deleting an unknown ID is a no-op.
func (l *Ledger) DeleteLoan(id uuid.UUID) error {
	err := l.storage.DeleteLoan(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// RecordPayment confirms one more installment as paid. A loan at the end of
// its term rejects the payment with ErrLoanRetired and is left unchanged.
func (l *Ledger) RecordPayment(id uuid.UUID) (*models.Loan, error) {
	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return nil, err
	}

	if loan.PaidMonths < 0 || loan.PaidMonths > loan.TenureMonths {
		return nil, fmt.Errorf("loan %s has out-of-range paid months %d of %d", loan.ID, loan.PaidMonths, loan.TenureMonths)
	}
	if loan.Retired() {
		return nil, ErrLoanRetired
	}

	loan.PaidMonths++
	loan.UpdatedAt = time.Now()
	if err := l.storage.UpdateLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	l.logger.Debug("payment recorded",
		zap.String("op", "ledger.RecordPayment"),
		zap.String("loan_id", loan.ID.String()),
		zap.Int("paid_months", loan.PaidMonths),
	)
	return loan, nil
}

// GetLoan retrieves a loan by its ID.
func (l *Ledger) GetLoan(id uuid.UUID) (*models.Loan, error) {
	return l.storage.GetLoan(id)
}

// GetAllLoans retrieves all loans in insertion order.
func (l *Ledger) GetAllLoans() ([]*models.Loan, error) {
	return l.storage.GetAllLoans()
}

// Outstanding returns the unpaid principal balance of a loan on its original
// schedule. Neither installment field participates; the balance is derived
// from principal, rate, tenure, and paid months alone.
func (l *Ledger) Outstanding(loan *models.Loan) float64 {
	return amortize.RemainingPrincipal(loan.Principal, loan.AnnualRate, loan.TenureMonths, loan.PaidMonths)
}

func (l *Ledger) computeDerived(loan *models.Loan) {
	loan.TenureMonths = amortize.ElapsedMonths(loan.StartDate, loan.EndDate)
	loan.DerivedInstallment = amortize.InstallmentAmount(loan.Principal, loan.AnnualRate, loan.TenureMonths)
}
