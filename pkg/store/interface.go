package store

import (
	"errors"

	"github.com/google/uuid"

	"loantrack/pkg/models"
)

// ErrNotFound is returned when no loan with the requested ID exists.
var ErrNotFound = errors.New("loan not found")

// Storage defines the interface for loan record storage.
type Storage interface {
	CreateLoan(loan *models.Loan) error
	GetLoan(id uuid.UUID) (*models.Loan, error)
	UpdateLoan(loan *models.Loan) error
	DeleteLoan(id uuid.UUID) error
	GetAllLoans() ([]*models.Loan, error)

	Close() error
}
