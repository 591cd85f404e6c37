package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"loantrack/pkg/models"
)

// MemoryStore keeps loans in process memory for the lifetime of the session.
// Records are held in insertion order, which is also the display order.
// All accessors copy, so callers never hold an alias into the stored record.
type MemoryStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	loans map[uuid.UUID]models.Loan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		loans: make(map[uuid.UUID]models.Loan),
	}
}

// CreateLoan appends a new loan to the collection.
func (m *MemoryStore) CreateLoan(loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.loans[loan.ID]; exists {
		return fmt.Errorf("loan %s already exists", loan.ID)
	}
	m.loans[loan.ID] = *loan
	m.order = append(m.order, loan.ID)
	return nil
}

// GetLoan retrieves a copy of the loan with the given ID.
func (m *MemoryStore) GetLoan(id uuid.UUID) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &loan, nil
}

// UpdateLoan replaces the stored record with the same ID.
func (m *MemoryStore) UpdateLoan(loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[loan.ID]; !ok {
		return ErrNotFound
	}
	m.loans[loan.ID] = *loan
	return nil
}

// DeleteLoan removes the loan with the given ID.
func (m *MemoryStore) DeleteLoan(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[id]; !ok {
		return ErrNotFound
	}
	delete(m.loans, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetAllLoans returns copies of all loans in insertion order.
func (m *MemoryStore) GetAllLoans() ([]*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loans := make([]*models.Loan, 0, len(m.order))
	for _, id := range m.order {
		loan := m.loans[id]
		loans = append(loans, &loan)
	}
	return loans, nil
}

// Close releases the store. A memory store has nothing to release.
func (m *MemoryStore) Close() error {
	return nil
}
