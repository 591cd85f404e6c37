package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"loantrack/pkg/models"
	"loantrack/pkg/store"
)

func validDraft() models.Draft {
	return models.Draft{
		Name:        "Car loan",
		Principal:   500000,
		AnnualRate:  8,
		StartDate:   "2024-01-01",
		EndDate:     "2026-01-01",
		Installment: 22000,
		DueDay:      5,
	}
}

func newTestLedger() (*Ledger, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return NewLedger(s, nil), s
}

func TestAddLoanComputesDerivedFields(t *testing.T) {
	l, _ := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	if loan.TenureMonths != 24 {
		t.Errorf("Expected tenure 24 months, got %d", loan.TenureMonths)
	}
	if loan.PaidMonths != 0 {
		t.Errorf("Expected 0 paid months on a fresh loan, got %d", loan.PaidMonths)
	}
	// 500000 at 8% over 24 months.
	if math.Abs(loan.DerivedInstallment-22613.65) > 1.0 {
		t.Errorf("Expected derived installment ~22613.65, got %f", loan.DerivedInstallment)
	}
	if loan.Installment != 22000 {
		t.Errorf("Declared installment should be stored as entered, got %f", loan.Installment)
	}
	if loan.ID == uuid.Nil {
		t.Error("Expected a fresh loan ID")
	}
}

func TestAddLoanValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Draft)
	}{
		{"blank name", func(d *models.Draft) { d.Name = "   " }},
		{"zero principal", func(d *models.Draft) { d.Principal = 0 }},
		{"negative principal", func(d *models.Draft) { d.Principal = -1000 }},
		{"negative rate", func(d *models.Draft) { d.AnnualRate = -0.5 }},
		{"missing start date", func(d *models.Draft) { d.StartDate = "" }},
		{"garbled end date", func(d *models.Draft) { d.EndDate = "01/2026" }},
		{"zero installment", func(d *models.Draft) { d.Installment = 0 }},
		{"due day too low", func(d *models.Draft) { d.DueDay = 0 }},
		{"due day too high", func(d *models.Draft) { d.DueDay = 32 }},
		{"end before start", func(d *models.Draft) { d.StartDate = "2026-01-01"; d.EndDate = "2024-01-01" }},
		{"same month term", func(d *models.Draft) { d.EndDate = "2024-01-25" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger()

			draft := validDraft()
			tt.mutate(&draft)

			if _, err := l.AddLoan(draft); !errors.Is(err, ErrInvalidDraft) {
				t.Errorf("Expected ErrInvalidDraft, got %v", err)
			}

			loans, _ := l.GetAllLoans()
			if len(loans) != 0 {
				t.Errorf("Expected collection unchanged after rejected add, got %d loans", len(loans))
			}
		})
	}
}

func TestRecordPaymentLifecycle(t *testing.T) {
	l, _ := newTestLedger()

	draft := validDraft()
	draft.EndDate = "2024-04-01" // 3 month term
	loan, err := l.AddLoan(draft)
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	for i := 1; i <= loan.TenureMonths; i++ {
		updated, err := l.RecordPayment(loan.ID)
		if err != nil {
			t.Fatalf("Payment %d failed: %v", i, err)
		}
		if updated.PaidMonths != i {
			t.Errorf("Expected %d paid months, got %d", i, updated.PaidMonths)
		}
	}

	final, _ := l.GetLoan(loan.ID)
	if !final.Retired() {
		t.Error("Expected loan to be retired after the full term")
	}
	if got := l.Outstanding(final); got != 0 {
		t.Errorf("Expected 0 outstanding on a retired loan, got %f", got)
	}

	if _, err := l.RecordPayment(loan.ID); !errors.Is(err, ErrLoanRetired) {
		t.Errorf("Expected ErrLoanRetired, got %v", err)
	}
	after, _ := l.GetLoan(loan.ID)
	if after.PaidMonths != final.PaidMonths {
		t.Errorf("Rejected payment mutated paid months: %d -> %d", final.PaidMonths, after.PaidMonths)
	}
}

func TestRecordPaymentReducesOutstanding(t *testing.T) {
	l, _ := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}
	if got := l.Outstanding(loan); got != loan.Principal {
		t.Errorf("Expected outstanding to equal principal before payments, got %f", got)
	}

	updated, err := l.RecordPayment(loan.ID)
	if err != nil {
		t.Fatalf("Failed to record payment: %v", err)
	}
	if got := l.Outstanding(updated); got >= loan.Principal {
		t.Errorf("Expected outstanding below %f after one payment, got %f", loan.Principal, got)
	}
}

func TestRecordPaymentNotFound(t *testing.T) {
	l, _ := newTestLedger()

	if _, err := l.RecordPayment(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordPaymentRejectsCorruptCounter(t *testing.T) {
	l, s := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	forged, _ := s.GetLoan(loan.ID)
	forged.PaidMonths = -2
	if err := s.UpdateLoan(forged); err != nil {
		t.Fatalf("Failed to forge loan: %v", err)
	}

	if _, err := l.RecordPayment(loan.ID); err == nil {
		t.Error("Expected an error for an out-of-range paid-months counter")
	}
}

func TestEditLoanPreservesPaidMonths(t *testing.T) {
	l, _ := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}
	l.RecordPayment(loan.ID)
	l.RecordPayment(loan.ID)

	draft := validDraft()
	draft.Name = "Refinanced car loan"
	draft.Principal = 400000
	draft.AnnualRate = 7
	draft.EndDate = "2027-01-01"

	updated, err := l.EditLoan(loan.ID, draft)
	if err != nil {
		t.Fatalf("Failed to edit loan: %v", err)
	}

	if updated.PaidMonths != 2 {
		t.Errorf("Expected paid months preserved at 2, got %d", updated.PaidMonths)
	}
	if updated.TenureMonths != 36 {
		t.Errorf("Expected recomputed tenure 36, got %d", updated.TenureMonths)
	}
	if updated.Name != "Refinanced car loan" {
		t.Errorf("Expected replaced name, got %q", updated.Name)
	}
	if updated.ID != loan.ID {
		t.Error("Edit must keep the loan ID")
	}
}

func TestEditLoanNotFound(t *testing.T) {
	l, _ := newTestLedger()

	if _, err := l.AddLoan(validDraft()); err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	if _, err := l.EditLoan(uuid.New(), validDraft()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	loans, _ := l.GetAllLoans()
	if len(loans) != 1 {
		t.Errorf("Expected collection unchanged, got %d loans", len(loans))
	}
}

func TestEditLoanInvalidDraftLeavesRecordUnchanged(t *testing.T) {
	l, _ := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	draft := validDraft()
	draft.Principal = -1
	if _, err := l.EditLoan(loan.ID, draft); !errors.Is(err, ErrInvalidDraft) {
		t.Errorf("Expected ErrInvalidDraft, got %v", err)
	}

	stored, _ := l.GetLoan(loan.ID)
	if stored.Principal != 500000 {
		t.Errorf("Rejected edit mutated the record: principal %f", stored.Principal)
	}
}

func TestEditLoanCanReactivateRetiredLoan(t *testing.T) {
	l, _ := newTestLedger()

	draft := validDraft()
	draft.EndDate = "2024-03-01" // 2 month term
	loan, err := l.AddLoan(draft)
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}
	l.RecordPayment(loan.ID)
	l.RecordPayment(loan.ID)

	retired, _ := l.GetLoan(loan.ID)
	if !retired.Retired() {
		t.Fatal("Expected loan to be retired")
	}

	// Extending the term is the one way a retired loan goes active again.
	draft.EndDate = "2024-06-01"
	updated, err := l.EditLoan(loan.ID, draft)
	if err != nil {
		t.Fatalf("Failed to edit loan: %v", err)
	}
	if updated.Retired() {
		t.Error("Expected loan active after extending the term")
	}
	if _, err := l.RecordPayment(loan.ID); err != nil {
		t.Errorf("Expected payment accepted after reactivation, got %v", err)
	}
}

func TestDeleteLoan(t *testing.T) {
	l, _ := newTestLedger()

	loan, err := l.AddLoan(validDraft())
	if err != nil {
		t.Fatalf("Failed to add loan: %v", err)
	}

	if err := l.DeleteLoan(loan.ID); err != nil {
		t.Fatalf("Failed to delete loan: %v", err)
	}
	loans, _ := l.GetAllLoans()
	if len(loans) != 0 {
		t.Errorf("Expected empty collection, got %d loans", len(loans))
	}

	// Absent IDs are a no-op, not an error.
	if err := l.DeleteLoan(loan.ID); err != nil {
		t.Errorf("Expected deleting a missing loan to be a no-op, got %v", err)
	}
}

func TestLoansKeepInsertionOrder(t *testing.T) {
	l, _ := newTestLedger()

	names := []string{"Home", "Car", "Phone"}
	for _, name := range names {
		draft := validDraft()
		draft.Name = name
		if _, err := l.AddLoan(draft); err != nil {
			t.Fatalf("Failed to add loan %q: %v", name, err)
		}
	}

	loans, _ := l.GetAllLoans()
	if len(loans) != len(names) {
		t.Fatalf("Expected %d loans, got %d", len(names), len(loans))
	}
	for i, loan := range loans {
		if loan.Name != names[i] {
			t.Errorf("Expected loan %d to be %q, got %q", i, names[i], loan.Name)
		}
	}
}
