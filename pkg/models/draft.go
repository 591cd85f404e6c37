package models

import "fmt"

// Draft holds the user-entered loan fields before they are committed through
// the ledger. It is a plain value, never aliased with a stored Loan, so
// editing a draft can not leak into the collection.
type Draft struct {
	Name        string  `json:"name"`
	Principal   float64 `json:"principal"`
	AnnualRate  float64 `json:"annual_rate"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Installment float64 `json:"installment"`
	DueDay      int     `json:"due_day"`
}

// DraftOf seeds a draft from an existing loan, for partial edits.
func DraftOf(l *Loan) Draft {
	return Draft{
		Name:        l.Name,
		Principal:   l.Principal,
		AnnualRate:  l.AnnualRate,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		Installment: l.Installment,
		DueDay:      l.DueDay,
	}
}

// Field enumerates the draft fields addressable by Set.
type Field string

const (
	FieldName        Field = "name"
	FieldPrincipal   Field = "principal"
	FieldAnnualRate  Field = "annual_rate"
	FieldStartDate   Field = "start_date"
	FieldEndDate     Field = "end_date"
	FieldInstallment Field = "installment"
	FieldDueDay      Field = "due_day"
)

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
)

// FieldValue is a tagged union of the two value shapes a draft field can
// take: a string (name, dates) or a number (amounts, rate, due day).
type FieldValue struct {
	kind valueKind
	str  string
	num  float64
}

// String wraps a string value for Set.
func String(s string) FieldValue {
	return FieldValue{kind: kindString, str: s}
}

// Number wraps a numeric value for Set.
func Number(n float64) FieldValue {
	return FieldValue{kind: kindNumber, num: n}
}

// Set assigns a single named field of the draft. Unknown fields and
// string/number mismatches are rejected.
func (d *Draft) Set(field Field, value FieldValue) error {
	switch field {
	case FieldName, FieldStartDate, FieldEndDate:
		if value.kind != kindString {
			return fmt.Errorf("field %q takes a string value", field)
		}
	case FieldPrincipal, FieldAnnualRate, FieldInstallment, FieldDueDay:
		if value.kind != kindNumber {
			return fmt.Errorf("field %q takes a numeric value", field)
		}
	default:
		return fmt.Errorf("unknown loan field %q", field)
	}

	switch field {
	case FieldName:
		d.Name = value.str
	case FieldStartDate:
		d.StartDate = value.str
	case FieldEndDate:
		d.EndDate = value.str
	case FieldPrincipal:
		d.Principal = value.num
	case FieldAnnualRate:
		d.AnnualRate = value.num
	case FieldInstallment:
		d.Installment = value.num
	case FieldDueDay:
		d.DueDay = int(value.num)
	}
	return nil
}
