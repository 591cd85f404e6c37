// Package amortize provides the loan amortization math used by the ledger.
package amortize

import (
	"math"
	"time"
)

// DateLayout is the format loan dates are supplied in.
const DateLayout = "2006-01-02"

const (
	monthsPerYear        = 12.0
	percentageMultiplier = 100.0
)

// ElapsedMonths returns the difference in whole calendar months between two
// dates, ignoring the day of month entirely. Two dates 40 days apart that
// span a month boundary count by month numbers only, not elapsed days.
// Returns 0 if either date fails to parse.
func ElapsedMonths(start, end string) int {
	startT, err := time.Parse(DateLayout, start)
	if err != nil {
		return 0
	}
	endT, err := time.Parse(DateLayout, end)
	if err != nil {
		return 0
	}
	return (endT.Year()-startT.Year())*12 + int(endT.Month()) - int(startT.Month())
}

// InstallmentAmount calculates the fixed monthly payment for a loan using the
// standard amortization formula. A zero rate falls back to a straight-line
// split of the principal; a non-positive term yields 0.
func InstallmentAmount(principal, annualRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualRatePercent == 0 {
		return principal / float64(termMonths)
	}

	monthlyRate := annualRatePercent / (percentageMultiplier * monthsPerYear)
	power := math.Pow(1.00+monthlyRate, float64(termMonths))
	return principal * monthlyRate * power / (power - 1.00)
}

// RemainingPrincipal calculates the outstanding balance after paidMonths
// installments were paid exactly on the original schedule. It is recomputed
// from scratch each call and never reflects prepayments or rate changes.
// A fully paid (or overpaid) loan yields 0; negative paidMonths is treated
// as 0.
func RemainingPrincipal(principal, annualRatePercent float64, totalTermMonths, paidMonths int) float64 {
	if paidMonths < 0 {
		paidMonths = 0
	}
	if paidMonths >= totalTermMonths {
		return 0
	}
	if annualRatePercent == 0 {
		return principal - (principal/float64(totalTermMonths))*float64(paidMonths)
	}

	monthlyRate := annualRatePercent / (percentageMultiplier * monthsPerYear)
	powerTotal := math.Pow(1.00+monthlyRate, float64(totalTermMonths))
	powerPaid := math.Pow(1.00+monthlyRate, float64(paidMonths))
	remaining := principal * (powerTotal - powerPaid) / (powerTotal - 1.00)
	if remaining < 0 {
		return 0
	}
	return remaining
}
