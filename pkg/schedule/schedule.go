// Package schedule derives installment amounts from a balance and date range.
package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// interval returns the installment frequency's length in days.
func interval(freq models.InstallmentFrequency) int64 {
	switch freq {
	case models.InstallmentWeekly:
		return 7
	case models.InstallmentBiWeekly:
		return 14
	case models.InstallmentMonthly:
		return 30
	case models.InstallmentQuarterly:
		return 90
	case models.InstallmentAnnually:
		return 365
	}
	return 0
}

// Count returns the number of installments between start and end at the given
// frequency: ceil(days / interval). A zero-length range yields zero.
func Count(start, end time.Time, freq models.InstallmentFrequency) (int64, error) {
	if err := freq.Validate(); err != nil {
		return 0, fmt.Errorf("installment frequency %q: %w", freq, err)
	}
	days := end.Sub(start).Hours() / 24
	if days < 0 {
		return 0, models.ErrInvalidDateRange
	}
	totalDays := int64(math.Ceil(days))
	iv := interval(freq)
	return (totalDays + iv - 1) / iv, nil
}

// Installment splits total evenly across the installments between start and
// end. A range with no installments is a domain error, never a division by
// zero.
func Installment(total decimal.Decimal, start, end time.Time, freq models.InstallmentFrequency) (decimal.Decimal, error) {
	n, err := Count(start, end, freq)
	if err != nil {
		return decimal.Zero, err
	}
	if n == 0 {
		return decimal.Zero, models.ErrEmptyPeriod
	}
	return total.Div(decimal.NewFromInt(n)), nil
}

// Recompute re-derives a loan's installment amount from its current total
// balance, dates and installment frequency. Any change to those inputs must go
// through here; a stale cached amount is a correctness bug. Loans without an
// installment plan get a zero amount.
func Recompute(loan models.Loan) (models.Loan, error) {
	if !loan.HasInstallmentPlan() {
		loan.InstallmentAmount = decimal.Zero
		return loan, nil
	}
	amount, err := Installment(loan.TotalBalance, loan.StartDate, loan.EndDate, loan.InstallmentFrequency)
	if err != nil {
		return loan, err
	}
	loan.InstallmentAmount = amount
	return loan, nil
}
