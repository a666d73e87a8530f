package models

import "github.com/shopspring/decimal"

// RoundDisplay rounds an amount half-up to two decimal places for display or
// serialization boundaries. Ledger arithmetic keeps full precision; rounding
// mid-calculation is a defect.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Validate checks that the interest type is one of the closed set.
func (t InterestType) Validate() error {
	switch t {
	case InterestTypeFixed, InterestTypeCompounding:
		return nil
	}
	return ErrUnknownStatus
}

// Validate checks that the accrual frequency is one of the closed set.
func (f AccrualFrequency) Validate() error {
	switch f {
	case AccrualDaily, AccrualMonthly, AccrualQuarterly, AccrualAnnually:
		return nil
	}
	return ErrUnknownStatus
}

// Validate checks that the installment frequency is one of the closed set.
func (f InstallmentFrequency) Validate() error {
	switch f {
	case InstallmentWeekly, InstallmentBiWeekly, InstallmentMonthly,
		InstallmentQuarterly, InstallmentAnnually:
		return nil
	}
	return ErrUnknownStatus
}

// Validate checks that the loan status is one of the closed set.
func (s LoanStatus) Validate() error {
	switch s {
	case LoanStatusActive, LoanStatusPaid, LoanStatusDefaulted:
		return nil
	}
	return ErrUnknownStatus
}

// Validate checks that the bill status is one of the closed set.
func (s BillStatus) Validate() error {
	switch s {
	case BillStatusPending, BillStatusPaid, BillStatusOverdue:
		return nil
	}
	return ErrUnknownStatus
}
