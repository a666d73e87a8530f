package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount signals an amount that is zero or negative where a
	// positive amount is required.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidDateRange signals an end date earlier than the start date.
	ErrInvalidDateRange = errors.New("end date is before start date")

	// ErrEmptyPeriod signals an installment schedule over a zero-length range.
	ErrEmptyPeriod = errors.New("date range yields no installments")

	// ErrLedgerCorrupt signals a broken bookkeeping invariant (for example a
	// reversal that would drive a paid amount negative). It indicates a bug in
	// the caller's bookkeeping, not bad user input.
	ErrLedgerCorrupt = errors.New("ledger invariant violated")

	// ErrUnknownStatus signals a status value outside the closed set.
	ErrUnknownStatus = errors.New("unknown status")
)

// ExceedsRemainingBalanceError rejects a payment larger than what is still
// owed. Remaining carries the actual remaining balance so callers can show it.
type ExceedsRemainingBalanceError struct {
	Remaining decimal.Decimal
}

func (e *ExceedsRemainingBalanceError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance of %s", e.Remaining.StringFixed(2))
}

// InsufficientFundBalanceError rejects a withdrawal larger than the fund's
// current total. Available carries the fund's current total amount.
type InsufficientFundBalanceError struct {
	Available decimal.Decimal
}

func (e *InsufficientFundBalanceError) Error() string {
	return fmt.Sprintf("withdrawal exceeds fund balance of %s", e.Available.StringFixed(2))
}
