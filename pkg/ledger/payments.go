package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// ApplyPayment applies amount against the loan's balance and returns the
// updated loan copy with the immutable payment record. It never flips the loan
// status; marking a loan paid is an explicit caller action. The input loan is
// not mutated.
func ApplyPayment(loan models.Loan, amount decimal.Decimal, date time.Time) (models.Loan, models.Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return loan, models.Payment{}, models.ErrInvalidAmount
	}
	remaining := loan.RemainingBalance()
	if amount.GreaterThan(remaining) {
		return loan, models.Payment{}, &models.ExceedsRemainingBalanceError{Remaining: remaining}
	}

	loan.PaidAmount = loan.PaidAmount.Add(amount)
	loan.UpdatedAt = time.Now()

	payment := models.Payment{
		ID:          uuid.New(),
		LoanID:      loan.ID,
		Amount:      amount,
		PaymentDate: date,
		CreatedAt:   loan.UpdatedAt,
	}
	return loan, payment, nil
}

// RemovePayment reverses a deleted payment's effect on the loan's paid amount.
// Normal flows cannot drive the paid amount negative; if a reversal would, the
// caller's bookkeeping is broken and the loan is returned unchanged.
func RemovePayment(loan models.Loan, payment models.Payment) (models.Loan, error) {
	next := loan.PaidAmount.Sub(payment.Amount)
	if next.IsNegative() {
		return loan, fmt.Errorf("reversing payment %s would drive paid amount to %s: %w",
			payment.ID, next.StringFixed(2), models.ErrLedgerCorrupt)
	}
	loan.PaidAmount = next
	loan.UpdatedAt = time.Now()
	return loan, nil
}
