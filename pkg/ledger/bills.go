package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// NextBillNumber returns max existing bill number + 1, starting at 1.
func NextBillNumber(existing []*models.Bill) int {
	max := 0
	for _, b := range existing {
		if b.BillNumber > max {
			max = b.BillNumber
		}
	}
	return max + 1
}

// NewBill creates a bill for the loan. The base amount is the loan's
// installment amount when an installment plan exists, otherwise the full
// remaining balance becomes one bill. The base splits into principal and
// interest pro rata to the loan's own principal/interest makeup. Penalty
// defaults to zero and may not be negative.
func NewBill(loan models.Loan, existing []*models.Bill, dueDate time.Time, penalty decimal.Decimal, note string) (models.Bill, error) {
	if penalty.IsNegative() {
		return models.Bill{}, models.ErrInvalidAmount
	}

	var base decimal.Decimal
	if loan.HasInstallmentPlan() {
		base = loan.InstallmentAmount
	} else {
		base = loan.RemainingBalance()
	}

	// Pro-rata split; a zero-balance loan bills pure principal.
	principal := base
	interest := decimal.Zero
	if loan.TotalBalance.GreaterThan(decimal.Zero) {
		principal = base.Mul(loan.Amount).Div(loan.TotalBalance)
		interest = base.Sub(principal)
	}

	now := time.Now()
	return models.Bill{
		ID:             uuid.New(),
		LoanID:         loan.ID,
		BillNumber:     NextBillNumber(existing),
		DueDate:        dueDate,
		Principal:      principal,
		Interest:       interest,
		TotalAmount:    base,
		PenaltyAmount:  penalty,
		TotalAmountDue: base.Add(penalty),
		Note:           note,
		Status:         models.BillStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// TransitionBill moves a bill to the given status. Every move between the
// known statuses is an explicit caller action, forward or reverse; the engine
// never advances a bill on its own (an external scheduler drives overdue
// marking). Unknown statuses are rejected.
func TransitionBill(bill models.Bill, next models.BillStatus) (models.Bill, error) {
	if err := next.Validate(); err != nil {
		return bill, fmt.Errorf("bill status %q: %w", next, err)
	}
	bill.Status = next
	bill.UpdatedAt = time.Now()
	return bill, nil
}
