package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

func TestNextBillNumber(t *testing.T) {
	assert.Equal(t, 1, NextBillNumber(nil))

	existing := []*models.Bill{
		{BillNumber: 1},
		{BillNumber: 3},
		{BillNumber: 2},
	}
	assert.Equal(t, 4, NextBillNumber(existing))
}

func TestNewBill_UsesRemainingBalanceWithoutPlan(t *testing.T) {
	loan := testLoan(700, 1000)
	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	bill, err := NewBill(loan, nil, due, decimal.Zero, "final notice")
	require.NoError(t, err)

	assert.Equal(t, 1, bill.BillNumber)
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(300)), "remaining balance becomes one bill")
	assert.True(t, bill.TotalAmountDue.Equal(decimal.NewFromInt(300)), "zero penalty adds nothing")
	assert.Equal(t, models.BillStatusPending, bill.Status)
	assert.Equal(t, due, bill.DueDate)
	assert.Equal(t, "final notice", bill.Note)
}

func TestNewBill_UsesInstallmentAmountWithPlan(t *testing.T) {
	loan := testLoan(0, 1200)
	loan.InstallmentFrequency = models.InstallmentMonthly
	loan.InstallmentAmount = decimal.NewFromInt(200)

	bill, err := NewBill(loan, nil, time.Now(), decimal.NewFromInt(25), "late fee applied")
	require.NoError(t, err)

	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, bill.PenaltyAmount.Equal(decimal.NewFromInt(25)))
	assert.True(t, bill.TotalAmountDue.Equal(decimal.NewFromInt(225)))
}

func TestNewBill_SplitsPrincipalAndInterestProRata(t *testing.T) {
	// Principal 1000, interest 200: a 300 bill carries 250 principal, 50 interest.
	loan := models.Loan{
		ID:            uuid.New(),
		Amount:        decimal.NewFromInt(1000),
		TotalInterest: decimal.NewFromInt(200),
		TotalBalance:  decimal.NewFromInt(1200),
		PaidAmount:    decimal.NewFromInt(900),
		Status:        models.LoanStatusActive,
	}

	bill, err := NewBill(loan, nil, time.Now(), decimal.Zero, "")
	require.NoError(t, err)

	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, bill.Principal.Equal(decimal.NewFromInt(250)), "got %s", bill.Principal)
	assert.True(t, bill.Interest.Equal(decimal.NewFromInt(50)), "got %s", bill.Interest)
}

func TestNewBill_SequentialNumbering(t *testing.T) {
	loan := testLoan(0, 1000)

	first, err := NewBill(loan, nil, time.Now(), decimal.Zero, "")
	require.NoError(t, err)
	second, err := NewBill(loan, []*models.Bill{&first}, time.Now(), decimal.Zero, "")
	require.NoError(t, err)

	assert.Equal(t, 1, first.BillNumber)
	assert.Equal(t, 2, second.BillNumber)
}

func TestNewBill_RejectsNegativePenalty(t *testing.T) {
	loan := testLoan(0, 1000)
	_, err := NewBill(loan, nil, time.Now(), decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestTransitionBill(t *testing.T) {
	transitions := []struct {
		from, to models.BillStatus
	}{
		{models.BillStatusPending, models.BillStatusPaid},
		{models.BillStatusPending, models.BillStatusOverdue},
		{models.BillStatusOverdue, models.BillStatusPaid},
		{models.BillStatusPaid, models.BillStatusPending},
		{models.BillStatusOverdue, models.BillStatusPending},
	}

	for _, tr := range transitions {
		bill := models.Bill{ID: uuid.New(), Status: tr.from}
		moved, err := TransitionBill(bill, tr.to)
		require.NoError(t, err, "%s -> %s", tr.from, tr.to)
		assert.Equal(t, tr.to, moved.Status)
	}
}

func TestTransitionBill_RejectsUnknownStatus(t *testing.T) {
	bill := models.Bill{ID: uuid.New(), Status: models.BillStatusPending}
	_, err := TransitionBill(bill, models.BillStatus("cancelled"))
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}
