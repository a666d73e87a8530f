// Package ledger holds the business logic for loans, bills and CBU funds. The
// arithmetic lives in pure functions (and the interest, schedule, fund, credit
// and report packages); the Ledger service wires them to a store.Storage,
// re-validating every mutation against freshly loaded state before persisting.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/credit"
	"github.com/junrhy/sakto-ledger/pkg/fund"
	"github.com/junrhy/sakto-ledger/pkg/interest"
	"github.com/junrhy/sakto-ledger/pkg/models"
	"github.com/junrhy/sakto-ledger/pkg/report"
	"github.com/junrhy/sakto-ledger/pkg/schedule"
	"github.com/junrhy/sakto-ledger/pkg/store"
)

// Ledger handles the business logic for loans, payments, bills and CBU funds.
type Ledger struct {
	storage store.Storage
}

// NewLedger creates a new Ledger with a given Storage implementation.
func NewLedger(s store.Storage) *Ledger {
	return &Ledger{storage: s}
}

// LoanParams are the caller-supplied terms of a loan. InstallmentFrequency is
// optional; when empty the loan has no installment plan.
type LoanParams struct {
	BorrowerKey          string                      `json:"borrower_key"`
	Amount               decimal.Decimal             `json:"amount"`
	InterestRate         decimal.Decimal             `json:"interest_rate"`
	InterestType         models.InterestType         `json:"interest_type"`
	Frequency            models.AccrualFrequency     `json:"frequency"`
	StartDate            time.Time                   `json:"start_date"`
	EndDate              time.Time                   `json:"end_date"`
	InstallmentFrequency models.InstallmentFrequency `json:"installment_frequency,omitempty"`
}

// derive computes the loan's interest, balance and installment amount from its
// terms, leaving PaidAmount and Status alone.
func derive(loan models.Loan) (models.Loan, error) {
	res, err := interest.Accrue(loan.Amount, loan.InterestRate, loan.InterestType, loan.Frequency, loan.StartDate, loan.EndDate)
	if err != nil {
		return loan, err
	}
	loan.TotalInterest = res.Interest
	loan.TotalBalance = loan.Amount.Add(res.Interest)
	return schedule.Recompute(loan)
}

// CreateLoan initializes a new loan: derives total interest, total balance and
// the installment amount from the terms, and persists it as active with
// nothing paid.
func (l *Ledger) CreateLoan(p LoanParams) (*models.Loan, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	now := time.Now()
	loan := models.Loan{
		ID:                   uuid.New(),
		BorrowerKey:          p.BorrowerKey,
		Amount:               p.Amount,
		InterestRate:         p.InterestRate,
		InterestType:         p.InterestType,
		Frequency:            p.Frequency,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		Status:               models.LoanStatusActive,
		PaidAmount:           decimal.Zero,
		InstallmentFrequency: p.InstallmentFrequency,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	loan, err := derive(loan)
	if err != nil {
		return nil, err
	}

	if err := l.storage.CreateLoan(&loan); err != nil {
		return nil, fmt.Errorf("failed to store loan: %w", err)
	}
	return &loan, nil
}

// UpdateLoanTerms replaces a loan's terms and re-derives every dependent
// quantity. PaidAmount and Status survive the update; terms that would leave
// the paid amount above the new total balance are rejected.
func (l *Ledger) UpdateLoanTerms(id uuid.UUID, p LoanParams) (*models.Loan, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return nil, err
	}

	next := *loan
	next.BorrowerKey = p.BorrowerKey
	next.Amount = p.Amount
	next.InterestRate = p.InterestRate
	next.InterestType = p.InterestType
	next.Frequency = p.Frequency
	next.StartDate = p.StartDate
	next.EndDate = p.EndDate
	next.InstallmentFrequency = p.InstallmentFrequency

	next, err = derive(next)
	if err != nil {
		return nil, err
	}
	if next.PaidAmount.GreaterThan(next.TotalBalance) {
		return nil, fmt.Errorf("paid amount %s exceeds new total balance %s: %w",
			next.PaidAmount.StringFixed(2), next.TotalBalance.StringFixed(2), models.ErrInvalidAmount)
	}
	next.UpdatedAt = time.Now()

	if err := l.storage.UpdateLoan(&next); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return &next, nil
}

// RecordPayment applies a payment against a loan. The loan is re-loaded so the
// remaining-balance check runs against current state, then the updated loan
// and the payment record persist together.
func (l *Ledger) RecordPayment(loanID uuid.UUID, amount decimal.Decimal, date time.Time) (*models.Payment, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return nil, err
	}

	updated, payment, err := ApplyPayment(*loan, amount, date)
	if err != nil {
		return nil, err
	}

	if err := l.storage.UpdateLoan(&updated); err != nil {
		return nil, fmt.Errorf("failed to update loan balance: %w", err)
	}
	if err := l.storage.CreatePayment(&payment); err != nil {
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}
	return &payment, nil
}

// DeletePayment removes a payment and reverses its effect on the loan's paid
// amount.
func (l *Ledger) DeletePayment(paymentID uuid.UUID) error {
	payment, err := l.storage.GetPayment(paymentID)
	if err != nil {
		return err
	}
	loan, err := l.storage.GetLoan(payment.LoanID)
	if err != nil {
		return err
	}

	updated, err := RemovePayment(*loan, *payment)
	if err != nil {
		return err
	}

	if err := l.storage.UpdateLoan(&updated); err != nil {
		return fmt.Errorf("failed to update loan balance: %w", err)
	}
	if err := l.storage.DeletePayment(paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// SetLoanStatus moves a loan to the given status. Paying a loan down to zero
// does not flip it to paid on its own; the transition is always an explicit
// caller action.
func (l *Ledger) SetLoanStatus(loanID uuid.UUID, status models.LoanStatus) (*models.Loan, error) {
	if err := status.Validate(); err != nil {
		return nil, fmt.Errorf("loan status %q: %w", status, err)
	}
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return nil, err
	}
	loan.Status = status
	loan.UpdatedAt = time.Now()
	if err := l.storage.UpdateLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return loan, nil
}

// IssueBill creates the loan's next bill: the current installment when a plan
// exists, the full remaining balance otherwise.
func (l *Ledger) IssueBill(loanID uuid.UUID, dueDate time.Time, penalty decimal.Decimal, note string) (*models.Bill, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return nil, err
	}
	existing, err := l.storage.GetBillsForLoan(loanID)
	if err != nil {
		return nil, err
	}

	bill, err := NewBill(*loan, existing, dueDate, penalty, note)
	if err != nil {
		return nil, err
	}
	if err := l.storage.CreateBill(&bill); err != nil {
		return nil, fmt.Errorf("failed to store bill: %w", err)
	}
	return &bill, nil
}

// SetBillStatus moves a bill to the given status.
func (l *Ledger) SetBillStatus(billID uuid.UUID, status models.BillStatus) (*models.Bill, error) {
	bill, err := l.storage.GetBill(billID)
	if err != nil {
		return nil, err
	}
	updated, err := TransitionBill(*bill, status)
	if err != nil {
		return nil, err
	}
	if err := l.storage.UpdateBill(&updated); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return &updated, nil
}

// DeleteBill removes a bill. Bills never move the loan's paid amount, so there
// is nothing to reverse.
func (l *Ledger) DeleteBill(billID uuid.UUID) error {
	return l.storage.DeleteBill(billID)
}

// InstallmentPlan describes a loan's derived installment schedule. A loan
// without a plan yields the zero value.
type InstallmentPlan struct {
	Frequency    models.InstallmentFrequency `json:"installment_frequency,omitempty"`
	Installments int64                       `json:"installments"`
	Amount       decimal.Decimal             `json:"installment_amount"`
}

// GetInstallmentPlan reports a loan's installment count and amount.
func (l *Ledger) GetInstallmentPlan(loanID uuid.UUID) (InstallmentPlan, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return InstallmentPlan{}, err
	}
	if !loan.HasInstallmentPlan() {
		return InstallmentPlan{Amount: decimal.Zero}, nil
	}
	n, err := schedule.Count(loan.StartDate, loan.EndDate, loan.InstallmentFrequency)
	if err != nil {
		return InstallmentPlan{}, err
	}
	return InstallmentPlan{
		Frequency:    loan.InstallmentFrequency,
		Installments: n,
		Amount:       loan.InstallmentAmount,
	}, nil
}

// InterestBreakdown recomputes a loan's accrued interest with the audit
// explanation of the formula.
func (l *Ledger) InterestBreakdown(loanID uuid.UUID) (interest.Result, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return interest.Result{}, err
	}
	return interest.Accrue(loan.Amount, loan.InterestRate, loan.InterestType, loan.Frequency, loan.StartDate, loan.EndDate)
}

// CreditRating scores a loan's payment reliability.
func (l *Ledger) CreditRating(loanID uuid.UUID) (credit.Rating, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return credit.Rating{}, err
	}
	return credit.Score(*loan), nil
}

// GetLoan retrieves a loan by its ID.
func (l *Ledger) GetLoan(id uuid.UUID) (*models.Loan, error) {
	return l.storage.GetLoan(id)
}

// GetAllLoans retrieves all loans.
func (l *Ledger) GetAllLoans() ([]*models.Loan, error) {
	return l.storage.GetAllLoans()
}

// DeleteLoan deletes a loan with its payments and bills.
func (l *Ledger) DeleteLoan(id uuid.UUID) error {
	return l.storage.DeleteLoan(id)
}

// GetPaymentsForLoan lists a loan's payments.
func (l *Ledger) GetPaymentsForLoan(loanID uuid.UUID) ([]*models.Payment, error) {
	return l.storage.GetPaymentsForLoan(loanID)
}

// GetBillsForLoan lists a loan's bills.
func (l *Ledger) GetBillsForLoan(loanID uuid.UUID) ([]*models.Bill, error) {
	return l.storage.GetBillsForLoan(loanID)
}

// CreateFund initializes a new CBU fund. endDate nil means open-ended.
func (l *Ledger) CreateFund(name string, target, valuePerShare decimal.Decimal, startDate time.Time, endDate *time.Time) (*models.CbuFund, error) {
	now := time.Now()
	f := models.CbuFund{
		ID:            uuid.New(),
		Name:          name,
		TargetAmount:  target,
		ValuePerShare: valuePerShare,
		TotalAmount:   decimal.Zero,
		StartDate:     startDate,
		EndDate:       endDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.NumberOfShares = fund.Shares(f.TotalAmount, f.ValuePerShare)

	if err := l.storage.CreateFund(&f); err != nil {
		return nil, fmt.Errorf("failed to store fund: %w", err)
	}
	return &f, nil
}

// UpdateFundTerms replaces a fund's descriptive terms and recomputes the share
// count against the new value per share. TotalAmount only moves through
// transactions.
func (l *Ledger) UpdateFundTerms(id uuid.UUID, name string, target, valuePerShare decimal.Decimal, startDate time.Time, endDate *time.Time) (*models.CbuFund, error) {
	f, err := l.storage.GetFund(id)
	if err != nil {
		return nil, err
	}
	f.Name = name
	f.TargetAmount = target
	f.ValuePerShare = valuePerShare
	f.StartDate = startDate
	f.EndDate = endDate
	f.NumberOfShares = fund.Shares(f.TotalAmount, f.ValuePerShare)
	f.UpdatedAt = time.Now()

	if err := l.storage.UpdateFund(f); err != nil {
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	return f, nil
}

// Contribute adds a contribution to a fund and persists the recomputed totals.
func (l *Ledger) Contribute(fundID uuid.UUID, amount decimal.Decimal, date time.Time, notes string) (*models.CbuContribution, error) {
	f, err := l.storage.GetFund(fundID)
	if err != nil {
		return nil, err
	}
	updated, c, err := fund.ApplyContribution(*f, amount, date, notes)
	if err != nil {
		return nil, err
	}
	if err := l.storage.UpdateFund(&updated); err != nil {
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	if err := l.storage.CreateContribution(&c); err != nil {
		return nil, fmt.Errorf("failed to store contribution: %w", err)
	}
	return &c, nil
}

// Withdraw takes money out of a fund. The balance check runs against freshly
// loaded state; an over-large withdrawal leaves the fund untouched.
func (l *Ledger) Withdraw(fundID uuid.UUID, amount decimal.Decimal, date time.Time, notes string) (*models.CbuWithdrawal, error) {
	f, err := l.storage.GetFund(fundID)
	if err != nil {
		return nil, err
	}
	updated, w, err := fund.ApplyWithdrawal(*f, amount, date, notes)
	if err != nil {
		return nil, err
	}
	if err := l.storage.UpdateFund(&updated); err != nil {
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	if err := l.storage.CreateWithdrawal(&w); err != nil {
		return nil, fmt.Errorf("failed to store withdrawal: %w", err)
	}
	return &w, nil
}

// PayDividend credits a dividend to a fund.
func (l *Ledger) PayDividend(fundID uuid.UUID, amount decimal.Decimal, date time.Time, notes string) (*models.CbuDividend, error) {
	f, err := l.storage.GetFund(fundID)
	if err != nil {
		return nil, err
	}
	updated, d, err := fund.ApplyDividend(*f, amount, date, notes)
	if err != nil {
		return nil, err
	}
	if err := l.storage.UpdateFund(&updated); err != nil {
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	if err := l.storage.CreateDividend(&d); err != nil {
		return nil, fmt.Errorf("failed to store dividend: %w", err)
	}
	return &d, nil
}

// FundHistory merges a fund's contributions, withdrawals and dividends into a
// single newest-first list.
func (l *Ledger) FundHistory(fundID uuid.UUID) ([]models.CbuHistoryEntry, error) {
	if _, err := l.storage.GetFund(fundID); err != nil {
		return nil, err
	}
	contributions, err := l.storage.GetContributionsForFund(fundID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := l.storage.GetWithdrawalsForFund(fundID)
	if err != nil {
		return nil, err
	}
	dividends, err := l.storage.GetDividendsForFund(fundID)
	if err != nil {
		return nil, err
	}
	return fund.History(contributions, withdrawals, dividends), nil
}

// BuildReport aggregates every fund and its transactions over [from, to].
func (l *Ledger) BuildReport(from, to, now time.Time, activityLimit int) (*models.CbuReport, error) {
	if to.Before(from) {
		return nil, models.ErrInvalidDateRange
	}
	funds, err := l.storage.GetAllFunds()
	if err != nil {
		return nil, err
	}
	contributions, err := l.storage.GetAllContributions()
	if err != nil {
		return nil, err
	}
	withdrawals, err := l.storage.GetAllWithdrawals()
	if err != nil {
		return nil, err
	}
	dividends, err := l.storage.GetAllDividends()
	if err != nil {
		return nil, err
	}
	r := report.Build(funds, contributions, withdrawals, dividends, from, to, now, activityLimit)
	return &r, nil
}

// GetFund retrieves a fund by its ID.
func (l *Ledger) GetFund(id uuid.UUID) (*models.CbuFund, error) {
	return l.storage.GetFund(id)
}

// GetAllFunds retrieves all funds.
func (l *Ledger) GetAllFunds() ([]*models.CbuFund, error) {
	return l.storage.GetAllFunds()
}

// DeleteFund deletes a fund and its transactions.
func (l *Ledger) DeleteFund(id uuid.UUID) error {
	return l.storage.DeleteFund(id)
}
