package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InterestType string

const (
	InterestTypeFixed       InterestType = "fixed"
	InterestTypeCompounding InterestType = "compounding"
)

// AccrualFrequency is the period on which interest is assessed.
type AccrualFrequency string

const (
	AccrualDaily     AccrualFrequency = "daily"
	AccrualMonthly   AccrualFrequency = "monthly"
	AccrualQuarterly AccrualFrequency = "quarterly"
	AccrualAnnually  AccrualFrequency = "annually"
)

// InstallmentFrequency is the period on which a loan balance is split into
// installments. Independent of the accrual frequency.
type InstallmentFrequency string

const (
	InstallmentWeekly    InstallmentFrequency = "weekly"
	InstallmentBiWeekly  InstallmentFrequency = "bi-weekly"
	InstallmentMonthly   InstallmentFrequency = "monthly"
	InstallmentQuarterly InstallmentFrequency = "quarterly"
	InstallmentAnnually  InstallmentFrequency = "annually"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Loan is a member loan. TotalInterest, TotalBalance and InstallmentAmount are
// derived at creation and re-derived whenever their inputs change; PaidAmount
// only moves through payment application and reversal.
type Loan struct {
	ID                   uuid.UUID            `json:"id"`
	BorrowerKey          string               `json:"borrower_key"`  // Link to external member system
	Amount               decimal.Decimal      `json:"amount"`        // Principal
	InterestRate         decimal.Decimal      `json:"interest_rate"` // Percent, e.g. 12 for 12%
	InterestType         InterestType         `json:"interest_type"`
	Frequency            AccrualFrequency     `json:"frequency"`
	StartDate            time.Time            `json:"start_date"`
	EndDate              time.Time            `json:"end_date"`
	Status               LoanStatus           `json:"status"`
	TotalInterest        decimal.Decimal      `json:"total_interest"`
	TotalBalance         decimal.Decimal      `json:"total_balance"` // Amount + TotalInterest
	PaidAmount           decimal.Decimal      `json:"paid_amount"`
	InstallmentFrequency InstallmentFrequency `json:"installment_frequency,omitempty"` // Empty when no installment plan
	InstallmentAmount    decimal.Decimal      `json:"installment_amount"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// RemainingBalance is what is still owed on the loan.
func (l Loan) RemainingBalance() decimal.Decimal {
	return l.TotalBalance.Sub(l.PaidAmount)
}

// HasInstallmentPlan reports whether the loan is billed per installment rather
// than as a single remaining-balance bill.
func (l Loan) HasInstallmentPlan() bool {
	return l.InstallmentFrequency != ""
}

// Payment is an immutable record of money applied against a loan. Deleting a
// payment reverses its effect on the loan's PaidAmount.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	LoanID      uuid.UUID       `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Bill is a demand for an installment or the remaining balance. Bills do not
// move PaidAmount; only Payments do.
type Bill struct {
	ID             uuid.UUID       `json:"id"`
	LoanID         uuid.UUID       `json:"loan_id"`
	BillNumber     int             `json:"bill_number"` // Sequential per loan, starting at 1
	DueDate        time.Time       `json:"due_date"`
	Principal      decimal.Decimal `json:"principal"`
	Interest       decimal.Decimal `json:"interest"`
	TotalAmount    decimal.Decimal `json:"total_amount"` // Base amount owed before penalty
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
	TotalAmountDue decimal.Decimal `json:"total_amount_due"` // TotalAmount + PenaltyAmount
	Note           string          `json:"note,omitempty"`
	Status         BillStatus      `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CbuFund is a capital build-up savings fund. NumberOfShares is always
// recomputed from TotalAmount and ValuePerShare, never maintained on its own.
type CbuFund struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	ValuePerShare  decimal.Decimal `json:"value_per_share"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	NumberOfShares int64           `json:"number_of_shares"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"` // nil means open-ended
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CbuContribution struct {
	ID               uuid.UUID       `json:"id"`
	CbuFundID        uuid.UUID       `json:"cbu_fund_id"`
	Amount           decimal.Decimal `json:"amount"`
	ContributionDate time.Time       `json:"contribution_date"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CbuWithdrawal struct {
	ID             uuid.UUID       `json:"id"`
	CbuFundID      uuid.UUID       `json:"cbu_fund_id"`
	Amount         decimal.Decimal `json:"amount"`
	WithdrawalDate time.Time       `json:"withdrawal_date"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CbuDividend struct {
	ID           uuid.UUID       `json:"id"`
	CbuFundID    uuid.UUID       `json:"cbu_fund_id"`
	Amount       decimal.Decimal `json:"amount"`
	DividendDate time.Time       `json:"dividend_date"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CbuTransactionKind string

const (
	CbuKindContribution CbuTransactionKind = "contribution"
	CbuKindWithdrawal   CbuTransactionKind = "withdrawal"
	CbuKindDividend     CbuTransactionKind = "dividend"
)

// CbuHistoryEntry is one fund transaction of any kind, as shown in a fund's
// merged history. Derived, never persisted.
type CbuHistoryEntry struct {
	ID        uuid.UUID          `json:"id"`
	Kind      CbuTransactionKind `json:"type"`
	Amount    decimal.Decimal    `json:"amount"`
	Date      time.Time          `json:"date"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// CbuActivity is a history entry joined with its owning fund, for report feeds.
type CbuActivity struct {
	CbuHistoryEntry
	FundID   uuid.UUID `json:"fund_id"`
	FundName string    `json:"fund_name"`
}

// CbuReport aggregates a set of funds and their transactions over a date range.
type CbuReport struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	TotalFunds         int             `json:"total_funds"`
	ActiveFunds        int             `json:"active_funds"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalWithdrawals   decimal.Decimal `json:"total_withdrawals"`
	TotalDividends     decimal.Decimal `json:"total_dividends"`
	RecentActivities   []CbuActivity   `json:"recent_activities"`
}

// NetBalance is contributions + dividends - withdrawals over the report range.
func (r CbuReport) NetBalance() decimal.Decimal {
	return r.TotalContributions.Add(r.TotalDividends).Sub(r.TotalWithdrawals)
}

// AvgContribution is the mean contribution total per fund, zero when the
// report covers no funds.
func (r CbuReport) AvgContribution() decimal.Decimal {
	if r.TotalFunds == 0 {
		return decimal.Zero
	}
	return r.TotalContributions.Div(decimal.NewFromInt(int64(r.TotalFunds)))
}

// AvgDividend is the mean dividend total per fund, zero when the report covers
// no funds.
func (r CbuReport) AvgDividend() decimal.Decimal {
	if r.TotalFunds == 0 {
		return decimal.Zero
	}
	return r.TotalDividends.Div(decimal.NewFromInt(int64(r.TotalFunds)))
}

// ContributionRate is the share of funds still active, in [0,1], zero when the
// report covers no funds.
func (r CbuReport) ContributionRate() decimal.Decimal {
	if r.TotalFunds == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.ActiveFunds)).Div(decimal.NewFromInt(int64(r.TotalFunds)))
}
