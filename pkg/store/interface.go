package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage defines the database operations for loans, payments, bills, CBU
// funds and fund transactions. Implementations own durability and the
// serialization of concurrent mutations; the engine packages stay pure.
type Storage interface {
	CreateLoan(loan *models.Loan) error
	GetLoan(id uuid.UUID) (*models.Loan, error)
	UpdateLoan(loan *models.Loan) error
	DeleteLoan(id uuid.UUID) error
	GetAllLoans() ([]*models.Loan, error)

	CreatePayment(payment *models.Payment) error
	GetPayment(id uuid.UUID) (*models.Payment, error)
	DeletePayment(id uuid.UUID) error
	GetPaymentsForLoan(loanID uuid.UUID) ([]*models.Payment, error)

	CreateBill(bill *models.Bill) error
	GetBill(id uuid.UUID) (*models.Bill, error)
	UpdateBill(bill *models.Bill) error
	DeleteBill(id uuid.UUID) error
	GetBillsForLoan(loanID uuid.UUID) ([]*models.Bill, error)

	CreateFund(fund *models.CbuFund) error
	GetFund(id uuid.UUID) (*models.CbuFund, error)
	UpdateFund(fund *models.CbuFund) error
	DeleteFund(id uuid.UUID) error
	GetAllFunds() ([]*models.CbuFund, error)

	CreateContribution(c *models.CbuContribution) error
	CreateWithdrawal(w *models.CbuWithdrawal) error
	CreateDividend(d *models.CbuDividend) error
	GetContributionsForFund(fundID uuid.UUID) ([]*models.CbuContribution, error)
	GetWithdrawalsForFund(fundID uuid.UUID) ([]*models.CbuWithdrawal, error)
	GetDividendsForFund(fundID uuid.UUID) ([]*models.CbuDividend, error)
	GetAllContributions() ([]*models.CbuContribution, error)
	GetAllWithdrawals() ([]*models.CbuWithdrawal, error)
	GetAllDividends() ([]*models.CbuDividend, error)

	Close() error
}
