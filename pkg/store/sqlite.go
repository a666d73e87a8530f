package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/junrhy/sakto-ledger/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore and initializes the database.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// Manually enable foreign keys and WAL mode
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database tables if they don't already exist.
// We use TEXT for decimal fields in SQLite to ensure no precision is lost.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		borrower_key TEXT NOT NULL,
		amount TEXT NOT NULL,
		interest_rate TEXT NOT NULL,
		interest_type TEXT NOT NULL,
		frequency TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		total_interest TEXT NOT NULL DEFAULT '0',
		total_balance TEXT NOT NULL DEFAULT '0',
		paid_amount TEXT NOT NULL DEFAULT '0',
		installment_frequency TEXT NOT NULL DEFAULT '',
		installment_amount TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(loan_id) REFERENCES loans(id)
	);
	CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL,
		bill_number INTEGER NOT NULL,
		due_date DATETIME NOT NULL,
		principal TEXT NOT NULL DEFAULT '0',
		interest TEXT NOT NULL DEFAULT '0',
		total_amount TEXT NOT NULL DEFAULT '0',
		penalty_amount TEXT NOT NULL DEFAULT '0',
		total_amount_due TEXT NOT NULL DEFAULT '0',
		note TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(loan_id) REFERENCES loans(id)
	);
	CREATE TABLE IF NOT EXISTS cbu_funds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		target_amount TEXT NOT NULL DEFAULT '0',
		value_per_share TEXT NOT NULL DEFAULT '0',
		total_amount TEXT NOT NULL DEFAULT '0',
		number_of_shares INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME NOT NULL,
		end_date DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS cbu_contributions (
		id TEXT PRIMARY KEY,
		cbu_fund_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		contribution_date DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(cbu_fund_id) REFERENCES cbu_funds(id)
	);
	CREATE TABLE IF NOT EXISTS cbu_withdrawals (
		id TEXT PRIMARY KEY,
		cbu_fund_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		withdrawal_date DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(cbu_fund_id) REFERENCES cbu_funds(id)
	);
	CREATE TABLE IF NOT EXISTS cbu_dividends (
		id TEXT PRIMARY KEY,
		cbu_fund_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		dividend_date DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(cbu_fund_id) REFERENCES cbu_funds(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const loanColumns = `id, borrower_key, amount, interest_rate, interest_type, frequency, start_date, end_date, status, total_interest, total_balance, paid_amount, installment_frequency, installment_amount, created_at, updated_at`

// CreateLoan inserts a new loan into the database.
func (s *SQLiteStore) CreateLoan(loan *models.Loan) error {
	_, err := s.db.Exec(
		`INSERT INTO loans (`+loanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID.String(), loan.BorrowerKey, loan.Amount, loan.InterestRate, loan.InterestType,
		loan.Frequency, loan.StartDate, loan.EndDate, loan.Status, loan.TotalInterest,
		loan.TotalBalance, loan.PaidAmount, loan.InstallmentFrequency, loan.InstallmentAmount,
		loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func scanLoan(row interface{ Scan(...any) error }) (*models.Loan, error) {
	var loan models.Loan
	var idStr string
	if err := row.Scan(&idStr, &loan.BorrowerKey, &loan.Amount, &loan.InterestRate,
		&loan.InterestType, &loan.Frequency, &loan.StartDate, &loan.EndDate, &loan.Status,
		&loan.TotalInterest, &loan.TotalBalance, &loan.PaidAmount, &loan.InstallmentFrequency,
		&loan.InstallmentAmount, &loan.CreatedAt, &loan.UpdatedAt); err != nil {
		return nil, err
	}
	loan.ID = uuid.MustParse(idStr)
	return &loan, nil
}

// GetLoan retrieves a loan by its ID.
func (s *SQLiteStore) GetLoan(id uuid.UUID) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id.String())
	loan, err := scanLoan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

// UpdateLoan updates an existing loan in the database.
func (s *SQLiteStore) UpdateLoan(loan *models.Loan) error {
	result, err := s.db.Exec(
		`UPDATE loans SET borrower_key = ?, amount = ?, interest_rate = ?, interest_type = ?,
		frequency = ?, start_date = ?, end_date = ?, status = ?, total_interest = ?,
		total_balance = ?, paid_amount = ?, installment_frequency = ?, installment_amount = ?,
		updated_at = ? WHERE id = ?`,
		loan.BorrowerKey, loan.Amount, loan.InterestRate, loan.InterestType, loan.Frequency,
		loan.StartDate, loan.EndDate, loan.Status, loan.TotalInterest, loan.TotalBalance,
		loan.PaidAmount, loan.InstallmentFrequency, loan.InstallmentAmount, loan.UpdatedAt,
		loan.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return requireRow(result, "loan")
}

// DeleteLoan removes a loan with its payments and bills within a transaction.
func (s *SQLiteStore) DeleteLoan(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM payments WHERE loan_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete associated payments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM bills WHERE loan_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete associated bills: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM loans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if err := requireRow(result, "loan"); err != nil {
		return err
	}
	return tx.Commit()
}

// GetAllLoans retrieves all loans.
func (s *SQLiteStore) GetAllLoans() ([]*models.Loan, error) {
	rows, err := s.db.Query(`SELECT ` + loanColumns + ` FROM loans ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return loans, nil
}

// CreatePayment inserts a new payment into the database.
func (s *SQLiteStore) CreatePayment(payment *models.Payment) error {
	_, err := s.db.Exec(
		`INSERT INTO payments (id, loan_id, amount, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		payment.ID.String(), payment.LoanID.String(), payment.Amount, payment.PaymentDate, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by its ID.
func (s *SQLiteStore) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	var idStr, loanIDStr string
	row := s.db.QueryRow(`SELECT id, loan_id, amount, payment_date, created_at FROM payments WHERE id = ?`, id.String())
	if err := row.Scan(&idStr, &loanIDStr, &p.Amount, &p.PaymentDate, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	p.ID = uuid.MustParse(idStr)
	p.LoanID = uuid.MustParse(loanIDStr)
	return &p, nil
}

// DeletePayment removes a payment.
func (s *SQLiteStore) DeletePayment(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM payments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return requireRow(result, "payment")
}

// GetPaymentsForLoan retrieves all payments for a given loan ID.
func (s *SQLiteStore) GetPaymentsForLoan(loanID uuid.UUID) ([]*models.Payment, error) {
	rows, err := s.db.Query(`SELECT id, loan_id, amount, payment_date, created_at FROM payments WHERE loan_id = ? ORDER BY payment_date ASC`, loanID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get payments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		var idStr, loanIDStr string
		if err := rows.Scan(&idStr, &loanIDStr, &p.Amount, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		p.ID = uuid.MustParse(idStr)
		p.LoanID = uuid.MustParse(loanIDStr)
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for loan payments: %w", err)
	}
	return payments, nil
}

const billColumns = `id, loan_id, bill_number, due_date, principal, interest, total_amount, penalty_amount, total_amount_due, note, status, created_at, updated_at`

// CreateBill inserts a new bill into the database.
func (s *SQLiteStore) CreateBill(bill *models.Bill) error {
	_, err := s.db.Exec(
		`INSERT INTO bills (`+billColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID.String(), bill.LoanID.String(), bill.BillNumber, bill.DueDate, bill.Principal,
		bill.Interest, bill.TotalAmount, bill.PenaltyAmount, bill.TotalAmountDue, bill.Note,
		bill.Status, bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

func scanBill(row interface{ Scan(...any) error }) (*models.Bill, error) {
	var bill models.Bill
	var idStr, loanIDStr string
	if err := row.Scan(&idStr, &loanIDStr, &bill.BillNumber, &bill.DueDate, &bill.Principal,
		&bill.Interest, &bill.TotalAmount, &bill.PenaltyAmount, &bill.TotalAmountDue,
		&bill.Note, &bill.Status, &bill.CreatedAt, &bill.UpdatedAt); err != nil {
		return nil, err
	}
	bill.ID = uuid.MustParse(idStr)
	bill.LoanID = uuid.MustParse(loanIDStr)
	return &bill, nil
}

// GetBill retrieves a bill by its ID.
func (s *SQLiteStore) GetBill(id uuid.UUID) (*models.Bill, error) {
	row := s.db.QueryRow(`SELECT `+billColumns+` FROM bills WHERE id = ?`, id.String())
	bill, err := scanBill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bill %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// UpdateBill updates an existing bill in the database.
func (s *SQLiteStore) UpdateBill(bill *models.Bill) error {
	result, err := s.db.Exec(
		`UPDATE bills SET due_date = ?, principal = ?, interest = ?, total_amount = ?,
		penalty_amount = ?, total_amount_due = ?, note = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		bill.DueDate, bill.Principal, bill.Interest, bill.TotalAmount, bill.PenaltyAmount,
		bill.TotalAmountDue, bill.Note, bill.Status, bill.UpdatedAt, bill.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return requireRow(result, "bill")
}

// DeleteBill removes a bill.
func (s *SQLiteStore) DeleteBill(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM bills WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireRow(result, "bill")
}

// GetBillsForLoan retrieves all bills for a given loan ID, oldest first.
func (s *SQLiteStore) GetBillsForLoan(loanID uuid.UUID) ([]*models.Bill, error) {
	rows, err := s.db.Query(`SELECT `+billColumns+` FROM bills WHERE loan_id = ? ORDER BY bill_number ASC`, loanID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get bills for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for loan bills: %w", err)
	}
	return bills, nil
}

const fundColumns = `id, name, target_amount, value_per_share, total_amount, number_of_shares, start_date, end_date, created_at, updated_at`

// CreateFund inserts a new CBU fund into the database.
func (s *SQLiteStore) CreateFund(fund *models.CbuFund) error {
	_, err := s.db.Exec(
		`INSERT INTO cbu_funds (`+fundColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fund.ID.String(), fund.Name, fund.TargetAmount, fund.ValuePerShare, fund.TotalAmount,
		fund.NumberOfShares, fund.StartDate, fund.EndDate, fund.CreatedAt, fund.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fund: %w", err)
	}
	return nil
}

func scanFund(row interface{ Scan(...any) error }) (*models.CbuFund, error) {
	var fund models.CbuFund
	var idStr string
	var endDate sql.NullTime
	if err := row.Scan(&idStr, &fund.Name, &fund.TargetAmount, &fund.ValuePerShare,
		&fund.TotalAmount, &fund.NumberOfShares, &fund.StartDate, &endDate,
		&fund.CreatedAt, &fund.UpdatedAt); err != nil {
		return nil, err
	}
	fund.ID = uuid.MustParse(idStr)
	if endDate.Valid {
		fund.EndDate = &endDate.Time
	}
	return &fund, nil
}

// GetFund retrieves a fund by its ID.
func (s *SQLiteStore) GetFund(id uuid.UUID) (*models.CbuFund, error) {
	row := s.db.QueryRow(`SELECT `+fundColumns+` FROM cbu_funds WHERE id = ?`, id.String())
	fund, err := scanFund(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("fund %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}
	return fund, nil
}

// UpdateFund updates an existing fund in the database.
func (s *SQLiteStore) UpdateFund(fund *models.CbuFund) error {
	result, err := s.db.Exec(
		`UPDATE cbu_funds SET name = ?, target_amount = ?, value_per_share = ?,
		total_amount = ?, number_of_shares = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`,
		fund.Name, fund.TargetAmount, fund.ValuePerShare, fund.TotalAmount,
		fund.NumberOfShares, fund.StartDate, fund.EndDate, fund.UpdatedAt, fund.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}
	return requireRow(result, "fund")
}

// DeleteFund removes a fund and its transactions within a transaction.
func (s *SQLiteStore) DeleteFund(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cbu_contributions", "cbu_withdrawals", "cbu_dividends"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE cbu_fund_id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.Exec(`DELETE FROM cbu_funds WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete fund: %w", err)
	}
	if err := requireRow(result, "fund"); err != nil {
		return err
	}
	return tx.Commit()
}

// GetAllFunds retrieves all funds.
func (s *SQLiteStore) GetAllFunds() ([]*models.CbuFund, error) {
	rows, err := s.db.Query(`SELECT ` + fundColumns + ` FROM cbu_funds ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all funds: %w", err)
	}
	defer rows.Close()

	var funds []*models.CbuFund
	for rows.Next() {
		fund, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return funds, nil
}

// CreateContribution inserts a new contribution into the database.
func (s *SQLiteStore) CreateContribution(c *models.CbuContribution) error {
	_, err := s.db.Exec(
		`INSERT INTO cbu_contributions (id, cbu_fund_id, amount, contribution_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.CbuFundID.String(), c.Amount, c.ContributionDate, c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// CreateWithdrawal inserts a new withdrawal into the database.
func (s *SQLiteStore) CreateWithdrawal(w *models.CbuWithdrawal) error {
	_, err := s.db.Exec(
		`INSERT INTO cbu_withdrawals (id, cbu_fund_id, amount, withdrawal_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.CbuFundID.String(), w.Amount, w.WithdrawalDate, w.Notes, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

// CreateDividend inserts a new dividend into the database.
func (s *SQLiteStore) CreateDividend(d *models.CbuDividend) error {
	_, err := s.db.Exec(
		`INSERT INTO cbu_dividends (id, cbu_fund_id, amount, dividend_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.CbuFundID.String(), d.Amount, d.DividendDate, d.Notes, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dividend: %w", err)
	}
	return nil
}

// GetContributionsForFund retrieves all contributions for a fund.
func (s *SQLiteStore) GetContributionsForFund(fundID uuid.UUID) ([]*models.CbuContribution, error) {
	return s.queryContributions(`SELECT id, cbu_fund_id, amount, contribution_date, notes, created_at FROM cbu_contributions WHERE cbu_fund_id = ? ORDER BY contribution_date ASC`, fundID.String())
}

// GetAllContributions retrieves every contribution across all funds.
func (s *SQLiteStore) GetAllContributions() ([]*models.CbuContribution, error) {
	return s.queryContributions(`SELECT id, cbu_fund_id, amount, contribution_date, notes, created_at FROM cbu_contributions ORDER BY contribution_date ASC`)
}

func (s *SQLiteStore) queryContributions(query string, args ...any) ([]*models.CbuContribution, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	var out []*models.CbuContribution
	for rows.Next() {
		var c models.CbuContribution
		var idStr, fundIDStr string
		if err := rows.Scan(&idStr, &fundIDStr, &c.Amount, &c.ContributionDate, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		c.ID = uuid.MustParse(idStr)
		c.CbuFundID = uuid.MustParse(fundIDStr)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for contributions: %w", err)
	}
	return out, nil
}

// GetWithdrawalsForFund retrieves all withdrawals for a fund.
func (s *SQLiteStore) GetWithdrawalsForFund(fundID uuid.UUID) ([]*models.CbuWithdrawal, error) {
	return s.queryWithdrawals(`SELECT id, cbu_fund_id, amount, withdrawal_date, notes, created_at FROM cbu_withdrawals WHERE cbu_fund_id = ? ORDER BY withdrawal_date ASC`, fundID.String())
}

// GetAllWithdrawals retrieves every withdrawal across all funds.
func (s *SQLiteStore) GetAllWithdrawals() ([]*models.CbuWithdrawal, error) {
	return s.queryWithdrawals(`SELECT id, cbu_fund_id, amount, withdrawal_date, notes, created_at FROM cbu_withdrawals ORDER BY withdrawal_date ASC`)
}

func (s *SQLiteStore) queryWithdrawals(query string, args ...any) ([]*models.CbuWithdrawal, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	defer rows.Close()

	var out []*models.CbuWithdrawal
	for rows.Next() {
		var w models.CbuWithdrawal
		var idStr, fundIDStr string
		if err := rows.Scan(&idStr, &fundIDStr, &w.Amount, &w.WithdrawalDate, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal row: %w", err)
		}
		w.ID = uuid.MustParse(idStr)
		w.CbuFundID = uuid.MustParse(fundIDStr)
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for withdrawals: %w", err)
	}
	return out, nil
}

// GetDividendsForFund retrieves all dividends for a fund.
func (s *SQLiteStore) GetDividendsForFund(fundID uuid.UUID) ([]*models.CbuDividend, error) {
	return s.queryDividends(`SELECT id, cbu_fund_id, amount, dividend_date, notes, created_at FROM cbu_dividends WHERE cbu_fund_id = ? ORDER BY dividend_date ASC`, fundID.String())
}

// GetAllDividends retrieves every dividend across all funds.
func (s *SQLiteStore) GetAllDividends() ([]*models.CbuDividend, error) {
	return s.queryDividends(`SELECT id, cbu_fund_id, amount, dividend_date, notes, created_at FROM cbu_dividends ORDER BY dividend_date ASC`)
}

func (s *SQLiteStore) queryDividends(query string, args ...any) ([]*models.CbuDividend, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get dividends: %w", err)
	}
	defer rows.Close()

	var out []*models.CbuDividend
	for rows.Next() {
		var d models.CbuDividend
		var idStr, fundIDStr string
		if err := rows.Scan(&idStr, &fundIDStr, &d.Amount, &d.DividendDate, &d.Notes, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dividend row: %w", err)
		}
		d.ID = uuid.MustParse(idStr)
		d.CbuFundID = uuid.MustParse(fundIDStr)
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for dividends: %w", err)
	}
	return out, nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(result sql.Result, kind string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
