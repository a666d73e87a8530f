// Package fund applies contributions, withdrawals and dividends to a CBU fund
// and derives its share count and transaction history. All functions take and
// return value copies; callers persist the results.
package fund

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// Shares computes ceil(total / valuePerShare). A non-positive value per share
// yields zero shares; the division is skipped, not attempted.
func Shares(total, valuePerShare decimal.Decimal) int64 {
	if valuePerShare.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return total.Div(valuePerShare).Ceil().IntPart()
}

// recompute refreshes the fund's derived share count after a balance change.
func recompute(f models.CbuFund, now time.Time) models.CbuFund {
	f.NumberOfShares = Shares(f.TotalAmount, f.ValuePerShare)
	f.UpdatedAt = now
	return f
}

// ApplyContribution adds amount to the fund's total and returns the updated
// fund together with the contribution record.
func ApplyContribution(f models.CbuFund, amount decimal.Decimal, date time.Time, notes string) (models.CbuFund, models.CbuContribution, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return f, models.CbuContribution{}, models.ErrInvalidAmount
	}
	f.TotalAmount = f.TotalAmount.Add(amount)
	c := models.CbuContribution{
		ID:               uuid.New(),
		CbuFundID:        f.ID,
		Amount:           amount,
		ContributionDate: date,
		Notes:            notes,
		CreatedAt:        time.Now(),
	}
	return recompute(f, c.CreatedAt), c, nil
}

// ApplyDividend adds amount to the fund's total and returns the updated fund
// together with the dividend record.
func ApplyDividend(f models.CbuFund, amount decimal.Decimal, date time.Time, notes string) (models.CbuFund, models.CbuDividend, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return f, models.CbuDividend{}, models.ErrInvalidAmount
	}
	f.TotalAmount = f.TotalAmount.Add(amount)
	d := models.CbuDividend{
		ID:           uuid.New(),
		CbuFundID:    f.ID,
		Amount:       amount,
		DividendDate: date,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}
	return recompute(f, d.CreatedAt), d, nil
}

// ApplyWithdrawal subtracts amount from the fund's total. A withdrawal larger
// than the current total is rejected and the fund is returned unchanged.
func ApplyWithdrawal(f models.CbuFund, amount decimal.Decimal, date time.Time, notes string) (models.CbuFund, models.CbuWithdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return f, models.CbuWithdrawal{}, models.ErrInvalidAmount
	}
	if amount.GreaterThan(f.TotalAmount) {
		return f, models.CbuWithdrawal{}, &models.InsufficientFundBalanceError{Available: f.TotalAmount}
	}
	f.TotalAmount = f.TotalAmount.Sub(amount)
	w := models.CbuWithdrawal{
		ID:             uuid.New(),
		CbuFundID:      f.ID,
		Amount:         amount,
		WithdrawalDate: date,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}
	return recompute(f, w.CreatedAt), w, nil
}

// History merges the three transaction kinds for one fund into a single list,
// newest first. Ties on the transaction date fall back to creation order,
// newest first.
func History(contributions []*models.CbuContribution, withdrawals []*models.CbuWithdrawal, dividends []*models.CbuDividend) []models.CbuHistoryEntry {
	entries := make([]models.CbuHistoryEntry, 0, len(contributions)+len(withdrawals)+len(dividends))
	for _, c := range contributions {
		entries = append(entries, models.CbuHistoryEntry{
			ID: c.ID, Kind: models.CbuKindContribution, Amount: c.Amount,
			Date: c.ContributionDate, Notes: c.Notes, CreatedAt: c.CreatedAt,
		})
	}
	for _, w := range withdrawals {
		entries = append(entries, models.CbuHistoryEntry{
			ID: w.ID, Kind: models.CbuKindWithdrawal, Amount: w.Amount,
			Date: w.WithdrawalDate, Notes: w.Notes, CreatedAt: w.CreatedAt,
		})
	}
	for _, d := range dividends {
		entries = append(entries, models.CbuHistoryEntry{
			ID: d.ID, Kind: models.CbuKindDividend, Amount: d.Amount,
			Date: d.DividendDate, Notes: d.Notes, CreatedAt: d.CreatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}
