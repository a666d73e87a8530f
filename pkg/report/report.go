// Package report summarizes a set of CBU funds and their transactions into
// period totals and a recent-activity feed.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// inRange reports whether date falls within [from, to] inclusive.
func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

// Build aggregates funds and their transactions over [from, to]. A fund counts
// as active when its end date is unset or has not passed now; funds carry no
// stored status field, activity is inferred from the date range. The activity
// feed is sorted newest first and cut to activityLimit entries (no cut when
// activityLimit <= 0).
func Build(funds []*models.CbuFund, contributions []*models.CbuContribution, withdrawals []*models.CbuWithdrawal, dividends []*models.CbuDividend, from, to, now time.Time, activityLimit int) models.CbuReport {
	r := models.CbuReport{
		From:               from,
		To:                 to,
		TotalFunds:         len(funds),
		TotalContributions: decimal.Zero,
		TotalWithdrawals:   decimal.Zero,
		TotalDividends:     decimal.Zero,
		RecentActivities:   []models.CbuActivity{},
	}

	fundNames := make(map[uuid.UUID]string, len(funds))
	for _, f := range funds {
		fundNames[f.ID] = f.Name
		if f.EndDate == nil || !f.EndDate.Before(now) {
			r.ActiveFunds++
		}
	}

	for _, c := range contributions {
		if !inRange(c.ContributionDate, from, to) {
			continue
		}
		r.TotalContributions = r.TotalContributions.Add(c.Amount)
		r.RecentActivities = append(r.RecentActivities, models.CbuActivity{
			CbuHistoryEntry: models.CbuHistoryEntry{
				ID: c.ID, Kind: models.CbuKindContribution, Amount: c.Amount,
				Date: c.ContributionDate, Notes: c.Notes, CreatedAt: c.CreatedAt,
			},
			FundID:   c.CbuFundID,
			FundName: fundNames[c.CbuFundID],
		})
	}
	for _, w := range withdrawals {
		if !inRange(w.WithdrawalDate, from, to) {
			continue
		}
		r.TotalWithdrawals = r.TotalWithdrawals.Add(w.Amount)
		r.RecentActivities = append(r.RecentActivities, models.CbuActivity{
			CbuHistoryEntry: models.CbuHistoryEntry{
				ID: w.ID, Kind: models.CbuKindWithdrawal, Amount: w.Amount,
				Date: w.WithdrawalDate, Notes: w.Notes, CreatedAt: w.CreatedAt,
			},
			FundID:   w.CbuFundID,
			FundName: fundNames[w.CbuFundID],
		})
	}
	for _, d := range dividends {
		if !inRange(d.DividendDate, from, to) {
			continue
		}
		r.TotalDividends = r.TotalDividends.Add(d.Amount)
		r.RecentActivities = append(r.RecentActivities, models.CbuActivity{
			CbuHistoryEntry: models.CbuHistoryEntry{
				ID: d.ID, Kind: models.CbuKindDividend, Amount: d.Amount,
				Date: d.DividendDate, Notes: d.Notes, CreatedAt: d.CreatedAt,
			},
			FundID:   d.CbuFundID,
			FundName: fundNames[d.CbuFundID],
		})
	}

	sort.SliceStable(r.RecentActivities, func(i, j int) bool {
		a, b := r.RecentActivities[i], r.RecentActivities[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if activityLimit > 0 && len(r.RecentActivities) > activityLimit {
		r.RecentActivities = r.RecentActivities[:activityLimit]
	}

	return r
}
