// Package credit derives a 300-850 credit score from a loan's repayment state.
package credit

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

const (
	MinScore  = 300
	MaxScore  = 850
	baseScore = 650
)

// Rating is a derived credit figure with its qualitative band. Tier runs 1
// (Excellent) through 5 (Poor).
type Rating struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Tier  int    `json:"tier"`
}

// Score rates a loan's payment reliability. It is a pure function of the loan
// snapshot: the payment history enters only through PaidAmount, which the
// ledger keeps in step with the loan's payments.
func Score(loan models.Loan) Rating {
	score := baseScore

	// Up to +200 for repayment progress.
	if loan.TotalBalance.GreaterThan(decimal.Zero) {
		ratio, _ := loan.PaidAmount.Div(loan.TotalBalance).Float64()
		score += int(math.Round(ratio * 200))
	}

	switch loan.Status {
	case models.LoanStatusPaid:
		score += 150
	case models.LoanStatusDefaulted:
		score -= 300
	}

	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}

	label, tier := band(score)
	return Rating{Score: score, Label: label, Tier: tier}
}

// band maps a score to its label, highest threshold first. Thresholds are
// inclusive lower bounds.
func band(score int) (string, int) {
	switch {
	case score >= 800:
		return "Excellent", 1
	case score >= 740:
		return "Very Good", 2
	case score >= 670:
		return "Good", 3
	case score >= 580:
		return "Fair", 4
	default:
		return "Poor", 5
	}
}
