package credit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/junrhy/sakto-ledger/pkg/credit"
	"github.com/junrhy/sakto-ledger/pkg/models"
)

func loan(paid, total float64, status models.LoanStatus) models.Loan {
	return models.Loan{
		PaidAmount:   decimal.NewFromFloat(paid),
		TotalBalance: decimal.NewFromFloat(total),
		Status:       status,
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		loan      models.Loan
		wantScore int
		wantLabel string
		wantTier  int
	}{
		{
			name:      "fresh active loan sits at base",
			loan:      loan(0, 1000, models.LoanStatusActive),
			wantScore: 650,
			wantLabel: "Fair",
			wantTier:  4,
		},
		{
			name:      "half repaid active loan",
			loan:      loan(500, 1000, models.LoanStatusActive),
			wantScore: 750, // 650 + round(0.5 × 200)
			wantLabel: "Very Good",
			wantTier:  2,
		},
		{
			name:      "fully repaid and marked paid clamps at max",
			loan:      loan(1000, 1000, models.LoanStatusPaid),
			wantScore: 850, // 650 + 200 + 150 clamped
			wantLabel: "Excellent",
			wantTier:  1,
		},
		{
			name:      "fresh default clamps at min",
			loan:      loan(0, 1000, models.LoanStatusDefaulted),
			wantScore: 350, // 650 − 300
			wantLabel: "Poor",
			wantTier:  5,
		},
		{
			name:      "partially repaid default",
			loan:      loan(900, 1000, models.LoanStatusDefaulted),
			wantScore: 530, // 650 + 180 − 300
			wantLabel: "Poor",
			wantTier:  5,
		},
		{
			name:      "zero balance loan does not divide",
			loan:      loan(0, 0, models.LoanStatusActive),
			wantScore: 650,
			wantLabel: "Fair",
			wantTier:  4,
		},
		{
			name:      "paid status lifts a modest ratio into good",
			loan:      loan(100, 1000, models.LoanStatusPaid),
			wantScore: 820, // 650 + 20 + 150
			wantLabel: "Excellent",
			wantTier:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := credit.Score(tt.loan)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	statuses := []models.LoanStatus{models.LoanStatusActive, models.LoanStatusPaid, models.LoanStatusDefaulted}
	for _, status := range statuses {
		for paid := 0.0; paid <= 1000; paid += 50 {
			r := credit.Score(loan(paid, 1000, status))
			assert.GreaterOrEqual(t, r.Score, credit.MinScore, "status %s paid %v", status, paid)
			assert.LessOrEqual(t, r.Score, credit.MaxScore, "status %s paid %v", status, paid)
		}
	}
}

func TestScore_LabelThresholdsInclusive(t *testing.T) {
	// 75% repaid: 650 + 150 = 800, exactly the Excellent lower bound.
	r := credit.Score(loan(750, 1000, models.LoanStatusActive))
	assert.Equal(t, 800, r.Score)
	assert.Equal(t, "Excellent", r.Label)

	// 45% repaid: 650 + 90 = 740, exactly the Very Good lower bound.
	r = credit.Score(loan(450, 1000, models.LoanStatusActive))
	assert.Equal(t, 740, r.Score)
	assert.Equal(t, "Very Good", r.Label)

	// 10% repaid: 650 + 20 = 670, exactly the Good lower bound.
	r = credit.Score(loan(100, 1000, models.LoanStatusActive))
	assert.Equal(t, 670, r.Score)
	assert.Equal(t, "Good", r.Label)
}

func TestScore_PureFunction(t *testing.T) {
	l := loan(500, 1000, models.LoanStatusActive)
	first := credit.Score(l)
	second := credit.Score(l)
	assert.Equal(t, first, second)
}
