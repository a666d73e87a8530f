// Package interest computes accrued interest for a loan over a date range.
package interest

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
)

// Average period lengths in days, used to convert elapsed days into fractional
// accrual periods.
const (
	daysPerYear    = 365.0
	daysPerMonth   = 30.44
	daysPerQuarter = 91.32
)

// Result is the outcome of an accrual computation. Breakdown is a
// human-readable trace of the formula with each substituted value, meant for
// audit display only; nothing re-parses it.
type Result struct {
	Interest  decimal.Decimal
	Breakdown string
}

// Accrue computes the total interest accrued on principal between start and
// end. ratePercent is the annual rate in percent (12 means 12%). Accrual stops
// at end; a range whose end precedes its start is rejected.
func Accrue(principal, ratePercent decimal.Decimal, itype models.InterestType, freq models.AccrualFrequency, start, end time.Time) (Result, error) {
	if err := itype.Validate(); err != nil {
		return Result{}, fmt.Errorf("interest type %q: %w", itype, err)
	}
	if err := freq.Validate(); err != nil {
		return Result{}, fmt.Errorf("accrual frequency %q: %w", freq, err)
	}

	days := end.Sub(start).Hours() / 24
	if days < 0 {
		return Result{}, models.ErrInvalidDateRange
	}

	rate, _ := ratePercent.Float64()
	rate /= 100

	switch itype {
	case models.InterestTypeFixed:
		return accrueFixed(principal, ratePercent, rate, freq, days), nil
	case models.InterestTypeCompounding:
		return accrueCompounding(principal, ratePercent, rate, freq, days), nil
	}
	// Unreachable: itype was validated above.
	return Result{}, models.ErrUnknownStatus
}

// accrueFixed applies simple interest: principal × period rate × elapsed
// periods, with the period implied by the accrual frequency.
func accrueFixed(principal, ratePercent decimal.Decimal, rate float64, freq models.AccrualFrequency, days float64) Result {
	var (
		perYear    float64
		periods    float64
		periodName string
	)
	switch freq {
	case models.AccrualDaily:
		perYear = daysPerYear
		periods = days
		periodName = "days"
	case models.AccrualMonthly:
		perYear = 12
		periods = days / daysPerMonth
		periodName = "months"
	case models.AccrualQuarterly:
		perYear = 4
		periods = days / daysPerQuarter
		periodName = "quarters"
	case models.AccrualAnnually:
		perYear = 1
		periods = days / daysPerYear
		periodName = "years"
	}

	periodRate := rate / perYear
	interest := principal.Mul(decimal.NewFromFloat(periodRate)).Mul(decimal.NewFromFloat(periods))

	var b strings.Builder
	fmt.Fprintf(&b, "Simple interest, %s accrual\n", freq)
	fmt.Fprintf(&b, "Elapsed: %.2f days = %.4f %s\n", days, periods, periodName)
	fmt.Fprintf(&b, "Period rate: %s%% / 100 / %.0f = %.6f\n", ratePercent, perYear, periodRate)
	fmt.Fprintf(&b, "Interest = %s × %.6f × %.4f = %s", principal.StringFixed(2), periodRate, periods, models.RoundDisplay(interest).StringFixed(2))

	return Result{Interest: interest, Breakdown: b.String()}
}

// accrueCompounding applies compound interest: principal × (1+r)^(n·t) −
// principal, with n compounding periods per year and t in years.
func accrueCompounding(principal, ratePercent decimal.Decimal, rate float64, freq models.AccrualFrequency, days float64) Result {
	var n float64
	switch freq {
	case models.AccrualDaily:
		n = daysPerYear
	case models.AccrualMonthly:
		n = 12
	case models.AccrualQuarterly:
		n = 4
	case models.AccrualAnnually:
		n = 1
	}

	r := rate / n
	t := days / daysPerYear
	// decimal has no fractional exponent; compute the growth factor in float64
	// and convert back for the monetary multiplication.
	factor := math.Pow(1+r, n*t)
	interest := principal.Mul(decimal.NewFromFloat(factor - 1))

	var b strings.Builder
	fmt.Fprintf(&b, "Compound interest, %s accrual\n", freq)
	fmt.Fprintf(&b, "Elapsed: %.2f days = %.4f years\n", days, t)
	fmt.Fprintf(&b, "Period rate: %s%% / 100 / %.0f = %.6f, compounded %.4f times\n", ratePercent, n, r, n*t)
	fmt.Fprintf(&b, "Interest = %s × ((1 + %.6f)^%.4f − 1) = %s", principal.StringFixed(2), r, n*t, models.RoundDisplay(interest).StringFixed(2))

	return Result{Interest: interest, Breakdown: b.String()}
}
