// Package ledger holds the value rules shared by every money-moving operation:
// exact decimal amounts, allocation percentages, fiscal years and the derived
// audit ratios.
package ledger

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for stored amounts.
const MoneyScale = 2

// Fiscal year bounds accepted by the engine.
const (
	MinFiscalYear = 2000
	MaxFiscalYear = 2100
)

var hundred = decimal.NewFromInt(100)

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrPercentageRange   = errors.New("percentage must be greater than 0 and at most 100")
	ErrStreamPercentage  = errors.New("percentage must be between 0 and 100")
	ErrFiscalYearRange   = errors.New("fiscal year is out of range")
)

// Round normalizes an amount to MoneyScale digits.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// Share returns percentage% of pool, rounded to MoneyScale.
func Share(pool, percentage decimal.Decimal) decimal.Decimal {
	return Round(pool.Mul(percentage).Div(hundred))
}

// ValidatePositive rejects amounts that are zero or negative once rounded
// to MoneyScale, so 0.004 fails the same way 0 does.
func ValidatePositive(amount decimal.Decimal) error {
	if !Round(amount).IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// ValidateNonNegative rejects negative amounts.
func ValidateNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// ValidatePercentage checks a category allocation percentage: 0 < p <= 100.
func ValidatePercentage(p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(hundred) {
		return ErrPercentageRange
	}
	return nil
}

// ValidateStreamPercentage checks an income stream percentage: 0 <= p <= 100.
func ValidateStreamPercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return ErrStreamPercentage
	}
	return nil
}

// WithinPercentageCap reports whether used + p stays at or below 100.
func WithinPercentageCap(used, p decimal.Decimal) bool {
	return used.Add(p).LessThanOrEqual(hundred)
}

// ValidateFiscalYear checks that year lies within the supported range.
func ValidateFiscalYear(year int) error {
	if year < MinFiscalYear || year > MaxFiscalYear {
		return ErrFiscalYearRange
	}
	return nil
}

// Ratio returns count/total as a percentage rounded to two decimals.
// A zero total yields zero.
func Ratio(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)*10000/float64(total)) / 100
}
