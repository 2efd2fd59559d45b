// Package ledger contains the pure quantity and amount arithmetic shared by
// the reconciliation aggregates. Functions here never touch storage and have
// no side effects; aggregates call them whenever a derived figure is needed.
package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Subtotal returns quantity multiplied by unit price.
func Subtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Difference returns the counted quantity minus the system quantity.
// Positive means overage, negative means shortage.
func Difference(actual, system decimal.Decimal) decimal.Decimal {
	return actual.Sub(system)
}

// DiscrepancyPercent returns the difference as a percentage of the system
// quantity, rounded to two decimal places.
//
// When the system quantity is zero the ratio is undefined, so the policy is:
// any positive difference counts as a full 100% discrepancy, otherwise 0.
func DiscrepancyPercent(difference, system decimal.Decimal) decimal.Decimal {
	if system.IsZero() {
		if difference.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return difference.Div(system).Mul(hundred).Round(2)
}

// IsShortage reports whether a difference represents missing stock.
func IsShortage(difference decimal.Decimal) bool {
	return difference.IsNegative()
}

// IsOverage reports whether a difference represents surplus stock.
func IsOverage(difference decimal.Decimal) bool {
	return difference.IsPositive()
}

// Clamp restricts v to the inclusive range [min, max].
func Clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
