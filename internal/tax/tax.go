// Package tax computes progressive tax over a bracket schedule.
package tax

import (
	"github.com/shopspring/decimal"
)

// Bracket taxes income up to Cap at Rate. An Unbounded bracket has no cap.
type Bracket struct {
	Cap       decimal.Decimal
	Unbounded bool
	Rate      decimal.Decimal
}

// Owed returns the tax due on income. brackets must be sorted by ascending
// cap with unbounded brackets last.
//
// A bracket whose cap does not exceed the previous one taxes all remaining
// income at its rate. This only happens with unsorted or duplicated caps.
func Owed(income decimal.Decimal, brackets []Bracket) decimal.Decimal {
	total := decimal.Zero
	remaining := income
	previousCap := decimal.Zero

	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		amount := remaining
		if !b.Unbounded {
			width := b.Cap.Sub(previousCap)
			if width.IsPositive() {
				amount = decimal.Min(remaining, width)
			}
		}
		total = total.Add(amount.Mul(b.Rate))
		remaining = remaining.Sub(amount)
		if !b.Unbounded {
			previousCap = b.Cap
		}
	}
	return total
}
