package mathutil

import "math"

// Round2 rounds a monetary amount to two decimal places, the smallest
// stake unit the exchange accepts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Implied converts a decimal price to its implied probability (1/price).
// Returns 0 for prices <= 0 so an absent price never divides by zero.
func Implied(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return 1 / price
}

// BackEquivalent converts a lay price to the equivalent back odds on the
// opposite outcome: 1 + 1/(price-1). Only defined for price > 1; a lay
// price at or below 1 has no meaning on the exchange.
func BackEquivalent(layPrice float64) float64 {
	return 1 + 1/(layPrice-1)
}
