package analysis

import (
	"github.com/Football-Analysis/football-betting-bot/internal/market"
	"github.com/Football-Analysis/football-betting-bot/internal/mathutil"
)

// Side is the trade direction on the exchange.
type Side string

const (
	SideBack Side = "BACK"
	SideLay  Side = "LAY"
)

// Config holds the selection parameters.
type Config struct {
	// EdgeThreshold is the minimum edge an opportunity must strictly
	// exceed to qualify.
	EdgeThreshold float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{EdgeThreshold: 0.20}
}

// Edge computes the directional expected edge for one outcome and trade
// side at the given price. Positive edge means the model disagrees with
// the market in the bettor's favor: for a back, the outcome is more likely
// than the price implies; for a lay, less likely.
//
// Returns false when the price cannot support the calculation (no
// liquidity on that side, or a lay price at or below 1, where the
// lay-to-back conversion is undefined).
func Edge(role market.Role, side Side, price float64, pred market.Prediction) (float64, bool) {
	switch side {
	case SideBack:
		if price <= 0 {
			return 0, false
		}
		return pred.ByRole(role) - mathutil.Implied(price), true
	case SideLay:
		if price <= 1 {
			return 0, false
		}
		backEquiv := mathutil.BackEquivalent(price)
		return pred.AgainstRole(role) - mathutil.Implied(backEquiv), true
	}
	return 0, false
}
