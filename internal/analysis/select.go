package analysis

import "github.com/Football-Analysis/football-betting-bot/internal/market"

// Opportunity is a candidate stake on one outcome of one market. It is
// transient: the staking engine either converts it into a bet or drops it.
type Opportunity struct {
	Role     market.Role
	Side     Side
	TeamID   int
	TeamName string
	Price    float64
	Edge     float64

	// LeagueID is filled in by the engine before staking so the veto
	// list can be applied. 0 = league unknown.
	LeagueID int
}

// roleOrder fixes the tie-break order for equal edges within a side.
var roleOrder = []market.Role{market.RoleHome, market.RoleAway, market.RoleDraw}

// Select evaluates all six role/side cells of a priced market and returns
// the single best qualifying opportunity, or false if none qualifies.
//
// A cell qualifies only if its edge strictly exceeds the threshold. The
// best back and best lay are kept separately; equal edges keep the first
// role encountered in home, away, draw order. Across the two sides the
// larger raw edge wins, the back side winning an exact tie.
func Select(m *market.Market, cfg Config) (Opportunity, bool) {
	var bestBack, bestLay Opportunity
	var haveBack, haveLay bool

	for _, role := range roleOrder {
		r := m.RunnerByRole(role)
		if r == nil {
			continue
		}

		if edge, ok := Edge(role, SideBack, r.BackPrice, m.Prediction); ok && edge > cfg.EdgeThreshold {
			if !haveBack || edge > bestBack.Edge {
				bestBack = opportunity(r, SideBack, r.BackPrice, edge)
				haveBack = true
			}
		}

		if edge, ok := Edge(role, SideLay, r.LayPrice, m.Prediction); ok && edge > cfg.EdgeThreshold {
			if !haveLay || edge > bestLay.Edge {
				bestLay = opportunity(r, SideLay, r.LayPrice, edge)
				haveLay = true
			}
		}
	}

	switch {
	case haveBack && haveLay:
		if bestLay.Edge > bestBack.Edge {
			return bestLay, true
		}
		return bestBack, true
	case haveBack:
		return bestBack, true
	case haveLay:
		return bestLay, true
	}
	return Opportunity{}, false
}

func opportunity(r *market.Runner, side Side, price, edge float64) Opportunity {
	return Opportunity{
		Role:     r.Role,
		Side:     side,
		TeamID:   r.TeamID,
		TeamName: r.Name,
		Price:    price,
		Edge:     edge,
	}
}
