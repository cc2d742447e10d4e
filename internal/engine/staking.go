package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Football-Analysis/football-betting-bot/internal/alerts"
	"github.com/Football-Analysis/football-betting-bot/internal/analysis"
	"github.com/Football-Analysis/football-betting-bot/internal/betfair"
	"github.com/Football-Analysis/football-betting-bot/internal/market"
	"github.com/Football-Analysis/football-betting-bot/internal/mathutil"
	"github.com/Football-Analysis/football-betting-bot/internal/store"
)

// DefaultRiskFraction is the share of the total bankroll staked per bet.
const DefaultRiskFraction = 0.01

// StakeConfig controls how opportunities are converted into bets.
type StakeConfig struct {
	RiskFraction  float64
	VetoedLeagues []int
}

// DefaultStakeConfig returns the standard staking parameters.
func DefaultStakeConfig() StakeConfig {
	return StakeConfig{RiskFraction: DefaultRiskFraction}
}

// StakeDecision is the outcome of running one opportunity through the
// staking pipeline.
type StakeDecision string

const (
	Accepted          StakeDecision = "accepted"
	Vetoed            StakeDecision = "vetoed"
	InsufficientFunds StakeDecision = "insufficient_funds"
	AlreadyBet        StakeDecision = "already_bet"
	StakeTooSmall     StakeDecision = "stake_too_small"
)

// Ledger is the slice of the store the staking pipeline needs: the bet
// ledger for idempotency and the append-only bankroll.
type Ledger interface {
	BetExists(fixtureDate string, homeTeamID int) (bool, error)
	InsertBet(bet store.Bet) (int64, error)
	LatestBankroll() (*store.Bankroll, error)
	AppendBankroll(b store.Bankroll) error
}

// OrderPlacer submits a single limit order to the exchange.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, marketID string, selectionID int64, side string, price, size float64) (*betfair.PlaceExecutionReport, error)
}

// Staker runs the gate sequence for one opportunity and, when every gate
// passes, records the bet, places the order, updates the bankroll and
// alerts. The bet row is written BEFORE the order goes out so a crash or
// restart between the two can never double-stake the fixture.
type Staker struct {
	ledger   Ledger
	orders   OrderPlacer
	notifier *alerts.Notifier
	cfg      StakeConfig
}

// NewStaker creates a Staker. orders and notifier may be nil; a nil
// orders placer records bets without sending them to the exchange.
func NewStaker(ledger Ledger, orders OrderPlacer, notifier *alerts.Notifier, cfg StakeConfig) *Staker {
	return &Staker{ledger: ledger, orders: orders, notifier: notifier, cfg: cfg}
}

// Stake runs the pipeline: league veto, bet sizing from the total
// bankroll, free-funds check, one-bet-per-fixture check, lay stake
// conversion, then the effects. Gates run in that order so the cheap
// rejections never touch the database twice.
func (s *Staker) Stake(ctx context.Context, m *market.Market, opp analysis.Opportunity) (StakeDecision, error) {
	for _, league := range s.cfg.VetoedLeagues {
		if opp.LeagueID == league {
			return Vetoed, nil
		}
	}

	bankroll, err := s.ledger.LatestBankroll()
	if err != nil {
		return "", fmt.Errorf("reading bankroll: %w", err)
	}
	if bankroll == nil {
		return "", fmt.Errorf("no bankroll recorded, cannot size bet")
	}

	// Bet size is always a fraction of TOTAL bankroll, not free funds,
	// so stakes do not shrink as bets accumulate.
	betSize := mathutil.Round2(bankroll.Total * s.cfg.RiskFraction)
	if betSize > bankroll.Free() {
		return InsufficientFunds, nil
	}

	exists, err := s.ledger.BetExists(m.FixtureDate, m.HomeTeamID)
	if err != nil {
		return "", fmt.Errorf("checking bet ledger: %w", err)
	}
	if exists {
		return AlreadyBet, nil
	}

	// Lay bets risk the liability, so the exchange stake is the bet size
	// scaled down by the lay price. The ledger stores the back-equivalent
	// price so back and lay rows read the same way.
	storedPrice := opp.Price
	exchangeStake := betSize
	if opp.Side == analysis.SideLay {
		storedPrice = mathutil.BackEquivalent(opp.Price)
		exchangeStake = mathutil.Round2(betSize / (opp.Price - 1))
		if exchangeStake < 1 {
			return StakeTooSmall, nil
		}
	}

	bet := store.Bet{
		FixtureDate: m.FixtureDate,
		HomeTeamID:  m.HomeTeamID,
		Team:        opp.TeamID,
		TeamName:    opp.TeamName,
		Price:       storedPrice,
		Stake:       betSize,
		Side:        string(opp.Side),
		PlacedAt:    time.Now(),
	}
	betID, err := s.ledger.InsertBet(bet)
	if err != nil {
		return "", fmt.Errorf("recording bet: %w", err)
	}

	if s.orders != nil {
		runner := m.RunnerByRole(opp.Role)
		report, err := s.orders.PlaceOrder(ctx, m.ID, runner.SelectionID, string(opp.Side), opp.Price, exchangeStake)
		if err != nil {
			slog.Error("Order failed, bet stays recorded", "market", m.ID, "betID", betID, "err", err)
		} else if report.Rejected() {
			slog.Warn("Order rejected by exchange", "market", m.ID, "betID", betID, "status", report.Status)
		}
	}

	// Liability tracking uses the recorded stake, not the exchange stake:
	// a lay's exposure was already captured by the back-equivalent price.
	next := store.Bankroll{
		AsOf:         time.Now(),
		Total:        bankroll.Total,
		AmountInPlay: bankroll.AmountInPlay + betSize,
	}
	if err := s.ledger.AppendBankroll(next); err != nil {
		slog.Error("Bankroll update failed", "betID", betID, "err", err)
	}

	slog.Info("Bet placed",
		"event", m.EventName, "date", m.FixtureDate, "side", opp.Side,
		"team", opp.TeamName, "price", opp.Price, "stake", betSize, "edge", opp.Edge)

	key := fmt.Sprintf("%s-%d", m.FixtureDate, m.HomeTeamID)
	body := fmt.Sprintf("%s on %s (%s) at %.2f for %.2f, edge %.4f",
		opp.Side, opp.TeamName, m.EventName, opp.Price, betSize, opp.Edge)
	s.notifier.BetPlaced(key, alerts.BetSubject(string(opp.Side), opp.TeamName), body)

	return Accepted, nil
}
