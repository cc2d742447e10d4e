package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Football-Analysis/football-betting-bot/internal/alerts"
	"github.com/Football-Analysis/football-betting-bot/internal/analysis"
	"github.com/Football-Analysis/football-betting-bot/internal/betfair"
	"github.com/Football-Analysis/football-betting-bot/internal/market"
	"github.com/Football-Analysis/football-betting-bot/internal/store"
)

const cleanupInterval = time.Hour

// Exchange is the slice of the exchange client the sweep loop needs.
type Exchange interface {
	ListEvents(ctx context.Context) ([]betfair.Event, error)
	ListMarketCatalogue(ctx context.Context, eventID string) (*betfair.MarketCatalogue, error)
	ListMarketBook(ctx context.Context, marketID string) (*betfair.MarketBook, error)
}

// Engine is the orchestrator: it polls the exchange for match-odds
// markets, reconciles them against the team and prediction tables, and
// hands qualifying opportunities to the staking pipeline.
type Engine struct {
	exchange Exchange
	builder  *market.Builder
	db       *store.Store
	staker   *Staker
	notifier *alerts.Notifier

	analysisCfg  analysis.Config
	pollInterval time.Duration
}

// New creates an Engine with all dependencies.
func New(
	exchange Exchange,
	builder *market.Builder,
	db *store.Store,
	staker *Staker,
	notifier *alerts.Notifier,
	analysisCfg analysis.Config,
	pollInterval time.Duration,
) *Engine {
	return &Engine{
		exchange:     exchange,
		builder:      builder,
		db:           db,
		staker:       staker,
		notifier:     notifier,
		analysisCfg:  analysisCfg,
		pollInterval: pollInterval,
	}
}

// Run starts the polling loop. It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	slog.Info("Starting polling loop", "interval", e.pollInterval)
	e.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Bot stopped gracefully")
			return

		case <-cleanupTicker.C:
			e.notifier.CleanupOldAlerts()

		case <-ticker.C:
			e.Sweep(ctx)
		}
	}
}

// sweepStats counts what happened to each market in one cycle. Build
// failures are tallied per reason so the summary line shows how much of
// the exchange the team and prediction tables actually cover; unknown
// collects collaborator errors (exchange, store) that stopped a market.
type sweepStats struct {
	markets      int
	unresolved   int
	noIdentity   int
	noPrediction int
	unknown      int
	staked       int
}

// Sweep performs one scan cycle over every live event. A failure on one
// market never aborts the cycle; it is counted and the sweep moves on.
func (e *Engine) Sweep(ctx context.Context) {
	events, err := e.exchange.ListEvents(ctx)
	if err != nil {
		slog.Error("Listing events failed", "err", err)
		return
	}
	var stats sweepStats

	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		e.sweepEvent(ctx, event, &stats)
	}

	slog.Info("Sweep complete",
		"events", len(events), "markets", stats.markets,
		"unresolved", stats.unresolved, "noIdentity", stats.noIdentity,
		"noPrediction", stats.noPrediction, "unknown", stats.unknown,
		"staked", stats.staked)
}

func (e *Engine) sweepEvent(ctx context.Context, event betfair.Event, stats *sweepStats) {
	cat, err := e.exchange.ListMarketCatalogue(ctx, event.ID)
	if err != nil {
		stats.unknown++
		slog.Error("Catalogue fetch failed", "event", event.Name, "err", err)
		return
	}
	if cat == nil {
		return
	}

	book, err := e.exchange.ListMarketBook(ctx, cat.MarketID)
	if err != nil {
		stats.unknown++
		slog.Error("Book fetch failed", "market", cat.MarketID, "err", err)
		return
	}
	if book == nil || book.Status != "OPEN" {
		return
	}

	stats.markets++

	raw := make([]market.RawRunner, 0, len(cat.Runners))
	for _, r := range cat.Runners {
		raw = append(raw, market.RawRunner{SelectionID: r.SelectionID, Name: r.RunnerName})
	}

	ev := market.Event{ID: event.ID, Name: event.Name, OpenDate: event.OpenDate}
	m, failure, err := e.builder.Build(cat.MarketID, ev, book.TotalMatched, raw)
	if err != nil {
		stats.unknown++
		slog.Error("Market build failed", "market", cat.MarketID, "err", err)
		return
	}
	if failure != nil {
		switch failure.Reason {
		case market.ReasonUnresolved:
			stats.unresolved++
			slog.Debug("Runner unresolved", "event", event.Name, "runner", failure.RunnerName)
		case market.ReasonNoIdentity:
			stats.noIdentity++
			slog.Debug("Team identity unknown", "event", event.Name)
		case market.ReasonNoPrediction:
			stats.noPrediction++
			slog.Debug("No prediction", "event", event.Name, "date", failure.FixtureDate, "tried", failure.TriedIDs)
		}
		return
	}

	attachPrices(m, book)

	opp, ok := analysis.Select(m, e.analysisCfg)
	if !ok {
		return
	}

	league, err := e.db.FindLeague(m.FixtureDate, m.HomeTeamID)
	if err != nil {
		slog.Error("League lookup failed", "event", event.Name, "err", err)
	}
	opp.LeagueID = league

	decision, err := e.staker.Stake(ctx, m, opp)
	if err != nil {
		stats.unknown++
		slog.Error("Staking failed", "event", event.Name, "err", err)
		return
	}
	if decision == Accepted {
		stats.staked++
	} else {
		slog.Info("Opportunity not staked",
			"event", event.Name, "side", opp.Side, "edge", opp.Edge, "decision", decision)
	}
}

// attachPrices copies the best offers from the live book onto the
// reconciled runners. Runners missing from the book keep zero prices and
// are skipped by edge evaluation.
func attachPrices(m *market.Market, book *betfair.MarketBook) {
	byID := make(map[int64]betfair.RunnerBook, len(book.Runners))
	for _, r := range book.Runners {
		byID[r.SelectionID] = r
	}
	for i := range m.Runners {
		r, ok := byID[m.Runners[i].SelectionID]
		if !ok {
			continue
		}
		m.Runners[i].BackPrice, m.Runners[i].BackSize = r.BestBack()
		m.Runners[i].LayPrice, m.Runners[i].LaySize = r.BestLay()
	}
}
