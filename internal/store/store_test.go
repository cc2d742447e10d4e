package store

import (
	"testing"
	"time"

	"github.com/Football-Analysis/football-betting-bot/internal/market"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFindTeamIDs(t *testing.T) {
	s := openTestStore(t)

	if err := s.InsertTeam(42, "Arsenal"); err != nil {
		t.Fatal(err)
	}
	// Same display name in another competition.
	if err := s.InsertTeam(43, "Arsenal"); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertTeam(7, "Chelsea"); err != nil {
		t.Fatal(err)
	}

	ids, err := s.FindTeamIDs("Arsenal")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 42 || ids[1] != 43 {
		t.Errorf("FindTeamIDs(Arsenal) = %v, want [42 43]", ids)
	}

	ids, err = s.FindTeamIDs("Arsenal FC")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("lookup is exact match only, got %v", ids)
	}
}

func TestFindPrediction(t *testing.T) {
	s := openTestStore(t)

	pred := market.Prediction{HomeWin: 0.5, AwayWin: 0.3, Draw: 0.2}
	if err := s.InsertPrediction("2026-09-05", 42, pred); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindPrediction("2026-09-05", 42)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != pred {
		t.Errorf("FindPrediction = %+v, want %+v", got, pred)
	}

	got, err = s.FindPrediction("2026-09-05", 99)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("missing prediction should be nil, got %+v", got)
	}
}

func TestFindLeague(t *testing.T) {
	s := openTestStore(t)

	if err := s.InsertLeague("2026-09-05", 42, 39); err != nil {
		t.Fatal(err)
	}

	id, err := s.FindLeague("2026-09-05", 42)
	if err != nil {
		t.Fatal(err)
	}
	if id != 39 {
		t.Errorf("FindLeague = %d, want 39", id)
	}

	id, err = s.FindLeague("2026-09-05", 99)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Errorf("unknown fixture should return 0, got %d", id)
	}
}

func TestBetLedgerUniquePerFixture(t *testing.T) {
	s := openTestStore(t)

	placedAt := time.Date(2026, 9, 5, 14, 30, 0, 0, time.UTC)
	bet := Bet{
		FixtureDate: "2026-09-05",
		HomeTeamID:  42,
		Team:        42,
		TeamName:    "Arsenal",
		Price:       2.7,
		Stake:       10,
		Side:        "BACK",
		PlacedAt:    placedAt,
	}

	exists, err := s.BetExists(bet.FixtureDate, bet.HomeTeamID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("BetExists true on empty ledger")
	}

	if _, err := s.InsertBet(bet); err != nil {
		t.Fatal(err)
	}

	exists, err = s.BetExists(bet.FixtureDate, bet.HomeTeamID)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("BetExists false after insert")
	}

	// The unique index backs the at-most-one-bet invariant at the
	// storage layer.
	if _, err := s.InsertBet(bet); err == nil {
		t.Error("second insert for the same fixture should fail")
	}

	bets, err := s.ListBets()
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 1 {
		t.Fatalf("ledger has %d bets, want 1", len(bets))
	}
	if bets[0].TeamName != "Arsenal" || bets[0].Side != "BACK" {
		t.Errorf("ListBets[0] = %+v", bets[0])
	}
	// The ledger keeps the staking-time stamp, not an insert-time default.
	if !bets[0].PlacedAt.Equal(placedAt) {
		t.Errorf("PlacedAt = %v, want %v", bets[0].PlacedAt, placedAt)
	}
}

func TestBankrollAppendOnly(t *testing.T) {
	s := openTestStore(t)

	latest, err := s.LatestBankroll()
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Fatalf("empty ledger should return nil, got %+v", latest)
	}

	t0 := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	snapshots := []Bankroll{
		{AsOf: t0, Total: 1000, AmountInPlay: 0},
		{AsOf: t0.Add(time.Hour), Total: 1000, AmountInPlay: 10},
		{AsOf: t0.Add(2 * time.Hour), Total: 1000, AmountInPlay: 20},
	}
	for _, b := range snapshots {
		if err := s.AppendBankroll(b); err != nil {
			t.Fatal(err)
		}
	}

	latest, err = s.LatestBankroll()
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.AmountInPlay != 20 {
		t.Errorf("LatestBankroll = %+v, want AmountInPlay 20", latest)
	}
	if latest.Free() != 980 {
		t.Errorf("Free = %v, want 980", latest.Free())
	}

	history, err := s.BankrollHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d rows, want 3", len(history))
	}
	if history[0].AmountInPlay != 0 || history[2].AmountInPlay != 20 {
		t.Errorf("history out of order: %+v", history)
	}
}
