package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Football-Analysis/football-betting-bot/internal/market"
)

// Bet is one staking decision for a fixture. At most one bet may exist per
// (fixture_date, home_team_id); the schema enforces this with a unique
// index so a concurrent second writer fails the insert instead of
// double-staking.
type Bet struct {
	ID          int64
	FixtureDate string
	HomeTeamID  int
	Team        int    // team id backed or laid; 0 for the draw
	TeamName    string
	Price       float64 // stored price; lay bets store the back-equivalent
	Stake       float64
	Side        string // "BACK" or "LAY"
	PlacedAt    time.Time
}

// Bankroll is one snapshot of the shared bankroll. The ledger is
// append-only: every staking decision writes a new row and the current
// bankroll is the most recent row.
type Bankroll struct {
	AsOf         time.Time
	Total        float64
	AmountInPlay float64
}

// Free returns the capital not currently tied up in open bets.
func (b Bankroll) Free() float64 {
	return b.Total - b.AmountInPlay
}

// Store wraps the bot's sqlite database: team identities, model
// predictions, the league table, the bet ledger and bankroll snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		team_id INTEGER NOT NULL,
		name TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name);

	CREATE TABLE IF NOT EXISTS predictions (
		fixture_date TEXT NOT NULL,
		home_team_id INTEGER NOT NULL,
		home_win REAL NOT NULL,
		away_win REAL NOT NULL,
		draw REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_fixture ON predictions(fixture_date, home_team_id);

	CREATE TABLE IF NOT EXISTS leagues (
		fixture_date TEXT NOT NULL,
		home_team_id INTEGER NOT NULL,
		league_id INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leagues_fixture ON leagues(fixture_date, home_team_id);

	CREATE TABLE IF NOT EXISTS bets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fixture_date TEXT NOT NULL,
		home_team_id INTEGER NOT NULL,
		team INTEGER NOT NULL,
		team_name TEXT NOT NULL,
		price REAL NOT NULL,
		stake REAL NOT NULL,
		side TEXT NOT NULL,
		placed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_bets_fixture ON bets(fixture_date, home_team_id);

	CREATE TABLE IF NOT EXISTS bankroll (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		as_of DATETIME NOT NULL,
		total REAL NOT NULL,
		amount_in_play REAL NOT NULL
	);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindTeamIDs returns the distinct team ids registered under an exact
// display name. Ambiguous names across competitions return several ids.
func (s *Store) FindTeamIDs(name string) ([]int, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT team_id FROM teams WHERE name = ? ORDER BY team_id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning team id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// FindPrediction returns the model's probability triple for a fixture, or
// nil if the model has not produced one yet.
func (s *Store) FindPrediction(fixtureDate string, homeTeamID int) (*market.Prediction, error) {
	row := s.db.QueryRow(`
		SELECT home_win, away_win, draw FROM predictions
		WHERE fixture_date = ? AND home_team_id = ?
	`, fixtureDate, homeTeamID)

	var p market.Prediction
	err := row.Scan(&p.HomeWin, &p.AwayWin, &p.Draw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning prediction: %w", err)
	}

	return &p, nil
}

// FindLeague returns the league id a fixture belongs to, or 0 if unknown.
func (s *Store) FindLeague(fixtureDate string, homeTeamID int) (int, error) {
	row := s.db.QueryRow(`
		SELECT league_id FROM leagues
		WHERE fixture_date = ? AND home_team_id = ?
	`, fixtureDate, homeTeamID)

	var id int
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scanning league: %w", err)
	}

	return id, nil
}

// BetExists reports whether a bet has already been placed on a fixture.
func (s *Store) BetExists(fixtureDate string, homeTeamID int) (bool, error) {
	row := s.db.QueryRow(`
		SELECT COUNT(1) FROM bets
		WHERE fixture_date = ? AND home_team_id = ?
	`, fixtureDate, homeTeamID)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("checking bet: %w", err)
	}
	return n > 0, nil
}

// InsertBet appends a bet to the ledger. A zero PlacedAt is stamped with
// the current time.
func (s *Store) InsertBet(bet Bet) (int64, error) {
	if bet.PlacedAt.IsZero() {
		bet.PlacedAt = time.Now()
	}
	result, err := s.db.Exec(`
		INSERT INTO bets (fixture_date, home_team_id, team, team_name, price, stake, side, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, bet.FixtureDate, bet.HomeTeamID, bet.Team, bet.TeamName, bet.Price, bet.Stake, bet.Side, bet.PlacedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting bet: %w", err)
	}

	return result.LastInsertId()
}

// ListBets returns every bet in the ledger, most recent first.
func (s *Store) ListBets() ([]Bet, error) {
	rows, err := s.db.Query(`
		SELECT id, fixture_date, home_team_id, team, team_name, price, stake, side, placed_at
		FROM bets
		ORDER BY placed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bets: %w", err)
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.FixtureDate, &b.HomeTeamID, &b.Team, &b.TeamName,
			&b.Price, &b.Stake, &b.Side, &b.PlacedAt); err != nil {
			return nil, fmt.Errorf("scanning bet row: %w", err)
		}
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// LatestBankroll returns the most recent bankroll snapshot, or nil if the
// ledger is empty.
func (s *Store) LatestBankroll() (*Bankroll, error) {
	row := s.db.QueryRow(`
		SELECT as_of, total, amount_in_play FROM bankroll
		ORDER BY as_of DESC, id DESC LIMIT 1
	`)

	var b Bankroll
	err := row.Scan(&b.AsOf, &b.Total, &b.AmountInPlay)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning bankroll: %w", err)
	}

	return &b, nil
}

// AppendBankroll writes a new bankroll snapshot. Snapshots are never
// updated in place; the history is the audit trail.
func (s *Store) AppendBankroll(b Bankroll) error {
	_, err := s.db.Exec(`
		INSERT INTO bankroll (as_of, total, amount_in_play)
		VALUES (?, ?, ?)
	`, b.AsOf, b.Total, b.AmountInPlay)
	if err != nil {
		return fmt.Errorf("appending bankroll: %w", err)
	}
	return nil
}

// BankrollHistory returns every bankroll snapshot, oldest first.
func (s *Store) BankrollHistory() ([]Bankroll, error) {
	rows, err := s.db.Query(`
		SELECT as_of, total, amount_in_play FROM bankroll
		ORDER BY as_of ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bankroll history: %w", err)
	}
	defer rows.Close()

	var history []Bankroll
	for rows.Next() {
		var b Bankroll
		if err := rows.Scan(&b.AsOf, &b.Total, &b.AmountInPlay); err != nil {
			return nil, fmt.Errorf("scanning bankroll row: %w", err)
		}
		history = append(history, b)
	}

	return history, rows.Err()
}

// InsertTeam registers a team id under a display name. Used by seeding
// tools and tests; the bot itself only reads teams.
func (s *Store) InsertTeam(teamID int, name string) error {
	_, err := s.db.Exec(`INSERT INTO teams (team_id, name) VALUES (?, ?)`, teamID, name)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

// InsertPrediction stores a model output for a fixture.
func (s *Store) InsertPrediction(fixtureDate string, homeTeamID int, p market.Prediction) error {
	_, err := s.db.Exec(`
		INSERT INTO predictions (fixture_date, home_team_id, home_win, away_win, draw)
		VALUES (?, ?, ?, ?, ?)
	`, fixtureDate, homeTeamID, p.HomeWin, p.AwayWin, p.Draw)
	if err != nil {
		return fmt.Errorf("inserting prediction: %w", err)
	}
	return nil
}

// InsertLeague records which league a fixture belongs to.
func (s *Store) InsertLeague(fixtureDate string, homeTeamID, leagueID int) error {
	_, err := s.db.Exec(`
		INSERT INTO leagues (fixture_date, home_team_id, league_id)
		VALUES (?, ?, ?)
	`, fixtureDate, homeTeamID, leagueID)
	if err != nil {
		return fmt.Errorf("inserting league: %w", err)
	}
	return nil
}
