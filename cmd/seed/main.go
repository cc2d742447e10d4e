// Command seed loads teams, predictions, league assignments and an
// opening bankroll into the bot's database from a YAML file. The model
// pipeline that produces the file runs elsewhere; this command only
// imports its output.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Football-Analysis/football-betting-bot/internal/config"
	"github.com/Football-Analysis/football-betting-bot/internal/market"
	"github.com/Football-Analysis/football-betting-bot/internal/store"
)

type seedFile struct {
	Teams []struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"teams"`

	Predictions []struct {
		FixtureDate string  `yaml:"fixture_date"`
		HomeTeamID  int     `yaml:"home_team_id"`
		HomeWin     float64 `yaml:"home_win"`
		AwayWin     float64 `yaml:"away_win"`
		Draw        float64 `yaml:"draw"`
	} `yaml:"predictions"`

	Leagues []struct {
		FixtureDate string `yaml:"fixture_date"`
		HomeTeamID  int    `yaml:"home_team_id"`
		LeagueID    int    `yaml:"league_id"`
	} `yaml:"leagues"`

	Bankroll *float64 `yaml:"bankroll"`
}

func main() {
	dbPath := flag.String("db", config.DefaultDBPath, "path to the bot database")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: seed [-db path] <seed.yaml>")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Reading seed file: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("Parsing seed file: %v", err)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Opening database: %v", err)
	}
	defer db.Close()

	if err := load(db, seed); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d teams, %d predictions, %d leagues\n",
		len(seed.Teams), len(seed.Predictions), len(seed.Leagues))
}

func load(db *store.Store, seed seedFile) error {
	for _, t := range seed.Teams {
		if err := db.InsertTeam(t.ID, t.Name); err != nil {
			return fmt.Errorf("inserting team %d: %w", t.ID, err)
		}
	}

	for _, p := range seed.Predictions {
		pred := market.Prediction{HomeWin: p.HomeWin, AwayWin: p.AwayWin, Draw: p.Draw}
		if err := db.InsertPrediction(p.FixtureDate, p.HomeTeamID, pred); err != nil {
			return fmt.Errorf("inserting prediction (%s, %d): %w", p.FixtureDate, p.HomeTeamID, err)
		}
	}

	for _, l := range seed.Leagues {
		if err := db.InsertLeague(l.FixtureDate, l.HomeTeamID, l.LeagueID); err != nil {
			return fmt.Errorf("inserting league (%s, %d): %w", l.FixtureDate, l.HomeTeamID, err)
		}
	}

	if seed.Bankroll != nil {
		current, err := db.LatestBankroll()
		if err != nil {
			return fmt.Errorf("reading bankroll: %w", err)
		}
		if current != nil {
			return fmt.Errorf("bankroll already recorded (%.2f total); refusing to overwrite", current.Total)
		}
		if err := db.AppendBankroll(store.Bankroll{AsOf: time.Now(), Total: *seed.Bankroll}); err != nil {
			return fmt.Errorf("recording bankroll: %w", err)
		}
		fmt.Printf("Opening bankroll: %.2f\n", *seed.Bankroll)
	}

	return nil
}
