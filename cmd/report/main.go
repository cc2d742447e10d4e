// Command report prints the bet ledger and bankroll history from the
// bot's database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/Football-Analysis/football-betting-bot/internal/config"
	"github.com/Football-Analysis/football-betting-bot/internal/store"
)

func main() {
	dbPath := flag.String("db", config.DefaultDBPath, "path to the bot database")
	showBankroll := flag.Bool("bankroll", false, "print bankroll history instead of bets")
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Opening database: %v", err)
	}
	defer db.Close()

	if *showBankroll {
		if err := printBankroll(db); err != nil {
			log.Fatalf("Printing bankroll: %v", err)
		}
		return
	}

	if err := printBets(db); err != nil {
		log.Fatalf("Printing bets: %v", err)
	}
}

func printBets(db *store.Store) error {
	bets, err := db.ListBets()
	if err != nil {
		return err
	}
	if len(bets) == 0 {
		fmt.Println("No bets recorded.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Side", "Team", "Price", "Stake", "Placed")

	var staked float64
	for _, bet := range bets {
		table.Append(
			bet.FixtureDate,
			bet.Side,
			bet.TeamName,
			fmt.Sprintf("%.2f", bet.Price),
			fmt.Sprintf("%.2f", bet.Stake),
			bet.PlacedAt.Format("2006-01-02 15:04"),
		)
		staked += bet.Stake
	}
	table.Render()

	fmt.Printf("\n%d bets, %.2f staked\n", len(bets), staked)
	return nil
}

func printBankroll(db *store.Store) error {
	history, err := db.BankrollHistory()
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("No bankroll recorded.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("As Of", "Total", "In Play", "Free")

	for _, b := range history {
		table.Append(
			b.AsOf.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", b.Total),
			fmt.Sprintf("%.2f", b.AmountInPlay),
			fmt.Sprintf("%.2f", b.Free()),
		)
	}
	table.Render()

	return nil
}
