package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Football-Analysis/football-betting-bot/internal/alerts"
	"github.com/Football-Analysis/football-betting-bot/internal/analysis"
	"github.com/Football-Analysis/football-betting-bot/internal/betfair"
	"github.com/Football-Analysis/football-betting-bot/internal/config"
	"github.com/Football-Analysis/football-betting-bot/internal/engine"
	"github.com/Football-Analysis/football-betting-bot/internal/market"
	"github.com/Football-Analysis/football-betting-bot/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	setupLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Loading configuration: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Opening database: %v", err)
	}
	defer db.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, stopping")
		cancel()
	}()

	exchange, err := betfair.NewClient(ctx, betfair.Config{
		AppKey:    cfg.Betfair.AppKey,
		Username:  cfg.Betfair.Username,
		Password:  cfg.Betfair.Password,
		CertFile:  cfg.Betfair.CertFile,
		KeyFile:   cfg.Betfair.KeyFile,
		Countries: cfg.Betfair.Countries,
	})
	if err != nil {
		log.Fatalf("Exchange login: %v", err)
	}

	var notifier *alerts.Notifier
	if cfg.SMTP.Host != "" {
		notifier = alerts.NewNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.Recipients, cfg.SMTP.AlertCooldown())
	}

	bankroll, err := db.LatestBankroll()
	if err != nil {
		log.Fatalf("Reading bankroll: %v", err)
	}
	if bankroll == nil {
		log.Fatal("No bankroll recorded; seed the bankroll table before starting")
	}

	staker := engine.NewStaker(db, exchange, notifier, engine.StakeConfig{
		RiskFraction:  cfg.RiskFraction,
		VetoedLeagues: cfg.VetoedLeagues,
	})

	analysisCfg := analysis.Config{EdgeThreshold: cfg.EdgeThreshold}
	eng := engine.New(exchange, market.NewBuilder(db), db, staker, notifier, analysisCfg, cfg.PollInterval())

	slog.Info("Bot starting",
		"db", cfg.DBPath, "poll", cfg.PollInterval(),
		"edgeThreshold", cfg.EdgeThreshold, "riskFraction", cfg.RiskFraction,
		"vetoedLeagues", cfg.VetoedLeagues,
		"bankroll", bankroll.Total, "inPlay", bankroll.AmountInPlay,
		"mail", cfg.SMTP.Host != "")

	go startHealthServer()

	eng.Run(ctx)
}

func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func startHealthServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Health server stopped", "err", err)
	}
}
