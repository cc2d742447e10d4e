package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for configuration values.
const (
	DefaultEdgeThreshold        = 0.20
	DefaultRiskFraction         = 0.01
	DefaultPollIntervalSeconds  = 60
	DefaultDBPath               = "data/betting.db"
	DefaultAlertCooldownMinutes = 30
	DefaultSMTPPort             = 587
)

// BetfairConfig holds the exchange credentials. The certificate pair is
// required: the exchange only accepts non-interactive logins over cert
// authentication.
type BetfairConfig struct {
	AppKey    string   `yaml:"app_key"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	CertFile  string   `yaml:"cert_file"`
	KeyFile   string   `yaml:"key_file"`
	Countries []string `yaml:"countries"`
}

// SMTPConfig holds the alert mail settings. An empty host disables mail.
type SMTPConfig struct {
	Host                 string   `yaml:"host"`
	Port                 int      `yaml:"port"`
	Username             string   `yaml:"username"`
	Password             string   `yaml:"password"`
	Recipients           []string `yaml:"recipients"`
	AlertCooldownMinutes int      `yaml:"alert_cooldown_minutes"`
}

// AlertCooldown returns the dedupe window as a time.Duration.
func (c SMTPConfig) AlertCooldown() time.Duration {
	return time.Duration(c.AlertCooldownMinutes) * time.Minute
}

// Config holds all application configuration.
type Config struct {
	Betfair BetfairConfig `yaml:"betfair"`
	SMTP    SMTPConfig    `yaml:"smtp"`

	DBPath              string  `yaml:"db_path"`
	EdgeThreshold       float64 `yaml:"edge_threshold"`
	RiskFraction        float64 `yaml:"risk_fraction"`
	VetoedLeagues       []int   `yaml:"vetoed_leagues"`
	PollIntervalSeconds int     `yaml:"poll_interval_seconds"`
}

// PollInterval returns the sweep cadence as a time.Duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Load reads configuration from a YAML file (optional), then applies
// environment variable overrides (and a .env file if present). Secrets
// belong in the environment; the YAML file carries the rest.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		DBPath:              DefaultDBPath,
		EdgeThreshold:       DefaultEdgeThreshold,
		RiskFraction:        DefaultRiskFraction,
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		SMTP: SMTPConfig{
			Port:                 DefaultSMTPPort,
			AlertCooldownMinutes: DefaultAlertCooldownMinutes,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BETFAIR_APP_KEY"); v != "" {
		cfg.Betfair.AppKey = v
	}
	if v := os.Getenv("BETFAIR_USERNAME"); v != "" {
		cfg.Betfair.Username = v
	}
	if v := os.Getenv("BETFAIR_PASSWORD"); v != "" {
		cfg.Betfair.Password = v
	}
	if v := os.Getenv("BETFAIR_CERT_FILE"); v != "" {
		cfg.Betfair.CertFile = v
	}
	if v := os.Getenv("BETFAIR_KEY_FILE"); v != "" {
		cfg.Betfair.KeyFile = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = n
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("EDGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.EdgeThreshold = f
		}
	}
	if v := os.Getenv("RISK_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RiskFraction = f
		}
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalSeconds = n
		}
	}
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.Betfair.AppKey == "" {
		return fmt.Errorf("BETFAIR_APP_KEY must be set")
	}
	if cfg.Betfair.Username == "" || cfg.Betfair.Password == "" {
		return fmt.Errorf("BETFAIR_USERNAME and BETFAIR_PASSWORD must be set")
	}
	if cfg.Betfair.CertFile == "" || cfg.Betfair.KeyFile == "" {
		return fmt.Errorf("BETFAIR_CERT_FILE and BETFAIR_KEY_FILE must be set")
	}
	if cfg.EdgeThreshold < 0 || cfg.EdgeThreshold > 1 {
		return fmt.Errorf("edge_threshold must be between 0 and 1, got %f", cfg.EdgeThreshold)
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1 {
		return fmt.Errorf("risk_fraction must be between 0 and 1, got %f", cfg.RiskFraction)
	}
	if cfg.PollIntervalSeconds < 1 {
		return fmt.Errorf("poll_interval_seconds must be at least 1, got %d", cfg.PollIntervalSeconds)
	}
	if cfg.SMTP.Host != "" && len(cfg.SMTP.Recipients) == 0 {
		return fmt.Errorf("smtp recipients must be set when smtp host is set")
	}
	return nil
}
