package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type simConfig struct {
	Hands      int
	Players    int
	Chips      int64
	SmallBlind int64
	BigBlind   int64
	Seed       int64

	LedgerDriver string
	LedgerDSN    string
	PersonasFile string
	LogLevel     string

	// ReplayHand prints a stored hand instead of simulating.
	ReplayHand string
	// SpecFile replays a HandSpec JSON file.
	SpecFile string
	Quiet    bool
}

func defaultConfig() simConfig {
	return simConfig{
		Hands:        20,
		Players:      6,
		Chips:        1000,
		SmallBlind:   5,
		BigBlind:     10,
		LedgerDriver: "sqlite",
		LogLevel:     "info",
	}
}

// loadConfig layers defaults < environment (.env included) < flags.
func loadConfig(args []string, stderr io.Writer) (simConfig, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	cfg := defaultConfig()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("holdemsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Hands, "hands", cfg.Hands, "number of hands to play")
	fs.IntVar(&cfg.Players, "players", cfg.Players, "number of agents at the table")
	fs.Int64Var(&cfg.Chips, "chips", cfg.Chips, "starting stack per agent")
	fs.Int64Var(&cfg.SmallBlind, "sb", cfg.SmallBlind, "small blind")
	fs.Int64Var(&cfg.BigBlind, "bb", cfg.BigBlind, "big blind")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "rng seed (0 = time based)")
	fs.StringVar(&cfg.LedgerDriver, "ledger", cfg.LedgerDriver, "ledger driver: sqlite, postgres or none")
	fs.StringVar(&cfg.LedgerDSN, "dsn", cfg.LedgerDSN, "ledger dsn or sqlite path")
	fs.StringVar(&cfg.PersonasFile, "personas", cfg.PersonasFile, "persona JSON file (default: built-in)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "logrus level")
	fs.StringVar(&cfg.ReplayHand, "replay", "", "print a stored hand by hand id and exit")
	fs.StringVar(&cfg.SpecFile, "spec", "", "replay a HandSpec JSON file and exit")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "only print the final standings")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *simConfig) applyEnv(getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"HOLDEM_HANDS", &c.Hands},
		{"HOLDEM_PLAYERS", &c.Players},
	}
	for _, e := range ints {
		if v := strings.TrimSpace(getenv(e.key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}
	int64s := []struct {
		key string
		dst *int64
	}{
		{"HOLDEM_CHIPS", &c.Chips},
		{"HOLDEM_SB", &c.SmallBlind},
		{"HOLDEM_BB", &c.BigBlind},
		{"HOLDEM_SEED", &c.Seed},
	}
	for _, e := range int64s {
		if v := strings.TrimSpace(getenv(e.key)); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"LEDGER_DRIVER", &c.LedgerDriver},
		{"LEDGER_DSN", &c.LedgerDSN},
		{"PERSONAS_FILE", &c.PersonasFile},
		{"LOG_LEVEL", &c.LogLevel},
	}
	for _, e := range strs {
		if v := strings.TrimSpace(getenv(e.key)); v != "" {
			*e.dst = v
		}
	}
	return nil
}

func (c simConfig) validate() error {
	if c.Hands <= 0 {
		return fmt.Errorf("hands must be > 0")
	}
	if c.Players < 2 {
		return fmt.Errorf("players must be >= 2")
	}
	if c.Chips <= 0 {
		return fmt.Errorf("chips must be > 0")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c simConfig) logLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
