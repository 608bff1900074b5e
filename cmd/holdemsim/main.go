// Command holdemsim seats persona agents at one table, plays hands between them
// and records every hand in the ledger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"holdem-arena/holdem"
	"holdem-arena/holdem/agent"
	"holdem-arena/ledger"
	"holdem-arena/replay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := loadConfig(args, os.Stderr)
	if err != nil {
		return err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.logLevel())

	if cfg.SpecFile != "" {
		return runSpec(cfg.SpecFile)
	}

	store, err := ledger.Open(cfg.LedgerDriver, cfg.LedgerDSN)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()
	logger.Infof("[Sim] ledger driver: %s", cfg.LedgerDriver)

	if cfg.ReplayHand != "" {
		return runReplay(ctx, store, cfg.ReplayHand)
	}
	return simulate(ctx, cfg, store, logger)
}

func loadRegistry(path string) (*agent.PersonaRegistry, error) {
	if path == "" {
		return agent.DefaultRegistry(), nil
	}
	reg := agent.NewRegistry()
	if err := reg.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}
	return reg, nil
}

// seatAgents fills seats 0..n-1 with personas in ID order, numbering repeats.
func seatAgents(game *holdem.Game, roster *agent.Roster, n int, chips int64) error {
	personas := roster.Registry().All()
	if len(personas) == 0 {
		return fmt.Errorf("no personas available")
	}
	for seat := 0; seat < n; seat++ {
		p := *personas[seat%len(personas)]
		if round := seat / len(personas); round > 0 {
			p.Name = fmt.Sprintf("%s #%d", p.Name, round+1)
		}
		if _, err := roster.Spawn(game, seat, &p, chips); err != nil {
			return err
		}
	}
	return nil
}

func simulate(ctx context.Context, cfg simConfig, store ledger.Store, logger logrus.FieldLogger) error {
	reg, err := loadRegistry(cfg.PersonasFile)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers: cfg.Players,
		MinPlayers: 2,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Seed:       seed,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	roster := agent.NewRoster(reg, seed, logger)
	if err := seatAgents(game, roster, cfg.Players, cfg.Chips); err != nil {
		return err
	}

	tableID := "sim-" + uuid.NewString()
	recorder := ledger.NewRecorder(store, tableID, logger)
	expected := game.TotalChips()
	pterm.Info.Printfln("Table %s: %d players, %d chips each, blinds %d/%d, seed %d",
		tableID, cfg.Players, cfg.Chips, cfg.SmallBlind, cfg.BigBlind, seed)

	played := 0
	for played < cfg.Hands {
		if ctx.Err() != nil {
			pterm.Warning.Println("Interrupted, stopping after the current hand")
			break
		}
		res, err := game.PlayHand(ctx, roster.Deciders())
		if errors.Is(err, holdem.ErrNotEnoughPlayers) {
			break
		}
		if err != nil {
			return fmt.Errorf("hand %d: %w", game.HandNumber(), err)
		}
		played++
		records := game.HandAudit(game.HandNumber())
		handID := recorder.RecordHand(ctx, records, res)
		if !cfg.Quiet {
			renderHand(handID, records, res)
		}
		if total := game.TotalChips(); total != expected {
			return fmt.Errorf("chip conservation broken after hand %d: %d != %d", game.HandNumber(), total, expected)
		}
	}

	renderStandings(game.Snapshot(), roster)
	pterm.Success.Printfln("Played %d hands on table %s", played, tableID)
	return nil
}

func runReplay(ctx context.Context, store ledger.Store, handID string) error {
	item, err := store.Hand(ctx, handID)
	if err != nil {
		return fmt.Errorf("hand %s: %w", handID, err)
	}
	records, err := store.HandRecords(ctx, handID)
	if err != nil {
		return fmt.Errorf("hand %s records: %w", handID, err)
	}
	tape, err := replay.FromRecords(item.TableID, records, item.Result)
	if err != nil {
		return err
	}
	return renderTape(handID, tape)
}

func runSpec(path string) error {
	spec, err := replay.LoadHandSpec(path)
	if err != nil {
		return err
	}
	tape, err := replay.Generate(spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			renderReplayError(replayErr)
		}
		return err
	}
	return renderTape(path, tape)
}
