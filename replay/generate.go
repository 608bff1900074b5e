package replay

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"holdem-arena/holdem"
	"holdem-arena/ledger"
)

const (
	defaultTableID = "replay_local"
	tapeVersion    = 1
)

// Generate plays spec on a fresh engine and returns the resulting tape. The same
// spec always yields the same tape. Any setup or action problem is a *ReplayError.
func Generate(spec HandSpec) (*Tape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	seed := ns.seed
	if seed == 0 {
		// 牌序已固定，种子只是为了不走时间随机
		seed = 1
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers:   ns.table.MaxPlayers,
		MinPlayers:   2,
		SmallBlind:   ns.table.SB,
		BigBlind:     ns.table.BB,
		MinRaise:     ns.table.MinRaise,
		Seed:         seed,
		DealerSeat:   &ns.dealerSeat,
		DeckOverride: ns.deck,
		Logger:       logger,
	})
	if err != nil {
		return nil, setupError("engine_init_failed", "%v", err)
	}
	for _, s := range ns.seats {
		if err := game.SitDown(s.seat, s.name, s.chips); err != nil {
			return nil, setupError("seat_init_failed", "%v", err)
		}
	}
	if err := game.StartHand(); err != nil {
		return nil, setupError("start_hand_failed", "%v", err)
	}

	result := game.Result()
	for step, a := range ns.actions {
		if result != nil {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    "no_action_expected",
				Message:   "hand is already complete; no further actions are allowed",
			}
		}
		snap := game.Snapshot()
		if a.stage != holdem.StageNone && a.stage != snap.Stage {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    "stage_mismatch",
				Message:   fmt.Sprintf("expected stage %s, got %s", snap.Stage, a.stage),
				Expected:  &ExpectedState{ActionSeat: snap.ActionSeat, Stage: snap.Stage.String()},
			}
		}
		if snap.ActionSeat != a.seat {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("expected action seat %d, got %d", snap.ActionSeat, a.seat),
				Expected:  expectedState(game, snap),
			}
		}
		legal, err := game.LegalActions(a.seat)
		if err != nil || !legal.Has(a.action) {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    "illegal_action",
				Message:   fmt.Sprintf("action %s is not legal for seat %d", a.action, a.seat),
				Expected:  expectedState(game, snap),
			}
		}

		res, err := game.Act(a.seat, holdem.GamePlayerAction{Action: a.action, Amount: a.amount, Reason: a.reason})
		if err != nil {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    "action_apply_failed",
				Message:   err.Error(),
				Expected:  expectedState(game, snap),
			}
		}
		result = res
	}

	events, err := ledger.EncodeEvents(game.HandAudit(game.HandNumber()))
	if err != nil {
		return nil, setupError("encode_failed", "%v", err)
	}
	return &Tape{
		TapeVersion: tapeVersion,
		TableID:     defaultTableID,
		Complete:    result != nil,
		Events:      events,
		Result:      result,
	}, nil
}

// FromRecords builds a tape from stored audit records, e.g. a hand loaded from the ledger.
func FromRecords(tableID string, records []holdem.AuditRecord, result *holdem.GameResult) (*Tape, error) {
	events, err := ledger.EncodeEvents(records)
	if err != nil {
		return nil, err
	}
	complete := false
	for _, r := range records {
		if r.Kind == holdem.RecordPotAward {
			complete = true
		}
	}
	return &Tape{
		TapeVersion: tapeVersion,
		TableID:     tableID,
		Complete:    complete,
		Events:      events,
		Result:      result,
	}, nil
}

func expectedState(g *holdem.Game, snap holdem.Snapshot) *ExpectedState {
	out := &ExpectedState{ActionSeat: snap.ActionSeat, Stage: snap.Stage.String()}
	if snap.ActionSeat == holdem.InvalidSeat {
		return out
	}
	legal, err := g.LegalActions(snap.ActionSeat)
	if err != nil {
		return out
	}
	out.LegalActions = legal.Actions
	out.CallAmount = legal.CallAmount
	out.MinRaise = legal.MinRaise
	out.MaxRaise = legal.MaxRaise
	return out
}
