package holdem

import (
	"errors"
	"testing"

	"holdem-arena/card"
)

// 100/500/500 全押：短码赢主池 300，另外两人平分边池 800
func TestShowdown_ShortStackWinsMainPotOthersSplitSidePot(t *testing.T) {
	deck := deckWithPrefix(
		card.CardClub2, card.CardDiamond2, card.CardSpadeA, // first round from SB (seat 1)
		card.CardDiamond7, card.CardClub7, card.CardHeartA, // second round
		card.CardClubA, card.CardDiamondK, card.CardSpadeQ, // flop
		card.CardHeart3, // turn
		card.CardSpade9, // river
	)
	g := newTable(t, Config{SmallBlind: 5, BigBlind: 10, DealerSeat: seatPtr(0), DeckOverride: deck}, 100, 500, 500)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	mustAct(t, g, 0, ActionAllIn, 0)
	mustAct(t, g, 1, ActionAllIn, 0)
	res := mustAct(t, g, 2, ActionCall, 0)
	if res == nil {
		t.Fatalf("expected the hand to run out after everyone is all-in")
	}

	if res.Pot != 1100 || len(res.Tiers) != 2 {
		t.Fatalf("unexpected pot/tiers: pot=%d tiers=%+v", res.Pot, res.Tiers)
	}
	if res.Tiers[0].Amount != 300 || res.Tiers[1].Amount != 800 {
		t.Fatalf("unexpected tier amounts: %+v", res.Tiers)
	}

	want := map[int]int64{0: 300, 1: 400, 2: 400}
	for seat, chips := range want {
		p, _ := g.Player(seat)
		if p.Chips != chips {
			t.Fatalf("seat %d: expected %d chips, got %d", seat, chips, p.Chips)
		}
	}
	if g.TotalChips() != 1100 {
		t.Fatalf("chips not conserved: %d", g.TotalChips())
	}

	var sawShowdown, sawAward bool
	for _, r := range g.HandAudit(1) {
		switch r.Kind {
		case RecordShowdown:
			sawShowdown = true
			if len(r.Showdown.Hands) != 3 {
				t.Fatalf("expected 3 showdown hands, got %d", len(r.Showdown.Hands))
			}
		case RecordPotAward:
			sawAward = true
			if len(r.PotAward.Payouts) != 3 {
				t.Fatalf("expected 3 payouts, got %+v", r.PotAward.Payouts)
			}
		}
	}
	if !sawShowdown || !sawAward {
		t.Fatalf("missing showdown or pot award record")
	}
}

func TestUncalledBetReturnsToBettor(t *testing.T) {
	g := newTable(t, Config{DealerSeat: seatPtr(0), Seed: 4}, 1000, 300)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	mustAct(t, g, 0, ActionRaise, 800)
	res := mustAct(t, g, 1, ActionAllIn, 0)
	if res == nil {
		t.Fatalf("expected run-out")
	}
	// seat 0 committed 850 but only 300 can be called; the top tier belongs to seat 0 alone
	top := res.Tiers[len(res.Tiers)-1]
	if top.Amount != 550 || len(top.Eligible) != 1 || top.Eligible[0] != 0 {
		t.Fatalf("unexpected top tier: %+v", top)
	}
	if g.TotalChips() != 1300 {
		t.Fatalf("chips not conserved: %d", g.TotalChips())
	}
}

func TestAct_RejectsIllegalActions(t *testing.T) {
	g := newTable(t, Config{DealerSeat: seatPtr(0), Seed: 8}, 1000, 1000, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	before := g.Snapshot()

	_, err := g.Act(1, GamePlayerAction{Action: ActionCall})
	if !errors.Is(err, ErrOutOfTurn) || !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected out-of-turn illegal action, got %v", err)
	}

	cases := []GamePlayerAction{
		{Action: ActionCheck},
		{Action: ActionRaise, Amount: 150},
		{Action: ActionRaise, Amount: 5000},
		{Action: ActionSmallBlind, Amount: 50},
		{Action: ActionNone},
	}
	for _, act := range cases {
		_, err := g.Act(0, act)
		var iae *IllegalActionError
		if !errors.As(err, &iae) || !errors.Is(err, ErrIllegalAction) {
			t.Fatalf("%s %d: expected IllegalActionError, got %v", act.Action, act.Amount, err)
		}
		if iae.Seat != 0 || iae.Action != act.Action {
			t.Fatalf("unexpected error details: %+v", iae)
		}
	}

	after := g.Snapshot()
	if after.Pot != before.Pot || after.ActionSeat != before.ActionSeat || after.CurrentBet != before.CurrentBet {
		t.Fatalf("rejected actions must not change state")
	}
	if len(g.ActionHistory()) != 2 {
		t.Fatalf("rejected actions must not be logged")
	}
}

func TestAct_AfterHandEnded(t *testing.T) {
	g := newTable(t, Config{DealerSeat: seatPtr(0)}, 1000, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	mustAct(t, g, 0, ActionFold, 0)
	if _, err := g.Act(1, GamePlayerAction{Action: ActionCheck}); !errors.Is(err, ErrHandEnded) {
		t.Fatalf("expected ErrHandEnded, got %v", err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("next hand err: %v", err)
	}
	if err := g.StartHand(); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("expected ErrHandInProgress, got %v", err)
	}
}

func TestStartHand_ShortBlindsRunOut(t *testing.T) {
	// both stacks are gone after posting the blinds
	g := newTable(t, Config{DealerSeat: seatPtr(0), Seed: 6}, 40, 100)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	res := g.Result()
	if res == nil {
		t.Fatalf("expected the hand to be settled during StartHand")
	}
	if len(res.CommunityCards) != 5 {
		t.Fatalf("expected full run-out, got %v", res.CommunityCards)
	}
	if g.TotalChips() != 140 {
		t.Fatalf("chips not conserved: %d", g.TotalChips())
	}
}

func TestAuditLog_FoldedHandRecords(t *testing.T) {
	g := newTable(t, Config{DealerSeat: seatPtr(0)}, 1000, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	mustAct(t, g, 0, ActionFold, 0)

	log := g.AuditLog()
	want := []RecordKind{RecordHandStart, RecordAction, RecordAction, RecordStageStart, RecordAction, RecordPotAward}
	if len(log) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(log))
	}
	for i, r := range log {
		if r.Kind != want[i] {
			t.Fatalf("record %d: expected %s, got %s", i, want[i], r.Kind)
		}
		if r.Seq != int64(i+1) || r.HandNumber != 1 {
			t.Fatalf("record %d: seq=%d hand=%d", i, r.Seq, r.HandNumber)
		}
	}
	if log[1].Action.Action != ActionSmallBlind || log[2].Action.Action != ActionBigBlind {
		t.Fatalf("blinds must be logged first")
	}
	award := log[5].PotAward
	if !award.Uncontested || award.Pot != 150 || award.Payouts[0].Seat != 1 {
		t.Fatalf("unexpected pot award: %+v", award)
	}

	// the returned log is a copy
	log[5].PotAward.Payouts[0].Amount = 1
	if g.AuditLog()[5].PotAward.Payouts[0].Amount != 150 {
		t.Fatalf("audit log aliases engine state")
	}
}
