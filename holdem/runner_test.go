package holdem

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

type randomDecider struct {
	rng       *rand.Rand
	reflected int
}

func (d *randomDecider) Decide(s GameInfoState) GamePlayerAction {
	acts := s.Legal.Actions
	a := acts[d.rng.Intn(len(acts))]
	var amount int64
	if a == ActionRaise {
		amount = s.Legal.MinRaise + d.rng.Int63n(s.Legal.MaxRaise-s.Legal.MinRaise+1)
	}
	return GamePlayerAction{Action: a, Amount: amount, Reason: "random"}
}

func (d *randomDecider) Reflect(GameInfoState, GameResult) { d.reflected++ }

// fixedDecider always answers the same action and counts the calls.
type fixedDecider struct {
	act       GamePlayerAction
	calls     int
	reflected []GameResult
}

func (d *fixedDecider) Decide(GameInfoState) GamePlayerAction {
	d.calls++
	return d.act
}

func (d *fixedDecider) Reflect(_ GameInfoState, r GameResult) { d.reflected = append(d.reflected, r) }

func TestPlayHand_ChipConservation(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		stacks := []int64{300, 1000, 700, 2500, 150}
		g := newTable(t, Config{Seed: seed, SmallBlind: 10, BigBlind: 20}, stacks...)
		var want int64
		for _, s := range stacks {
			want += s
		}
		deciders := make(map[string]Decider)
		for i := range stacks {
			deciders[fmt.Sprintf("p%d", i)] = &randomDecider{rng: rand.New(rand.NewSource(seed*10 + int64(i)))}
		}

		for hand := 0; hand < 200; hand++ {
			res, err := g.PlayHand(context.Background(), deciders)
			if errors.Is(err, ErrNotEnoughPlayers) {
				break
			}
			if err != nil {
				t.Fatalf("seed %d hand %d: %v", seed, hand+1, err)
			}
			var paid int64
			for _, w := range res.Winners {
				paid += w.Amount
			}
			if paid != res.Pot {
				t.Fatalf("seed %d hand %d: paid %d of pot %d", seed, hand+1, paid, res.Pot)
			}
			if got := g.TotalChips(); got != want {
				t.Fatalf("seed %d hand %d: chips not conserved: %d != %d", seed, hand+1, got, want)
			}
			if g.Snapshot().Pot != 0 {
				t.Fatalf("pot must be zero after settlement")
			}
		}
	}
}

func TestPlayHand_CancelledContextFoldsOrChecks(t *testing.T) {
	g := newTable(t, Config{Seed: 1, DealerSeat: seatPtr(0)}, 1000, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d0 := &fixedDecider{act: GamePlayerAction{Action: ActionRaise, Amount: 500}}
	d1 := &fixedDecider{act: GamePlayerAction{Action: ActionRaise, Amount: 500}}
	res, err := g.PlayHand(ctx, map[string]Decider{"p0": d0, "p1": d1})
	if err != nil {
		t.Fatalf("PlayHand err: %v", err)
	}
	if d0.calls != 0 || d1.calls != 0 {
		t.Fatalf("deciders must not be consulted after cancel")
	}
	// dealer/sb faces the big blind and folds
	if len(res.Winners) != 1 || res.Winners[0].Seat != 1 || res.Winners[0].Amount != 150 {
		t.Fatalf("unexpected result: %+v", res)
	}
	hist := g.ActionHistory()
	last := hist[len(hist)-1]
	if last.Action != ActionFold || last.Reason != "decision cancelled" {
		t.Fatalf("expected implicit fold, got %+v", last)
	}
}

func TestPlayHand_IllegalAnswersFallBackAfterRetries(t *testing.T) {
	g := newTable(t, Config{Seed: 1, DealerSeat: seatPtr(0)}, 1000, 1000)
	// checking facing the big blind is illegal for the small blind
	sb := &fixedDecider{act: GamePlayerAction{Action: ActionCheck}}
	bb := &fixedDecider{act: GamePlayerAction{Action: ActionCheck}}

	res, err := g.PlayHand(context.Background(), map[string]Decider{"p0": sb, "p1": bb})
	if err != nil {
		t.Fatalf("PlayHand err: %v", err)
	}
	if sb.calls != MaxDecisionAttempts {
		t.Fatalf("expected %d attempts, got %d", MaxDecisionAttempts, sb.calls)
	}
	if res.Winners[0].Seat != 1 {
		t.Fatalf("big blind should win after implicit fold: %+v", res)
	}
	if len(sb.reflected) != 1 || len(bb.reflected) != 1 {
		t.Fatalf("every decider must reflect once")
	}
	if sb.reflected[0].HandNumber != 1 {
		t.Fatalf("unexpected reflected result: %+v", sb.reflected[0])
	}
}

func TestPlayHand_MissingDecider(t *testing.T) {
	g := newTable(t, Config{Seed: 1}, 1000, 1000)
	if _, err := g.PlayHand(context.Background(), map[string]Decider{}); err == nil {
		t.Fatalf("expected error for missing decider")
	}
}
