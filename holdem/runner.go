package holdem

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MaxDecisionAttempts is how many illegal answers a decider may give per turn before
// the runner applies the implicit action.
const MaxDecisionAttempts = 3

// PlayHand starts a hand and drives it to the end, asking deciders (keyed by player
// name) for every turn. When ctx is cancelled each pending decision becomes the
// implicit action, so the hand still finishes and chips stay consistent.
// Every decider of a dealt player is given Reflect after settlement.
func (g *Game) PlayHand(ctx context.Context, deciders map[string]Decider) (*GameResult, error) {
	if err := g.StartHand(); err != nil {
		return nil, err
	}

	for {
		g.mu.Lock()
		if g.broken != nil {
			err := g.broken
			g.mu.Unlock()
			return nil, err
		}
		if g.ended {
			g.mu.Unlock()
			break
		}
		seat := g.current
		state, err := g.infoStateLocked(seat)
		name := ""
		if p := g.seats[seat]; p != nil {
			name = p.Name
		}
		g.mu.Unlock()
		if err != nil {
			return nil, err
		}

		d, ok := deciders[name]
		if !ok {
			return nil, fmt.Errorf("no decider for player %q at seat %d", name, seat)
		}
		if _, err := g.takeTurn(ctx, seat, d, state); err != nil {
			return nil, err
		}
	}

	result := g.Result()
	if result == nil {
		return nil, ErrInvalidState("hand ended without result")
	}
	for _, seat := range g.dealtSeats() {
		p, _ := g.Player(seat)
		d, ok := deciders[p.Name]
		if !ok {
			continue
		}
		state, err := g.InfoState(seat)
		if err != nil {
			continue
		}
		d.Reflect(state, *result.clone())
	}
	return result, nil
}

func (g *Game) takeTurn(ctx context.Context, seat int, d Decider, state GameInfoState) (*GameResult, error) {
	logger := g.log.WithFields(logrus.Fields{"hand": state.HandNumber, "stage": state.Stage, "seat": seat})
	for attempt := 1; attempt <= MaxDecisionAttempts; attempt++ {
		act, ok := decide(ctx, d, state)
		if !ok {
			logger.Warnf("[Runner] decision abandoned: %v", ctx.Err())
			return g.Act(seat, implicitAction(state, "decision cancelled"))
		}
		res, err := g.Act(seat, act)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrIllegalAction) {
			return nil, err
		}
		logger.Warnf("[Runner] attempt %d/%d rejected: %v", attempt, MaxDecisionAttempts, err)
	}
	return g.Act(seat, implicitAction(state, "too many illegal actions"))
}

// decide runs Decide in its own goroutine so a cancelled ctx does not wait on it.
// A decider that never returns leaks its goroutine.
func decide(ctx context.Context, d Decider, state GameInfoState) (GamePlayerAction, bool) {
	if ctx.Err() != nil {
		return GamePlayerAction{}, false
	}
	ch := make(chan GamePlayerAction, 1)
	go func() { ch <- d.Decide(state) }()
	select {
	case act := <-ch:
		return act, true
	case <-ctx.Done():
		return GamePlayerAction{}, false
	}
}

// implicitAction 超时或多次非法：能过牌就过牌，否则弃牌
func implicitAction(state GameInfoState, reason string) GamePlayerAction {
	if state.Legal.Has(ActionCheck) {
		return GamePlayerAction{Action: ActionCheck, Reason: reason}
	}
	return GamePlayerAction{Action: ActionFold, Reason: reason}
}

// dealtSeats lists seats that held cards in the last hand, in seat order.
func (g *Game) dealtSeats() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int, 0, len(g.seats))
	for _, p := range g.seats {
		if p != nil && len(p.hand) == 2 {
			out = append(out, p.Seat)
		}
	}
	return out
}
