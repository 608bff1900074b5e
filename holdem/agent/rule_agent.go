package agent

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"holdem-arena/card"
	"holdem-arena/holdem"
)

// RuleAgent makes decisions based on a PersonalityProfile with tunable parameters.
type RuleAgent struct {
	Persona *Persona
	Stats   Stats

	rng *rand.Rand
	log logrus.FieldLogger
}

// NewRuleAgent creates a RuleAgent from a persona definition.
func NewRuleAgent(persona *Persona, seed int64) *RuleAgent {
	return &RuleAgent{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
		log:     logrus.WithField("agent", persona.Name),
	}
}

func (a *RuleAgent) Name() string { return a.Persona.Name }

// Decide implements holdem.Decider. It only ever answers with an action from state.Legal.
func (a *RuleAgent) Decide(state holdem.GameInfoState) holdem.GamePlayerAction {
	p := a.Persona.Brain
	legal := state.Legal
	if len(legal.Actions) == 0 {
		return holdem.GamePlayerAction{Action: holdem.ActionFold, Reason: "no legal action"}
	}

	// Add randomness noise to parameters for this decision
	aggression := clamp01(p.Aggression + (a.rng.Float64()-0.5)*p.Randomness*0.4)
	tightness := clamp01(p.Tightness + (a.rng.Float64()-0.5)*p.Randomness*0.3)

	strength := a.handStrength(state)
	if state.DealerPosition == state.Position {
		strength = clamp01(strength + p.Positional*0.05)
	}

	canCheck := legal.Has(holdem.ActionCheck)
	canCall := legal.Has(holdem.ActionCall)
	canRaise := legal.Has(holdem.ActionRaise)
	canAllIn := legal.Has(holdem.ActionAllIn)

	decision := func(act holdem.ActionType, amount int64, behavior string) holdem.GamePlayerAction {
		out := holdem.GamePlayerAction{
			Action:   act,
			Amount:   amount,
			Reason:   fmt.Sprintf("strength %.2f aggression %.2f tightness %.2f", strength, aggression, tightness),
			Behavior: behavior,
		}
		a.log.WithFields(logrus.Fields{"hand": state.HandNumber, "stage": state.Stage}).
			Debugf("[Agent] %s decides %s %d (%s)", a.Persona.Name, act, amount, behavior)
		return out
	}

	// Preflop: tight players fold more marginal hands
	if state.Stage == holdem.StagePreflop && strength < tightness*0.6 {
		if canCheck {
			return decision(holdem.ActionCheck, 0, "free look")
		}
		return decision(holdem.ActionFold, 0, "too weak to enter")
	}

	// Strong hand + aggressive → raise
	aggressivePlay := strength > 1.0-aggression*0.6
	if aggressivePlay && a.rng.Float64() < 0.35+aggression*0.5 {
		if canRaise {
			return decision(holdem.ActionRaise, a.raiseAmount(state, aggression), "value raise")
		}
		if canAllIn && strength > 0.85 {
			return decision(holdem.ActionAllIn, 0, "shove")
		}
	}

	// Bluff attempt
	if !aggressivePlay && canRaise && a.rng.Float64() < p.Bluffing*0.3 {
		return decision(holdem.ActionRaise, a.raiseAmount(state, 0.4), "bluff")
	}

	// Marginal hand: call or check
	if canCheck {
		return decision(holdem.ActionCheck, 0, "pot control")
	}
	if canCall {
		// Loose players call more often; tight players fold facing bets
		if strength > tightness*0.5 || a.rng.Float64() < (1.0-tightness)*0.5 {
			return decision(holdem.ActionCall, 0, "call")
		}
		return decision(holdem.ActionFold, 0, "fold to pressure")
	}

	// All-in as last resort if it's the only way to continue
	if canAllIn && (strength > 0.6 || a.rng.Float64() < aggression*0.2) {
		return decision(holdem.ActionAllIn, 0, "commit")
	}
	return decision(holdem.ActionFold, 0, "give up")
}

// Reflect updates the agent's running stats.
func (a *RuleAgent) Reflect(state holdem.GameInfoState, result holdem.GameResult) {
	a.Stats.observe(state, result)
}

// handStrength returns a 0.0–1.0 heuristic: hole cards preflop, made hand afterwards.
func (a *RuleAgent) handStrength(state holdem.GameInfoState) float64 {
	if len(state.Hand) < 2 {
		return 0.3
	}
	if len(state.CommunityCards) >= 3 {
		all := make([]card.Card, 0, 7)
		all = append(all, state.Hand...)
		all = append(all, state.CommunityCards...)
		if hv, err := holdem.Evaluate(all); err == nil {
			return clamp01(float64(hv.Category-1)/8 + float64(hv.Tiebreak[0])/140)
		}
	}
	return preflopStrength(state.Hand[0], state.Hand[1])
}

func preflopStrength(c0, c1 card.Card) float64 {
	rank0 := int(c0.Rank())
	rank1 := int(c1.Rank())

	// Normalize ranks: Ace=14 is strongest
	strength := float64(rank0+rank1) / 28.0

	// Pair bonus
	if rank0 == rank1 {
		strength += 0.25
	}
	// Suited bonus
	if c0.Suit() == c1.Suit() {
		strength += 0.05
	}
	// Connected bonus
	gap := rank0 - rank1
	if gap < 0 {
		gap = -gap
	}
	if gap <= 2 {
		strength += 0.05
	}
	return clamp01(strength)
}

// raiseAmount sizes a raise between half pot and 1.5x pot, clamped to the legal range.
func (a *RuleAgent) raiseAmount(state holdem.GameInfoState, aggression float64) int64 {
	fraction := 0.5 + aggression
	raise := int64(float64(state.Pot) * fraction)
	if raise < state.Legal.MinRaise {
		raise = state.Legal.MinRaise
	}
	if raise > state.Legal.MaxRaise {
		raise = state.Legal.MaxRaise
	}
	return raise
}
