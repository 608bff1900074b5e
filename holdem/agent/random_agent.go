package agent

import (
	"math/rand"

	"holdem-arena/holdem"
)

// RandomAgent picks uniformly among the legal actions; raises are uniform in the legal range.
type RandomAgent struct {
	PlayerName string
	Stats      Stats

	rng *rand.Rand
}

func NewRandomAgent(name string, seed int64) *RandomAgent {
	return &RandomAgent{PlayerName: name, rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) Name() string { return a.PlayerName }

func (a *RandomAgent) Decide(state holdem.GameInfoState) holdem.GamePlayerAction {
	acts := state.Legal.Actions
	if len(acts) == 0 {
		return holdem.GamePlayerAction{Action: holdem.ActionFold, Reason: "no legal action"}
	}
	act := acts[a.rng.Intn(len(acts))]
	var amount int64
	if act == holdem.ActionRaise {
		amount = state.Legal.MinRaise
		if span := state.Legal.MaxRaise - state.Legal.MinRaise; span > 0 {
			amount += a.rng.Int63n(span + 1)
		}
	}
	return holdem.GamePlayerAction{Action: act, Amount: amount, Reason: "random choice"}
}

func (a *RandomAgent) Reflect(state holdem.GameInfoState, result holdem.GameResult) {
	a.Stats.observe(state, result)
}
