package agent

import (
	"holdem-arena/holdem"
)

// Agent is a named decision source that can sit at a table.
type Agent interface {
	holdem.Decider
	// Name returns the seat name the agent plays under.
	Name() string
}

// Stats is what an agent learns from Reflect.
type Stats struct {
	Hands     int   `json:"hands"`
	Won       int   `json:"won"`
	Winnings  int64 `json:"winnings"`
	Showdowns int   `json:"showdowns"`
}

func (s *Stats) observe(state holdem.GameInfoState, result holdem.GameResult) {
	s.Hands++
	if !result.Uncontested {
		s.Showdowns++
	}
	for _, w := range result.Winners {
		if w.Seat == state.Position {
			s.Won++
			s.Winnings += w.Amount
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fallback 能过牌就过牌，否则弃牌
func fallback(legal holdem.LegalActionSet, reason string) holdem.GamePlayerAction {
	if legal.Has(holdem.ActionCheck) {
		return holdem.GamePlayerAction{Action: holdem.ActionCheck, Reason: reason}
	}
	return holdem.GamePlayerAction{Action: holdem.ActionFold, Reason: reason}
}
