package holdem

import "holdem-arena/card"

// GamePlayerAction is a decider's answer. Reason and Behavior are opaque annotations
// copied into the action log.
type GamePlayerAction struct {
	Action   ActionType `json:"action"`
	Amount   int64      `json:"amount"`
	Reason   string     `json:"reason,omitempty"`
	Behavior string     `json:"behavior,omitempty"`
}

// Decider is any decision source: random, scripted, rule-based or remote.
// Decide must not retain or mutate the state it receives.
type Decider interface {
	Decide(state GameInfoState) GamePlayerAction
	Reflect(state GameInfoState, result GameResult)
}

// WinnerInfo is one paid player of a hand.
type WinnerInfo struct {
	Seat        int          `json:"seat"`
	Name        string       `json:"name"`
	Amount      int64        `json:"amount"`
	Hand        []card.Card  `json:"hand"`
	Category    HandCategory `json:"category,omitempty"`
	Description string       `json:"description,omitempty"`
}

// GameResult is produced once per hand for reflection and persistence.
type GameResult struct {
	HandNumber     int          `json:"hand_number"`
	Pot            int64        `json:"pot"`
	CommunityCards []card.Card  `json:"community_cards"`
	Winners        []WinnerInfo `json:"winners"`
	Tiers          []TierAward  `json:"tiers"`
	Uncontested    bool         `json:"uncontested"`
}

// clone 深拷贝，交给外部的结果不能和引擎内部共享切片
func (r *GameResult) clone() *GameResult {
	if r == nil {
		return nil
	}
	out := *r
	out.CommunityCards = append([]card.Card(nil), r.CommunityCards...)
	out.Tiers = cloneTiers(r.Tiers)
	if r.Winners != nil {
		out.Winners = make([]WinnerInfo, len(r.Winners))
		for i, w := range r.Winners {
			w.Hand = append([]card.Card(nil), w.Hand...)
			out.Winners[i] = w
		}
	}
	return &out
}
