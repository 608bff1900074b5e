package holdem

import "holdem-arena/card"

// PlayerInfo is the public view of a seat. Hand is only filled for the viewer's own seat
// (or for everyone in a Snapshot taken after the hand ended).
type PlayerInfo struct {
	Seat       int         `json:"seat"`
	Name       string      `json:"name"`
	Chips      int64       `json:"chips"`
	BetInRound int64       `json:"bet_in_round"`
	TotalBet   int64       `json:"total_bet"`
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"all_in"`
	Active     bool        `json:"active"`
	LastAction ActionType  `json:"last_action"`
	Hand       []card.Card `json:"hand,omitempty"`
}

// LegalActionSet projects what the actor may do right now.
type LegalActionSet struct {
	Actions    []ActionType `json:"actions"`
	CallAmount int64        `json:"call_amount"`
	// MinRaise/MaxRaise bound the RAISE amount (chips moved by the raise). Zero when RAISE is illegal.
	MinRaise int64 `json:"min_raise"`
	MaxRaise int64 `json:"max_raise"`
}

// Has reports whether a is legal.
func (l LegalActionSet) Has(a ActionType) bool {
	for _, x := range l.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// GameInfoState is the read-only snapshot handed to a Decider.
type GameInfoState struct {
	HandNumber     int            `json:"hand_number"`
	Hand           []card.Card    `json:"hand"`
	CommunityCards []card.Card    `json:"community_cards"`
	Pot            int64          `json:"pot"`
	CurrentBet     int64          `json:"current_bet"`
	MinRaise       int64          `json:"min_raise"`
	Stage          Stage          `json:"stage"`
	Players        []PlayerInfo   `json:"players"`
	Position       int            `json:"position"`
	DealerPosition int            `json:"dealer_position"`
	ActionHistory  []ActionRecord `json:"action_history"`
	Legal          LegalActionSet `json:"legal"`
}

// Self returns the viewer's own PlayerInfo.
func (s GameInfoState) Self() (PlayerInfo, bool) {
	for _, p := range s.Players {
		if p.Seat == s.Position {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// Snapshot is a table-level view for observers (simulator output, tests).
type Snapshot struct {
	HandNumber int   `json:"hand_number"`
	Stage      Stage `json:"stage"`
	Ended      bool  `json:"ended"`

	DealerSeat     int `json:"dealer_seat"`
	SmallBlindSeat int `json:"small_blind_seat"`
	BigBlindSeat   int `json:"big_blind_seat"`
	ActionSeat     int `json:"action_seat"`

	Pot            int64        `json:"pot"`
	CurrentBet     int64        `json:"current_bet"`
	CommunityCards []card.Card  `json:"community_cards"`
	Players        []PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		HandNumber:     g.handNumber,
		Stage:          g.stage,
		Ended:          g.ended,
		DealerSeat:     g.dealer,
		SmallBlindSeat: g.smallBlind,
		BigBlindSeat:   g.bigBlind,
		ActionSeat:     g.current,
		Pot:            g.pot,
		CurrentBet:     g.currentBet,
		CommunityCards: g.community.Clone(),
	}
	if !g.inProgressLocked() {
		s.ActionSeat = InvalidSeat
	}
	// 只有摊牌才亮牌
	showdown := g.ended && g.lastResult != nil && !g.lastResult.Uncontested
	for _, p := range g.seats {
		if p == nil {
			continue
		}
		s.Players = append(s.Players, p.info(showdown && !p.folded))
	}
	return s
}

// InfoState builds the decision snapshot for seat.
func (g *Game) InfoState(seat int) (GameInfoState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.infoStateLocked(seat)
}

func (g *Game) infoStateLocked(seat int) (GameInfoState, error) {
	p, err := g.playerLocked(seat)
	if err != nil {
		return GameInfoState{}, err
	}
	st := GameInfoState{
		HandNumber:     g.handNumber,
		Hand:           p.hand.Clone(),
		CommunityCards: g.community.Clone(),
		Pot:            g.pot,
		CurrentBet:     g.currentBet,
		MinRaise:       g.minRaiseAmount(),
		Stage:          g.stage,
		Position:       seat,
		DealerPosition: g.dealer,
		ActionHistory:  append([]ActionRecord(nil), g.history...),
	}
	for _, other := range g.seats {
		if other == nil {
			continue
		}
		st.Players = append(st.Players, other.info(other == p))
	}
	if g.inProgressLocked() && seat == g.current {
		st.Legal = g.legalActionsLocked(p)
	}
	return st, nil
}
