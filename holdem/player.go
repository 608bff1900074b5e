package holdem

import "holdem-arena/card"

// Player is the per-seat state owned by a Game. Outside the engine it is
// only observed through PlayerInfo snapshots.
type Player struct {
	Name string
	Seat int

	chips      int64
	betInRound int64
	totalBet   int64

	folded bool
	allIn  bool
	active bool
	// acted is cleared whenever the bet is raised; the round cannot close until every actor has acted.
	acted      bool
	lastAction ActionType

	hand card.CardList
}

func NewPlayer(name string, chips int64) *Player {
	return &Player{Name: name, Seat: InvalidSeat, chips: chips, active: chips > 0}
}

func (p *Player) Chips() int64      { return p.chips }
func (p *Player) BetInRound() int64 { return p.betInRound }
func (p *Player) TotalBet() int64   { return p.totalBet }
func (p *Player) Folded() bool      { return p.folded }
func (p *Player) AllIn() bool       { return p.allIn }
func (p *Player) IsActive() bool    { return p.active }
func (p *Player) Hand() []card.Card { return p.hand.Clone() }

// ResetForNewHand clears hand, bets and flags; a player with no chips sits the hand out.
func (p *Player) ResetForNewHand() {
	p.hand = make(card.CardList, 0, 2)
	p.betInRound = 0
	p.totalBet = 0
	p.folded = false
	p.allIn = false
	p.acted = false
	p.lastAction = ActionNone
	p.active = p.chips > 0
}

func (p *Player) ReceiveCard(c card.Card) {
	p.hand.Add(c)
}

// PlaceBet commits min(amount, chips) and returns the committed amount.
func (p *Player) PlaceBet(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > p.chips {
		amount = p.chips
	}
	p.chips -= amount
	p.betInRound += amount
	p.totalBet += amount
	if p.chips == 0 {
		p.allIn = true
	}
	return amount
}

// inHand 本手牌已发牌且未弃牌
func (p *Player) inHand() bool {
	return p != nil && p.active && !p.folded && len(p.hand) == 2
}

// canAct 可以继续表态：在局中且未全押
func (p *Player) canAct() bool {
	return p.inHand() && !p.allIn
}

func (p *Player) resetRound() {
	p.betInRound = 0
	p.acted = false
}

func (p *Player) addChips(amount int64) { p.chips += amount }

func (p *Player) info(withHand bool) PlayerInfo {
	pi := PlayerInfo{
		Seat:       p.Seat,
		Name:       p.Name,
		Chips:      p.chips,
		BetInRound: p.betInRound,
		TotalBet:   p.totalBet,
		Folded:     p.folded,
		AllIn:      p.allIn,
		Active:     p.active,
		LastAction: p.lastAction,
	}
	if withHand {
		pi.Hand = p.hand.Clone()
	}
	return pi
}
