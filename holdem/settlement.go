package holdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-arena/card"
)

// TierAward is how one tier was split.
type TierAward struct {
	Level    int64   `json:"level"`
	Amount   int64   `json:"amount"`
	Eligible []int   `json:"eligible"`
	Winners  []int   `json:"winners"`
	Shares   []int64 `json:"shares"`
}

// Settlement is the outcome of distributing a pot.
type Settlement struct {
	Pot         int64         `json:"pot"`
	Tiers       []TierAward   `json:"tiers"`
	Payouts     map[int]int64 `json:"payouts"`
	Uncontested bool          `json:"uncontested"`
}

// SettlePots distributes pot over the contributors.
//
// contribs must be in payout order: seat order starting after the dealer. The odd
// chip of a split tier goes to the first winner in that order. hands holds the
// showdown value of every non-folded seat; it may be nil when only one player is left.
func SettlePots(pot int64, contribs []Contribution, hands map[int]HandValue) (*Settlement, error) {
	var deposits int64
	live := make([]int, 0, len(contribs))
	for _, c := range contribs {
		deposits += c.TotalBet
		if !c.Folded {
			live = append(live, c.Seat)
		}
	}
	if deposits != pot {
		return nil, &SettlementImbalanceError{Pot: pot, Deposits: deposits}
	}
	if len(live) == 0 {
		return nil, ErrInvalidState("no live player to award the pot")
	}

	s := &Settlement{Pot: pot, Payouts: make(map[int]int64, len(live))}

	// 只剩一人：不比牌，整个底池归他
	if len(live) == 1 {
		s.Uncontested = true
		s.Tiers = []TierAward{{
			Level:    maxTotal(contribs),
			Amount:   pot,
			Eligible: live,
			Winners:  live,
			Shares:   []int64{pot},
		}}
		s.Payouts[live[0]] = pot
		return s, nil
	}

	tiers := ComputeTiers(contribs)
	var tierSum int64
	for _, t := range tiers {
		tierSum += t.Amount
	}
	if tierSum != pot {
		return nil, &SettlementImbalanceError{Pot: pot, TierSum: tierSum, Deposits: deposits}
	}

	for _, t := range tiers {
		winners, err := bestOf(t.Eligible, hands)
		if err != nil {
			return nil, err
		}
		award := TierAward{
			Level:    t.Level,
			Amount:   t.Amount,
			Eligible: t.Eligible,
			Winners:  winners,
			Shares:   make([]int64, len(winners)),
		}
		share := t.Amount / int64(len(winners))
		remainder := t.Amount % int64(len(winners))
		for i, seat := range winners {
			award.Shares[i] = share
			if i == 0 {
				award.Shares[i] += remainder
			}
			s.Payouts[seat] += award.Shares[i]
		}
		s.Tiers = append(s.Tiers, award)
	}

	var paid int64
	for _, v := range s.Payouts {
		paid += v
	}
	if paid != pot {
		return nil, &SettlementImbalanceError{Pot: pot, TierSum: paid, Deposits: deposits}
	}
	return s, nil
}

// bestOf returns the eligible seats holding the strongest hand, in eligible order.
func bestOf(eligible []int, hands map[int]HandValue) ([]int, error) {
	var (
		winners []int
		best    HandValue
	)
	for _, seat := range eligible {
		hv, ok := hands[seat]
		if !ok {
			return nil, fmt.Errorf("%w: no showdown hand for seat %d", ErrInvalidHand, seat)
		}
		switch {
		case winners == nil:
			winners, best = []int{seat}, hv
		case Compare(hv, best) > 0:
			winners, best = []int{seat}, hv
		case Compare(hv, best) == 0:
			winners = append(winners, seat)
		}
	}
	return winners, nil
}

func cloneTiers(tiers []TierAward) []TierAward {
	if tiers == nil {
		return nil
	}
	out := make([]TierAward, len(tiers))
	for i, t := range tiers {
		t.Eligible = append([]int(nil), t.Eligible...)
		t.Winners = append([]int(nil), t.Winners...)
		t.Shares = append([]int64(nil), t.Shares...)
		out[i] = t
	}
	return out
}

func maxTotal(contribs []Contribution) int64 {
	var top int64
	for _, c := range contribs {
		if c.TotalBet > top {
			top = c.TotalBet
		}
	}
	return top
}

// finishHandLocked settles the pot and closes the hand. Any inconsistency aborts the
// hand without moving chips.
func (g *Game) finishHandLocked() (*GameResult, error) {
	dealt := g.seatsFrom(g.dealer+1, func(p *Player) bool { return p.active && len(p.hand) == 2 })
	contribs := make([]Contribution, 0, len(dealt))
	live := 0
	for _, p := range dealt {
		contribs = append(contribs, Contribution{
			Seat: p.Seat, Name: p.Name, TotalBet: p.totalBet, Folded: p.folded, AllIn: p.allIn,
		})
		if !p.folded {
			live++
		}
	}

	var (
		hands    map[int]HandValue
		showdown *ShowdownRecord
	)
	if live > 1 {
		if len(g.community) != 5 {
			return nil, g.failLocked(ErrInvalidState(fmt.Sprintf("showdown with %d community cards", len(g.community))))
		}
		hands = make(map[int]HandValue, live)
		showdown = &ShowdownRecord{CommunityCards: g.community.Clone()}
		for _, p := range dealt {
			if p.folded {
				continue
			}
			all := make([]card.Card, 0, 7)
			all = append(all, p.hand...)
			all = append(all, g.community...)
			hv, err := Evaluate(all)
			if err != nil {
				return nil, g.failLocked(err)
			}
			hands[p.Seat] = hv
			showdown.Hands = append(showdown.Hands, ShowdownHand{
				Seat:        p.Seat,
				Name:        p.Name,
				Hole:        p.hand.Clone(),
				Category:    hv.Category,
				Tiebreak:    append([]int(nil), hv.Tiebreak...),
				Best:        append([]card.Card(nil), hv.Best...),
				Description: DescribeHand(hv.Best),
			})
		}
	}

	settlement, err := SettlePots(g.pot, contribs, hands)
	if err != nil {
		return nil, g.failLocked(err)
	}

	if showdown != nil {
		g.appendRecordLocked(AuditRecord{Kind: RecordShowdown, Showdown: showdown})
	}

	award := &PotAwardRecord{Pot: g.pot, Uncontested: settlement.Uncontested, Tiers: cloneTiers(settlement.Tiers)}
	result := &GameResult{
		HandNumber:     g.handNumber,
		Pot:            g.pot,
		CommunityCards: g.community.Clone(),
		Tiers:          cloneTiers(settlement.Tiers),
		Uncontested:    settlement.Uncontested,
	}
	for _, p := range dealt {
		amount := settlement.Payouts[p.Seat]
		if amount == 0 {
			continue
		}
		p.addChips(amount)
		award.Payouts = append(award.Payouts, Payout{Seat: p.Seat, Name: p.Name, Amount: amount})
		w := WinnerInfo{Seat: p.Seat, Name: p.Name, Amount: amount, Hand: p.hand.Clone()}
		if hv, ok := hands[p.Seat]; ok {
			w.Category = hv.Category
			w.Description = DescribeHand(hv.Best)
		}
		result.Winners = append(result.Winners, w)
	}
	g.appendRecordLocked(AuditRecord{Kind: RecordPotAward, PotAward: award})

	// 底池在所有层级分配完之后才清零
	g.pot = 0
	g.currentBet = 0
	g.current = InvalidSeat
	g.ended = true
	for _, p := range g.seats {
		if p != nil && p.chips == 0 {
			p.active = false
		}
	}
	g.lastResult = result

	g.log.WithFields(logrus.Fields{"hand": g.handNumber, "stage": g.stage}).
		Debugf("[Game] hand settled, pot=%d tiers=%d winners=%d", result.Pot, len(result.Tiers), len(result.Winners))
	return result.clone(), nil
}
