package holdem

import (
	"fmt"
	"sort"

	"github.com/paulhankin/poker"

	"holdem-arena/card"
)

// HandValue is the ranking of the best five cards out of 5..7.
type HandValue struct {
	Category HandCategory `json:"category"`
	// Tiebreak holds five rank values, high to low, ordered for lexicographic comparison
	// (quads: q,q,q,q,kicker; two pair: hi,hi,lo,lo,kicker; wheel: 5,4,3,2,1).
	Tiebreak []int `json:"tiebreak"`
	// Score packs category and tiebreak; larger is stronger.
	Score uint32 `json:"score"`
	// BestIndex are the indices of the best five cards in the evaluated input.
	BestIndex [5]int      `json:"-"`
	Best      []card.Card `json:"best"`
}

// Compare returns 1 if h beats o, -1 if o beats h, 0 on a tie.
func (h HandValue) Compare(o HandValue) int {
	return Compare(h, o)
}

// Compare orders hands by category, then lexicographically by tiebreak.
func Compare(a, b HandValue) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] > b.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate finds the best 5-card hand among the given cards.
// 所有 C(n,5) 组合逐一精确评估，n<=7 时最多 21 种
func Evaluate(cards []card.Card) (HandValue, error) {
	if len(cards) < 5 {
		return HandValue{}, fmt.Errorf("%w: need at least 5 cards, got %d", ErrInvalidHand, len(cards))
	}
	seen := make(map[card.Card]struct{}, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return HandValue{}, fmt.Errorf("%w: invalid card 0x%02x", ErrInvalidHand, byte(c))
		}
		if _, dup := seen[c]; dup {
			return HandValue{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidHand, c)
		}
		seen[c] = struct{}{}
	}

	var (
		best  HandValue
		found bool
		idx   [5]int
		five  [5]card.Card
	)
	n := len(cards)
	var walk func(start, k int)
	walk = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[idx[i]]
			}
			cat, tb := eval5(five)
			score := packScore(cat, tb)
			if !found || score > best.Score {
				found = true
				best = HandValue{Category: cat, Tiebreak: tb[:], Score: score, BestIndex: idx}
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			idx[k] = i
			walk(i+1, k+1)
		}
	}
	walk(0, 0)

	best.Tiebreak = append([]int(nil), best.Tiebreak...)
	best.Best = make([]card.Card, 5)
	for i, j := range best.BestIndex {
		best.Best[i] = cards[j]
	}
	return best, nil
}

func packScore(cat HandCategory, tb [5]int) uint32 {
	score := uint32(cat) << 20
	for i, r := range tb {
		score |= uint32(r&0xF) << uint(16-4*i)
	}
	return score
}

// eval5 精确评估5张牌
func eval5(cards [5]card.Card) (HandCategory, [5]int) {
	var counts [15]int
	flush := true
	for i, c := range cards {
		counts[c.Rank()]++
		if i > 0 && c.Suit() != cards[0].Suit() {
			flush = false
		}
	}

	// ranks grouped by multiplicity then value: e.g. full house => t,t,t,p,p
	ranks := make([]int, 0, 5)
	for _, c := range cards {
		ranks = append(ranks, int(c.Rank()))
	}
	sort.Slice(ranks, func(i, j int) bool {
		ci, cj := counts[ranks[i]], counts[ranks[j]]
		if ci != cj {
			return ci > cj
		}
		return ranks[i] > ranks[j]
	})
	var tb [5]int
	copy(tb[:], ranks)

	straightTop := 0
	distinct := 0
	for r := 2; r <= 14; r++ {
		if counts[r] > 0 {
			distinct++
		}
	}
	if distinct == 5 {
		if tb[0]-tb[4] == 4 {
			straightTop = tb[0]
		} else if tb[0] == int(card.RankAce) && tb[1] == 5 {
			// A-2-3-4-5，A 当 1
			straightTop = 5
		}
	}
	if straightTop > 0 {
		for i := range tb {
			tb[i] = straightTop - i
		}
	}

	switch {
	case straightTop > 0 && flush:
		if straightTop == int(card.RankAce) {
			return HandRoyalFlush, tb
		}
		return HandStraightFlush, tb
	case counts[tb[0]] == 4:
		return HandFourOfKind, tb
	case counts[tb[0]] == 3 && counts[tb[3]] == 2:
		return HandFullHouse, tb
	case flush:
		return HandFlush, tb
	case straightTop > 0:
		return HandStraight, tb
	case counts[tb[0]] == 3:
		return HandThreeOfKind, tb
	case counts[tb[0]] == 2 && counts[tb[2]] == 2:
		return HandTwoPair, tb
	case counts[tb[0]] == 2:
		return HandOnePair, tb
	}
	return HandHighCard, tb
}

// DescribeHand renders a human readable description ("Ace-high flush") of five or seven cards.
func DescribeHand(cards []card.Card) string {
	pcs, err := toPokerCards(cards)
	if err != nil {
		return ""
	}
	desc, err := poker.Describe(pcs)
	if err != nil {
		return ""
	}
	return desc
}

func toPokerCards(cards []card.Card) ([]poker.Card, error) {
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toPokerCard(c)
		if err != nil {
			return nil, err
		}
		out[i] = pc
	}
	return out, nil
}

func toPokerCard(c card.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit() {
	case card.Spade:
		s = poker.Spade
	case card.Heart:
		s = poker.Heart
	case card.Club:
		s = poker.Club
	case card.Diamond:
		s = poker.Diamond
	default:
		return 0, fmt.Errorf("bad suit in card 0x%02x", byte(c))
	}
	r := int(c.Rank())
	if r == int(card.RankAce) {
		r = 1
	}
	return poker.MakeCard(s, poker.Rank(r))
}
