package holdem

import "sort"

// Contribution is one player's share of the pot for tier computation.
type Contribution struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	TotalBet int64  `json:"total_bet"`
	Folded   bool   `json:"folded"`
	AllIn    bool   `json:"all_in"`
}

// PotTier is a main or side pot: chips contributed between the previous level and Level.
type PotTier struct {
	Level    int64 `json:"level"`
	Amount   int64 `json:"amount"`
	Eligible []int `json:"eligible"`
}

// potLevels 全押玩家的不同下注额 + 最大下注额，升序去重
func potLevels(contribs []Contribution) []int64 {
	var top int64
	set := make(map[int64]struct{})
	for _, c := range contribs {
		if c.TotalBet > top {
			top = c.TotalBet
		}
		if c.AllIn && c.TotalBet > 0 {
			set[c.TotalBet] = struct{}{}
		}
	}
	if top > 0 {
		set[top] = struct{}{}
	}
	levels := make([]int64, 0, len(set))
	for l := range set {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// ComputeTiers splits contributions into tiers at every all-in level.
//
// Each player pays min(total, L) - min(total, prev) into the tier ending at L, so a
// folded player's chips stay in the tiers they reached. Only non-folded players
// with total >= L are eligible. Eligible seats keep the order of contribs.
// A tier nobody can win is merged into the previous tier, or carried into the next.
func ComputeTiers(contribs []Contribution) []PotTier {
	levels := potLevels(contribs)
	tiers := make([]PotTier, 0, len(levels))

	var prev, carry int64
	for _, level := range levels {
		tier := PotTier{Level: level, Amount: carry}
		carry = 0
		for _, c := range contribs {
			tier.Amount += min64(c.TotalBet, level) - min64(c.TotalBet, prev)
			if !c.Folded && c.TotalBet >= level {
				tier.Eligible = append(tier.Eligible, c.Seat)
			}
		}
		prev = level

		if len(tier.Eligible) == 0 {
			if n := len(tiers); n > 0 {
				tiers[n-1].Amount += tier.Amount
			} else {
				carry = tier.Amount
			}
			continue
		}
		tiers = append(tiers, tier)
	}
	if carry > 0 {
		if len(tiers) == 0 {
			// 没有任何层级可赢：全部给未弃牌玩家
			tier := PotTier{Level: prev, Amount: carry}
			for _, c := range contribs {
				if !c.Folded {
					tier.Eligible = append(tier.Eligible, c.Seat)
				}
			}
			return append(tiers, tier)
		}
		tiers[len(tiers)-1].Amount += carry
	}
	return tiers
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
