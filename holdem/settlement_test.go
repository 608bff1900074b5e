package holdem

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(r int, kickers ...int) HandValue {
	tb := append([]int{r, r}, kickers...)
	return HandValue{Category: HandOnePair, Tiebreak: tb}
}

func TestSettlePots_ShortStackWinsMainPot(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, Name: "short", TotalBet: 100, AllIn: true},
		{Seat: 1, Name: "mid", TotalBet: 500, AllIn: true},
		{Seat: 2, Name: "big", TotalBet: 500},
	}
	hands := map[int]HandValue{
		0: {Category: HandFlush, Tiebreak: []int{14, 10, 8, 5, 2}},
		1: pair(9, 14, 8, 4),
		2: pair(9, 14, 8, 4),
	}

	s, err := SettlePots(1100, contribs, hands)
	require.NoError(t, err)
	require.Len(t, s.Tiers, 2)

	assert.Equal(t, int64(300), s.Tiers[0].Amount)
	assert.Equal(t, []int{0, 1, 2}, s.Tiers[0].Eligible)
	assert.Equal(t, []int{0}, s.Tiers[0].Winners)

	assert.Equal(t, int64(800), s.Tiers[1].Amount)
	assert.Equal(t, []int{1, 2}, s.Tiers[1].Eligible)
	assert.Equal(t, []int{1, 2}, s.Tiers[1].Winners)

	assert.Equal(t, map[int]int64{0: 300, 1: 400, 2: 400}, s.Payouts)
	assert.False(t, s.Uncontested)
}

func TestSettlePots_FoldedChipsStayInPot(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, TotalBet: 200, Folded: true},
		{Seat: 1, TotalBet: 100, AllIn: true},
		{Seat: 2, TotalBet: 300},
	}
	hands := map[int]HandValue{
		1: pair(14, 13, 12, 11),
		2: pair(2, 5, 4, 3),
	}

	s, err := SettlePots(600, contribs, hands)
	require.NoError(t, err)
	require.Len(t, s.Tiers, 2)
	assert.Equal(t, int64(300), s.Tiers[0].Amount)
	assert.Equal(t, int64(300), s.Tiers[1].Amount)
	assert.Equal(t, []int{2}, s.Tiers[1].Eligible)
	assert.Equal(t, map[int]int64{1: 300, 2: 300}, s.Payouts)
}

func TestSettlePots_UnwinnableTierMergesIntoPrevious(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, TotalBet: 300, Folded: true},
		{Seat: 1, TotalBet: 100, AllIn: true},
		{Seat: 2, TotalBet: 200, AllIn: true},
	}
	hands := map[int]HandValue{
		1: pair(14, 13, 12, 11),
		2: pair(2, 5, 4, 3),
	}

	s, err := SettlePots(600, contribs, hands)
	require.NoError(t, err)
	require.Len(t, s.Tiers, 2)
	assert.Equal(t, int64(300), s.Tiers[1].Amount)
	assert.Equal(t, map[int]int64{1: 300, 2: 300}, s.Payouts)
}

func TestSettlePots_OddChipGoesToFirstWinnerInOrder(t *testing.T) {
	contribs := []Contribution{
		{Seat: 3, TotalBet: 100},
		{Seat: 0, TotalBet: 51, Folded: true},
		{Seat: 1, TotalBet: 100},
	}
	hands := map[int]HandValue{
		3: pair(7, 10, 9, 8),
		1: pair(7, 10, 9, 8),
	}

	s, err := SettlePots(251, contribs, hands)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{3: 126, 1: 125}, s.Payouts)
	assert.Equal(t, []int64{126, 125}, s.Tiers[0].Shares)
}

func TestSettlePots_LastPlayerStandingTakesAll(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, TotalBet: 50, Folded: true},
		{Seat: 1, TotalBet: 100, Folded: true},
		{Seat: 2, TotalBet: 400},
		{Seat: 3, TotalBet: 400, Folded: true},
	}
	s, err := SettlePots(950, contribs, nil)
	require.NoError(t, err)
	assert.True(t, s.Uncontested)
	assert.Equal(t, map[int]int64{2: 950}, s.Payouts)
}

func TestSettlePots_LiveAllInGoesToShowdown(t *testing.T) {
	contribs := []Contribution{
		{Seat: 1, TotalBet: 100, AllIn: true},
		{Seat: 2, TotalBet: 400},
		{Seat: 3, TotalBet: 400, Folded: true},
	}

	// 全押玩家仍在局中，不能直接判给 seat 2
	_, err := SettlePots(900, contribs, nil)
	assert.ErrorIs(t, err, ErrInvalidHand)

	s, err := SettlePots(900, contribs, map[int]HandValue{1: pair(14), 2: pair(3)})
	require.NoError(t, err)
	assert.False(t, s.Uncontested)
	require.Len(t, s.Tiers, 2)
	assert.Equal(t, []int{1, 2}, s.Tiers[0].Eligible)
	assert.Equal(t, map[int]int64{1: 300, 2: 600}, s.Payouts)
}

func TestSettlePots_Imbalance(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, TotalBet: 100},
		{Seat: 1, TotalBet: 100},
	}
	_, err := SettlePots(150, contribs, map[int]HandValue{0: pair(2), 1: pair(3)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSettlementImbalance))

	var imb *SettlementImbalanceError
	require.True(t, errors.As(err, &imb))
	assert.Equal(t, int64(150), imb.Pot)
	assert.Equal(t, int64(200), imb.Deposits)
	assert.Zero(t, imb.TierSum, "no tiers are built when deposits do not match")
	assert.NotContains(t, err.Error(), "tiers=")
}

func TestFinishHand_ImbalanceAbortsHand(t *testing.T) {
	g := newTable(t, Config{SmallBlind: 10, BigBlind: 20, DealerSeat: seatPtr(0)}, 500, 500)
	require.NoError(t, g.StartHand())

	mustAct(t, g, 0, ActionCall, 0)
	mustAct(t, g, 1, ActionCheck, 0)
	mustAct(t, g, 1, ActionRaise, 20)

	// 人为弄脏底池，结算必须发现
	g.pot += 7

	res, err := g.Act(0, GamePlayerAction{Action: ActionFold})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSettlementImbalance)

	p0, _ := g.Player(0)
	p1, _ := g.Player(1)
	assert.Equal(t, int64(480), p0.Chips, "no chips may be awarded")
	assert.Equal(t, int64(460), p1.Chips, "no chips may be awarded")
	assert.Equal(t, int64(67), g.Snapshot().Pot, "pot stays in place")
	assert.Nil(t, g.Result())

	for _, rec := range g.HandAudit(1) {
		assert.NotEqual(t, RecordPotAward, rec.Kind)
	}

	assert.ErrorIs(t, g.Err(), ErrSettlementImbalance)
	assert.ErrorIs(t, g.StartHand(), ErrSettlementImbalance)
	_, err = g.Act(0, GamePlayerAction{Action: ActionFold})
	assert.ErrorIs(t, err, ErrSettlementImbalance)
}

func TestPlayHand_ResultDoesNotAliasAuditLog(t *testing.T) {
	g := newTable(t, Config{Seed: 3}, 100, 500, 500)
	deciders := map[string]Decider{
		"p0": &fixedDecider{act: GamePlayerAction{Action: ActionAllIn}},
		"p1": &fixedDecider{act: GamePlayerAction{Action: ActionAllIn}},
		"p2": &fixedDecider{act: GamePlayerAction{Action: ActionAllIn}},
	}
	res, err := g.PlayHand(context.Background(), deciders)
	require.NoError(t, err)
	require.NotEmpty(t, res.Tiers)
	require.NotEmpty(t, res.Winners)

	auditBefore := g.HandAudit(1)
	resultBefore := g.Result()

	res.Tiers[0].Winners[0] = 99
	res.Tiers[0].Shares[0] = 123456
	res.Winners[0].Hand[0] = res.Winners[0].Hand[1]
	res.CommunityCards[0] = res.CommunityCards[1]
	g.Result().Tiers[0].Eligible[0] = 77
	reflected := deciders["p1"].(*fixedDecider).reflected
	require.Len(t, reflected, 1)
	reflected[0].Tiers[0].Winners[0] = 55

	assert.Equal(t, auditBefore, g.HandAudit(1))
	assert.Equal(t, resultBefore, g.Result())
	assert.NotEqual(t, 55, deciders["p2"].(*fixedDecider).reflected[0].Tiers[0].Winners[0])
}

func TestSettlePots_MissingHand(t *testing.T) {
	contribs := []Contribution{
		{Seat: 0, TotalBet: 100},
		{Seat: 1, TotalBet: 100},
	}
	_, err := SettlePots(200, contribs, map[int]HandValue{0: pair(2)})
	assert.ErrorIs(t, err, ErrInvalidHand)
}

func TestComputeTiers_ConservesChips(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		n := 2 + rng.Intn(8)
		contribs := make([]Contribution, n)
		var total int64
		live := 0
		for i := range contribs {
			contribs[i] = Contribution{
				Seat:     i,
				TotalBet: int64(rng.Intn(20)) * 25,
				Folded:   rng.Intn(3) == 0,
				AllIn:    rng.Intn(2) == 0,
			}
			total += contribs[i].TotalBet
			if !contribs[i].Folded {
				live++
			}
		}
		if live == 0 || total == 0 {
			continue
		}
		var sum int64
		for _, tier := range ComputeTiers(contribs) {
			sum += tier.Amount
			require.NotEmpty(t, tier.Eligible)
		}
		require.Equal(t, total, sum, "contribs=%+v", contribs)
	}
}
