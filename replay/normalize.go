package replay

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"holdem-arena/card"
	"holdem-arena/holdem"
)

type normalizedSeat struct {
	seat  int
	name  string
	chips int64
	hole  []card.Card
}

type normalizedAction struct {
	stage  holdem.Stage // StageNone => not checked
	seat   int
	action holdem.ActionType
	amount int64
	reason string
}

type normalizedSpec struct {
	table      TableSpec
	dealerSeat int
	seed       int64
	seats      []normalizedSeat
	deck       []card.Card
	actions    []normalizedAction
}

func normalizeSpec(spec HandSpec) (normalizedSpec, error) {
	var out normalizedSpec
	out.table = spec.Table
	out.dealerSeat = spec.DealerSeat
	out.seed = seedFromSpec(spec.RNG)

	if spec.Variant != "" && !strings.EqualFold(spec.Variant, "NLH") {
		return out, setupError("invalid_variant", "only NLH is supported")
	}
	if out.table.MaxPlayers < 2 || out.table.MaxPlayers > holdem.MaxSeats {
		return out, setupError("invalid_table", "table.max_players must be in [2, %d]", holdem.MaxSeats)
	}
	if out.table.BB <= 0 || out.table.SB < 0 || out.table.SB > out.table.BB {
		return out, setupError("invalid_blinds", "invalid blinds sb=%d bb=%d", out.table.SB, out.table.BB)
	}
	if out.dealerSeat < 0 || out.dealerSeat >= out.table.MaxPlayers {
		return out, setupError("invalid_dealer", "dealer_seat %d out of range", out.dealerSeat)
	}
	if len(spec.Seats) < 2 {
		return out, setupError("invalid_seats", "at least 2 seats are required")
	}

	bySeat := make(map[int]normalizedSeat, len(spec.Seats))
	names := make(map[string]struct{}, len(spec.Seats))
	for i, s := range spec.Seats {
		if s.Seat < 0 || s.Seat >= out.table.MaxPlayers {
			return out, setupError("invalid_seat", "seats[%d]: seat %d out of range", i, s.Seat)
		}
		if _, dup := bySeat[s.Seat]; dup {
			return out, setupError("duplicate_seat", "duplicate seat %d", s.Seat)
		}
		if s.Chips < 0 {
			return out, setupError("invalid_chips", "seats[%d]: chips must be >= 0", i)
		}
		hole, err := parseHoleCards(s.Hole)
		if err != nil {
			return out, setupError("invalid_hole_cards", "seats[%d]: %v", i, err)
		}
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = fmt.Sprintf("P%d", s.Seat)
		}
		if _, dup := names[name]; dup {
			return out, setupError("duplicate_name", "duplicate player name %q", name)
		}
		names[name] = struct{}{}

		ns := normalizedSeat{seat: s.Seat, name: name, chips: s.Chips, hole: hole}
		out.seats = append(out.seats, ns)
		bySeat[s.Seat] = ns
	}

	active := activeSeats(out.seats)
	if len(active) < 2 {
		return out, setupError("not_enough_players", "at least 2 seats with chips > 0 are required")
	}

	board, err := parseBoard(spec.Board)
	if err != nil {
		return out, err
	}
	constraints, err := buildSlotConstraints(active, out.dealerSeat, bySeat, board)
	if err != nil {
		return out, err
	}
	out.deck, err = parseOrBuildDeck(spec.Deck, constraints, out.seed)
	if err != nil {
		return out, err
	}

	out.actions = make([]normalizedAction, 0, len(spec.Actions))
	for i, a := range spec.Actions {
		stage := holdem.StageNone
		if strings.TrimSpace(a.Stage) != "" {
			stage, err = holdem.ParseStage(a.Stage)
			if err != nil {
				return out, &ReplayError{StepIndex: i, Reason: "invalid_stage", Message: err.Error()}
			}
		}
		action, err := holdem.ParseActionType(a.Type)
		if err != nil || !action.IsPlayerAction() {
			return out, &ReplayError{StepIndex: i, Reason: "invalid_action", Message: fmt.Sprintf("unsupported action type %q", a.Type)}
		}
		if _, ok := bySeat[a.Seat]; !ok {
			return out, &ReplayError{StepIndex: i, Reason: "invalid_action_seat", Message: fmt.Sprintf("seat %d not seated", a.Seat)}
		}
		out.actions = append(out.actions, normalizedAction{
			stage:  stage,
			seat:   a.Seat,
			action: action,
			amount: a.Amount,
			reason: a.Reason,
		})
	}
	return out, nil
}

// parseOrBuildDeck returns the explicit deck if given (it must honor every
// constraint), else places the constrained cards in their slots and fills the
// rest from the remaining cards, shuffled by seed.
func parseOrBuildDeck(deck []string, constraints map[int]card.Card, seed int64) ([]card.Card, error) {
	if len(deck) > 0 {
		out := make([]card.Card, len(deck))
		for i, s := range deck {
			c, err := card.Parse(strings.TrimSpace(s))
			if err != nil {
				return nil, setupError("invalid_deck_card", "deck[%d]: %v", i, err)
			}
			out[i] = c
		}
		if err := card.ValidateDeck(out); err != nil {
			return nil, setupError("invalid_deck", "%v", err)
		}
		for idx, expected := range constraints {
			if out[idx] != expected {
				return nil, setupError("deck_constraint_mismatch", "deck[%d] does not match constrained card %s", idx, expected.Short())
			}
		}
		return out, nil
	}

	used := make(map[card.Card]struct{}, len(constraints))
	for _, c := range constraints {
		used[c] = struct{}{}
	}
	remaining := make([]card.Card, 0, len(card.FullDeck)-len(constraints))
	for _, c := range card.FullDeck {
		if _, ok := used[c]; ok {
			continue
		}
		remaining = append(remaining, c)
	}
	if seed != 0 {
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
	}

	out := make([]card.Card, len(card.FullDeck))
	ri := 0
	for i := range out {
		if constrained, ok := constraints[i]; ok {
			out[i] = constrained
			continue
		}
		out[i] = remaining[ri]
		ri++
	}
	return out, nil
}

func parseHoleCards(hole []string) ([]card.Card, error) {
	if len(hole) == 0 {
		return nil, nil
	}
	if len(hole) != 2 {
		return nil, fmt.Errorf("hole cards must contain exactly 2 cards")
	}
	out := make([]card.Card, 2)
	for i := range hole {
		c, err := card.Parse(strings.TrimSpace(hole[i]))
		if err != nil {
			return nil, fmt.Errorf("hole[%d]: %w", i, err)
		}
		out[i] = c
	}
	if out[0] == out[1] {
		return nil, fmt.Errorf("hole cards cannot duplicate")
	}
	return out, nil
}

// parseBoard returns the five board slots; nil means unconstrained.
func parseBoard(board *BoardSpec) ([]*card.Card, error) {
	out := make([]*card.Card, 5)
	if board == nil {
		return out, nil
	}
	if len(board.Flop) != 0 && len(board.Flop) != 3 {
		return nil, setupError("invalid_board", "flop must be either empty or 3 cards")
	}
	parse := func(slot int, raw, label string) error {
		c, err := card.Parse(strings.TrimSpace(raw))
		if err != nil {
			return setupError("invalid_board_card", "%s: %v", label, err)
		}
		out[slot] = &c
		return nil
	}
	for i, raw := range board.Flop {
		if err := parse(i, raw, fmt.Sprintf("flop[%d]", i)); err != nil {
			return nil, err
		}
	}
	if board.Turn != nil {
		if err := parse(3, *board.Turn, "turn"); err != nil {
			return nil, err
		}
	}
	if board.River != nil {
		if err := parse(4, *board.River, "river"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// buildSlotConstraints maps deck positions to required cards. Hole cards go
// out one per player per pass starting at the small blind; the board follows
// without burn cards.
func buildSlotConstraints(active []int, dealer int, bySeat map[int]normalizedSeat, board []*card.Card) (map[int]card.Card, error) {
	dealOrder, err := dealOrderFromSmallBlind(active, dealer)
	if err != nil {
		return nil, err
	}
	constraints := make(map[int]card.Card, len(active)*2+5)
	used := make(map[card.Card]struct{}, len(active)*2+5)

	position := make(map[int]int, len(dealOrder))
	for i, seat := range dealOrder {
		position[seat] = i
	}

	// 按座位号遍历，保证重复牌的报错稳定
	seats := make([]int, 0, len(bySeat))
	for seat := range bySeat {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	players := len(dealOrder)
	for _, seat := range seats {
		ns := bySeat[seat]
		if len(ns.hole) == 0 {
			continue
		}
		idx, ok := position[seat]
		if !ok {
			return nil, setupError("invalid_hole_cards", "seat %d is not dealt in but has hole cards", seat)
		}
		for pass := 0; pass < 2; pass++ {
			if err := assignConstraint(constraints, used, pass*players+idx, ns.hole[pass]); err != nil {
				return nil, err
			}
		}
	}

	boardBase := players * 2
	for i, c := range board {
		if c == nil {
			continue
		}
		if err := assignConstraint(constraints, used, boardBase+i, *c); err != nil {
			return nil, err
		}
	}
	return constraints, nil
}

func assignConstraint(constraints map[int]card.Card, used map[card.Card]struct{}, slot int, c card.Card) error {
	if existing, ok := constraints[slot]; ok && existing != c {
		return setupError("duplicate_constraints", "conflicting cards for slot %d", slot)
	}
	if _, ok := used[c]; ok {
		return setupError("duplicate_cards", "card %s appears multiple times", c.Short())
	}
	constraints[slot] = c
	used[c] = struct{}{}
	return nil
}

func activeSeats(seats []normalizedSeat) []int {
	active := make([]int, 0, len(seats))
	for _, s := range seats {
		if s.chips > 0 {
			active = append(active, s.seat)
		}
	}
	sort.Ints(active)
	return active
}

// dealOrderFromSmallBlind mirrors the engine: heads-up the dealer is the small blind.
func dealOrderFromSmallBlind(active []int, dealer int) ([]int, error) {
	if len(active) < 2 {
		return nil, setupError("not_enough_players", "at least 2 active seats are required")
	}
	dealerIdx := -1
	for i, s := range active {
		if s == dealer {
			dealerIdx = i
			break
		}
	}
	if dealerIdx < 0 {
		return nil, setupError("invalid_dealer", "dealer seat %d is not active", dealer)
	}

	sbIdx := dealerIdx
	if len(active) > 2 {
		sbIdx = (dealerIdx + 1) % len(active)
	}
	out := make([]int, len(active))
	for i := range active {
		out[i] = active[(sbIdx+i)%len(active)]
	}
	return out, nil
}

func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil {
		return 0
	}
	return rng.Seed
}
