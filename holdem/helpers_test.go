package holdem

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"holdem-arena/card"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTable seats p0..pN-1 with the given stacks. Zero-valued config fields get test defaults.
func newTable(t *testing.T, cfg Config, stacks ...int64) *Game {
	t.Helper()
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = len(stacks)
	}
	if cfg.MinPlayers == 0 {
		cfg.MinPlayers = 2
	}
	if cfg.SmallBlind == 0 && cfg.BigBlind == 0 {
		cfg.SmallBlind, cfg.BigBlind = 50, 100
	}
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	for i, chips := range stacks {
		if err := g.SitDown(i, fmt.Sprintf("p%d", i), chips); err != nil {
			t.Fatalf("SitDown seat%d err: %v", i, err)
		}
	}
	return g
}

func seatPtr(seat int) *int { return &seat }

func mustAct(t *testing.T, g *Game, seat int, action ActionType, amount int64) *GameResult {
	t.Helper()
	res, err := g.Act(seat, GamePlayerAction{Action: action, Amount: amount})
	if err != nil {
		t.Fatalf("seat %d %s %d: %v", seat, action, amount, err)
	}
	return res
}

func deckWithPrefix(prefix ...card.Card) []card.Card {
	out := make([]card.Card, 0, len(card.FullDeck))
	out = append(out, prefix...)
	seen := make(map[card.Card]struct{}, len(prefix))
	for _, c := range prefix {
		seen[c] = struct{}{}
	}
	for _, c := range card.FullDeck {
		if _, ok := seen[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func assertHoleCards(t *testing.T, got []card.Card, want []card.Card) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("unexpected hole card length: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected hole card at %d: got=%v want=%v", i, got[i], want[i])
		}
	}
}
