package holdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-arena/card"
)

type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Blinds
	SmallBlind int64
	BigBlind   int64
	// MinRaise is the smallest raise amount regardless of the current bet (0 => BigBlind).
	MinRaise int64

	// RNG seed (0 => time-based)
	Seed int64

	// DeckOverride fixes the deck order for every hand instead of shuffling (replays, tests).
	DeckOverride []card.Card
	// DealerSeat forces the button for the first hand.
	DealerSeat *int

	Logger logrus.FieldLogger
}

func (c Config) validate() error {
	if c.MaxPlayers < 2 || c.MaxPlayers > MaxSeats {
		return fmt.Errorf("MaxPlayers must be in [2, %d]", MaxSeats)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MinPlayers must be >= 2")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.MinRaise < 0 {
		return fmt.Errorf("MinRaise must be >= 0")
	}
	if c.DealerSeat != nil && (*c.DealerSeat < 0 || *c.DealerSeat >= c.MaxPlayers) {
		return fmt.Errorf("DealerSeat %d out of range", *c.DealerSeat)
	}
	if len(c.DeckOverride) > 0 {
		if err := card.ValidateDeck(c.DeckOverride); err != nil {
			return fmt.Errorf("invalid DeckOverride: %w", err)
		}
	}
	return nil
}

func (c Config) minRaise() int64 {
	if c.MinRaise > 0 {
		return c.MinRaise
	}
	return c.BigBlind
}

// MaxSeats bounds a table so one deck always covers hole and community cards.
const MaxSeats = 10
