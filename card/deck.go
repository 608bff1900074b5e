package card

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrEmptyDeck is returned when drawing from an exhausted deck.
var ErrEmptyDeck = errors.New("empty deck")

// Deck is consumed strictly from the front: Draw removes and returns the next card.
type Deck struct {
	cards CardList
}

// NewDeck returns an initialized, unshuffled 52-card deck.
func NewDeck() *Deck {
	d := &Deck{}
	d.Initialize()
	return d
}

// NewDeckFromCards builds a deck with a fixed order. The cards must be 52 unique valid cards.
func NewDeckFromCards(cards []Card) (*Deck, error) {
	if err := ValidateDeck(cards); err != nil {
		return nil, err
	}
	d := &Deck{cards: make(CardList, len(cards))}
	copy(d.cards, cards)
	return d, nil
}

// ValidateDeck checks that cards is a complete deck without duplicates.
func ValidateDeck(cards []Card) error {
	if len(cards) != len(FullDeck) {
		return fmt.Errorf("deck must contain %d cards, got %d", len(FullDeck), len(cards))
	}
	seen := make(map[Card]struct{}, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card at deck[%d]", i)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate card %s at deck[%d]", c.Short(), i)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Initialize resets the deck to the 52 cards in FullDeck order.
func (d *Deck) Initialize() {
	d.cards = make(CardList, len(FullDeck))
	copy(d.cards, FullDeck)
}

// Shuffle applies a uniform random permutation using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Remaining() int {
	return d.cards.Count()
}

func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return CardInvalid, ErrEmptyDeck
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// DrawN draws n cards or none at all.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("draw %d of %d: %w", n, len(d.cards), ErrEmptyDeck)
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out, nil
}

// Cards returns a copy of the undealt cards in draw order.
func (d *Deck) Cards() []Card {
	return d.cards.Clone()
}
