package deck

import (
	"errors"

	rand "math/rand/v2"
)

// Size is the number of cards in a single full deck.
const Size = 52

// ErrEmptyDeck is returned when drawing from a deck with no cards left.
// Under single-deck play with at most four players this is never reached;
// if it is, the table treats it as a fatal invariant violation.
var ErrEmptyDeck = errors.New("deck: no cards remaining")

// Deck holds the undrawn portion of a single 52-card deck. A card removed by
// Draw is never returned again until Rebuild restores the full set.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck drawing randomness from rng.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Rebuild()
	return d
}

// Rebuild restores the deck to the full 52 cards, discarding whatever
// remained. Called at table creation and again at the start of every round;
// the rules call for a fresh deck each round, not card-counting persistence.
func (d *Deck) Rebuild() {
	d.cards = d.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Draw removes and returns a uniformly random remaining card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	i := d.rng.IntN(len(d.cards))
	card := d.cards[i]
	d.cards[i] = d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
