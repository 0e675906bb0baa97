package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// blackjackTarget is the hand value that wins outright on two cards.
const blackjackTarget = 21

// HandState tracks a hand through its play state machine
type HandState int

const (
	HandNotStarted HandState = iota
	HandInPlay
	HandStood
	HandBusted
	HandBlackjack
	HandDoubled
)

// String returns the string representation of a hand state
func (s HandState) String() string {
	switch s {
	case HandNotStarted:
		return "not started"
	case HandInPlay:
		return "in play"
	case HandStood:
		return "stood"
	case HandBusted:
		return "busted"
	case HandBlackjack:
		return "blackjack"
	case HandDoubled:
		return "doubled"
	default:
		return "unknown"
	}
}

// Terminal returns true once the hand can take no further actions
func (s HandState) Terminal() bool {
	return s == HandStood || s == HandBusted || s == HandBlackjack || s == HandDoubled
}

// Hand is an ordered sequence of cards with a committed bet. The bet is
// debited from the owning player's bankroll when the hand is created and only
// comes back through settlement. The cached value is recomputed from scratch
// after every card addition to avoid incremental drift.
type Hand struct {
	cards     []deck.Card
	bet       int
	value     int
	state     HandState
	hasActed  bool
	blackjack bool
}

func newHand(bet int) *Hand {
	return &Hand{
		cards: make([]deck.Card, 0, 4),
		bet:   bet,
	}
}

// Cards returns the cards in deal order
func (h *Hand) Cards() []deck.Card {
	return h.cards
}

// Value returns the best achievable total for the current cards
func (h *Hand) Value() int {
	return h.value
}

// Bet returns the amount committed to this hand
func (h *Hand) Bet() int {
	return h.bet
}

// State returns the hand's position in the play state machine
func (h *Hand) State() HandState {
	return h.state
}

// HasActed reports whether the play state machine has been entered
func (h *Hand) HasActed() bool {
	return h.hasActed
}

// IsBlackjack reports whether the hand was a two-card 21 when played
func (h *Hand) IsBlackjack() bool {
	return h.blackjack
}

// IsBust reports whether the hand's value exceeds 21
func (h *Hand) IsBust() bool {
	return h.value > blackjackTarget
}

// IsSoft reports whether the current value counts an ace as 11
func (h *Hand) IsSoft() bool {
	_, soft := deck.Value(h.cards)
	return soft
}

func (h *Hand) addCard(c deck.Card) {
	h.cards = append(h.cards, c)
	h.recompute()
}

// recompute refreshes the cached total. Values over 21 are left as-is; bust
// detection is the caller's job.
func (h *Hand) recompute() {
	h.value, _ = deck.Value(h.cards)
}

// canSplitPair reports whether the hand is a splittable pair: exactly the
// two initial cards, equal in rank. Bankroll and hand-count limits are
// checked by the table.
func (h *Hand) canSplitPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// splitOff moves the second card into a fresh hand carrying the same bet.
// Both hands are left one card short; the table deals the replacement cards.
func (h *Hand) splitOff() *Hand {
	nh := newHand(h.bet)
	nh.addCard(h.cards[1])
	h.cards = h.cards[:1]
	h.recompute()
	return nh
}
