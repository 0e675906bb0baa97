package game

import (
	"context"

	"github.com/lox/blackjack/internal/deck"
)

// Action represents a play decision for a single hand
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	default:
		return "unknown"
	}
}

// PlayerView is the read-only state of a player for betting decisions
type PlayerView struct {
	Name     string
	Bankroll int
}

// HandView is the read-only state of a hand for play decisions. Agents see
// only what a seated player would: their own cards and the dealer's upcard.
type HandView struct {
	PlayerName   string
	Bankroll     int
	Cards        []deck.Card
	Value        int
	Bet          int
	DealerUpcard deck.Card
	CanDouble    bool
}

// Agent answers the table's decision queries for one or more players. Agents
// receive immutable views and return decisions; they never mutate game state.
// The context carries the session-abort signal: an agent should return
// ErrSessionAborted (or the context error) when the user interrupts.
type Agent interface {
	// BetAmount returns the bet for the coming round. 0 means sit out.
	// Out-of-range values are re-requested by the table.
	BetAmount(ctx context.Context, view PlayerView) (int, error)

	// WantsSplit reports whether the player wants to split the pair in view.
	// Only called when splitting is legal.
	WantsSplit(ctx context.Context, view HandView) (bool, error)

	// NextAction returns the next play for the hand in view. ActionDouble is
	// only honored when view.CanDouble is set.
	NextAction(ctx context.Context, view HandView) (Action, error)
}
