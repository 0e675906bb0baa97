// Package bot provides non-interactive agents for simulation and testing.
// Each strategy flat-bets and answers play queries instantly.
package bot

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// New returns the named strategy with the given flat bet
func New(strategy string, bet int) (game.Agent, error) {
	switch strategy {
	case "mimic":
		return &Mimic{Bet: bet}, nil
	case "basic":
		return &Basic{Bet: bet}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// flatBet bets the configured amount, shrinking to the bankroll when short
// and sitting out when broke.
func flatBet(bet, bankroll int) int {
	if bankroll < 1 {
		return 0
	}
	if bet > bankroll {
		return bankroll
	}
	return bet
}

// Mimic plays exactly like the dealer: hit below 17, never split or double.
// Useful as a baseline; it gives up a well-known edge to the house.
type Mimic struct {
	Bet int
}

// BetAmount implements game.Agent
func (m *Mimic) BetAmount(_ context.Context, view game.PlayerView) (int, error) {
	return flatBet(m.Bet, view.Bankroll), nil
}

// WantsSplit implements game.Agent
func (m *Mimic) WantsSplit(_ context.Context, _ game.HandView) (bool, error) {
	return false, nil
}

// NextAction implements game.Agent
func (m *Mimic) NextAction(_ context.Context, view game.HandView) (game.Action, error) {
	if view.Value < 17 {
		return game.ActionHit, nil
	}
	return game.ActionStand, nil
}

// Basic plays a simplified basic strategy: always split aces and eights,
// double 10 or 11 against a weak dealer upcard, stand on hard 12+ when the
// dealer shows a bust card, and otherwise hit to 17. Soft hands hit to 18.
type Basic struct {
	Bet int
}

// BetAmount implements game.Agent
func (b *Basic) BetAmount(_ context.Context, view game.PlayerView) (int, error) {
	return flatBet(b.Bet, view.Bankroll), nil
}

// WantsSplit implements game.Agent
func (b *Basic) WantsSplit(_ context.Context, view game.HandView) (bool, error) {
	rank := view.Cards[0].Rank
	return rank == deck.Ace || rank == deck.Eight, nil
}

// NextAction implements game.Agent
func (b *Basic) NextAction(_ context.Context, view game.HandView) (game.Action, error) {
	up := dealerUpcardPoints(view.DealerUpcard)

	if view.CanDouble && (view.Value == 10 || view.Value == 11) && up >= 2 && up <= 9 {
		return game.ActionDouble, nil
	}

	_, soft := deck.Value(view.Cards)
	if soft {
		if view.Value >= 18 {
			return game.ActionStand, nil
		}
		return game.ActionHit, nil
	}

	// Dealer 2-6 is likely to bust; stop drawing into a made dealer hand
	if view.Value >= 12 && up >= 2 && up <= 6 {
		return game.ActionStand, nil
	}
	if view.Value >= 17 {
		return game.ActionStand, nil
	}
	return game.ActionHit, nil
}

// dealerUpcardPoints maps the upcard to its high blackjack value (ace = 11)
func dealerUpcardPoints(c deck.Card) int {
	if c.IsAce() {
		return 11
	}
	return c.Points()
}
