package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// FormattingOptions controls how events are rendered for different contexts
type FormattingOptions struct {
	ShowHoleCard bool // render the dealer's hole card instead of masking it
}

// EventFormatter renders game events as table-talk text for the console and
// for hand logs.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders a single event. The empty string means the event has no
// console representation.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case PlayerSeatedEvent:
		return fmt.Sprintf("%s sits down with $%d", e.PlayerName, e.Bankroll)
	case DeckRebuiltEvent:
		return fmt.Sprintf("Deck has %d cards", e.Cards)
	case BetPlacedEvent:
		return fmt.Sprintf("%s bets $%d", e.PlayerName, e.Bet)
	case PlayerBrokeEvent:
		return fmt.Sprintf("Sorry %s. House wins again.", e.PlayerName)
	case CardDealtEvent:
		if e.Hidden && !ef.opts.ShowHoleCard {
			return fmt.Sprintf("%s gets a card face down", e.PlayerName)
		}
		return fmt.Sprintf("%s gets a %s", e.PlayerName, e.Card)
	case InsuranceOfferedEvent:
		return "Insurance available"
	case DealerBlackjackEvent:
		return fmt.Sprintf("Dealer has BLACKJACK: %s", FormatCards(e.Cards))
	case HandBlackjackEvent:
		return fmt.Sprintf("%s has BLACKJACK: %s", e.PlayerName, FormatCards(e.Cards))
	case HandSplitEvent:
		return fmt.Sprintf("%s splits %ss for another $%d", e.PlayerName, e.Rank, e.Bet)
	case HandDoubledEvent:
		return fmt.Sprintf("%s doubles down, bet is now $%d", e.PlayerName, e.Bet)
	case HandBustEvent:
		return fmt.Sprintf("%s busted with %d", e.PlayerName, e.Value)
	case DealerRevealEvent:
		return fmt.Sprintf("Dealer shows %s  Total: %d", FormatCards(e.Cards), e.Value)
	case DealerBustEvent:
		return fmt.Sprintf("Dealer busted with %d", e.Value)
	case HandWonEvent:
		if e.Blackjack {
			return fmt.Sprintf("%s wins $%d on the blackjack", e.PlayerName, e.Payout)
		}
		return fmt.Sprintf("%s wins $%d", e.PlayerName, e.Payout)
	case HandLostEvent:
		return fmt.Sprintf("Dealer rakes in $%d of %s's chips", e.Bet, e.PlayerName)
	default:
		return ""
	}
}

// FormatCards renders cards the way the table announces them, e.g. "A♠ K♥"
func FormatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
